package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "jobportal/docs"
	"jobportal/internal/config"
	"jobportal/internal/handlers"
	"jobportal/internal/logger"
	"jobportal/internal/metrics"
	"jobportal/internal/models"
	"jobportal/internal/repository"
	"jobportal/internal/repository/db"
	"jobportal/internal/repository/redisstore"
	"jobportal/internal/server"
	"jobportal/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// @title        Job Portal API
// @version      1.0
// @description  JSON endpoints of the job portal. HTML pages are not listed.
// @BasePath     /
// @securityDefinitions.apikey  SessionCookie
// @in                          header
// @name                        jobportal_session
func main() {
	var configDir string
	serveCommand := serveCmd(&configDir)
	app := &cli.App{
		Name:  "jobportal",
		Usage: "Job board with role-based login",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Directory holding config.yml",
				Value:       "configs",
				Destination: &configDir,
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			createUserCmd(&configDir),
		},
		// no subcommand runs the server
		Action: serveCommand.Action,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Errorw("application failed", "err", err)
		os.Exit(1)
	}
}

func serveCmd(configDir *string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server",
		Action: func(cctx *cli.Context) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			return serve(cctx.Context, cfg, logger.Get(cfg.Log.Level, cfg.Log.Format))
		},
	}
}

func createUserCmd(configDir *string) *cli.Command {
	var username, password string
	var admin bool
	return &cli.Command{
		Name:  "create-user",
		Usage: "Register an account without going through the web form",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Destination: &username,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "password",
				Aliases:     []string{"p"},
				Usage:       "Password; falls back to $JOBPORTAL_PASSWORD",
				EnvVars:     []string{"JOBPORTAL_PASSWORD"},
				Destination: &password,
				Required:    true,
			},
			&cli.BoolFlag{
				Name:        "admin",
				Usage:       "Create an ADMIN instead of a USER",
				Destination: &admin,
			},
		},
		Action: func(cctx *cli.Context) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			log := logger.Get(cfg.Log.Level, cfg.Log.Format)

			conn, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			role := models.RoleUser
			if admin {
				role = models.RoleAdmin
			}
			auth := service.NewAuthService(repository.NewUserRepository(conn))
			u, err := auth.Register(cctx.Context, username, password, role)
			if err != nil {
				return fmt.Errorf("create user %q: %w", username, err)
			}
			log.Infow("user_created", "id", u.ID, "username", u.Username, "role", u.Role)
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	conn, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := openRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		repos.Sessions = redisstore.NewSessions(client)
	}
	services := service.NewService(repos, service.Options{
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
		Log:           log,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		CookieName:   cfg.Session.Cookie,
		SecureCookie: cfg.IsProduction(),
		CSRFSecret:   cfg.Session.Secret,
	})

	// context for background goroutines
	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if services.Sweeper != nil {
		go services.Sweeper.Run(bgCtx, cfg.Session.SweepInterval)
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler.InitRoutes(), log)
	log.Infow("server started", "port", cfg.Port, "env", cfg.Env, "session_store", cfg.Session.Store)

	var metricsSrv *server.Server
	if cfg.Metrics.Port != "" {
		metricsSrv = &server.Server{}
		runHTTPServer(metricsSrv, cfg.Metrics.Port, metrics.Handler(), log)
	}

	waitForShutdown(ctx, cancel, log, srv, metricsSrv)
	return nil
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	log.Debugw("sqlite ready", "path", cfg.DB.Path)
	return conn, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Redis.Addr, err)
	}
	return client, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler http.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "port", port, "err", err)
		}
	}()
}

// waitForShutdown blocks until ctx is cancelled by a signal, then stops the servers.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, log *logger.Logger, servers ...*server.Server) {
	<-ctx.Done()
	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("server forced to shutdown", "err", err)
		}
	}
}
