package handlers

import (
	"io/fs"
	"net/http"

	"jobportal/internal/access"
	"jobportal/internal/logger"
	"jobportal/internal/metrics"
	"jobportal/internal/service"
	"jobportal/internal/view"
	"jobportal/web"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultCookieName = "jobportal_session"

// Options tunes the HTTP layer. The zero value is usable.
type Options struct {
	CookieName string
	// SecureCookie marks the session cookie HTTPS-only and enables SSL redirects.
	SecureCookie bool
	Policy       *access.Policy
	// CSRFSecret keys form tokens; empty means a random key per process.
	CSRFSecret string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	policy   *access.Policy
	cookie   string
	secure   bool
	csrf     *csrfManager
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	h := &Handler{
		services: services,
		log:      log,
		policy:   opts.Policy,
		cookie:   opts.CookieName,
		secure:   opts.SecureCookie,
		csrf:     newCSRFManager(opts.CSRFSecret),
	}
	if h.policy == nil {
		h.policy = access.DefaultPolicy()
	}
	if h.cookie == "" {
		h.cookie = defaultCookieName
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
// Every request, matched or not, passes the session, access and CSRF middleware.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		h.requestLogger,
		metrics.Middleware(),
		secureHeaders(h.secure),
		h.sessionMiddleware,
		h.accessMiddleware,
		h.csrfMiddleware,
	)
	router.SetHTMLTemplate(view.MustParse())
	registerValidators()

	h.registerStatic(router)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAdminRoutes(router)
	h.registerUserRoutes(router)
	h.registerAPIRoutes(router)

	router.NoRoute(h.notFound)
	return router
}

func (h *Handler) registerStatic(r *gin.Engine) {
	for _, dir := range []string{"css", "js"} {
		sub, err := fs.Sub(web.Static, "static/"+dir)
		if err != nil {
			panic(err)
		}
		r.StaticFS("/"+dir, http.FS(sub))
	}
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/login-admin", h.loginAdminPage)
	r.GET("/login-user", h.loginUserPage)
	r.POST("/do-login", h.doLogin)
	r.POST("/logout", h.logout)

	r.GET("/register-user", h.registerUserPage)
	r.POST("/register-user", h.registerUser)
	r.GET("/register-admin", h.registerAdminPage)
	r.POST("/register-admin", h.registerAdmin)
}

func (h *Handler) registerAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		admin.GET("/dashboard", h.adminDashboard)
		admin.GET("/add-job", h.addJobPage)
		admin.POST("/add-job", h.addJob)
		admin.GET("/view-applications/:jobId", h.viewApplications)
		admin.GET("/activity", h.getActivity)
		admin.GET("/feed", h.wsFeed)
	}
}

func (h *Handler) registerUserRoutes(r *gin.Engine) {
	user := r.Group("/user")
	{
		user.GET("/dashboard", h.userDashboard)
		user.GET("/view-jobs", h.viewJobs)
		user.GET("/apply/:jobId", h.applyPage)
		user.POST("/apply/:jobId", h.apply)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/jobs", h.listJobs)
	}
}
