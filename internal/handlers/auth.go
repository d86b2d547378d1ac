package handlers

import (
	"context"
	"errors"
	"net/http"

	"jobportal/internal/access"
	"jobportal/internal/metrics"
	"jobportal/internal/models"
	"jobportal/internal/service"
	"jobportal/internal/view"

	"github.com/gin-gonic/gin"
)

const (
	registerUserPath  = "/register-user"
	registerAdminPath = "/register-admin"
	loginAdminPath    = "/login-admin"
)

func (h *Handler) index(c *gin.Context) {
	h.render(c, http.StatusOK, view.PageIndex, view.Page{Title: "Welcome"})
}

func (h *Handler) loginAdminPage(c *gin.Context) {
	h.loginPage(c, "Admin login", registerAdminPath)
}

func (h *Handler) loginUserPage(c *gin.Context) {
	h.loginPage(c, "User login", registerUserPath)
}

func (h *Handler) loginPage(c *gin.Context, title, registerPath string) {
	p := view.Page{Title: title, Data: registerPath}
	if hasFlag(c, "error") {
		p.Error = msgLoginError
	}
	if hasFlag(c, "registered") {
		p.Notice = msgRegistered
	}
	h.render(c, http.StatusOK, view.PageLogin, p)
}

// doLogin is the single credential submission endpoint for both roles. The
// landing page depends only on the role stored with the account.
func (h *Handler) doLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var input loginForm
	if err := c.ShouldBind(&input); err != nil {
		h.loginFailed(c, input.Username, err)
		return
	}

	p, err := h.services.Authorization.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.loginFailed(c, input.Username, err)
			return
		}
		metrics.LoginsTotal.WithLabelValues(metrics.LoginError).Inc()
		h.internalError(c, "login_lookup_failed", err, "username", input.Username)
		return
	}

	// a new login never reuses the previous session
	if old := sessionFrom(c); old != nil {
		if err := h.services.Sessions.Revoke(ctx, old.ID); err != nil && h.log != nil {
			h.log.Warnw("session_revoke_failed", "err", err, "session_id", old.ID)
		}
	}

	token, sess, err := h.services.Sessions.Issue(ctx, p)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.LoginError).Inc()
		h.internalError(c, "session_issue_failed", err, "username", p.Username)
		return
	}
	h.setSessionCookie(c, token, sess.ExpiresAt)

	metrics.LoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	h.recordActivity(ctx, models.ActivityEvent{
		Type:        service.EventLogin,
		Username:    p.Username,
		Description: "logged in",
		Metadata:    gin.H{"role": p.Role},
	})
	if h.log != nil {
		h.log.Infow("login_succeeded", "username", p.Username, "role", p.Role)
	}
	c.Redirect(http.StatusSeeOther, access.LandingPage(p.Role))
}

func (h *Handler) loginFailed(c *gin.Context, username string, err error) {
	username = clip(username, maxLoginUsername)
	metrics.LoginsTotal.WithLabelValues(metrics.LoginFailure).Inc()
	if h.log != nil {
		h.log.Infow("login_failed", "username", username, "err", err)
	}
	h.recordActivity(c.Request.Context(), models.ActivityEvent{
		Type:        service.EventLoginFailed,
		Username:    username,
		Description: "invalid credentials",
	})
	c.Redirect(http.StatusSeeOther, loginUserPath+"?error")
}

func (h *Handler) logout(c *gin.Context) {
	ctx := c.Request.Context()
	if sess := sessionFrom(c); sess != nil {
		if err := h.services.Sessions.Revoke(ctx, sess.ID); err != nil {
			h.internalError(c, "logout_revoke_failed", err, "session_id", sess.ID)
			return
		}
		h.recordActivity(ctx, models.ActivityEvent{
			Type:        service.EventLogout,
			Username:    sess.Principal.Username,
			Description: "logged out",
		})
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) registerUserPage(c *gin.Context) {
	h.registerPage(c, "Register as a user", registerUserPath)
}

func (h *Handler) registerAdminPage(c *gin.Context) {
	h.registerPage(c, "Register as an admin", registerAdminPath)
}

func (h *Handler) registerPage(c *gin.Context, title, action string) {
	p := view.Page{Title: title, Data: action}
	switch c.Query("error") {
	case "exists":
		p.Error = msgUsernameTaken
	case "invalid":
		p.Error = msgInvalidSignup
	}
	h.render(c, http.StatusOK, view.PageRegister, p)
}

func (h *Handler) registerUser(c *gin.Context) {
	h.register(c, models.RoleUser, registerUserPath, loginUserPath)
}

func (h *Handler) registerAdmin(c *gin.Context) {
	h.register(c, models.RoleAdmin, registerAdminPath, loginAdminPath)
}

// register creates an account whose role is fixed by the entry point.
func (h *Handler) register(c *gin.Context, role models.Role, formPath, loginPath string) {
	ctx := c.Request.Context()

	var input registerForm
	if err := c.ShouldBind(&input); err != nil {
		if h.log != nil {
			h.log.Infow("register_bad_request_body", "err", err)
		}
		metrics.RegistrationsTotal.WithLabelValues(string(role), "invalid").Inc()
		c.Redirect(http.StatusSeeOther, formPath+"?error=invalid")
		return
	}

	u, err := h.services.Authorization.Register(ctx, input.Username, input.Password, role)
	switch {
	case errors.Is(err, service.ErrUsernameExists):
		if h.log != nil {
			h.log.Infow("register_conflict", "username", input.Username, "role", role)
		}
		metrics.RegistrationsTotal.WithLabelValues(string(role), "exists").Inc()
		c.Redirect(http.StatusSeeOther, formPath+"?error=exists")
		return
	case errors.Is(err, models.ErrInvalidInput):
		metrics.RegistrationsTotal.WithLabelValues(string(role), "invalid").Inc()
		c.Redirect(http.StatusSeeOther, formPath+"?error=invalid")
		return
	case err != nil:
		metrics.RegistrationsTotal.WithLabelValues(string(role), "error").Inc()
		h.internalError(c, "register_failed", err, "username", input.Username)
		return
	}

	metrics.RegistrationsTotal.WithLabelValues(string(role), "created").Inc()
	h.recordActivity(ctx, models.ActivityEvent{
		Type:        service.EventRegistered,
		Username:    u.Username,
		Description: "account created",
		Metadata:    gin.H{"role": u.Role, "user_id": u.ID},
	})
	c.Redirect(http.StatusSeeOther, loginPath+"?registered")
}

// recordActivity appends to the activity log; failures are only logged.
func (h *Handler) recordActivity(ctx context.Context, e models.ActivityEvent) {
	if h.services.ActivityLog == nil {
		return
	}
	if err := h.services.ActivityLog.Record(ctx, e); err != nil && h.log != nil {
		h.log.Warnw("activity_record_failed", "err", err, "type", e.Type)
	}
}
