package handlers

import (
	"errors"
	"net/http"
	"path"
	"time"

	"jobportal/internal/access"
	"jobportal/internal/metrics"
	"jobportal/internal/models"
	"jobportal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// gin context keys
const (
	ctxSession = "session"
)

const loginUserPath = "/login-user"

// swagger UI needs inline script and style
const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// requestLogger writes one line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}

func secureHeaders(ssl bool) gin.HandlerFunc {
	opts := secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		SSLRedirect:           ssl,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}
	if ssl {
		opts.STSSeconds = 31536000
	}
	mw := secure.New(opts)
	return func(c *gin.Context) {
		if err := mw.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		// SSL redirect already written
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
		}
	}
}

// sessionMiddleware resolves the session cookie into a principal. A bad or
// revoked token is dropped and the request continues anonymously.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, err := c.Cookie(h.cookie)
	if err != nil || token == "" {
		c.Next()
		return
	}

	sess, err := h.services.Sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			h.internalError(c, "session_resolve_failed", err)
			c.Abort()
			return
		}
		h.clearSessionCookie(c)
		c.Next()
		return
	}

	c.Set(ctxSession, sess)
	c.Next()
}

// accessMiddleware applies the access policy to the request path.
func (h *Handler) accessMiddleware(c *gin.Context) {
	p := principalFrom(c)
	d := h.policy.Authorize(path.Clean(c.Request.URL.Path), p)

	switch d.Outcome {
	case access.Allow:
		c.Next()
	case access.MustAuthenticate:
		metrics.AccessDeniedTotal.WithLabelValues(d.Outcome.String()).Inc()
		redirect(c, loginUserPath)
		c.Abort()
	default:
		metrics.AccessDeniedTotal.WithLabelValues(d.Outcome.String()).Inc()
		if h.log != nil {
			h.log.Warnw("access_forbidden", "username", p.Username, "path", c.Request.URL.Path, "rule", d.Rule.Pattern)
		}
		h.renderError(c, http.StatusForbidden, "Not authorized", "You are not authorized to view this page.")
		c.Abort()
	}
}

func sessionFrom(c *gin.Context) *models.Session {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

// principalFrom returns the caller's principal, or nil for anonymous requests.
func principalFrom(c *gin.Context) *models.Principal {
	if sess := sessionFrom(c); sess != nil {
		return &sess.Principal
	}
	return nil
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		maxAge = int(h.services.Sessions.TTL().Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, token, maxAge, "/", "", h.secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, "", -1, "/", "", h.secure, true)
}

// redirect uses 302 for reads and 303 after form posts.
func redirect(c *gin.Context, location string) {
	code := http.StatusSeeOther
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		code = http.StatusFound
	}
	c.Redirect(code, location)
}
