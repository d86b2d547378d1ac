package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"

	"jobportal/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	csrfCookieName = "jobportal_csrf"
	// csrfFormField is the hidden input every POST form carries.
	csrfFormField = "csrf_token"
	csrfHeader    = "X-CSRF-Token"
	ctxCSRFToken  = "csrf_token"
)

var (
	errCSRFTokenMissing  = errors.New("csrf token missing")
	errCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// csrfManager signs a random per-browser nonce. The nonce lives in an
// HttpOnly cookie and forms echo its signature; no session is required, so
// login and register forms are covered as well.
type csrfManager struct {
	secret []byte
}

// newCSRFManager returns a manager keyed by secret; an empty secret gets a
// random per-process key.
func newCSRFManager(secret string) *csrfManager {
	if secret == "" {
		secret = uuid.NewString()
	}
	return &csrfManager{secret: []byte(secret)}
}

func (m *csrfManager) token(nonce string) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte("csrf|"))
	_, _ = mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *csrfManager) verify(nonce, token string) error {
	if nonce == "" || token == "" {
		return errCSRFTokenMissing
	}
	if !hmac.Equal([]byte(m.token(nonce)), []byte(token)) {
		return errCSRFTokenMismatch
	}
	return nil
}

// csrfMiddleware makes sure the browser has a nonce cookie, exposes the form
// token to templates and rejects unsafe requests without a matching token.
func (h *Handler) csrfMiddleware(c *gin.Context) {
	nonce, err := c.Cookie(csrfCookieName)
	if err != nil || uuid.Validate(nonce) != nil {
		fresh := uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(csrfCookieName, fresh, 0, "/", "", h.secure, true)
		c.Set(ctxCSRFToken, h.csrf.token(fresh))
		// a request that arrived without the cookie cannot prove anything
		nonce = ""
	} else {
		c.Set(ctxCSRFToken, h.csrf.token(nonce))
	}

	if isSafeMethod(c.Request.Method) {
		c.Next()
		return
	}

	sent := c.PostForm(csrfFormField)
	if sent == "" {
		sent = c.GetHeader(csrfHeader)
	}
	if err := h.csrf.verify(nonce, sent); err != nil {
		metrics.AccessDeniedTotal.WithLabelValues(metrics.DeniedCSRF).Inc()
		if h.log != nil {
			h.log.Warnw("csrf_rejected", "err", err, "method", c.Request.Method, "path", c.Request.URL.Path, "origin", c.GetHeader("Origin"))
		}
		h.renderError(c, http.StatusForbidden, "Request rejected", "This form has expired. Go back, reload the page and try again.")
		c.Abort()
		return
	}
	c.Next()
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func csrfTokenFrom(c *gin.Context) string {
	return c.GetString(ctxCSRFToken)
}
