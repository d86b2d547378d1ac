package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"jobportal/internal/models"
	"jobportal/internal/view"

	"github.com/gin-gonic/gin"
)

// Flash messages selected by query flags.
const (
	msgLoginError    = "Invalid username or password."
	msgRegistered    = "Registration successful! Please log in."
	msgUsernameTaken = "Username already exists."
	msgInvalidSignup = "Username must be 3-32 letters, digits, '.', '_' or '-' and the password must not be empty."
	msgJobNotFound   = "Job not found."
	msgUnauthorized  = "You are not authorized to view applications for this job."
	msgApplied       = "Application submitted successfully!"
	msgInvalidJob    = "A job needs a title."
)

func (h *Handler) render(c *gin.Context, status int, page string, p view.Page) {
	p.Principal = principalFrom(c)
	p.CSRFToken = csrfTokenFrom(c)
	c.HTML(status, page, p)
}

func (h *Handler) renderError(c *gin.Context, status int, title, msg string) {
	h.render(c, status, view.PageError, view.Page{Title: title, Data: msg})
}

// internalError logs err and answers with a generic 500 page.
func (h *Handler) internalError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	h.renderError(c, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
}

func (h *Handler) notFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "Page not found", "The page you requested does not exist.")
}

func hasFlag(c *gin.Context, name string) bool {
	_, ok := c.GetQuery(name)
	return ok
}

// parseJobID reads the :jobId path parameter; invalid ids read as not found.
func parseJobID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrNotFound
	}
	return id, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
