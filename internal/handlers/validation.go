package handlers

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)
	validatorsOnce  sync.Once
)

// registerValidators adds the custom `username` rule to gin's validator.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

// maxLoginUsername bounds what a failed login can write to the activity log.
const maxLoginUsername = 64

type loginForm struct {
	Username string `form:"username" binding:"required,max=64"`
	Password string `form:"password" binding:"required,max=72"`
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type registerForm struct {
	Username string `form:"username" binding:"required,username"`
	// bcrypt ignores anything past 72 bytes
	Password string `form:"password" binding:"required,max=72"`
}

type jobForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"max=10000"`
	Location    string `form:"location" binding:"max=200"`
}

type applyForm struct {
	CoverLetter string `form:"coverLetter" binding:"max=10000"`
}
