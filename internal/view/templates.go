package view

import (
	"html/template"
	"time"

	"jobportal/internal/models"
	"jobportal/web"
)

// Page names, one per file in web/templates/pages.
const (
	PageIndex            = "index"
	PageLogin            = "login"
	PageRegister         = "register"
	PageAdminDashboard   = "admin-dashboard"
	PageAddJob           = "add-job"
	PageViewApplications = "view-applications"
	PageUserDashboard    = "user-dashboard"
	PageViewJobs         = "view-jobs"
	PageApplyJob         = "apply-job"
	PageError            = "error"
)

// Page contains values shared across templates.
type Page struct {
	Title     string
	Principal *models.Principal
	Error     string
	Notice    string
	// CSRFToken goes into every POST form as the csrf_token field.
	CSRFToken string
	Data      any
}

// Parse parses the embedded templates.
func Parse() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
	}
	return template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/pages/*.html")
}

// MustParse is Parse for program start-up; the templates are compiled in.
func MustParse() *template.Template {
	return template.Must(Parse())
}
