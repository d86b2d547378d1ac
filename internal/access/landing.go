package access

import "jobportal/internal/models"

const (
	AdminDashboardPath = "/admin/dashboard"
	UserDashboardPath  = "/user/dashboard"
)

// LandingPage is where a freshly authenticated principal is sent.
func LandingPage(role models.Role) string {
	if role == models.RoleAdmin {
		return AdminDashboardPath
	}
	return UserDashboardPath
}
