package access

import (
	"testing"

	"jobportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = &models.Principal{UserID: 1, Username: "bob", Role: models.RoleAdmin}
	user  = &models.Principal{UserID: 2, Username: "alice", Role: models.RoleUser}
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		path      string
		principal *models.Principal
		want      Outcome
	}{
		{"/", nil, Allow},
		{"/login-user", nil, Allow},
		{"/login-admin", nil, Allow},
		{"/do-login", nil, Allow},
		{"/register-user", nil, Allow},
		{"/register-admin", nil, Allow},
		{"/css/app.css", nil, Allow},
		{"/js/app.js", nil, Allow},
		{"/health", nil, Allow},
		{"/swagger/index.html", nil, Allow},

		{"/admin/dashboard", nil, MustAuthenticate},
		{"/admin/dashboard", user, Forbidden},
		{"/admin/dashboard", admin, Allow},
		{"/admin/view-applications/3", admin, Allow},
		{"/admin", admin, Allow},

		{"/user/dashboard", nil, MustAuthenticate},
		{"/user/dashboard", admin, Forbidden},
		{"/user/dashboard", user, Allow},
		{"/user/apply/7", user, Allow},

		{"/logout", nil, MustAuthenticate},
		{"/logout", user, Allow},
		{"/logout", admin, Allow},
		{"/api/v1/jobs", nil, MustAuthenticate},
		{"/api/v1/jobs", admin, Allow},

		// prefixes must end at a segment boundary
		{"/administrator", user, Allow},
		{"/administrator", nil, MustAuthenticate},
		{"/users", admin, Allow},
		{"/login-user/extra", nil, MustAuthenticate},
	}

	for _, tc := range cases {
		name := tc.path + "/anonymous"
		if tc.principal != nil {
			name = tc.path + "/" + string(tc.principal.Role)
		}
		t.Run(name, func(t *testing.T) {
			got := p.Authorize(tc.path, tc.principal)
			assert.Equal(t, tc.want, got.Outcome, "rule %q", got.Rule.Pattern)
			assert.Equal(t, tc.want == Allow, got.Allowed())
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	p := NewPolicy(Authenticated,
		Rule{Pattern: "/admin/public", Requirement: Public},
		Rule{Pattern: "/admin/*", Requirement: AdminOnly},
	)

	d := p.Authorize("/admin/public", nil)
	require.Equal(t, Allow, d.Outcome)
	require.Equal(t, "/admin/public", d.Rule.Pattern)

	d = p.Authorize("/admin/other", nil)
	require.Equal(t, MustAuthenticate, d.Outcome)
	require.Equal(t, "/admin/*", d.Rule.Pattern)
}

func TestPolicy_FallbackRule(t *testing.T) {
	p := NewPolicy(Public)
	d := p.Authorize("/anything", nil)
	require.Equal(t, Allow, d.Outcome)
	require.Equal(t, "*", d.Rule.Pattern)
	require.Equal(t, Public, d.Rule.Requirement)
}

func TestPolicy_RulesIsACopy(t *testing.T) {
	p := DefaultPolicy()
	rules := p.Rules()
	rules[0].Requirement = AdminOnly
	require.Equal(t, Allow, p.Authorize("/", nil).Outcome)
}

func TestLandingPage(t *testing.T) {
	assert.Equal(t, "/admin/dashboard", LandingPage(models.RoleAdmin))
	assert.Equal(t, "/user/dashboard", LandingPage(models.RoleUser))
	assert.Equal(t, "/user/dashboard", LandingPage(models.Role("")))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "admin", AdminOnly.String())
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "must_authenticate", MustAuthenticate.String())
}
