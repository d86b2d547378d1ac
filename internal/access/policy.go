// Package access decides which principals may reach which paths.
//
// Rules are plain data evaluated in order; the first rule whose pattern
// matches the request path decides. There is no role hierarchy: an admin
// is not a user.
package access

import (
	"strings"

	"jobportal/internal/models"
)

// Requirement is what a rule demands from the caller.
type Requirement int

const (
	// Public paths need no session.
	Public Requirement = iota
	// Authenticated paths need any principal.
	Authenticated
	// AdminOnly paths need a principal with RoleAdmin.
	AdminOnly
	// UserOnly paths need a principal with RoleUser.
	UserOnly
)

func (r Requirement) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	case UserOnly:
		return "user"
	default:
		return "unknown"
	}
}

// Outcome is the result of an authorization check.
type Outcome int

const (
	Allow Outcome = iota
	MustAuthenticate
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case MustAuthenticate:
		return "must_authenticate"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Rule pairs a path pattern with a requirement. A pattern ending in "/*"
// matches the prefix itself and everything below it; any other pattern
// matches the path exactly.
type Rule struct {
	Pattern     string
	Requirement Requirement
}

func (r Rule) Matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// Decision explains an authorization result.
type Decision struct {
	Outcome Outcome
	Rule    Rule
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Policy is an ordered rule table with a fallback for unmatched paths.
type Policy struct {
	rules    []Rule
	fallback Requirement
}

// NewPolicy builds a policy; paths matching no rule get fallback.
func NewPolicy(fallback Requirement, rules ...Rule) *Policy {
	return &Policy{rules: append([]Rule(nil), rules...), fallback: fallback}
}

// DefaultRules is the portal's route table.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/", Requirement: Public},
		{Pattern: "/register-user", Requirement: Public},
		{Pattern: "/register-admin", Requirement: Public},
		{Pattern: "/css/*", Requirement: Public},
		{Pattern: "/js/*", Requirement: Public},
		{Pattern: "/login-admin", Requirement: Public},
		{Pattern: "/login-user", Requirement: Public},
		{Pattern: "/do-login", Requirement: Public},
		{Pattern: "/health", Requirement: Public},
		{Pattern: "/swagger/*", Requirement: Public},
		{Pattern: "/admin/*", Requirement: AdminOnly},
		{Pattern: "/user/*", Requirement: UserOnly},
	}
}

// DefaultPolicy requires a session for everything not listed in DefaultRules.
func DefaultPolicy() *Policy {
	return NewPolicy(Authenticated, DefaultRules()...)
}

// Rules returns a copy of the rule table.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Authorize checks path against the table. p may be nil for anonymous requests.
func (p *Policy) Authorize(path string, principal *models.Principal) Decision {
	rule := Rule{Pattern: "*", Requirement: p.fallback}
	for _, r := range p.rules {
		if r.Matches(path) {
			rule = r
			break
		}
	}
	return Decision{Outcome: evaluate(rule.Requirement, principal), Rule: rule}
}

func evaluate(req Requirement, principal *models.Principal) Outcome {
	if req == Public {
		return Allow
	}
	if principal == nil {
		return MustAuthenticate
	}
	switch req {
	case AdminOnly:
		if principal.Role != models.RoleAdmin {
			return Forbidden
		}
	case UserOnly:
		if principal.Role != models.RoleUser {
			return Forbidden
		}
	}
	return Allow
}
