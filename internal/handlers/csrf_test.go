package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestCSRFManager_Verify(t *testing.T) {
	m := newCSRFManager("k1")
	tok := m.token(testCSRFNonce)

	cases := []struct {
		name    string
		m       *csrfManager
		nonce   string
		token   string
		wantErr error
	}{
		{name: "valid", m: m, nonce: testCSRFNonce, token: tok},
		{name: "empty token", m: m, nonce: testCSRFNonce, token: "", wantErr: errCSRFTokenMissing},
		{name: "no nonce", m: m, nonce: "", token: tok, wantErr: errCSRFTokenMissing},
		{name: "other nonce", m: m, nonce: "2b0e6a4c-9f0d-4e59-8d55-0e1f8a3c7b21", token: tok, wantErr: errCSRFTokenMismatch},
		{name: "other key", m: newCSRFManager("k2"), nonce: testCSRFNonce, token: tok, wantErr: errCSRFTokenMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.m.verify(tc.nonce, tc.token); !errors.Is(err, tc.wantErr) {
				t.Fatalf("verify: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCSRF_PageIssuesCookieAndToken(t *testing.T) {
	s, _ := newMocks()
	r := newTestRouter(s)

	w := do(r, http.MethodGet, "/login-user", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	ck := cookieFrom(w, csrfCookieName)
	if ck == nil || ck.Value == "" || !ck.HttpOnly {
		t.Fatalf("expected an HttpOnly csrf cookie, got %+v", ck)
	}
	want := newCSRFManager(testCSRFSecret).token(ck.Value)
	if !strings.Contains(w.Body.String(), `name="csrf_token" value="`+want+`"`) {
		t.Fatalf("login form does not carry the token for the issued cookie")
	}

	// an existing cookie is kept
	w = do(r, http.MethodGet, "/register-user", nil, &http.Cookie{Name: csrfCookieName, Value: testCSRFNonce})
	if cookieFrom(w, csrfCookieName) != nil {
		t.Fatalf("valid csrf cookie must not be replaced")
	}
	if !strings.Contains(w.Body.String(), testCSRFToken()) {
		t.Fatalf("register form does not carry the token")
	}
}

func TestCSRF_RejectsPostsWithoutMatchingToken(t *testing.T) {
	otherNonce := "2b0e6a4c-9f0d-4e59-8d55-0e1f8a3c7b21"
	cases := []struct {
		name    string
		token   string
		cookie  *http.Cookie
		path    string
		session bool
	}{
		{name: "login without token", token: "", cookie: &http.Cookie{Name: csrfCookieName, Value: testCSRFNonce}, path: "/do-login"},
		{name: "login with token but no cookie", token: testCSRFToken(), path: "/do-login"},
		{name: "login with token of another browser", token: newCSRFManager(testCSRFSecret).token(otherNonce), cookie: &http.Cookie{Name: csrfCookieName, Value: testCSRFNonce}, path: "/do-login"},
		{name: "login with forged token", token: "forged", cookie: &http.Cookie{Name: csrfCookieName, Value: testCSRFNonce}, path: "/do-login"},
		{name: "register without token", token: "", cookie: &http.Cookie{Name: csrfCookieName, Value: testCSRFNonce}, path: "/register-admin"},
		{name: "logout without token", token: "", cookie: &http.Cookie{Name: csrfCookieName, Value: testCSRFNonce}, path: "/logout", session: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newMocks()
			m.auth.principal = alice
			r := newTestRouter(s)

			form := credentials("alice", "pw")
			form.Set(csrfFormField, tc.token)
			var cookies []*http.Cookie
			if tc.cookie != nil {
				cookies = append(cookies, tc.cookie)
			}
			if tc.session {
				cookies = append(cookies, sessionCookie(t, m, alice))
			}

			w := do(r, http.MethodPost, tc.path, form, cookies...)
			if w.Code != http.StatusForbidden {
				t.Fatalf("status=%d, want 403", w.Code)
			}
			if m.auth.lastUsername != "" {
				t.Fatalf("handler ran despite the csrf check")
			}
			if cookieFrom(w, defaultCookieName) != nil {
				t.Fatalf("rejected request must not touch the session cookie")
			}
			if len(m.sessions.revoked) != 0 {
				t.Fatalf("rejected logout revoked a session")
			}
		})
	}
}

func TestCSRF_AcceptsHeaderToken(t *testing.T) {
	s, m := newMocks()
	m.auth.principal = bob
	r := newTestRouter(s)

	req, _ := http.NewRequest(http.MethodPost, "/do-login", strings.NewReader(credentials("bob", "pw").Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeader, testCSRFToken())
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRFNonce})
	w := serve(r, req)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/user/dashboard" {
		t.Fatalf("status=%d Location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestCSRF_CrossSiteLoginIsRejected(t *testing.T) {
	s, m := newMocks()
	m.auth.principal = alice
	r := newTestRouter(s)

	// the attacker's page has its own token but cannot set the victim's cookie
	attacker := url.Values{"username": {"mallory"}, "password": {"pw"}, csrfFormField: {testCSRFToken()}}
	req, _ := http.NewRequest(http.MethodPost, "/do-login", strings.NewReader(attacker.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "2b0e6a4c-9f0d-4e59-8d55-0e1f8a3c7b21"})
	w := serve(r, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403", w.Code)
	}
	if len(m.sessions.byToken) != 0 {
		t.Fatalf("cross-site login issued a session")
	}
}
