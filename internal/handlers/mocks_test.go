package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	principal   models.Principal
	authErr     error
	registerErr error

	lastUsername string
	lastPassword string
	lastRole     models.Role
}

func (m *mockAuth) Authenticate(_ context.Context, username, password string) (models.Principal, error) {
	m.lastUsername = username
	m.lastPassword = password
	return m.principal, m.authErr
}

func (m *mockAuth) Register(_ context.Context, username, password string, role models.Role) (*models.User, error) {
	m.lastUsername = username
	m.lastPassword = password
	m.lastRole = role
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &models.User{ID: 1, Username: username, Role: role}, nil
}

// mockSessions keeps sessions keyed by token. Websocket tests resolve from
// the server goroutine, hence the lock.
type mockSessions struct {
	mu         sync.Mutex
	byToken    map[string]*models.Session
	issueErr   error
	resolveErr error
	revoked    []string
	n          int
}

func newMockSessions() *mockSessions {
	return &mockSessions{byToken: map[string]*models.Session{}}
}

func (m *mockSessions) Issue(_ context.Context, p models.Principal) (string, *models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.issueErr != nil {
		return "", nil, m.issueErr
	}
	m.n++
	sess := &models.Session{ID: fmt.Sprintf("sid-%d", m.n), Principal: p, ExpiresAt: time.Now().Add(time.Hour)}
	token := "tok-" + sess.ID
	m.byToken[token] = sess
	return token, sess, nil
}

func (m *mockSessions) Resolve(_ context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	sess, ok := m.byToken[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return sess, nil
}

func (m *mockSessions) Revoke(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked = append(m.revoked, id)
	for tok, s := range m.byToken {
		if s.ID == id {
			delete(m.byToken, tok)
		}
	}
	return nil
}

func (m *mockSessions) TTL() time.Duration { return time.Hour }

type mockJobs struct {
	jobs      []models.Job
	summaries []models.JobSummary
	err       error
	postErr   error

	posted     []models.Job
	lastPoster models.Principal
}

func (m *mockJobs) Post(_ context.Context, poster models.Principal, j models.Job) (int64, error) {
	if m.postErr != nil {
		return 0, m.postErr
	}
	m.lastPoster = poster
	m.posted = append(m.posted, j)
	return int64(len(m.posted)), nil
}

func (m *mockJobs) PostedBy(_ context.Context, poster models.Principal) ([]models.JobSummary, error) {
	m.lastPoster = poster
	return m.summaries, m.err
}

func (m *mockJobs) All(context.Context) ([]models.Job, error) {
	return m.jobs, m.err
}

func (m *mockJobs) Get(_ context.Context, id int64) (*models.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, j := range m.jobs {
		if j.ID == id {
			j := j
			return &j, nil
		}
	}
	return nil, models.ErrNotFound
}

type mockApplications struct {
	job       *models.Job
	apps      []models.Application
	forJobErr error
	applyErr  error

	lastJobID      int64
	lastLetter     string
	lastApplicant  models.Principal
	applyCallCount int
}

func (m *mockApplications) Apply(_ context.Context, applicant models.Principal, jobID int64, coverLetter string) (int64, error) {
	m.applyCallCount++
	m.lastApplicant = applicant
	m.lastJobID = jobID
	m.lastLetter = coverLetter
	return 7, m.applyErr
}

func (m *mockApplications) ForJob(_ context.Context, _ models.Principal, jobID int64) (*models.Job, []models.Application, error) {
	m.lastJobID = jobID
	return m.job, m.apps, m.forJobErr
}

type mockActivity struct {
	resp       []models.ActivityEvent
	err        error
	lastViewer models.Principal
	lastFilter service.LogFilter
	recorded   []models.ActivityEvent
}

func (m *mockActivity) Record(_ context.Context, e models.ActivityEvent) error {
	m.recorded = append(m.recorded, e)
	return nil
}

func (m *mockActivity) List(_ context.Context, viewer models.Principal, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.lastViewer = viewer
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

type mocks struct {
	auth     *mockAuth
	sessions *mockSessions
	jobs     *mockJobs
	apps     *mockApplications
	activity *mockActivity
}

func newMocks() (*service.Service, *mocks) {
	m := &mocks{
		auth:     &mockAuth{},
		sessions: newMockSessions(),
		jobs:     &mockJobs{},
		apps:     &mockApplications{},
		activity: &mockActivity{},
	}
	s := &service.Service{
		Authorization: m.auth,
		Sessions:      m.sessions,
		Jobs:          m.jobs,
		Applications:  m.apps,
		ActivityLog:   m.activity,
	}
	return s, m
}

const (
	testCSRFSecret = "test-csrf-secret"
	testCSRFNonce  = "6f1c0b8e-3a57-4c1e-9d2a-5f7e2b9c4d11"
)

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil, Options{CSRFSecret: testCSRFSecret}).InitRoutes()
}

// testCSRFToken is the form token matching testCSRFNonce.
func testCSRFToken() string {
	return newCSRFManager(testCSRFSecret).token(testCSRFNonce)
}

var (
	alice = models.Principal{UserID: 1, Username: "alice", Role: models.RoleAdmin}
	bob   = models.Principal{UserID: 2, Username: "bob", Role: models.RoleUser}
)

// sessionCookie logs p in through the mock session store.
func sessionCookie(t *testing.T, m *mocks, p models.Principal) *http.Cookie {
	t.Helper()
	token, _, err := m.sessions.Issue(context.Background(), p)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: defaultCookieName, Value: token}
}

// do sends a request; a non-nil form is encoded as the POST body. Forms
// without a csrf_token field get a valid token and its cookie.
func do(r http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		if !form.Has(csrfFormField) {
			signed := url.Values{csrfFormField: {testCSRFToken()}}
			for k, v := range form {
				signed[k] = v
			}
			form = signed
			cookies = append(cookies, &http.Cookie{Name: csrfCookieName, Value: testCSRFNonce})
		}
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieFrom(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
