package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appBackend "github.com/yigit/consultdesk/internal/app/backend"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/config"
	"github.com/yigit/consultdesk/internal/middleware"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/logger"
)

// memBackend wraps the in-memory driver with failure switches
type memBackend struct {
	*appBackend.Memory
	mu           sync.Mutex
	down         bool
	rejectInsert bool
}

func newMemBackend() *memBackend {
	return &memBackend{Memory: appBackend.NewMemory()}
}

func (m *memBackend) set(down, rejectInsert bool) {
	m.mu.Lock()
	m.down, m.rejectInsert = down, rejectInsert
	m.mu.Unlock()
}

func (m *memBackend) CreateStudent(ctx context.Context, caller *models.Caller, s models.Student) error {
	m.mu.Lock()
	down, reject := m.down, m.rejectInsert
	m.mu.Unlock()
	if down {
		return apperrors.Unavailable(nil)
	}
	if reject {
		return apperrors.NewCustomError(apperrors.ErrStorage, "new row violates row-level security policy")
	}
	return m.Memory.CreateStudent(ctx, caller, s)
}

func (m *memBackend) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return apperrors.ErrServiceUnavailable
	}
	return m.Memory.Ping(ctx)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.CORSOrigins = "http://localhost:3000"
	cfg.RateLimit.RequestsPerSecond = 100
	cfg.RateLimit.Burst = 100
	return cfg
}

func newTestRouter(t *testing.T, b *memBackend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	deps := BuildDependencies(cfg, b, logger.Nop())
	return SetupRouter(cfg, deps, logger.Nop())
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type actionBody[T any] struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Data        *T                `json:"data"`
	Redirect    string            `json:"redirect"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) actionBody[T] {
	t.Helper()
	var out actionBody[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const signupBody = `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"5551234567","password":"Str0ng!Pass","confirmPassword":"Str0ng!Pass"}`

func signup(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/auth/signup", "", signupBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[models.Session](t, w)
	require.NotNil(t, res.Data)
	assert.Equal(t, "/dashboard", res.Redirect)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.AccessTokenCookie, cookies[0].Name)
	return res.Data.AccessToken
}

func TestPortalFlow(t *testing.T) {
	b := newMemBackend()
	r := newTestRouter(t, b)
	token := signup(t, r)

	w := do(r, http.MethodPost, "/api/v1/consultations", token,
		`{"firstName":"Jane","lastName":"Doe","reason":"Course planning","datetime":"2099-03-01T10:00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[models.Consultation](t, w)
	require.NotNil(t, created.Data)
	assert.False(t, created.Data.IsComplete)

	w = do(r, http.MethodPatch, "/api/v1/consultations/"+created.Data.ID+"/toggle", token, `{"isComplete":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[struct{}](t, w).Error)

	w = do(r, http.MethodGet, "/api/v1/dashboard", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[struct {
		Student       models.Student        `json:"student"`
		Consultations []models.Consultation `json:"consultations"`
	}](t, w)
	require.NotNil(t, dash.Data)
	assert.Equal(t, "Jane", dash.Data.Student.FirstName)
	require.Len(t, dash.Data.Consultations, 1)
	assert.True(t, dash.Data.Consultations[0].IsComplete)

	w = do(r, http.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login", decode[struct{}](t, w).Redirect)

	w = do(r, http.MethodGet, "/api/v1/dashboard", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_WrongPasswordStaysOnPage(t *testing.T) {
	b := newMemBackend()
	r := newTestRouter(t, b)
	signup(t, r)

	w := do(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"jane@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[models.Session](t, w)
	assert.Equal(t, "Invalid login credentials", res.Error)
	assert.Empty(t, res.Redirect)
	assert.Empty(t, w.Result().Cookies())
}

func TestSignup_FieldErrors(t *testing.T) {
	r := newTestRouter(t, newMemBackend())

	w := do(r, http.MethodPost, "/api/v1/auth/signup", "",
		`{"firstName":"Jane1","lastName":"Doe","email":"jane@example.com","phone":"5551234567","password":"Str0ng!Pass","confirmPassword":"Str0ng!Pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[models.Session](t, w)
	assert.Equal(t, map[string]string{"firstName": "Must not contain numbers"}, res.FieldErrors)
}

func TestMalformedJSON(t *testing.T) {
	r := newTestRouter(t, newMemBackend())

	w := do(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request format"}`, w.Body.String())
}

func TestCreateConsultation_Unauthenticated(t *testing.T) {
	b := newMemBackend()
	r := newTestRouter(t, b)

	w := do(r, http.MethodPost, "/api/v1/consultations", "",
		`{"firstName":"Jane","lastName":"Doe","reason":"Course planning","datetime":"2099-03-01T10:00"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized. Please log in again.", decode[models.Consultation](t, w).Error)

	// A signed-in caller sees nothing that leaked through
	token := signup(t, r)
	w = do(r, http.MethodGet, "/api/v1/dashboard", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"consultations":[]`)
}

func TestStudentEndpoint(t *testing.T) {
	b := newMemBackend()
	r := newTestRouter(t, b)

	identity, session, err := b.SignUp(context.Background(), "jane@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	tok := session.AccessToken

	w := do(r, http.MethodPost, "/api/students", "", `{"firstName":"Jane","lastName":"Doe","phone":"555"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/students", tok, `{"firstName":"Jane","lastName":"","phone":"555"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"First name, last name, and phone are required"}`, w.Body.String())

	b.set(false, true)
	w = do(r, http.MethodPost, "/api/students", tok, `{"firstName":"Jane","lastName":"Doe","phone":"555"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"new row violates row-level security policy"}`, w.Body.String())
	b.set(true, false)
	w = do(r, http.MethodPost, "/api/students", tok, `{"firstName":"Jane","lastName":"Doe","phone":"555"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server configuration error"}`, w.Body.String())
	b.set(false, false)

	w = do(r, http.MethodPost, "/api/students", tok, `{"firstName":"Jane","lastName":"Doe","phone":"555"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	student, err := b.GetStudent(context.Background(), &models.Caller{UserID: identity.ID})
	require.NoError(t, err)
	assert.Equal(t, "Jane", student.FirstName)
}

func TestHealthAndMetrics(t *testing.T) {
	b := newMemBackend()
	r := newTestRouter(t, b)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", "").Code)

	b.set(true, false)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/health", "", "").Code)

	w := do(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MetricsNamespace+"_http_requests_total")
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	deps := BuildDependencies(cfg, newMemBackend(), logger.Nop())
	r := SetupRouter(cfg, deps, logger.Nop())

	body := `{"email":"a@b.co","password":"x"}`
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	// Non-auth routes are not limited
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "", "").Code)
}
