package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"userapp/internal/adapter/database"
	"userapp/internal/core/telemetry"
	"userapp/pkg/config"
	. "userapp/pkg/test"
)

type ServerTestSuite struct {
	suite.Suite
	DB       *database.DB
	Registry *prometheus.Registry
	Handler  http.Handler
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func testConfig() *config.AppConfig {
	cfg := config.GetDefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.Port = "0"

	return cfg
}

func (s *ServerTestSuite) newHandler(cfg *config.AppConfig) http.Handler {
	s.Registry = prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(s.Registry)

	container := NewContainer(s.DB, cfg, config.NewNopLogger(), telemetry.NewNoOpProbe())

	return NewServer(container, metrics, config.NewNopLogger(), cfg).Handler()
}

func (s *ServerTestSuite) SetupTest() {
	s.DB = InitTestDB()
	s.Handler = s.newHandler(testConfig())
}

func (s *ServerTestSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request

	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.Handler.ServeHTTP(rr, req)

	return rr
}

func (s *ServerTestSuite) TestServer_Home() {
	rr := s.do(http.MethodGet, "/", "")

	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"message": "User Management System", "status": "healthy"}`, rr.Body.String())
	s.NotEmpty(rr.Header().Get("X-Request-ID"))
}

func (s *ServerTestSuite) TestServer_UserLifecycle() {
	created := s.do(http.MethodPost, "/users", `{"name": "John", "email": "john@example.com", "password": "password123"}`)
	s.Require().Equal(http.StatusCreated, created.Code)
	s.Contains(created.Body.String(), `"id":1`)

	login := s.do(http.MethodPost, "/login", `{"email": "john@example.com", "password": "password123"}`)
	s.Equal(http.StatusOK, login.Code)
	s.JSONEq(`{"status": "success", "user_id": 1, "message": "Login successful"}`, login.Body.String())

	updated := s.do(http.MethodPut, "/user/1", `{"name": "Johnny"}`)
	s.Equal(http.StatusOK, updated.Code)
	s.Contains(updated.Body.String(), `"name":"Johnny"`)

	search := s.do(http.MethodGet, "/search?name=ohn", "")
	s.Equal(http.StatusOK, search.Code)
	s.Contains(search.Body.String(), "john@example.com")

	deleted := s.do(http.MethodDelete, "/user/1", "")
	s.Equal(http.StatusOK, deleted.Code)
	s.JSONEq(`{"message": "User deleted successfully"}`, deleted.Body.String())

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/user/1", "").Code)
	s.JSONEq(`[]`, s.do(http.MethodGet, "/users", "").Body.String())
}

func (s *ServerTestSuite) TestServer_UnknownRouteAndMethod() {
	notFound := s.do(http.MethodGet, "/nope", "")
	s.Equal(http.StatusNotFound, notFound.Code)
	s.JSONEq(`{"error": "Endpoint not found"}`, notFound.Body.String())

	notAllowed := s.do(http.MethodPatch, "/users", "")
	s.Equal(http.StatusMethodNotAllowed, notAllowed.Code)
	s.JSONEq(`{"error": "Method not allowed"}`, notAllowed.Body.String())
}

func (s *ServerTestSuite) TestServer_RecordsRequestMetrics() {
	s.do(http.MethodGet, "/users", "")

	count, err := testutil.GatherAndCount(s.Registry, "http_requests_total")
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *ServerTestSuite) TestServer_RateLimitsLogin() {
	cfg := testConfig()
	cfg.RateLimitConfigs = map[string]config.RateLimitConfig{
		"POST /login": {Requests: 2, Window: time.Minute},
		"default":     {Requests: 100, Window: time.Minute},
	}
	s.Handler = s.newHandler(cfg)

	body := `{"email": "ghost@example.com", "password": "password123"}`

	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/login", body).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/login", body).Code)

	limited := s.do(http.MethodPost, "/login", body)
	s.Equal(http.StatusTooManyRequests, limited.Code)
	s.Contains(limited.Body.String(), "Rate limit exceeded")

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/users", "").Code)
}

func TestServer_RateLimitDisabled(t *testing.T) {
	db := InitTestDB()
	defer db.Close()

	cfg := testConfig()
	cfg.RateLimitEnabled = false

	container := NewContainer(db, cfg, nil, telemetry.NewNoOpProbe())
	handler := NewServer(container, nil, nil, cfg).Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}
