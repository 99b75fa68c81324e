package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erpsuite/finance/internal/infrastructure/auth"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/erpsuite/finance/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "router-test-secret",
		ExpirationHours: 1,
		Issuer:          "finance-test",
	})
}

func TestRouter_ProtectedRouteRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(config.HTTPConfig{}, newTestJWTService(), nil, zap.NewNop())
	engine := r.Register(pingRegistrar{}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ProtectedRouteWithToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := newTestJWTService()
	r := New(config.HTTPConfig{}, jwtService, nil, zap.NewNop())
	engine := r.Register(pingRegistrar{}).Setup()

	token, err := jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "cashier",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_MetricsEndpointIsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := telemetry.NewMetrics("finance_test")
	r := New(config.HTTPConfig{}, newTestJWTService(), metrics, zap.NewNop())
	engine := r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_APIVersionOption(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(config.HTTPConfig{}, nil, nil, zap.NewNop(), WithAPIVersion("v2"))
	engine := r.Register(pingRegistrar{}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
