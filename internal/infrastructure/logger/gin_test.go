package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serve runs a single request through a router built by configure and
// returns the recorded response plus everything that was logged.
func serve(t *testing.T, method, target string, configure func(r *gin.Engine, log *zap.Logger)) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	configure(router, zap.New(core))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w, logs
}

func requestLogEntry(t *testing.T, logs *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddlewareLevels(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx logs at info", http.StatusOK, zapcore.InfoLevel},
		{"4xx logs at warn", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"5xx logs at error", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, logs := serve(t, http.MethodGet, "/invoices", func(r *gin.Engine, log *zap.Logger) {
				r.Use(GinMiddleware(log))
				r.GET("/invoices", func(c *gin.Context) { c.Status(tc.status) })
			})

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.level, requestLogEntry(t, logs).Level)
		})
	}
}

func TestGinMiddlewareFields(t *testing.T) {
	_, logs := serve(t, http.MethodPost, "/invoices?status=PAID", func(r *gin.Engine, log *zap.Logger) {
		r.Use(func(c *gin.Context) {
			c.Set("request_id", "req-7")
			c.Next()
		})
		r.Use(GinMiddleware(log))
		r.POST("/invoices", func(c *gin.Context) { c.Status(http.StatusCreated) })
	})

	fields := requestLogEntry(t, logs).ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/invoices", fields["path"])
	assert.Equal(t, "status=PAID", fields["query"])
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.EqualValues(t, http.StatusCreated, fields["status"])
}

func TestGinMiddlewareSkipsConfiguredPaths(t *testing.T) {
	w, logs := serve(t, http.MethodGet, "/health", func(r *gin.Engine, log *zap.Logger) {
		r.Use(GinMiddleware(log, "/health", "/metrics"))
		r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, logs.Len())
}

func TestRecovery(t *testing.T) {
	w, logs := serve(t, http.MethodGet, "/boom", func(r *gin.Engine, log *zap.Logger) {
		r.Use(Recovery(log))
		r.GET("/boom", func(c *gin.Context) { panic("unexpected state") })
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/boom", entries[0].ContextMap()["path"])
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request-scoped logger", func(t *testing.T) {
		var got *zap.Logger
		_, logs := serve(t, http.MethodGet, "/q", func(r *gin.Engine, log *zap.Logger) {
			r.Use(GinMiddleware(log))
			r.GET("/q", func(c *gin.Context) {
				got = GetGinLogger(c)
				got.Info("from handler")
				c.Status(http.StatusOK)
			})
		})

		require.NotNil(t, got)
		assert.Equal(t, 1, logs.FilterMessage("from handler").Len())
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		got := GetGinLogger(c)
		require.NotNil(t, got)
		assert.NotPanics(t, func() { got.Info("ignored") })
	})
}
