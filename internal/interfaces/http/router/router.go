package router

import (
	"github.com/erpsuite/finance/internal/infrastructure/auth"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/erpsuite/finance/internal/infrastructure/logger"
	"github.com/erpsuite/finance/internal/infrastructure/telemetry"
	"github.com/erpsuite/finance/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar registers a handler's routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the gin engine with the service middleware stack
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// Option is a functional option for Router configuration
type Option func(*Router)

// WithAPIVersion sets the API version prefix, "v1" by default
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// New creates a Router with the standard middleware stack: recovery,
// request ID, request logging, CORS, metrics and JWT authentication.
func New(
	cfg config.HTTPConfig,
	jwtService *auth.JWTService,
	metrics *telemetry.Metrics,
	log *zap.Logger,
	opts ...Option,
) *Router {
	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, "/health", "/ready", "/metrics"))
	engine.Use(middleware.CORSFromConfig(cfg))
	engine.Use(middleware.HTTPMetrics(metrics))
	if jwtService != nil {
		engine.Use(middleware.JWTAuth(jwtService))
	}
	if len(cfg.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.TrustedProxies)
	}

	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Register queues a registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup applies options and mounts all registered routes under the
// versioned API group
func (r *Router) Setup(opts ...Option) *gin.Engine {
	for _, opt := range opts {
		opt(r)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}
