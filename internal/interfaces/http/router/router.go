// Package router assembles the gin engine: middleware chain, health probe,
// API docs and the versioned API group.
package router

import (
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/auth"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/logger"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/handler"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config selects the middleware the engine carries
type Config struct {
	Logger      *zap.Logger
	MaxBodySize int64
	Tracing     middleware.TracingConfig
	// JWTService enables bearer authentication on the API group when set
	JWTService *auth.JWTService
	// Swagger guards GET /swagger/*; disabled answers 404
	Swagger middleware.SwaggerConfig
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	cfg        Config
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates an engine with the global middleware installed
func NewRouter(cfg Config, opts ...RouterOption) *Router {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.Secure())
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	r := &Router{
		engine:     engine,
		cfg:        cfg,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Health mounts the unauthenticated GET /health probe
func (r *Router) Health(h *handler.HealthHandler) *Router {
	r.engine.GET("/health", h.Health)
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers the docs endpoint and all routes under /api/<version>, then
// returns the engine
func (r *Router) Setup() *gin.Engine {
	var jwt gin.HandlerFunc
	if r.cfg.JWTService != nil {
		jwtCfg := middleware.DefaultJWTConfig(r.cfg.JWTService)
		jwtCfg.Logger = r.cfg.Logger
		jwt = middleware.JWTAuthMiddlewareWithConfig(jwtCfg)
	}

	r.engine.GET("/swagger/*any",
		middleware.SwaggerProtection(r.cfg.Swagger, jwt),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/" + r.apiVersion)
	if jwt != nil {
		api.Use(jwt)
	}
	api.Use(middleware.TracingAttributes())

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
