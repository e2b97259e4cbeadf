package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/identity-gateway/internal/api/handler"
	"github.com/99minutos/identity-gateway/internal/api/middleware"
	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer needs. Registerer and
// Gatherer default to the global Prometheus registry when nil.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Verifier    *middleware.TokenVerifier
	Checks      []handler.Check
	Registerer  prometheus.Registerer
	Gatherer    prometheus.Gatherer
	Log         zerolog.Logger
}

// NewRouter builds the Echo instance with the full access policy applied:
//
//	none           /api/public, /api/health, /api/health/ready, /api/auth/*, /metrics, /swagger/*
//	authenticated  /api/protected, /api/me, GET /api/users/:id, POST /api/users
//	admin|manager  GET /api/users
//	admin          /api/admin, DELETE /api/users/:id, PUT /api/users/:id/{roles,active},
//	               GET /api/users/:id/registration-events
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	infoHandler := handler.NewInfoHandler()
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks...)

	authenticated := middleware.Auth(deps.Verifier)
	adminOnly := middleware.RBAC(domain.ClaimRoleAdmin)
	adminOrManager := middleware.RBAC(domain.ClaimRoleAdmin, domain.ClaimRoleManager)

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Open routes ---
	api.GET("/public", infoHandler.Public)
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", readinessHandler.Readiness)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	// --- Authenticated routes ---
	secured := api.Group("", authenticated)
	secured.GET("/protected", infoHandler.Protected)
	secured.GET("/me", infoHandler.Me)
	secured.GET("/admin", infoHandler.Admin, adminOnly)

	users := secured.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List, adminOrManager)
	users.GET("/:id", userHandler.Get)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PUT("/:id/roles", userHandler.ReplaceRoles, adminOnly)
	users.PUT("/:id/active", userHandler.SetActive, adminOnly)
	users.GET("/:id/registration-events", userHandler.RegistrationEvents, adminOnly)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
