package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/account-service/internal/api/docs" // registers the swagger spec
	"github.com/99minutos/account-service/internal/api/handler"
	"github.com/99minutos/account-service/internal/api/middleware"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Accounts ports.AccountService
	// Reader backs the ownership gate.
	Reader ports.AccountReader
	Tokens ports.TokenService
	// Health is checked by /health/ready, keyed by dependency name.
	Health map[string]handler.Pinger

	Logger      zerolog.Logger
	Development bool

	// Registerer and Gatherer default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, deps.Development)

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	// Metrics wrap the request logger, which renders errors, so the status
	// label reflects the response actually sent.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "accounts",
		Subsystem:  "http",
		Registerer: registerer,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))

	// --- Operational endpoints ---
	health := handler.NewHealthHandler(deps.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	// --- Account routes ---
	accounts := handler.NewAccountHandler(deps.Accounts)
	authn := middleware.Authenticate(deps.Tokens)

	g := e.Group("/api/auth")
	g.POST("/register", accounts.Register)
	g.POST("/login", accounts.Login)
	g.GET("/me", accounts.Me, authn)
	g.PUT("/profile", accounts.UpdateProfile, authn)
	g.DELETE("/account", accounts.DeleteAccount, authn)
	g.GET("/users", accounts.ListUsers, authn, middleware.RequireRole(domain.RoleAdmin))
	g.GET("/users/:id", accounts.GetUser, authn, middleware.OwnerOrAdmin(deps.Reader, "id"))

	return e
}
