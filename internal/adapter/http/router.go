package http

import (
	"context"
	"time"

	"opticash-backend/internal/adapter/middleware"
	"opticash-backend/internal/usecase/category"
	"opticash-backend/internal/usecase/ledger"
	"opticash-backend/internal/usecase/loan"
	"opticash-backend/internal/usecase/payment"
	"opticash-backend/internal/usecase/user"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// RouterDeps are the collaborators of NewRouter.
type RouterDeps struct {
	Users      *user.Usecase
	Categories *category.Usecase
	Incomes    *ledger.Usecase
	Expenses   *ledger.Usecase
	Loans      *loan.Usecase
	Payments   *payment.Usecase

	Tokens middleware.TokenParser

	// Redis nil disables the idempotency middleware and the redis readiness check.
	Redis          *redis.Client
	IdempotencyTTL time.Duration

	DBPing     Pinger
	Production bool

	// Registry nil means the prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Production)

	// --- Global middleware ---
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())

	promCfg := echoprometheus.MiddlewareConfig{
		Namespace: "opticash",
		Subsystem: "http",
		Skipper:   func(c echo.Context) bool { return c.Path() == "/metrics" },
	}
	metricsHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Probes & metrics (no auth required) ---
	deps := map[string]Pinger{"database": d.DBPing}
	if d.Redis != nil {
		deps["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	health := NewHandler(deps)
	e.GET("/health", health.Health)
	e.GET("/health/ready", health.Ready)
	e.GET("/metrics", metricsHandler)

	api := e.Group("/api")

	// --- Auth ---
	authH := NewAuthHandler(d.Users)
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)

	// everything below needs a bearer token of an active user
	auth := middleware.Auth(d.Tokens, d.Users)
	admin := middleware.RequireAdmin()
	priv := api.Group("", auth)
	adm := api.Group("/admin", auth, admin)

	userH := NewUserHandler(d.Users)
	priv.GET("/users/me", userH.Me)
	priv.PUT("/users/me", userH.UpdateMe)
	adm.GET("/users", userH.List)
	adm.GET("/users/stats", userH.Stats)
	adm.GET("/users/:id", userH.Get)
	adm.PUT("/users/:id", userH.Update)
	adm.DELETE("/users/:id", userH.Delete)

	catH := NewCategoryHandler(d.Categories)
	priv.GET("/categories", catH.List)
	priv.GET("/categories/stats", catH.Stats)
	priv.GET("/categories/:id", catH.Get)
	priv.POST("/categories", catH.Create, admin)
	priv.PUT("/categories/:id", catH.Update, admin)
	priv.DELETE("/categories/:id", catH.Delete, admin)

	for prefix, uc := range map[string]*ledger.Usecase{"/incomes": d.Incomes, "/expenses": d.Expenses} {
		h := NewLedgerHandler(uc)
		g := priv.Group(prefix)
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/stats", h.Stats)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}

	loanH := NewLoanHandler(d.Loans)
	priv.POST("/loans", loanH.CreateLoan)
	priv.GET("/loans", loanH.ListMine)
	priv.GET("/loans/summary", loanH.Summary)
	priv.GET("/loans/:id", loanH.GetLoan)
	priv.GET("/loans/:id/installments", loanH.Installments)
	adm.GET("/loans", loanH.ListAll)
	adm.GET("/loans/stats", loanH.Stats)
	adm.PUT("/loans/:id/status", loanH.UpdateStatus)

	payH := NewPaymentHandler(d.Payments)
	var idem []echo.MiddlewareFunc
	if d.Redis != nil {
		idem = append(idem, middleware.Idempotency(d.Redis, d.IdempotencyTTL))
	}
	priv.POST("/payments", payH.Process, idem...)
	priv.GET("/payments", payH.ListMine)
	priv.GET("/payments/history", payH.History)
	priv.GET("/payments/pending", payH.Pending)
	priv.GET("/payments/summary", payH.Summary)
	priv.GET("/payments/:id", payH.Get)
	adm.GET("/payments", payH.ListAll)
	adm.GET("/payments/stats", payH.Stats)

	return e
}
