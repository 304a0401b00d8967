package http

import (
	"time"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Health *Handler
	Loans  *LoanHandler
	Admin  *AdminHandler
	Credit *CreditHandler
}

type RouteConfig struct {
	JWTSecret []byte
	// Redis nil disables idempotency (tests only).
	Redis    *redis.Client
	IdempTTL time.Duration
	Log      *logrus.Logger
}

// Register mounts every route. Everything except /health needs a bearer token.
func Register(e *echo.Echo, h Handlers, cfg RouteConfig) {
	e.GET("/health", h.Health.Health)

	auth := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole(user.RoleLender, user.RoleAdmin)
	customer := middleware.RequireRole(user.RoleCustomer)
	admin := middleware.RequireRole(user.RoleAdmin)

	loans := e.Group("/loans", auth)
	if cfg.Redis != nil {
		loans.Use(middleware.Idempotency(cfg.Redis, cfg.IdempTTL, cfg.Log))
	}
	loans.POST("", h.Loans.Apply, customer)
	loans.GET("", h.Loans.List)
	loans.GET("/:loan_id", h.Loans.Get)
	loans.POST("/:loan_id/decision", h.Loans.Decide, staff)
	loans.POST("/:loan_id/repayments", h.Loans.Repay, customer)
	loans.POST("/:loan_id/default", h.Loans.MarkDefaulted, staff)

	e.GET("/interest-rules", h.Admin.ListRules, auth, admin)
	e.POST("/interest-rules", h.Admin.AddRule, auth, admin)
	e.GET("/reports", h.Admin.Reports, auth)
	e.GET("/reports/detailed", h.Admin.DetailedReport, auth, admin)
	e.GET("/ledger/profit-loss", h.Admin.ProfitLoss, auth, admin)
	e.GET("/ledger/balance", h.Admin.Balance, auth, admin)
	e.PUT("/ledger/balance", h.Admin.AdjustBalance, auth, admin)
	e.GET("/notifications", h.Admin.Notifications, auth, admin)

	e.GET("/borrowers/:user_id/credit-history", h.Credit.History, auth, staff)
	e.POST("/borrowers/me/credit-score", h.Credit.AdjustOwnScore, auth, customer)
}
