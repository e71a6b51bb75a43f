package handler

import (
	"marketplace-wallet/internal/adapter/http/middleware"
	redisStore "marketplace-wallet/internal/adapter/storage/redis"
	"marketplace-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	ReportingSvc   ports.ReportingService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	reportHandler := NewReportHandler(deps.ReportingSvc)

	fintech := r.Group("/api/v1/fintech")

	wallets := fintech.Group("/wallets/:accountId")
	{
		wallets.GET("", rl("wallets"), walletHandler.GetWallet)
		wallets.POST("/deposit/pix", rl("deposits"), walletHandler.Deposit)
		wallets.POST("/transfer", rl("transfers"), walletHandler.Transfer)
		wallets.POST("/payout", rl("payouts"), walletHandler.Payout)
		wallets.POST("/settlements", rl("settlements"), walletHandler.Settle)
	}

	reports := fintech.Group("/reports")
	{
		reports.GET("/daily", rl("reports"), reportHandler.Daily)
		reports.GET("/transactions", rl("reports"), reportHandler.Transactions)
	}

	return r
}
