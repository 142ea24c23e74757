package xtremedata

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mystick682/X-TremeData/internal/config"
	"github.com/Mystick682/X-TremeData/internal/http/handlers/balance/get"
	"github.com/Mystick682/X-TremeData/internal/http/handlers/health"
	"github.com/Mystick682/X-TremeData/internal/http/handlers/payment/list"
	"github.com/Mystick682/X-TremeData/internal/http/handlers/payment/verify"
	"github.com/Mystick682/X-TremeData/internal/http/handlers/user/create"
	"github.com/Mystick682/X-TremeData/internal/http/middlewarectx"
	walletservice "github.com/Mystick682/X-TremeData/internal/services/wallet"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, wallet *walletservice.WalletService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middlewarectx.RateLimitMiddleware(logger, 50, 100))

	r.Post("/create_user", create.New(logger, wallet).ServeHTTP)
	r.Post("/get_balance", get.New(logger, wallet).ServeHTTP)
	r.Post("/verify_payment", verify.New(logger, wallet).ServeHTTP)
	r.Post("/list_payments", list.New(logger, wallet).ServeHTTP)

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
