// Package xtremedata собирает все зависимости кошелькового сервиса
// и управляет жизненным циклом HTTP-сервера.
package xtremedata

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/Mystick682/X-TremeData/internal/cache"
	"github.com/Mystick682/X-TremeData/internal/config"
	"github.com/Mystick682/X-TremeData/internal/lib/rabbitmq"
	"github.com/Mystick682/X-TremeData/internal/lib/sl"
	"github.com/Mystick682/X-TremeData/internal/migrations"
	"github.com/Mystick682/X-TremeData/internal/paymentprovider"
	walletservice "github.com/Mystick682/X-TremeData/internal/services/wallet"
	"github.com/Mystick682/X-TremeData/internal/storage/repository"
)

// App агрегирует сервер и ресурсы, которые нужно освободить при остановке.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New инициализирует хранилище, кэш, клиента провайдера и HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqp.Connection
	var events walletservice.Publisher
	if cfg.AMQP.URL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AMQP.URL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		publisher, err := rabbitmq.NewPublisher(amqpConn, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			return nil, err
		}
		events = publisher
	} else {
		logger.Info("amqp url is empty, event publishing disabled")
	}

	providerClient := paymentprovider.NewClient(
		cfg.PaymentProvider.BaseURL,
		cfg.PaymentProvider.SecretKey,
		cfg.PaymentProvider.Timeout,
	)

	wallet := walletservice.New(db, providerClient, cacheRedis, events, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, wallet)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает сервер и блокируется до ошибки либо отмены контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.amqpConn != nil {
			if closeErr := a.amqpConn.Close(); closeErr != nil {
				a.logger.Error("failed to close amqp connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
