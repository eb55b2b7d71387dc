package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"bloom/internal/pkg/bootstrap"
	"bloom/internal/pkg/logger"
	"bloom/internal/pkg/mq"
	"bloom/internal/pkg/redis"
	"bloom/internal/service/checkout/application"
	"bloom/internal/service/checkout/infrastructure"
	"bloom/internal/service/checkout/infrastructure/adapter"
	"bloom/internal/service/checkout/infrastructure/rule"
	"bloom/internal/service/checkout/interfaces"
)

const serviceName = "checkout-service"

// main is the composition root: it builds every dependency and hands the
// assembled service to the shared bootstrap.
func main() {
	if err := bootstrap.Init(); err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	cfg := bootstrap.GetCurrentConfig()

	db, err := infrastructure.OpenDB(cfg.Infra.MySQL.DSN)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to open database")
	}

	redisClient, err := redis.NewClient(context.Background(), cfg.Infra.Redis.Addr)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to connect to redis")
	}

	cache, err := adapter.NewCacheRedisAdapter(redisClient)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to build cache adapter")
	}

	ruleEngine, err := rule.NewCELRuleEngine()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to build rule engine")
	}

	writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.NotificationTopic)
	notifier := adapter.NewNotifierKafkaAdapter(writer)

	service := application.NewCheckoutService(
		infrastructure.NewGormUnitOfWork(db),
		infrastructure.NewGormCustomerRepository(db),
		infrastructure.NewBcryptHasher(),
		ruleEngine,
		notifier,
		cache,
		application.Pricing{
			TaxRate:     cfg.App.TaxRate,
			DeliveryFee: cfg.App.DeliveryFee,
			CODFee:      cfg.App.CODFee,
		},
		otel.Tracer(serviceName),
	)
	handler := interfaces.NewCheckoutHandler(service)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8081,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
			handler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if err := writer.Close(); err != nil {
				logger.L().Warn().Err(err).Msg("kafka writer close failed")
			}
			if err := redisClient.Close(); err != nil {
				logger.L().Warn().Err(err).Msg("redis close failed")
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	})
}
