package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bloom/internal/pkg/logger"
	"bloom/internal/pkg/nacos"
	"bloom/internal/tracing"
)

type AppCtx struct {
	Mux   *http.ServeMux
	Nacos *nacos.Client
}

// AppInfo describes one deployable service.
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx)
	// OnShutdown runs before the HTTP server stops, for closing consumers,
	// producers and database pools.
	OnShutdown func(ctx context.Context)
}

// StartService runs the shared lifecycle of every service: logging, tracing,
// service registration, HTTP serving and ordered graceful shutdown
// (deregister, tracer flush, server stop, service cleanup).
func StartService(info AppInfo) {
	logger.Init(info.ServiceName)
	cfg := GetCurrentConfig()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	registry, err := nacos.NewClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to initialize nacos client")
	}

	ip, err := outboundIP()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to determine outbound IP")
	}
	if err := registry.Register(info.ServiceName, ip, info.Port); err != nil {
		logger.L().Fatal().Err(err).Msg("failed to register service")
	}

	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Nacos: registry})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}
	go func() {
		logger.L().Info().Int("port", info.Port).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := registry.Deregister(info.ServiceName, ip, info.Port); err != nil {
		logger.L().Warn().Err(err).Msg("nacos deregistration failed")
	}
	if err := tp.Shutdown(ctx); err != nil {
		logger.L().Warn().Err(err).Msg("tracer shutdown failed")
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.L().Warn().Err(err).Msg("http server shutdown failed")
	}
	if info.OnShutdown != nil {
		info.OnShutdown(ctx)
	}
	logger.L().Info().Msg("stopped")
}

// outboundIP resolves the address this host uses to reach the network,
// which is what gets advertised to the registry.
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
