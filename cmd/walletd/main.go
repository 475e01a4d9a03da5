// Command walletd runs the wallet daemon: an offline-first transfer queue
// with an HTTP control surface and a simulated remote ledger.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/LerianStudio/lib-wallet/wallet/connectivity"
	"github.com/LerianStudio/lib-wallet/wallet/events"
	"github.com/LerianStudio/lib-wallet/wallet/gateway/memory"
	"github.com/LerianStudio/lib-wallet/wallet/ledger"
	libLog "github.com/LerianStudio/lib-wallet/wallet/log"
	"github.com/LerianStudio/lib-wallet/wallet/processor"
	"github.com/LerianStudio/lib-wallet/wallet/registry"
	"github.com/LerianStudio/lib-wallet/wallet/server"
	"github.com/LerianStudio/lib-wallet/wallet/service"
	"github.com/LerianStudio/lib-wallet/wallet/store"
)

const shutdownTimeout = 10 * time.Second

type config struct {
	httpAddress     string
	logLevel        libLog.Level
	redisAddress    string
	rabbitURL       string
	remoteErrorRate float64
	remoteLatency   time.Duration
}

func loadConfig() (config, error) {
	cfg := config{
		httpAddress:  getenvOrDefault("WALLET_HTTP_ADDRESS", ":8080"),
		logLevel:     libLog.LevelInfo,
		redisAddress: os.Getenv("WALLET_REDIS_ADDRESS"),
		rabbitURL:    os.Getenv("WALLET_RABBITMQ_URL"),
	}

	if raw := os.Getenv("WALLET_LOG_LEVEL"); raw != "" {
		level, err := libLog.ParseLevel(raw)
		if err != nil {
			return config{}, err
		}

		cfg.logLevel = level
	}

	if raw := os.Getenv("WALLET_REMOTE_ERROR_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return config{}, errors.New("WALLET_REMOTE_ERROR_RATE must be a float in [0, 1]")
		}

		cfg.remoteErrorRate = rate
	}

	if raw := os.Getenv("WALLET_REMOTE_LATENCY"); raw != "" {
		latency, err := time.ParseDuration(raw)
		if err != nil {
			return config{}, errors.New("WALLET_REMOTE_LATENCY must be a duration, e.g. 300ms")
		}

		cfg.remoteLatency = latency
	}

	return cfg, nil
}

func getenvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := libLog.NewZap(cfg.logLevel)
	if err != nil {
		return err
	}

	defer func() {
		syncCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_ = logger.Sync(syncCtx)
	}()

	snapshots, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	publisher, cleanupPublisher, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupPublisher()

	transactionRegistry := registry.New()
	balanceLedger := ledger.New()
	monitor := connectivity.NewMonitor()

	remoteOpts := []memory.Option{}
	if cfg.remoteErrorRate > 0 {
		remoteOpts = append(remoteOpts, memory.WithServerErrorRate(cfg.remoteErrorRate))
	}

	if cfg.remoteLatency > 0 {
		remoteOpts = append(remoteOpts, memory.WithLatency(cfg.remoteLatency/2, cfg.remoteLatency))
	}

	remote := memory.NewRemoteLedger(remoteOpts...)

	proc, err := processor.New(transactionRegistry, balanceLedger, remote, monitor, logger, nil,
		processor.WithPublisher(publisher),
	)
	if err != nil {
		return err
	}

	walletService, err := service.New(transactionRegistry, balanceLedger, monitor,
		service.WithStore(snapshots),
		service.WithWaker(proc),
		service.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if err := walletService.Restore(ctx); err != nil {
		logger.Log(ctx, libLog.LevelError, "failed to restore wallet state", libLog.Err(err))
		return err
	}

	httpServer, err := server.New(walletService, logger)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return proc.Run(groupCtx)
	})

	group.Go(func() error {
		logger.Log(groupCtx, libLog.LevelInfo, "http server listening",
			libLog.String("address", cfg.httpAddress),
		)

		return httpServer.Listen(cfg.httpAddress)
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Log(shutdownCtx, libLog.LevelWarn, "http shutdown failed", libLog.Err(err))
		}

		if err := proc.Shutdown(shutdownCtx); err != nil {
			logger.Log(shutdownCtx, libLog.LevelWarn, "processor shutdown failed", libLog.Err(err))
		}

		if err := walletService.Persist(shutdownCtx); err != nil {
			logger.Log(shutdownCtx, libLog.LevelWarn, "failed to persist final snapshot", libLog.Err(err))
		}

		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log(context.Background(), libLog.LevelError, "daemon exited with error", libLog.Err(err))
		return err
	}

	logger.Log(context.Background(), libLog.LevelInfo, "daemon stopped")

	return nil
}

func buildStore(ctx context.Context, cfg config, logger libLog.Logger) (store.Store, error) {
	if cfg.redisAddress == "" {
		logger.Log(ctx, libLog.LevelInfo, "using in-memory snapshot store")

		return store.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.redisAddress})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Log(ctx, libLog.LevelInfo, "using redis snapshot store",
		libLog.String("address", cfg.redisAddress),
	)

	return store.NewRedisStore(client)
}

func buildPublisher(cfg config, logger libLog.Logger) (events.Publisher, func(), error) {
	if cfg.rabbitURL == "" {
		return events.NewNop(), func() {}, nil
	}

	connection, err := amqp.Dial(cfg.rabbitURL)
	if err != nil {
		return nil, nil, err
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, nil, err
	}

	publisher, err := events.NewAMQPPublisher(channel)
	if err != nil {
		_ = channel.Close()
		_ = connection.Close()

		return nil, nil, err
	}

	logger.Log(context.Background(), libLog.LevelInfo, "publishing transfer events to rabbitmq")

	cleanup := func() {
		_ = channel.Close()
		_ = connection.Close()
	}

	return publisher, cleanup, nil
}
