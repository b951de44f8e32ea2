package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/block"
	"github.com/feral-file/marketplace-indexer/internal/config"
	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/gateway"
	"github.com/feral-file/marketplace-indexer/internal/handler"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/messaging"
	"github.com/feral-file/marketplace-indexer/internal/metrics"
	"github.com/feral-file/marketplace-indexer/internal/orchestrator"
	"github.com/feral-file/marketplace-indexer/internal/providers/ethereum"
	"github.com/feral-file/marketplace-indexer/internal/providers/jetstream"
	"github.com/feral-file/marketplace-indexer/internal/providers/tron"
	"github.com/feral-file/marketplace-indexer/internal/ratelimit"
	"github.com/feral-file/marketplace-indexer/internal/scanner"
	"github.com/feral-file/marketplace-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "indexer",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Marketplace Indexer")

	networks, err := cfg.DomainNetworks()
	if err != nil {
		logger.Fatal("Invalid network configuration", zap.Error(err))
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		cfg.Database.ConnMaxIdleTime,
	); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	ethDialer := adapter.NewEthClientDialer()
	loggers := logger.NewRegistry()

	var redisClient adapter.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient = adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisClient.Ping(ctx); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close Redis client", zap.Error(err))
			}
		}()
		logger.InfoCtx(ctx, "Connected to Redis")
	}

	var checkpoints store.CheckpointStore
	switch cfg.Checkpoint.Backend {
	case config.CheckpointBackendRedis:
		checkpoints = store.NewRedisCheckpointStore(redisClient, cfg.Checkpoint.KeyPrefix)
	default:
		checkpoints = store.NewPGCheckpointStore(db)
	}

	notifier := messaging.NewNoopNotifier()
	if cfg.NATS.URL != "" {
		notifier, err = jetstream.NewNotifier(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream())
		if err != nil {
			logger.Fatal("Failed to create NATS notifier", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		logger.InfoCtx(ctx, "Connected to NATS JetStream")
	}
	defer notifier.Close()

	// Build one runtime per configured network
	runtimes := make([]orchestrator.NetworkRuntime, 0, len(networks))
	for _, network := range networks {
		rt, closeFn, err := buildRuntime(ctx, cfg, network, dataStore, ethDialer, redisClient, clockAdapter, loggers)
		if err != nil {
			logger.Fatal("Failed to initialize network", zap.Error(err), zap.String("network", network.Name))
		}
		defer closeFn()
		runtimes = append(runtimes, rt)
		logger.InfoCtx(ctx, "Network ready",
			zap.String("network", network.Name),
			zap.String("family", string(network.Family)),
			zap.Uint64("confirmationMargin", network.ConfirmationMargin))
	}

	launcher := orchestrator.NewLauncher(orchestrator.Config{
		PollInterval:      cfg.Orchestrator.PollInterval,
		MaxBlockRange:     cfg.Orchestrator.MaxBlockRange,
		WindowSize:        cfg.Orchestrator.WindowSize,
		RestartBackoff:    cfg.Orchestrator.RestartBackoff,
		DiscoveryInterval: cfg.Orchestrator.DiscoveryInterval,
	}, runtimes, dataStore, checkpoints, notifier, clockAdapter, loggers)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for component errors
	errCh := make(chan error, 2)

	if cfg.Metrics.ListenAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.ListenAddr); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
		logger.InfoCtx(ctx, "Serving metrics", zap.String("addr", cfg.Metrics.ListenAddr))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := launcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("launcher: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err)
		cancel()
	}

	// Streams finish their current batch before returning
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn("Timed out waiting for streams to stop")
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Marketplace Indexer stopped")
}

// buildRuntime wires the chain clients, scanner and handlers of one network
func buildRuntime(
	ctx context.Context,
	cfg *config.IndexerConfig,
	network domain.Network,
	dataStore store.Store,
	ethDialer adapter.EthClientDialer,
	redisClient adapter.RedisClient,
	clock adapter.Clock,
	loggers *logger.Registry,
) (orchestrator.NetworkRuntime, func(), error) {
	var (
		ethClient  adapter.EthClient
		tronClient tron.Client
		fetcher    block.Fetcher
		chainScan  func(block.Provider) scanner.Scanner
		closeFn    = func() {}
	)

	switch network.Family {
	case domain.ChainFamilyEVM:
		client, err := ethDialer.Dial(ctx, network.RPCURL)
		if err != nil {
			return orchestrator.NetworkRuntime{}, nil, fmt.Errorf("failed to dial rpc: %w", err)
		}
		ethClient = client
		closeFn = client.Close
		fetcher = ethereum.NewBlockFetcher(client)
		chainScan = func(block.Provider) scanner.Scanner { return ethereum.NewScanner(client) }

	case domain.ChainFamilyTron:
		var pacer adapter.Pacer
		if network.RequestsPerSecond > 0 {
			var limiter adapter.RedisRateLimiter
			if redisClient != nil {
				limiter = redisClient.NewRateLimiter()
			}
			p, err := ratelimit.NewPacer(ratelimit.Config{
				Name:              network.Name,
				RequestsPerSecond: network.RequestsPerSecond,
			}, limiter, clock)
			if err != nil {
				return orchestrator.NetworkRuntime{}, nil, err
			}
			pacer = p
		}
		tronClient = tron.NewClient(network.APIURL, network.APIKey, adapter.NewHTTPClient(cfg.Orchestrator.RequestTimeout, pacer))
		fetcher = tron.NewBlockFetcher(tronClient)
		chainScan = func(blocks block.Provider) scanner.Scanner { return tron.NewScanner(tronClient, blocks) }

	default:
		return orchestrator.NetworkRuntime{}, nil, fmt.Errorf("unsupported chain family %q", network.Family)
	}

	blocks, err := block.NewProvider(fetcher, block.Config{
		TTL:         cfg.Orchestrator.BlockHeadTTL,
		StaleWindow: cfg.Orchestrator.BlockHeadStaleWindow,
	}, clock)
	if err != nil {
		closeFn()
		return orchestrator.NetworkRuntime{}, nil, err
	}

	gw, err := gateway.New(network, ethClient, tronClient)
	if err != nil {
		closeFn()
		return orchestrator.NetworkRuntime{}, nil, err
	}

	currencies, err := handler.NewCurrencyCache(dataStore, 0)
	if err != nil {
		closeFn()
		return orchestrator.NetworkRuntime{}, nil, err
	}

	deps := handler.Deps{
		Store:      dataStore,
		Gateway:    gw,
		Network:    network,
		Loggers:    loggers,
		Currencies: currencies,
	}
	handlers := make(map[domain.EventCategory]handler.Handler, len(domain.EventCategories))
	for _, category := range domain.EventCategories {
		h, err := handler.New(category, deps)
		if err != nil {
			closeFn()
			return orchestrator.NetworkRuntime{}, nil, err
		}
		handlers[category] = h
	}

	return orchestrator.NetworkRuntime{
		Network:  network,
		Scanner:  chainScan(blocks),
		Blocks:   blocks,
		Handlers: handlers,
	}, closeFn, nil
}
