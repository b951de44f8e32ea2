package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/block"
	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/handler"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/messaging"
	"github.com/feral-file/marketplace-indexer/internal/metrics"
	"github.com/feral-file/marketplace-indexer/internal/scanner"
	"github.com/feral-file/marketplace-indexer/internal/store"
)

// Config holds the orchestrator settings shared by every stream
type Config struct {
	PollInterval      time.Duration
	MaxBlockRange     uint64
	WindowSize        uint64
	RestartBackoff    time.Duration
	DiscoveryInterval time.Duration
}

// NetworkRuntime bundles what the streams of one network share
type NetworkRuntime struct {
	Network  domain.Network
	Scanner  scanner.Scanner
	Blocks   block.Provider
	Handlers map[domain.EventCategory]handler.Handler
}

// Launcher starts one supervised stream per (network, category, contract)
// and keeps discovering the collections and currencies that appear later
type Launcher struct {
	config      Config
	networks    []NetworkRuntime
	store       store.Store
	checkpoints store.CheckpointStore
	notifier    messaging.Notifier
	clock       adapter.Clock
	loggers     *logger.Registry
	supervisor  *Supervisor

	pool    pond.Pool
	mu      sync.Mutex
	running map[domain.StreamKey]*Stream
}

// NewLauncher creates a launcher
func NewLauncher(
	cfg Config,
	networks []NetworkRuntime,
	st store.Store,
	checkpoints store.CheckpointStore,
	notifier messaging.Notifier,
	clock adapter.Clock,
	loggers *logger.Registry,
) *Launcher {
	l := &Launcher{
		config:      cfg,
		networks:    networks,
		store:       st,
		checkpoints: checkpoints,
		notifier:    notifier,
		clock:       clock,
		loggers:     loggers,
		// streams never give their worker back, so the pool must not bound them
		pool:        pond.NewPool(0),
		running:     make(map[domain.StreamKey]*Stream),
	}

	l.supervisor = NewSupervisor(cfg.RestartBackoff, clock, loggers.For("supervisor", "all"))
	l.supervisor.OnRestart = func(name string, _ error) {
		category, network, _, _, err := domain.StreamKey(name).Parse()
		if err == nil {
			metrics.StreamRestarts.WithLabelValues(network, string(category)).Inc()
		}
	}
	return l
}

// Run starts the streams and the discovery loop, and blocks until ctx is cancelled
func (l *Launcher) Run(ctx context.Context) error {
	defer l.Wait()

	for _, rt := range l.networks {
		l.startStatic(ctx, rt)
	}

	for {
		if err := l.Discover(ctx); err != nil {
			logger.WarnCtx(ctx, "stream discovery failed", zap.Error(err))
		}
		if err := l.clock.SleepContext(ctx, l.config.DiscoveryInterval); err != nil {
			logger.InfoCtx(ctx, "launcher stopping", zap.Int("streams", l.StreamCount()))
			return nil
		}
	}
}

// startStatic starts the streams whose contracts come from configuration
func (l *Launcher) startStatic(ctx context.Context, rt NetworkRuntime) {
	for _, ct := range []domain.ContractType{domain.ContractTypeFabric721, domain.ContractTypeFabric1155} {
		if address, ok := rt.Network.FabricAddresses[ct]; ok && address != "" {
			l.start(ctx, rt, domain.EventCategoryDeploy, address, ct)
		}
	}
	if rt.Network.ExchangeAddress != "" {
		l.start(ctx, rt, domain.EventCategoryBuy, rt.Network.ExchangeAddress, domain.ContractTypeExchange)
	}
}

// Discover starts streams for committed collections and registered currencies that have none yet
func (l *Launcher) Discover(ctx context.Context) error {
	for _, rt := range l.networks {
		collections, err := l.store.GetCommittedCollections(ctx, rt.Network.Name)
		if err != nil {
			return err
		}
		for _, c := range collections {
			if c.Address == nil {
				continue
			}
			l.start(ctx, rt, domain.EventCategoryMint, *c.Address, c.Standard)
		}

		currencies, err := l.store.GetCurrencies(ctx, rt.Network.Name)
		if err != nil {
			return err
		}
		for _, c := range currencies {
			if c.IsNative(rt.Network.ZeroAddress()) {
				continue
			}
			l.start(ctx, rt, domain.EventCategoryApprove, c.Address, domain.ContractTypeERC20)
		}
	}
	return nil
}

// Wait blocks until every started stream has stopped, which requires the context they run with to be cancelled
func (l *Launcher) Wait() {
	l.pool.StopAndWait()
}

// StreamCount returns the number of started streams
func (l *Launcher) StreamCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.running)
}

func (l *Launcher) start(ctx context.Context, rt NetworkRuntime, category domain.EventCategory, contract string, contractType domain.ContractType) {
	key := domain.NewStreamKey(category, rt.Network.Name, contract, contractType)
	log := l.loggers.For(string(category), rt.Network.Name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.running[key]; ok {
		return
	}

	h, ok := rt.Handlers[category]
	if !ok {
		log.Warn("no handler for category, stream not started", zap.String("stream", key.String()))
		return
	}

	source, err := scanner.Bind(rt.Scanner, category, contract, contractType)
	if err != nil {
		log.Warn("failed to bind scanner", zap.String("stream", key.String()), zap.Error(err))
		return
	}

	stream := NewStream(key, rt.Network.Name, StreamConfig{
		ConfirmationMargin: rt.Network.ConfirmationMargin,
		PollInterval:       l.config.PollInterval,
		MaxBlockRange:      l.config.MaxBlockRange,
		WindowSize:         l.config.WindowSize,
	}, source, h, l.checkpoints, rt.Blocks, l.notifier, l.clock, log)

	l.running[key] = stream

	metrics.ActiveStreams.WithLabelValues(rt.Network.Name, string(category)).Inc()
	log.Info("stream started", zap.String("stream", key.String()))

	l.pool.Submit(func() {
		defer metrics.ActiveStreams.WithLabelValues(rt.Network.Name, string(category)).Dec()
		_ = l.supervisor.Supervise(ctx, key.String(), stream.Run)
	})
}
