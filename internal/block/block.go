package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/logger"
)

const defaultTimestampCacheSize = 4096

// HeightInfo represents a cached chain height
type HeightInfo struct {
	Number    uint64
	FetchedAt time.Time
}

// Provider gives every stream of a network cached access to the chain height
// and to block timestamps, so N streams do not multiply height RPCs.
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=Provider=MockBlockProvider,Fetcher=MockBlockFetcher
type Provider interface {
	// Height returns the current chain height, potentially from cache
	Height(ctx context.Context) (uint64, error)

	// BlockTimestamp returns the timestamp of a block, potentially from cache
	BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Fetcher reads block information from the chain
type Fetcher interface {
	// FetchHeight fetches the current chain height
	FetchHeight(ctx context.Context) (uint64, error)

	// FetchBlockTimestamp fetches the timestamp of a block
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the Provider
type Config struct {
	// TTL is how long to cache the chain height
	TTL time.Duration

	// StaleWindow is how long a cached height may still be served when fetching fails
	StaleWindow time.Duration

	// TimestampCacheSize bounds the number of cached block timestamps
	// Timestamps of confirmed blocks never change, so entries only leave by eviction
	TimestampCacheSize int
}

type provider struct {
	fetcher Fetcher
	config  Config
	clock   adapter.Clock

	mu         sync.RWMutex
	height     *HeightInfo
	timestamps *lru.Cache[uint64, time.Time]
}

// NewProvider creates a new Provider with caching
func NewProvider(fetcher Fetcher, config Config, clock adapter.Clock) (Provider, error) {
	size := config.TimestampCacheSize
	if size <= 0 {
		size = defaultTimestampCacheSize
	}

	timestamps, err := lru.New[uint64, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create timestamp cache: %w", err)
	}

	return &provider{
		fetcher:    fetcher,
		config:     config,
		clock:      clock,
		timestamps: timestamps,
	}, nil
}

// Height returns the current chain height, using cache if valid
func (p *provider) Height(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.height
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.FetchedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached chain height", zap.Uint64("height", cached.Number))
		return cached.Number, nil
	}

	height, err := p.fetcher.FetchHeight(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.FetchedAt) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale chain height", zap.Uint64("height", cached.Number), zap.Error(err))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch chain height and no valid cache available: %w", err)
	}

	p.mu.Lock()
	// Never move the cached height backwards when a lagging node answers
	if p.height == nil || height >= p.height.Number {
		p.height = &HeightInfo{Number: height, FetchedAt: now}
	} else {
		height = p.height.Number
		p.height.FetchedAt = now
	}
	p.mu.Unlock()

	return height, nil
}

// BlockTimestamp returns the timestamp of a block, using cache if present
func (p *provider) BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	if ts, ok := p.timestamps.Get(blockNumber); ok {
		return ts, nil
	}

	ts, err := p.fetcher.FetchBlockTimestamp(ctx, blockNumber)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch timestamp of block %d: %w", blockNumber, err)
	}

	p.timestamps.Add(blockNumber, ts)
	return ts, nil
}
