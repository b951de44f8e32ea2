package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/block"
	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/handler"
	"github.com/feral-file/marketplace-indexer/internal/messaging"
	"github.com/feral-file/marketplace-indexer/internal/metrics"
	"github.com/feral-file/marketplace-indexer/internal/scanner"
	"github.com/feral-file/marketplace-indexer/internal/store"
)

// State is the outcome of one poll cycle
type State string

const (
	// StateIdle means the checkpoint, the height or the events were unavailable
	StateIdle State = "idle"
	// StateSleeping means there were not enough confirmed blocks past the checkpoint
	StateSleeping State = "sleeping"
	// StatePolling means a window was fetched and applied
	StatePolling State = "polling"
	// StateBootstrapped means the stream had no checkpoint and now starts from the current height
	StateBootstrapped State = "bootstrapped"
)

// StreamConfig holds the polling parameters of a stream
type StreamConfig struct {
	ConfirmationMargin uint64
	PollInterval       time.Duration
	// MaxBlockRange is the widest range the provider accepts in one query
	MaxBlockRange uint64
	// WindowSize is how far a lagging stream advances per cycle
	WindowSize uint64
}

// Window returns the block range (checkpoint, toBlock] a stream processes next
// ok is false when fewer than margin blocks were produced since the checkpoint
func Window(checkpoint, height, margin, maxBlockRange, windowSize uint64) (fromBlock, toBlock uint64, ok bool) {
	if height <= checkpoint || height-checkpoint < margin {
		return 0, 0, false
	}

	toBlock = height
	if height-checkpoint > maxBlockRange {
		toBlock = checkpoint + windowSize
	}
	return checkpoint + 1, toBlock, true
}

// Stream follows one event category on one contract of one network
type Stream struct {
	key         domain.StreamKey
	network     string
	config      StreamConfig
	source      scanner.Source
	handler     handler.Handler
	checkpoints store.CheckpointStore
	blocks      block.Provider
	notifier    messaging.Notifier
	clock       adapter.Clock
	log         *zap.Logger
}

// NewStream creates a stream
func NewStream(
	key domain.StreamKey,
	network string,
	cfg StreamConfig,
	source scanner.Source,
	h handler.Handler,
	checkpoints store.CheckpointStore,
	blocks block.Provider,
	notifier messaging.Notifier,
	clock adapter.Clock,
	log *zap.Logger,
) *Stream {
	if notifier == nil {
		notifier = messaging.NewNoopNotifier()
	}
	return &Stream{
		key:         key,
		network:     network,
		config:      cfg,
		source:      source,
		handler:     h,
		checkpoints: checkpoints,
		blocks:      blocks,
		notifier:    notifier,
		clock:       clock,
		log:         log.With(zap.String("stream", key.String())),
	}
}

// Key returns the stream key
func (s *Stream) Key() domain.StreamKey {
	return s.key
}

// Run polls until ctx is cancelled or a batch fails
// A failed batch leaves the checkpoint untouched, so a restarted stream replays it
func (s *Stream) Run(ctx context.Context) error {
	for {
		if _, err := s.Step(ctx); err != nil {
			return err
		}
		if err := s.clock.SleepContext(ctx, s.config.PollInterval); err != nil {
			return err
		}
	}
}

// Step runs one poll cycle
func (s *Stream) Step(ctx context.Context) (State, error) {
	state, err := s.step(ctx)
	outcome := string(state)
	if err != nil {
		outcome = "failed"
	}
	metrics.StreamPollsTotal.WithLabelValues(s.network, string(s.source.Category), outcome).Inc()
	return state, err
}

func (s *Stream) step(ctx context.Context) (State, error) {
	checkpoint, found, err := s.checkpoints.GetCheckpoint(ctx, s.key)
	if err != nil {
		s.log.Warn("checkpoint unavailable", zap.Error(err))
		return StateIdle, ctx.Err()
	}

	height, err := s.blocks.Height(ctx)
	if err != nil {
		s.log.Warn("chain height unavailable", zap.Error(err))
		return StateIdle, ctx.Err()
	}

	if !found {
		// a new stream starts from the current height rather than genesis
		if err := s.checkpoints.SetCheckpoint(ctx, s.key, height); err != nil {
			s.log.Warn("failed to bootstrap checkpoint", zap.Error(err))
			return StateIdle, ctx.Err()
		}
		metrics.StreamCheckpoint.WithLabelValues(s.key.String()).Set(float64(height))
		s.log.Info("checkpoint bootstrapped", zap.Uint64("height", height))
		return StateBootstrapped, nil
	}

	if height > checkpoint {
		metrics.StreamLag.WithLabelValues(s.key.String()).Set(float64(height - checkpoint))
	}

	fromBlock, toBlock, ok := Window(checkpoint, height, s.config.ConfirmationMargin, s.config.MaxBlockRange, s.config.WindowSize)
	if !ok {
		return StateSleeping, nil
	}

	start := s.clock.Now()

	raws, err := s.source.Fetch(ctx, fromBlock, toBlock)
	if err != nil {
		s.log.Warn("failed to fetch events",
			zap.Uint64("fromBlock", fromBlock),
			zap.Uint64("toBlock", toBlock),
			zap.Error(err))
		return StateIdle, ctx.Err()
	}

	applied, err := s.apply(ctx, raws)
	if err != nil {
		return StatePolling, fmt.Errorf("stream %s window [%d, %d]: %w", s.key, fromBlock, toBlock, err)
	}

	if err := s.checkpoints.SetCheckpoint(ctx, s.key, toBlock); err != nil {
		// the batch is replayed on the next cycle, which the handlers tolerate
		s.log.Warn("failed to save checkpoint", zap.Uint64("toBlock", toBlock), zap.Error(err))
		return StateIdle, ctx.Err()
	}

	metrics.StreamCheckpoint.WithLabelValues(s.key.String()).Set(float64(toBlock))
	metrics.StreamBatchLatency.WithLabelValues(s.network, string(s.source.Category)).Observe(s.clock.Since(start).Seconds())

	if applied > 0 {
		s.log.Info("window processed",
			zap.Uint64("fromBlock", fromBlock),
			zap.Uint64("toBlock", toBlock),
			zap.Int("rawEvents", len(raws)),
			zap.Int("applied", applied))
	} else {
		s.log.Debug("window processed", zap.Uint64("fromBlock", fromBlock), zap.Uint64("toBlock", toBlock))
	}

	return StatePolling, nil
}

// apply parses and saves raw events in order and returns how many canonical events were saved
func (s *Stream) apply(ctx context.Context, raws []scanner.RawEvent) (int, error) {
	applied := 0
	for _, raw := range raws {
		events, err := s.source.Parse(ctx, raw)
		if err != nil {
			return applied, fmt.Errorf("failed to parse event: %w", err)
		}

		for _, event := range events {
			if err := s.handler.Save(ctx, event); err != nil {
				return applied, fmt.Errorf("failed to save event of tx %s: %w", raw.TxHash, err)
			}
			applied++
			metrics.StreamEventsApplied.WithLabelValues(s.network, string(s.source.Category)).Inc()
			s.notify(ctx, raw, event)
		}
	}
	return applied, nil
}

func (s *Stream) notify(ctx context.Context, raw scanner.RawEvent, event domain.Event) {
	n := &messaging.Notification{
		ID:        ulid.Make().String(),
		Stream:    s.key,
		Network:   s.network,
		Category:  s.source.Category,
		TxHash:    raw.TxHash,
		LogIndex:  raw.LogIndex,
		Event:     event,
		AppliedAt: s.clock.Now(),
	}

	// batch transfers yield one record per token from a single log
	if md, ok := event.(*domain.MintData); ok {
		n.Part = md.TokenID
	}

	if err := s.notifier.Notify(ctx, n); err != nil && !errors.Is(err, context.Canceled) {
		metrics.NotificationErrors.WithLabelValues(s.network, string(s.source.Category)).Inc()
		s.log.Warn("failed to publish notification",
			zap.String("txHash", raw.TxHash),
			zap.Uint("logIndex", raw.LogIndex),
			zap.Error(err))
	}
}
