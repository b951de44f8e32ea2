package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
)

// RunFunc is a long-running loop that only returns on failure or cancellation
type RunFunc func(ctx context.Context) error

// Supervisor keeps loops alive: it restarts a loop after it fails or panics, waiting a fixed backoff in between
type Supervisor struct {
	backoff time.Duration
	clock   adapter.Clock
	log     *zap.Logger
	// OnRestart is called before every restart
	OnRestart func(name string, err error)
}

// NewSupervisor creates a supervisor restarting loops after backoff
func NewSupervisor(restartBackoff time.Duration, clock adapter.Clock, log *zap.Logger) *Supervisor {
	return &Supervisor{
		backoff: restartBackoff,
		clock:   clock,
		log:     log,
	}
}

// Supervise runs fn until ctx is cancelled and returns ctx.Err()
func (s *Supervisor) Supervise(ctx context.Context, name string, fn RunFunc) error {
	policy := backoff.NewConstantBackOff(s.backoff)

	for {
		runID := uuid.NewString()
		log := s.log.With(zap.String("loop", name), zap.String("runID", runID))
		log.Debug("loop started")

		err := runProtected(ctx, fn)
		if ctx.Err() != nil {
			log.Info("loop stopped", zap.Error(ctx.Err()))
			return ctx.Err()
		}
		if err == nil {
			err = fmt.Errorf("loop %s returned without error", name)
		}

		wait := policy.NextBackOff()
		log.Error("loop failed, restarting", zap.Error(err), zap.Duration("backoff", wait))
		if s.OnRestart != nil {
			s.OnRestart(name, err)
		}

		if err := s.clock.SleepContext(ctx, wait); err != nil {
			log.Info("loop stopped", zap.Error(err))
			return err
		}
	}
}

// runProtected turns a panic of fn into an error
func runProtected(ctx context.Context, fn RunFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(ctx)
}
