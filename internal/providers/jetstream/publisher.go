package jetstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/messaging"
)

// SubjectWildcard matches every notification subject
const SubjectWildcard = "marketplace.>"

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// DuplicateWindow is how long the broker remembers message ids for deduplication
	DuplicateWindow time.Duration
}

type notifier struct {
	nc adapter.NatsConn
	js adapter.JetStream
}

// NewNotifier connects to NATS, makes sure the stream exists and returns a JetStream notifier
func NewNotifier(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream) (messaging.Notifier, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	duplicates := cfg.DuplicateWindow
	if duplicates <= 0 {
		duplicates = 10 * time.Minute
	}

	if err := js.EnsureStream(ctx, jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{SubjectWildcard},
		Duplicates: duplicates,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}

	return &notifier{nc: nc, js: js}, nil
}

// Notify publishes the notification with a deterministic message id for broker-side deduplication
func (n *notifier) Notify(ctx context.Context, notification *messaging.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	subject := notification.Subject()
	if _, err := n.js.Publish(ctx, subject, data, jetstream.WithMsgID(notification.DedupID())); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	logger.DebugCtx(ctx, "Published notification",
		zap.String("subject", subject),
		zap.String("id", notification.ID),
		zap.String("msgID", notification.DedupID()))
	return nil
}

// Close drains and closes the NATS connection
func (n *notifier) Close() {
	if n.nc == nil {
		return
	}
	if err := n.nc.Drain(); err != nil {
		logger.Warn("failed to drain NATS connection", zap.Error(err))
		n.nc.Close()
	}
}
