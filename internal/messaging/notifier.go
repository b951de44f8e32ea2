package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

// Notification is the envelope published after an event has been applied
type Notification struct {
	ID        string               `json:"id"`
	Stream    domain.StreamKey     `json:"stream"`
	Network   string               `json:"network"`
	Category  domain.EventCategory `json:"category"`
	TxHash    string               `json:"tx_hash"`
	LogIndex  uint                 `json:"log_index"`
	Part      string               `json:"part,omitempty"`
	Event     domain.Event         `json:"event"`
	AppliedAt time.Time            `json:"applied_at"`
}

// Subject returns the subject the notification is published on
func (n *Notification) Subject() string {
	return fmt.Sprintf("marketplace.%s.%s", n.Network, n.Category)
}

// DedupID identifies the on-chain event, so that replays publish the same message id
func (n *Notification) DedupID() string {
	id := fmt.Sprintf("%s:%s:%d", n.Stream, n.TxHash, n.LogIndex)
	if n.Part != "" {
		id += ":" + n.Part
	}
	return id
}

// Notifier publishes applied events for downstream consumers
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	// Notify publishes a notification; failures are returned, callers decide whether they matter
	Notify(ctx context.Context, notification *Notification) error
	// Close releases the connection
	Close()
}

type noopNotifier struct{}

// NewNoopNotifier returns a notifier that drops every notification
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(context.Context, *Notification) error { return nil }
func (noopNotifier) Close()                                      {}
