package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/gateway"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/store"
)

// Handler applies canonical events of one category to the marketplace database
// Save must be safe to call again with an event it already applied
//
//go:generate mockgen -source=handler.go -destination=../mocks/handler.go -package=mocks -mock_names=Handler=MockHandler
type Handler interface {
	Save(ctx context.Context, event domain.Event) error
}

// Deps are the collaborators shared by the handlers of one network
type Deps struct {
	Store      store.Store
	Gateway    gateway.Gateway
	Network    domain.Network
	Loggers    *logger.Registry
	Currencies *CurrencyCache
}

// New creates the handler of an event category
func New(category domain.EventCategory, deps Deps) (Handler, error) {
	log := deps.Loggers.For(string(category), deps.Network.Name)

	switch category {
	case domain.EventCategoryDeploy:
		return &deployHandler{store: deps.Store, network: deps.Network, log: log}, nil
	case domain.EventCategoryMint:
		return &mintHandler{store: deps.Store, gateway: deps.Gateway, network: deps.Network, log: log}, nil
	case domain.EventCategoryBuy:
		return &buyHandler{store: deps.Store, currencies: deps.Currencies, network: deps.Network, log: log}, nil
	case domain.EventCategoryApprove:
		return &approveHandler{store: deps.Store, currencies: deps.Currencies, network: deps.Network, log: log}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCategory, category)
	}
}

func unexpectedEvent(want string, event domain.Event) error {
	return fmt.Errorf("%w: expected %s, got %T", domain.ErrMalformedEvent, want, event)
}

// rawJSON is the payload stored with a history row; the row is still written without it
func rawJSON(log *zap.Logger, event domain.Event) datatypes.JSON {
	b, err := json.Marshal(event)
	if err != nil {
		log.Warn("failed to encode raw event, storing history row without payload",
			zap.Error(err),
			zap.String("txHash", event.Hash()),
			zap.String("category", string(event.Category())))
		return nil
	}
	return datatypes.JSON(b)
}

func ptr[T any](v T) *T {
	return &v
}

func txFields(txHash string, blockNumber uint64) []zap.Field {
	return []zap.Field{zap.String("txHash", txHash), zap.Uint64("blockNumber", blockNumber)}
}
