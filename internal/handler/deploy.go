package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/store"
)

type deployHandler struct {
	store   store.Store
	network domain.Network
	log     *zap.Logger
}

// Save commits the pending collection the deployed contract was created for
func (h *deployHandler) Save(ctx context.Context, event domain.Event) error {
	d, ok := event.(*domain.DeployData)
	if !ok {
		return unexpectedEvent("deploy", event)
	}

	return h.store.WithTransaction(ctx, func(tx store.Store) error {
		collection, err := tx.GetPendingCollectionByName(ctx, h.network.Name, d.CollectionName)
		if err != nil {
			return err
		}
		if collection == nil {
			// either committed by an earlier delivery or not created by the marketplace yet
			h.log.Info("no pending collection for deploy",
				append(txFields(d.TxHash, d.DeployBlock),
					zap.String("name", d.CollectionName),
					zap.String("address", d.Address))...)
			return nil
		}

		if collection.Standard != "" && collection.Standard != d.ContractType {
			h.log.Warn("deployed contract standard differs from the collection",
				zap.Int64("collectionID", collection.ID),
				zap.String("collectionStandard", string(collection.Standard)),
				zap.String("contractType", string(d.ContractType)))
		}

		if err := tx.CommitCollection(ctx, collection.ID, d.Address, d.DeployBlock); err != nil {
			return err
		}

		h.log.Info("collection committed",
			zap.Int64("collectionID", collection.ID),
			zap.String("name", d.CollectionName),
			zap.String("address", d.Address),
			zap.Uint64("deployBlock", d.DeployBlock))
		return nil
	})
}
