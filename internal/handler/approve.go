package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/store"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

type approveHandler struct {
	store      store.Store
	currencies *CurrencyCache
	network    domain.Network
	log        *zap.Logger
}

// Save commits the pending bids of a user that the new allowance covers
func (h *approveHandler) Save(ctx context.Context, event domain.Event) error {
	d, ok := event.(*domain.ApproveData)
	if !ok {
		return unexpectedEvent("approve", event)
	}
	if d.AllowanceAmount == nil {
		return unexpectedEvent("approve with an allowance", event)
	}

	if d.Exchange != h.network.ExchangeAddress {
		return nil
	}

	currency, err := h.currencies.Get(ctx, h.network.Name, d.Currency)
	if err != nil {
		return err
	}
	if currency == nil {
		h.log.Info("approval of an unknown currency",
			append(txFields(d.TxHash, d.BlockNumber), zap.String("currency", d.Currency))...)
		return nil
	}

	allowance := decimal.NewFromBigInt(d.AllowanceAmount, 0)

	return h.store.WithTransaction(ctx, func(tx store.Store) error {
		bids, err := tx.GetPendingBids(ctx, d.User, currency.ID)
		if err != nil {
			return err
		}

		for _, bid := range bids {
			required := store.BidTotal(bid)
			if allowance.LessThan(required) {
				h.log.Debug("allowance does not cover bid",
					zap.Int64("bidID", bid.ID),
					zap.String("allowance", allowance.String()),
					zap.String("required", required.String()))
				continue
			}

			committed, err := tx.CommitBid(ctx, bid.ID)
			if err != nil {
				return err
			}
			if !committed {
				continue
			}

			if _, err := tx.CreateBidsHistory(ctx, &schema.BidsHistory{
				BidID:  bid.ID,
				Method: schema.BidsHistoryMethodBet,
				TxHash: d.TxHash,
			}); err != nil {
				return err
			}

			h.log.Info("bid committed",
				append(txFields(d.TxHash, d.BlockNumber),
					zap.Int64("bidID", bid.ID),
					zap.String("user", d.User),
					zap.String("allowance", allowance.String()))...)
		}
		return nil
	})
}
