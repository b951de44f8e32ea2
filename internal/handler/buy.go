package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/store"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

type buyHandler struct {
	store      store.Store
	currencies *CurrencyCache
	network    domain.Network
	log        *zap.Logger
}

// HumanPrice converts a raw on-chain amount into the currency's display units
func HumanPrice(raw decimal.Decimal, decimals int32) decimal.Decimal {
	return raw.Shift(-decimals)
}

// Save records a sale and moves the sold units to the buyer
func (h *buyHandler) Save(ctx context.Context, event domain.Event) error {
	d, ok := event.(*domain.BuyData)
	if !ok {
		return unexpectedEvent("buy", event)
	}
	if d.Price == nil {
		return unexpectedEvent("buy with a price", event)
	}

	collection, err := h.store.GetCollectionByAddress(ctx, h.network.Name, d.CollectionAddress)
	if err != nil {
		return err
	}
	if collection == nil {
		h.log.Info("no committed collection for sale",
			append(txFields(d.TxHash, d.BlockNumber), zap.String("collection", d.CollectionAddress))...)
		return nil
	}

	currency, err := h.currencies.Get(ctx, h.network.Name, d.CurrencyAddress)
	if err != nil {
		return err
	}
	if currency == nil {
		h.log.Warn("sale paid in an unknown currency",
			append(txFields(d.TxHash, d.BlockNumber), zap.String("currency", d.CurrencyAddress))...)
		return nil
	}

	price := HumanPrice(decimal.NewFromBigInt(d.Price, 0), currency.Decimals)

	return h.store.WithTransaction(ctx, func(tx store.Store) error {
		token, err := tx.LockTokenByInternalID(ctx, collection.ID, d.TokenID)
		if err != nil {
			return err
		}
		if token == nil {
			h.log.Info("no token for sale",
				append(txFields(d.TxHash, d.BlockNumber),
					zap.Int64("collectionID", collection.ID),
					zap.String("internalID", d.TokenID))...)
			return nil
		}

		existing, err := tx.GetTokenHistoryByTxHash(ctx, token.ID, d.TxHash)
		if err != nil {
			return err
		}

		var transferRow *schema.TokenHistory
		for i := range existing {
			switch existing[i].Method {
			case schema.TokenHistoryMethodBuy:
				h.log.Debug("sale already recorded", append(txFields(d.TxHash, d.BlockNumber), zap.Int64("tokenID", token.ID))...)
				return nil
			case schema.TokenHistoryMethodTransfer:
				transferRow = &existing[i]
			}
		}

		row := schema.TokenHistory{
			TokenID:     token.ID,
			TxHash:      d.TxHash,
			Method:      schema.TokenHistoryMethodBuy,
			FromAddress: ptr(d.Seller),
			ToAddress:   ptr(d.Buyer),
			Amount:      d.Amount,
			Price:       decimal.NewNullDecimal(price),
			CurrencyID:  ptr(currency.ID),
			BlockNumber: ptr(int64(d.BlockNumber)), //nolint:gosec,G115
			Raw:         rawJSON(h.log, d),
		}

		// the transfer stream saw the movement first: the row becomes the sale and ownership already moved
		unitsMoved := transferRow != nil
		if unitsMoved {
			row.ID = transferRow.ID
			if err := tx.UpdateTokenHistory(ctx, &row); err != nil {
				return err
			}
		} else {
			created, err := tx.CreateTokenHistory(ctx, &row)
			if err != nil || !created {
				return err
			}
		}

		if collection.Standard.IsMultiUnit() {
			if !unitsMoved {
				moved, err := moveUnits(ctx, tx, token.ID, d.Seller, d.Buyer, d.Amount)
				if err != nil {
					return err
				}
				if moved < d.Amount {
					h.log.Warn("seller holds fewer units than sold",
						append(txFields(d.TxHash, d.BlockNumber),
							zap.Int64("tokenID", token.ID),
							zap.String("seller", d.Seller),
							zap.Int64("amount", d.Amount),
							zap.Int64("moved", moved))...)
				}
			}

			bid, err := tx.GetHighestBid(ctx, token.ID)
			if err != nil {
				return err
			}
			if bid != nil {
				if err := tx.ShrinkBid(ctx, bid.ID, d.Amount); err != nil {
					return err
				}
			}
		} else {
			token.OwnerAddress = ptr(d.Buyer)
			token.Selling = false
			token.Price = decimal.NullDecimal{}
			token.CurrencyID = nil
			if err := tx.UpdateToken(ctx, token); err != nil {
				return err
			}
			if err := tx.DeleteBids(ctx, token.ID); err != nil {
				return err
			}
		}

		h.log.Info("token sold",
			append(txFields(d.TxHash, d.BlockNumber),
				zap.Int64("tokenID", token.ID),
				zap.String("seller", d.Seller),
				zap.String("buyer", d.Buyer),
				zap.Int64("amount", d.Amount),
				zap.String("price", price.String()),
				zap.String("currency", currency.Symbol),
				zap.Bool("convertedTransfer", unitsMoved))...)
		return nil
	})
}
