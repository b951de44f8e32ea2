package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/gateway"
	"github.com/feral-file/marketplace-indexer/internal/store"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

type mintHandler struct {
	store   store.Store
	gateway gateway.Gateway
	network domain.Network
	log     *zap.Logger
}

// Save applies a mint, a transfer or a burn depending on the zero address side
func (h *mintHandler) Save(ctx context.Context, event domain.Event) error {
	d, ok := event.(*domain.MintData)
	if !ok {
		return unexpectedEvent("mint", event)
	}

	collection, err := h.store.GetCollectionByAddress(ctx, h.network.Name, d.Contract)
	if err != nil {
		return err
	}
	if collection == nil {
		h.log.Info("no committed collection for contract",
			append(txFields(d.TxHash, d.BlockNumber), zap.String("contract", d.Contract))...)
		return nil
	}

	switch d.Kind(h.network.ZeroAddress()) {
	case domain.TransferKindMint:
		return h.mint(ctx, collection, d)
	case domain.TransferKindBurn:
		return h.burn(ctx, collection, d)
	default:
		return h.transfer(ctx, collection, d)
	}
}

// tokenURIFunction is the metadata getter of a token standard
func tokenURIFunction(standard domain.ContractType) string {
	if standard.IsMultiUnit() {
		return "uri"
	}
	return "tokenURI"
}

func (h *mintHandler) resolveIPFSHash(ctx context.Context, d *domain.MintData) (string, error) {
	uri, err := gateway.ReadString(ctx, h.gateway, d.Standard, d.Contract, tokenURIFunction(d.Standard), d.TokenID)
	if err != nil {
		return "", fmt.Errorf("failed to read token uri of %s/%s: %w", d.Contract, d.TokenID, err)
	}
	return IPFSHash(uri), nil
}

func (h *mintHandler) mint(ctx context.Context, collection *schema.Collection, d *domain.MintData) error {
	hash, err := h.resolveIPFSHash(ctx, d)
	if err != nil {
		return err
	}
	if hash == "" {
		h.log.Warn("token uri carries no ipfs hash",
			append(txFields(d.TxHash, d.BlockNumber), zap.String("tokenID", d.TokenID))...)
		return nil
	}

	return h.store.WithTransaction(ctx, func(tx store.Store) error {
		token, err := tx.LockTokenByIPFSHash(ctx, collection.ID, hash)
		if err != nil {
			return err
		}
		if token == nil {
			h.log.Info("no token for minted ipfs hash",
				append(txFields(d.TxHash, d.BlockNumber),
					zap.Int64("collectionID", collection.ID),
					zap.String("ipfsHash", hash))...)
			return nil
		}
		if token.InternalID != nil && *token.InternalID != d.TokenID {
			h.log.Warn("ipfs hash already minted under another token id",
				append(txFields(d.TxHash, d.BlockNumber),
					zap.Int64("tokenID", token.ID),
					zap.String("internalID", *token.InternalID),
					zap.String("mintedID", d.TokenID))...)
			return nil
		}

		wasPending := token.Status == schema.TokenStatusPending

		created, err := tx.CreateTokenHistory(ctx, &schema.TokenHistory{
			TokenID:     token.ID,
			TxHash:      d.TxHash,
			Method:      schema.TokenHistoryMethodMint,
			ToAddress:   ptr(d.NewOwner),
			Amount:      d.Amount,
			BlockNumber: ptr(int64(d.BlockNumber)), //nolint:gosec,G115
			Raw:         rawJSON(h.log, d),
		})
		if err != nil {
			return err
		}

		if token.InternalID == nil {
			token.InternalID = ptr(d.TokenID)
		}
		token.Status = schema.TokenStatusCommitted

		if d.Standard.IsMultiUnit() {
			if created {
				if wasPending {
					token.TotalSupply = d.Amount
				} else {
					token.TotalSupply += d.Amount
				}
				if err := tx.AdjustOwnership(ctx, token.ID, d.NewOwner, d.Amount); err != nil {
					return err
				}
			}
		} else if created {
			// a replayed mint must not undo later transfers
			token.TotalSupply = 1
			token.OwnerAddress = ptr(d.NewOwner)
		}

		if err := tx.UpdateToken(ctx, token); err != nil {
			return err
		}

		if token.Selling {
			if _, err := tx.CreateTokenHistory(ctx, &schema.TokenHistory{
				TokenID:     token.ID,
				TxHash:      d.TxHash,
				Method:      schema.TokenHistoryMethodListing,
				FromAddress: ptr(d.NewOwner),
				Amount:      d.Amount,
				Price:       token.Price,
				CurrencyID:  token.CurrencyID,
				BlockNumber: ptr(int64(d.BlockNumber)), //nolint:gosec,G115
			}); err != nil {
				return err
			}
		}

		if created {
			h.log.Info("token minted",
				append(txFields(d.TxHash, d.BlockNumber),
					zap.Int64("tokenID", token.ID),
					zap.String("internalID", d.TokenID),
					zap.Int64("amount", d.Amount),
					zap.String("owner", d.NewOwner))...)
		}
		return nil
	})
}

// lockToken locks the token a transfer or burn refers to, nil when the marketplace does not know it
func (h *mintHandler) lockToken(ctx context.Context, tx store.Store, collection *schema.Collection, d *domain.MintData) (*schema.Token, error) {
	token, err := tx.LockTokenByInternalID(ctx, collection.ID, d.TokenID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		h.log.Info("no token for internal id",
			append(txFields(d.TxHash, d.BlockNumber),
				zap.Int64("collectionID", collection.ID),
				zap.String("internalID", d.TokenID))...)
	}
	return token, nil
}

// holdings returns how many units an owner holds of a multi-unit token
func holdings(ctx context.Context, tx store.Store, tokenID int64, owner string) (int64, error) {
	ownership, err := tx.GetOwnership(ctx, tokenID, owner)
	if err != nil {
		return 0, err
	}
	if ownership == nil {
		return 0, nil
	}
	return ownership.Quantity, nil
}

// moveUnits moves up to amount units from one owner to another, capped by what the sender holds
func moveUnits(ctx context.Context, tx store.Store, tokenID int64, from, to string, amount int64) (int64, error) {
	held, err := holdings(ctx, tx, tokenID, from)
	if err != nil {
		return 0, err
	}

	moved := min(amount, held)
	if moved <= 0 {
		return 0, nil
	}

	if err := tx.AdjustOwnership(ctx, tokenID, from, -moved); err != nil {
		return 0, err
	}
	if err := tx.AdjustOwnership(ctx, tokenID, to, moved); err != nil {
		return 0, err
	}
	return moved, nil
}

// movementRow returns the row that already moved the token in a transaction, if any
func movementRow(rows []schema.TokenHistory) *schema.TokenHistory {
	for i := range rows {
		switch rows[i].Method {
		case schema.TokenHistoryMethodTransfer, schema.TokenHistoryMethodBuy:
			return &rows[i]
		}
	}
	return nil
}

func (h *mintHandler) transfer(ctx context.Context, collection *schema.Collection, d *domain.MintData) error {
	return h.store.WithTransaction(ctx, func(tx store.Store) error {
		token, err := h.lockToken(ctx, tx, collection, d)
		if err != nil || token == nil {
			return err
		}

		// a Buy or an earlier delivery of this transfer already accounted for the movement;
		// Mint and Listing rows of the same tx do not
		existing, err := tx.GetTokenHistoryByTxHash(ctx, token.ID, d.TxHash)
		if err != nil {
			return err
		}
		if recorded := movementRow(existing); recorded != nil {
			h.log.Debug("transaction already recorded",
				append(txFields(d.TxHash, d.BlockNumber),
					zap.Int64("tokenID", token.ID),
					zap.String("method", string(recorded.Method)))...)
			return nil
		}

		created, err := tx.CreateTokenHistory(ctx, &schema.TokenHistory{
			TokenID:     token.ID,
			TxHash:      d.TxHash,
			Method:      schema.TokenHistoryMethodTransfer,
			FromAddress: ptr(d.OldOwner),
			ToAddress:   ptr(d.NewOwner),
			Amount:      d.Amount,
			BlockNumber: ptr(int64(d.BlockNumber)), //nolint:gosec,G115
			Raw:         rawJSON(h.log, d),
		})
		if err != nil || !created {
			return err
		}

		if d.Standard.IsMultiUnit() {
			moved, err := moveUnits(ctx, tx, token.ID, d.OldOwner, d.NewOwner, d.Amount)
			if err != nil {
				return err
			}
			if moved < d.Amount {
				h.log.Warn("sender holds fewer units than transferred",
					append(txFields(d.TxHash, d.BlockNumber),
						zap.Int64("tokenID", token.ID),
						zap.String("from", d.OldOwner),
						zap.Int64("amount", d.Amount),
						zap.Int64("moved", moved))...)
			}
		} else {
			token.OwnerAddress = ptr(d.NewOwner)
			if err := tx.UpdateToken(ctx, token); err != nil {
				return err
			}
		}

		h.log.Info("token transferred",
			append(txFields(d.TxHash, d.BlockNumber),
				zap.Int64("tokenID", token.ID),
				zap.String("from", d.OldOwner),
				zap.String("to", d.NewOwner),
				zap.Int64("amount", d.Amount))...)
		return nil
	})
}

func (h *mintHandler) burn(ctx context.Context, collection *schema.Collection, d *domain.MintData) error {
	return h.store.WithTransaction(ctx, func(tx store.Store) error {
		token, err := h.lockToken(ctx, tx, collection, d)
		if err != nil || token == nil {
			return err
		}

		created, err := tx.CreateTokenHistory(ctx, &schema.TokenHistory{
			TokenID:     token.ID,
			TxHash:      d.TxHash,
			Method:      schema.TokenHistoryMethodBurn,
			FromAddress: ptr(d.OldOwner),
			Amount:      d.Amount,
			BlockNumber: ptr(int64(d.BlockNumber)), //nolint:gosec,G115
			Raw:         rawJSON(h.log, d),
		})
		if err != nil {
			return err
		}
		if !created {
			return nil
		}

		if d.Standard.IsMultiUnit() {
			token.TotalSupply = max(token.TotalSupply-d.Amount, 0)

			held, err := holdings(ctx, tx, token.ID, d.OldOwner)
			if err != nil {
				return err
			}
			if burned := min(d.Amount, held); burned > 0 {
				if err := tx.AdjustOwnership(ctx, token.ID, d.OldOwner, -burned); err != nil {
					return err
				}
			}
		} else {
			token.TotalSupply = 0
			token.OwnerAddress = nil
		}

		if token.TotalSupply == 0 {
			token.Status = schema.TokenStatusBurned
			if err := tx.ExpireBids(ctx, token.ID); err != nil {
				return err
			}
		}

		if err := tx.UpdateToken(ctx, token); err != nil {
			return err
		}

		h.log.Info("token burned",
			append(txFields(d.TxHash, d.BlockNumber),
				zap.Int64("tokenID", token.ID),
				zap.Int64("amount", d.Amount),
				zap.Int64("totalSupply", token.TotalSupply))...)
		return nil
	})
}
