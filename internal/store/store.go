package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

// Store defines the interface for marketplace database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// WithTransaction runs fn inside a database transaction
	// The Store handed to fn is bound to the transaction; row locks taken through it are held until fn returns
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	// =============================================================================
	// Collections
	// =============================================================================

	// CreateCollection creates a pending collection
	CreateCollection(ctx context.Context, collection *schema.Collection) error
	// GetPendingCollectionByName retrieves the pending collection with the given name on a network
	GetPendingCollectionByName(ctx context.Context, network, name string) (*schema.Collection, error)
	// GetCollectionByAddress retrieves a committed collection by its contract address
	GetCollectionByAddress(ctx context.Context, network, address string) (*schema.Collection, error)
	// GetCommittedCollections retrieves every committed collection on a network
	GetCommittedCollections(ctx context.Context, network string) ([]schema.Collection, error)
	// CommitCollection marks a pending collection as committed with its address and deploy block
	CommitCollection(ctx context.Context, collectionID int64, address string, deployBlock uint64) error

	// =============================================================================
	// Tokens
	// =============================================================================

	// CreateToken creates a token
	CreateToken(ctx context.Context, token *schema.Token) error
	// GetTokenByID retrieves a token by its primary key
	GetTokenByID(ctx context.Context, tokenID int64) (*schema.Token, error)
	// LockTokenByIPFSHash retrieves the token of a collection created with an ipfs hash, locking the row
	LockTokenByIPFSHash(ctx context.Context, collectionID int64, ipfsHash string) (*schema.Token, error)
	// LockTokenByInternalID retrieves the token of a collection by its on-chain id, locking the row
	LockTokenByInternalID(ctx context.Context, collectionID int64, internalID string) (*schema.Token, error)
	// UpdateToken persists the mutable fields of a token
	UpdateToken(ctx context.Context, token *schema.Token) error

	// =============================================================================
	// Ownerships
	// =============================================================================

	// GetOwnership retrieves the ownership of a token by an owner
	GetOwnership(ctx context.Context, tokenID int64, owner string) (*schema.Ownership, error)
	// GetOwnerships retrieves every ownership of a token
	GetOwnerships(ctx context.Context, tokenID int64) ([]schema.Ownership, error)
	// AdjustOwnership adds delta to the owner's quantity, creating the row when needed
	// and deleting it once the quantity reaches zero
	AdjustOwnership(ctx context.Context, tokenID int64, owner string, delta int64) error
	// SumOwnership returns the total quantity held across all owners of a token
	SumOwnership(ctx context.Context, tokenID int64) (int64, error)

	// =============================================================================
	// Token history
	// =============================================================================

	// GetTokenHistoryByTxHash retrieves the history rows of a token written for a transaction
	GetTokenHistoryByTxHash(ctx context.Context, tokenID int64, txHash string) ([]schema.TokenHistory, error)
	// CreateTokenHistory appends a history row
	// Returns false without error when a row with the same (token, tx_hash, method) already exists
	CreateTokenHistory(ctx context.Context, history *schema.TokenHistory) (bool, error)
	// UpdateTokenHistory persists the mutable fields of a history row
	UpdateTokenHistory(ctx context.Context, history *schema.TokenHistory) error

	// =============================================================================
	// Bids
	// =============================================================================

	// CreateBid creates a bid
	CreateBid(ctx context.Context, bid *schema.Bid) error
	// GetBidByID retrieves a bid by its primary key
	GetBidByID(ctx context.Context, bidID int64) (*schema.Bid, error)
	// GetPendingBids retrieves every pending bid of a user in a currency
	GetPendingBids(ctx context.Context, userAddress string, currencyID int64) ([]schema.Bid, error)
	// GetHighestBid retrieves the outstanding bid with the highest amount on a token
	GetHighestBid(ctx context.Context, tokenID int64) (*schema.Bid, error)
	// CommitBid promotes a pending bid to committed
	// Returns false when the bid was not pending anymore
	CommitBid(ctx context.Context, bidID int64) (bool, error)
	// ExpireBids expires every outstanding bid of a token
	ExpireBids(ctx context.Context, tokenID int64) error
	// DeleteBids deletes every outstanding bid of a token
	DeleteBids(ctx context.Context, tokenID int64) error
	// ShrinkBid lowers a bid's quantity by the given amount, deleting the bid when nothing is left
	ShrinkBid(ctx context.Context, bidID int64, quantity int64) error

	// =============================================================================
	// Bids history
	// =============================================================================

	// CreateBidsHistory appends a bid history row
	// Returns false without error when a row with the same (bid_id, method) already exists
	CreateBidsHistory(ctx context.Context, history *schema.BidsHistory) (bool, error)
	// GetBidsHistory retrieves the history rows of a bid
	GetBidsHistory(ctx context.Context, bidID int64) ([]schema.BidsHistory, error)

	// =============================================================================
	// Currencies
	// =============================================================================

	// CreateCurrency registers a currency
	CreateCurrency(ctx context.Context, currency *schema.Currency) error
	// GetCurrencyByAddress retrieves a currency by its contract address on a network
	GetCurrencyByAddress(ctx context.Context, network, address string) (*schema.Currency, error)
	// GetCurrencyByID retrieves a currency by its primary key
	GetCurrencyByID(ctx context.Context, currencyID int64) (*schema.Currency, error)
	// GetCurrencies retrieves every currency registered on a network
	GetCurrencies(ctx context.Context, network string) ([]schema.Currency, error)
}

// BidTotal returns the allowance a bid requires: amount per unit times quantity, in raw units
func BidTotal(bid schema.Bid) decimal.Decimal {
	return bid.Amount.Mul(decimal.NewFromInt(bid.Quantity))
}
