package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Every stream holds a connection for the length of one handler transaction, so
// MaxOpenConns bounds how many streams can apply events at the same time.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// WithTransaction runs fn inside a database transaction
func (s *pgStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// first runs a single-row query and maps gorm.ErrRecordNotFound to (nil, nil)
func first[T any](query *gorm.DB, what string) (*T, error) {
	var row T
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return &row, nil
}

// =============================================================================
// Collections
// =============================================================================

// CreateCollection creates a pending collection
func (s *pgStore) CreateCollection(ctx context.Context, collection *schema.Collection) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(collection).Error; err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// GetPendingCollectionByName retrieves the pending collection with the given name on a network
func (s *pgStore) GetPendingCollectionByName(ctx context.Context, network, name string) (*schema.Collection, error) {
	return first[schema.Collection](
		s.db.WithContext(ctx).
			Where("network = ? AND name = ? AND status = ?", network, name, schema.CollectionStatusPending).
			Order("id ASC"),
		"pending collection")
}

// GetCollectionByAddress retrieves a committed collection by its contract address
func (s *pgStore) GetCollectionByAddress(ctx context.Context, network, address string) (*schema.Collection, error) {
	return first[schema.Collection](
		s.db.WithContext(ctx).
			Where("network = ? AND address = ? AND status = ?", network, address, schema.CollectionStatusCommitted),
		"collection")
}

// GetCommittedCollections retrieves every committed collection on a network
func (s *pgStore) GetCommittedCollections(ctx context.Context, network string) ([]schema.Collection, error) {
	var collections []schema.Collection
	err := s.db.WithContext(ctx).
		Where("network = ? AND status = ? AND address IS NOT NULL", network, schema.CollectionStatusCommitted).
		Order("id ASC").
		Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get committed collections: %w", err)
	}
	return collections, nil
}

// CommitCollection marks a pending collection as committed with its address and deploy block
func (s *pgStore) CommitCollection(ctx context.Context, collectionID int64, address string, deployBlock uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Collection{}).
		Where("id = ? AND status = ?", collectionID, schema.CollectionStatusPending).
		Updates(map[string]interface{}{
			"status":       schema.CollectionStatusCommitted,
			"address":      address,
			"deploy_block": int64(deployBlock), //nolint:gosec,G115
			"updated_at":   time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to commit collection: %w", err)
	}
	return nil
}

// =============================================================================
// Tokens
// =============================================================================

// CreateToken creates a token
func (s *pgStore) CreateToken(ctx context.Context, token *schema.Token) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

// GetTokenByID retrieves a token by its primary key
func (s *pgStore) GetTokenByID(ctx context.Context, tokenID int64) (*schema.Token, error) {
	return first[schema.Token](s.db.WithContext(ctx).Where("id = ?", tokenID), "token")
}

// LockTokenByIPFSHash retrieves the token of a collection created with an ipfs hash, locking the row
func (s *pgStore) LockTokenByIPFSHash(ctx context.Context, collectionID int64, ipfsHash string) (*schema.Token, error) {
	return first[schema.Token](
		s.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection_id = ? AND ipfs_hash = ?", collectionID, ipfsHash).
			Order("id ASC"),
		"token by ipfs hash")
}

// LockTokenByInternalID retrieves the token of a collection by its on-chain id, locking the row
func (s *pgStore) LockTokenByInternalID(ctx context.Context, collectionID int64, internalID string) (*schema.Token, error) {
	return first[schema.Token](
		s.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection_id = ? AND internal_id = ?", collectionID, internalID),
		"token by internal id")
}

// UpdateToken persists the mutable fields of a token
func (s *pgStore) UpdateToken(ctx context.Context, token *schema.Token) error {
	token.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).
		Model(token).
		Select("internal_id", "status", "total_supply", "owner_address", "selling", "price", "currency_id", "updated_at").
		Updates(token).Error
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	return nil
}

// =============================================================================
// Ownerships
// =============================================================================

// GetOwnership retrieves the ownership of a token by an owner
func (s *pgStore) GetOwnership(ctx context.Context, tokenID int64, owner string) (*schema.Ownership, error) {
	return first[schema.Ownership](
		s.db.WithContext(ctx).Where("token_id = ? AND owner_address = ?", tokenID, owner),
		"ownership")
}

// GetOwnerships retrieves every ownership of a token
func (s *pgStore) GetOwnerships(ctx context.Context, tokenID int64) ([]schema.Ownership, error) {
	var ownerships []schema.Ownership
	err := s.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		Order("id ASC").
		Find(&ownerships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ownerships: %w", err)
	}
	return ownerships, nil
}

// AdjustOwnership adds delta to the owner's quantity
func (s *pgStore) AdjustOwnership(ctx context.Context, tokenID int64, owner string, delta int64) error {
	if delta == 0 {
		return nil
	}

	if delta > 0 {
		ownership := schema.Ownership{
			TokenID:      tokenID,
			OwnerAddress: owner,
			Quantity:     delta,
		}
		err := s.db.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "token_id"}, {Name: "owner_address"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity":   gorm.Expr("ownerships.quantity + EXCLUDED.quantity"),
					"updated_at": gorm.Expr("now()"),
				}),
			}).
			Create(&ownership).Error
		if err != nil {
			return fmt.Errorf("failed to increase ownership: %w", err)
		}
		return nil
	}

	var ownership schema.Ownership
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token_id = ? AND owner_address = ?", tokenID, owner).
		First(&ownership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to lock ownership: %w", err)
	}

	// Rows never hold a zero quantity
	if ownership.Quantity+delta <= 0 {
		if err := s.db.WithContext(ctx).Delete(&schema.Ownership{}, ownership.ID).Error; err != nil {
			return fmt.Errorf("failed to delete ownership: %w", err)
		}
		return nil
	}

	err = s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("id = ?", ownership.ID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to decrease ownership: %w", err)
	}
	return nil
}

// SumOwnership returns the total quantity held across all owners of a token
func (s *pgStore) SumOwnership(ctx context.Context, tokenID int64) (int64, error) {
	var sum int64
	err := s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("token_id = ?", tokenID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ownerships: %w", err)
	}
	return sum, nil
}

// =============================================================================
// Token history
// =============================================================================

// GetTokenHistoryByTxHash retrieves the history rows of a token written for a transaction
func (s *pgStore) GetTokenHistoryByTxHash(ctx context.Context, tokenID int64, txHash string) ([]schema.TokenHistory, error) {
	var history []schema.TokenHistory
	err := s.db.WithContext(ctx).
		Where("token_id = ? AND tx_hash = ?", tokenID, txHash).
		Order("id ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get token history: %w", err)
	}
	return history, nil
}

// CreateTokenHistory appends a history row, doing nothing if (token, tx_hash, method) already exists
func (s *pgStore) CreateTokenHistory(ctx context.Context, history *schema.TokenHistory) (bool, error) {
	result := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}, {Name: "tx_hash"}, {Name: "method"}},
			DoNothing: true,
		}).
		Create(history)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create token history: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateTokenHistory persists the mutable fields of a history row
func (s *pgStore) UpdateTokenHistory(ctx context.Context, history *schema.TokenHistory) error {
	history.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).
		Model(history).
		Select("method", "from_address", "to_address", "amount", "price", "currency_id", "block_number", "raw", "updated_at").
		Updates(history).Error
	if err != nil {
		return fmt.Errorf("failed to update token history: %w", err)
	}
	return nil
}

// =============================================================================
// Bids
// =============================================================================

var outstandingBidStates = []schema.BidState{schema.BidStatePending, schema.BidStateCommitted}

// CreateBid creates a bid
func (s *pgStore) CreateBid(ctx context.Context, bid *schema.Bid) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(bid).Error; err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

// GetBidByID retrieves a bid by its primary key
func (s *pgStore) GetBidByID(ctx context.Context, bidID int64) (*schema.Bid, error) {
	return first[schema.Bid](s.db.WithContext(ctx).Where("id = ?", bidID), "bid")
}

// GetPendingBids retrieves every pending bid of a user in a currency
func (s *pgStore) GetPendingBids(ctx context.Context, userAddress string, currencyID int64) ([]schema.Bid, error) {
	var bids []schema.Bid
	err := s.db.WithContext(ctx).
		Where("user_address = ? AND currency_id = ? AND state = ?", userAddress, currencyID, schema.BidStatePending).
		Order("id ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bids: %w", err)
	}
	return bids, nil
}

// GetHighestBid retrieves the outstanding bid with the highest amount on a token
func (s *pgStore) GetHighestBid(ctx context.Context, tokenID int64) (*schema.Bid, error) {
	return first[schema.Bid](
		s.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_id = ? AND state IN ?", tokenID, outstandingBidStates).
			Order("amount DESC, id ASC"),
		"highest bid")
}

// CommitBid promotes a pending bid to committed
func (s *pgStore) CommitBid(ctx context.Context, bidID int64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Bid{}).
		Where("id = ? AND state = ?", bidID, schema.BidStatePending).
		Updates(map[string]interface{}{
			"state":      schema.BidStateCommitted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to commit bid: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ExpireBids expires every outstanding bid of a token
func (s *pgStore) ExpireBids(ctx context.Context, tokenID int64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Bid{}).
		Where("token_id = ? AND state IN ?", tokenID, outstandingBidStates).
		Updates(map[string]interface{}{
			"state":      schema.BidStateExpired,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to expire bids: %w", err)
	}
	return nil
}

// DeleteBids deletes every outstanding bid of a token
func (s *pgStore) DeleteBids(ctx context.Context, tokenID int64) error {
	err := s.db.WithContext(ctx).
		Where("token_id = ? AND state IN ?", tokenID, outstandingBidStates).
		Delete(&schema.Bid{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete bids: %w", err)
	}
	return nil
}

// ShrinkBid lowers a bid's quantity, deleting the bid when nothing is left
func (s *pgStore) ShrinkBid(ctx context.Context, bidID int64, quantity int64) error {
	var bid schema.Bid
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", bidID).
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to lock bid: %w", err)
	}

	if bid.Quantity <= quantity {
		if err := s.db.WithContext(ctx).Delete(&schema.Bid{}, bid.ID).Error; err != nil {
			return fmt.Errorf("failed to delete bid: %w", err)
		}
		return nil
	}

	err = s.db.WithContext(ctx).
		Model(&schema.Bid{}).
		Where("id = ?", bid.ID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to shrink bid: %w", err)
	}
	return nil
}

// =============================================================================
// Bids history
// =============================================================================

// CreateBidsHistory appends a bid history row, doing nothing if (bid_id, method) already exists
func (s *pgStore) CreateBidsHistory(ctx context.Context, history *schema.BidsHistory) (bool, error) {
	result := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "bid_id"}, {Name: "method"}},
			DoNothing: true,
		}).
		Create(history)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create bids history: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetBidsHistory retrieves the history rows of a bid
func (s *pgStore) GetBidsHistory(ctx context.Context, bidID int64) ([]schema.BidsHistory, error) {
	var history []schema.BidsHistory
	err := s.db.WithContext(ctx).
		Where("bid_id = ?", bidID).
		Order("id ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get bids history: %w", err)
	}
	return history, nil
}

// =============================================================================
// Currencies
// =============================================================================

// CreateCurrency registers a currency
func (s *pgStore) CreateCurrency(ctx context.Context, currency *schema.Currency) error {
	if err := s.db.WithContext(ctx).Create(currency).Error; err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}
	return nil
}

// GetCurrencyByAddress retrieves a currency by its contract address on a network
func (s *pgStore) GetCurrencyByAddress(ctx context.Context, network, address string) (*schema.Currency, error) {
	return first[schema.Currency](
		s.db.WithContext(ctx).Where("network = ? AND address = ?", network, address),
		"currency")
}

// GetCurrencyByID retrieves a currency by its primary key
func (s *pgStore) GetCurrencyByID(ctx context.Context, currencyID int64) (*schema.Currency, error) {
	return first[schema.Currency](s.db.WithContext(ctx).Where("id = ?", currencyID), "currency")
}

// GetCurrencies retrieves every currency registered on a network
func (s *pgStore) GetCurrencies(ctx context.Context, network string) ([]schema.Currency, error) {
	var currencies []schema.Currency
	err := s.db.WithContext(ctx).
		Where("network = ?", network).
		Order("id ASC").
		Find(&currencies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get currencies: %w", err)
	}
	return currencies, nil
}
