package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenStatus represents the lifecycle state of a token
type TokenStatus string

const (
	// TokenStatusPending is a token created off-chain and not minted yet
	TokenStatusPending TokenStatus = "pending"
	// TokenStatusCommitted is a minted token
	TokenStatusCommitted TokenStatus = "committed"
	// TokenStatusBurned is a burned single-unit token or a multi-unit token whose supply reached zero
	TokenStatusBurned TokenStatus = "burned"
	// TokenStatusExpired is a pending token that was never minted
	TokenStatusExpired TokenStatus = "expired"
)

// Token represents the tokens table - one marketplace item within a collection
type Token struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// CollectionID references the collection the token belongs to
	CollectionID int64 `gorm:"column:collection_id;not null;uniqueIndex:idx_tokens_collection_internal_id,priority:1"`
	// InternalID is the on-chain token id (nil until minted, never changes once set)
	InternalID *string `gorm:"column:internal_id;type:text;uniqueIndex:idx_tokens_collection_internal_id,priority:2"`
	// IPFSHash is the content hash the token was created with, used to match the mint
	IPFSHash string `gorm:"column:ipfs_hash;not null;type:text;index"`
	// Name is the display name of the token
	Name string `gorm:"column:name;not null;type:text;default:''"`
	// Status is the token lifecycle state
	Status TokenStatus `gorm:"column:status;not null;type:text;default:'pending'"`
	// TotalSupply is the number of units in circulation (1 for single-unit tokens)
	TotalSupply int64 `gorm:"column:total_supply;not null;default:1"`
	// OwnerAddress is the current owner of a single-unit token (nil for multi-unit tokens)
	OwnerAddress *string `gorm:"column:owner_address;type:text"`
	// Selling marks the token as listed for sale
	Selling bool `gorm:"column:selling;not null;default:false"`
	// Price is the listing price in human units of the currency
	Price decimal.NullDecimal `gorm:"column:price;type:numeric(78,18)"`
	// CurrencyID references the currency of the listing price
	CurrencyID *int64 `gorm:"column:currency_id"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Collection Collection `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
