package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TokenHistoryMethod represents the kind of token history entry
type TokenHistoryMethod string

const (
	TokenHistoryMethodMint     TokenHistoryMethod = "Mint"
	TokenHistoryMethodTransfer TokenHistoryMethod = "Transfer"
	TokenHistoryMethodBurn     TokenHistoryMethod = "Burn"
	TokenHistoryMethodBuy      TokenHistoryMethod = "Buy"
	TokenHistoryMethodListing  TokenHistoryMethod = "Listing"
)

// TokenHistory represents the token_history table - the audit trail of token lifecycle events
// At most one row exists per (token, tx_hash, method)
type TokenHistory struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the token the entry belongs to
	TokenID int64 `gorm:"column:token_id;not null;uniqueIndex:idx_token_history_token_tx_method,priority:1"`
	// TxHash is the transaction hash the entry was derived from
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_token_history_token_tx_method,priority:2"`
	// Method is the kind of entry
	Method TokenHistoryMethod `gorm:"column:method;not null;type:text;uniqueIndex:idx_token_history_token_tx_method,priority:3"`
	// FromAddress is the previous owner (nil for mints and listings)
	FromAddress *string `gorm:"column:from_address;type:text"`
	// ToAddress is the new owner (nil for burns)
	ToAddress *string `gorm:"column:to_address;type:text"`
	// Amount is the number of units involved
	Amount int64 `gorm:"column:amount;not null;default:1"`
	// Price is the sale or listing price in human units
	Price decimal.NullDecimal `gorm:"column:price;type:numeric(78,18)"`
	// CurrencyID references the currency of the price
	CurrencyID *int64 `gorm:"column:currency_id"`
	// BlockNumber is the block the transaction was included in
	BlockNumber *int64 `gorm:"column:block_number;type:bigint"`
	// Raw contains the canonical event the entry was derived from
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Token Token `gorm:"foreignKey:TokenID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the TokenHistory model
func (TokenHistory) TableName() string {
	return "token_history"
}
