package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidState represents the state of a bid
type BidState string

const (
	// BidStatePending is a bid placed off-chain, waiting for the bidder's allowance
	BidStatePending BidState = "pending"
	// BidStateCommitted is a bid backed by a sufficient on-chain allowance
	BidStateCommitted BidState = "committed"
	// BidStateExpired is a bid that can no longer be filled
	BidStateExpired BidState = "expired"
)

// Bid represents the bids table - an offer to buy units of a token
type Bid struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the token the bid is placed on
	TokenID int64 `gorm:"column:token_id;not null;index"`
	// UserAddress is the bidder's blockchain address
	UserAddress string `gorm:"column:user_address;not null;type:text;index"`
	// Amount is the offered price per unit in the currency's smallest unit
	Amount decimal.Decimal `gorm:"column:amount;not null;type:numeric(78,0)"`
	// Quantity is the number of units the bid asks for
	Quantity int64 `gorm:"column:quantity;not null;default:1"`
	// CurrencyID references the currency of the bid
	CurrencyID int64 `gorm:"column:currency_id;not null"`
	// State is the bid state
	State BidState `gorm:"column:state;not null;type:text;default:'pending'"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Token    Token    `gorm:"foreignKey:TokenID;constraint:OnDelete:CASCADE"`
	Currency Currency `gorm:"foreignKey:CurrencyID"`
}

// TableName specifies the table name for the Bid model
func (Bid) TableName() string {
	return "bids"
}
