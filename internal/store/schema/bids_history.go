package schema

import (
	"time"
)

// BidsHistoryMethod represents the kind of bid history entry
type BidsHistoryMethod string

const (
	// BidsHistoryMethodBet is recorded when a bid is committed by an allowance
	BidsHistoryMethodBet BidsHistoryMethod = "Bet"
)

// BidsHistory represents the bids_history table
// At most one row exists per (bid_id, method)
type BidsHistory struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// BidID references the bid
	BidID int64 `gorm:"column:bid_id;not null;uniqueIndex:idx_bids_history_bid_method,priority:1"`
	// Method is the kind of entry
	Method BidsHistoryMethod `gorm:"column:method;not null;type:text;uniqueIndex:idx_bids_history_bid_method,priority:2"`
	// TxHash is the approve transaction that committed the bid
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Bid Bid `gorm:"foreignKey:BidID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the BidsHistory model
func (BidsHistory) TableName() string {
	return "bids_history"
}
