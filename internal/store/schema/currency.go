package schema

import (
	"time"
)

// Currency represents the currencies table - payment tokens accepted per network
// The chain family's zero address denotes the native coin
type Currency struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Network is the configured network name
	Network string `gorm:"column:network;not null;type:text;uniqueIndex:idx_currencies_network_address,priority:1"`
	// Address is the ERC-20 (or TRC-20) contract address
	Address string `gorm:"column:address;not null;type:text;uniqueIndex:idx_currencies_network_address,priority:2"`
	// Symbol is the ticker of the currency
	Symbol string `gorm:"column:symbol;not null;type:text"`
	// Decimals is the number of decimals of the smallest unit
	Decimals int32 `gorm:"column:decimals;not null"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Currency model
func (Currency) TableName() string {
	return "currencies"
}

// IsNative reports whether the currency is the chain's native coin
func (c Currency) IsNative(zeroAddress string) bool {
	return c.Address == zeroAddress
}
