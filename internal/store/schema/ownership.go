package schema

import (
	"time"
)

// Ownership represents the ownerships table - per-owner quantities of multi-unit tokens
// A row never holds a zero quantity, it is deleted instead
type Ownership struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the token being owned
	TokenID int64 `gorm:"column:token_id;not null;uniqueIndex:idx_ownerships_token_owner,priority:1"`
	// OwnerAddress is the blockchain address of the owner
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;uniqueIndex:idx_ownerships_token_owner,priority:2"`
	// Quantity is the number of units owned
	Quantity int64 `gorm:"column:quantity;not null"`
	// CreatedAt is the timestamp when this ownership was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this ownership was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Token Token `gorm:"foreignKey:TokenID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Ownership model
func (Ownership) TableName() string {
	return "ownerships"
}
