package schema

import (
	"time"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

// CollectionStatus represents the lifecycle state of a collection
type CollectionStatus string

const (
	// CollectionStatusPending is a collection created off-chain, waiting for its deploy event
	CollectionStatusPending CollectionStatus = "pending"
	// CollectionStatusCommitted is a collection whose contract was deployed on-chain
	CollectionStatusCommitted CollectionStatus = "committed"
	// CollectionStatusExpired is a collection whose deployment never happened
	CollectionStatusExpired CollectionStatus = "expired"
)

// Collection represents the collections table - a marketplace collection backed by one contract
type Collection struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Network is the configured network name the collection lives on
	Network string `gorm:"column:network;not null;type:text;index:idx_collections_network_name,priority:1"`
	// Name is the collection name, unique per network while pending
	Name string `gorm:"column:name;not null;type:text;index:idx_collections_network_name,priority:2"`
	// Address is the contract address (nil until the deploy event is indexed)
	Address *string `gorm:"column:address;type:text"`
	// Standard is the token standard of the contract (erc721, erc1155)
	Standard domain.ContractType `gorm:"column:standard;not null;type:text"`
	// Status is the collection lifecycle state
	Status CollectionStatus `gorm:"column:status;not null;type:text;default:'pending'"`
	// DeployBlock is the block the contract was deployed at
	DeployBlock *int64 `gorm:"column:deploy_block;type:bigint"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Collection model
func (Collection) TableName() string {
	return "collections"
}
