package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// ChainFamily groups chains that share one RPC and encoding model
type ChainFamily string

const (
	ChainFamilyEVM  ChainFamily = "evm"
	ChainFamilyTron ChainFamily = "tron"
)

// IsValidChainFamily checks if a chain family is supported
func IsValidChainFamily(family ChainFamily) bool {
	return family == ChainFamilyEVM || family == ChainFamilyTron
}

// ContractType identifies the contract interface a stream or a call targets
type ContractType string

const (
	ContractTypeERC721     ContractType = "erc721"
	ContractTypeERC1155    ContractType = "erc1155"
	ContractTypeERC20      ContractType = "erc20"
	ContractTypeExchange   ContractType = "exchange"
	ContractTypeFabric721  ContractType = "fabric721"
	ContractTypeFabric1155 ContractType = "fabric1155"
)

// IsMultiUnit reports whether tokens of this contract type carry a supply and per-owner quantities
func (t ContractType) IsMultiUnit() bool {
	return t == ContractTypeERC1155 || t == ContractTypeFabric1155
}

// TokenStandard maps a fabric contract type to the standard of the collections it deploys
func (t ContractType) TokenStandard() ContractType {
	switch t {
	case ContractTypeFabric721:
		return ContractTypeERC721
	case ContractTypeFabric1155:
		return ContractTypeERC1155
	default:
		return t
	}
}

// EventCategory is the kind of on-chain event a stream follows
type EventCategory string

const (
	EventCategoryDeploy  EventCategory = "deploy"
	EventCategoryMint    EventCategory = "mint" // mint, transfer and burn share one category
	EventCategoryBuy     EventCategory = "buy"
	EventCategoryApprove EventCategory = "approve"
)

// EventCategories lists every category in the order streams are started
var EventCategories = []EventCategory{
	EventCategoryDeploy,
	EventCategoryMint,
	EventCategoryBuy,
	EventCategoryApprove,
}

// Network describes one configured chain
// Networks come from configuration and are immutable once the process is running
type Network struct {
	Name               string
	Family             ChainFamily
	ChainID            uint64
	RPCURL             string
	APIURL             string
	APIKey             string
	RequestsPerSecond  float64
	ConfirmationMargin uint64
	ExchangeAddress    string
	FabricAddresses    map[ContractType]string
	FeeLimit           int64
}

// ZeroAddress returns the chain family's null address
func (n Network) ZeroAddress() string {
	return ZeroAddress(n.Family)
}

// StreamKey identifies one polling stream: (category, network, contract, contract type)
type StreamKey string

// NewStreamKey builds the key for a stream
func NewStreamKey(category EventCategory, network string, contractAddress string, contractType ContractType) StreamKey {
	return StreamKey(fmt.Sprintf("%s:%s:%s:%s", category, network, contractAddress, contractType))
}

// String returns the string representation of the StreamKey
func (k StreamKey) String() string {
	return string(k)
}

// Parse splits the StreamKey into its parts
func (k StreamKey) Parse() (EventCategory, string, string, ContractType, error) {
	parts := strings.Split(string(k), ":")
	if len(parts) != 4 {
		return "", "", "", "", fmt.Errorf("invalid stream key: %s", k)
	}
	return EventCategory(parts[0]), parts[1], parts[2], ContractType(parts[3]), nil
}

// Event is a canonical, chain-agnostic record parsed from a raw on-chain event
type Event interface {
	// Category returns the event category the record belongs to
	Category() EventCategory
	// Hash returns the transaction hash the record was emitted in (empty for deploys)
	Hash() string
}

// DeployData is emitted when a fabric contract deploys a new collection
type DeployData struct {
	CollectionName string       `json:"collection_name"`
	Address        string       `json:"address"`
	DeployBlock    uint64       `json:"deploy_block"`
	ContractType   ContractType `json:"contract_type"`
	TxHash         string       `json:"tx_hash"`
}

func (d *DeployData) Category() EventCategory { return EventCategoryDeploy }
func (d *DeployData) Hash() string            { return d.TxHash }

// MintData covers mint, transfer and burn; the zero address on either side tells them apart
type MintData struct {
	TokenID     string       `json:"token_id"`
	NewOwner    string       `json:"new_owner"`
	OldOwner    string       `json:"old_owner"`
	TxHash      string       `json:"tx_hash"`
	Amount      int64        `json:"amount"`
	Contract    string       `json:"contract"`
	Standard    ContractType `json:"standard"`
	BlockNumber uint64       `json:"block_number"`
	LogIndex    uint         `json:"log_index"`
}

func (d *MintData) Category() EventCategory { return EventCategoryMint }
func (d *MintData) Hash() string            { return d.TxHash }

// Kind classifies the record against the chain family's zero address
func (d *MintData) Kind(zeroAddress string) TransferKind {
	if d.OldOwner == "" || d.OldOwner == zeroAddress {
		return TransferKindMint
	}
	if d.NewOwner == "" || d.NewOwner == zeroAddress {
		return TransferKindBurn
	}
	return TransferKindTransfer
}

// TransferKind is the concrete lifecycle step a MintData record represents
type TransferKind string

const (
	TransferKindMint     TransferKind = "mint"
	TransferKindTransfer TransferKind = "transfer"
	TransferKindBurn     TransferKind = "burn"
)

// BuyData is emitted by the exchange contract when an order is filled
type BuyData struct {
	Buyer             string   `json:"buyer"`
	Seller            string   `json:"seller"`
	Price             *big.Int `json:"price"` // total price in the currency's smallest unit
	Amount            int64    `json:"amount"`
	TokenID           string   `json:"token_id"`
	TxHash            string   `json:"tx_hash"`
	CollectionAddress string   `json:"collection_address"`
	CurrencyAddress   string   `json:"currency_address"`
	BlockNumber       uint64   `json:"block_number"`
	LogIndex          uint     `json:"log_index"`
}

func (d *BuyData) Category() EventCategory { return EventCategoryBuy }
func (d *BuyData) Hash() string            { return d.TxHash }

// ApproveData is an ERC-20 allowance change
type ApproveData struct {
	Exchange        string   `json:"exchange"`
	User            string   `json:"user"`
	AllowanceAmount *big.Int `json:"allowance_amount"`
	Currency        string   `json:"currency"`
	TxHash          string   `json:"tx_hash"`
	BlockNumber     uint64   `json:"block_number"`
	LogIndex        uint     `json:"log_index"`
}

func (d *ApproveData) Category() EventCategory { return EventCategoryApprove }
func (d *ApproveData) Hash() string            { return d.TxHash }
