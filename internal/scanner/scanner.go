package scanner

import (
	"context"
	"fmt"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

// RawEvent is a chain-specific event awaiting parsing
type RawEvent struct {
	BlockNumber uint64
	TxHash      string
	LogIndex    uint
	// Payload is the chain's own representation: a go-ethereum types.Log or a Tron contract event
	Payload interface{}
}

// DeployScanner follows the collection deployments of a fabric contract
type DeployScanner interface {
	FetchDeploys(ctx context.Context, fabric string, contractType domain.ContractType, fromBlock, toBlock uint64) ([]RawEvent, error)
	ParseDeploy(ctx context.Context, raw RawEvent, contractType domain.ContractType) ([]domain.Event, error)
}

// MintScanner follows the mints, transfers and burns of a collection
type MintScanner interface {
	FetchMints(ctx context.Context, collection string, contractType domain.ContractType, fromBlock, toBlock uint64) ([]RawEvent, error)
	// ParseMint may expand one raw event into several records, one per token of a batch transfer
	ParseMint(ctx context.Context, raw RawEvent, contractType domain.ContractType) ([]domain.Event, error)
}

// BuyScanner follows the fills of an exchange contract
type BuyScanner interface {
	FetchBuys(ctx context.Context, exchange string, fromBlock, toBlock uint64) ([]RawEvent, error)
	ParseBuy(ctx context.Context, raw RawEvent) ([]domain.Event, error)
}

// ApproveScanner follows the allowance changes of a currency contract
type ApproveScanner interface {
	FetchApprovals(ctx context.Context, currency string, fromBlock, toBlock uint64) ([]RawEvent, error)
	ParseApproval(ctx context.Context, raw RawEvent) ([]domain.Event, error)
}

// Scanner is the event source of one chain family
//
//go:generate mockgen -source=scanner.go -destination=../mocks/scanner.go -package=mocks -mock_names=Scanner=MockScanner
type Scanner interface {
	DeployScanner
	MintScanner
	BuyScanner
	ApproveScanner
}

// FetchFunc returns the raw events of the bound contract in the inclusive block range
type FetchFunc func(ctx context.Context, fromBlock, toBlock uint64) ([]RawEvent, error)

// ParseFunc turns a raw event into canonical records
type ParseFunc func(ctx context.Context, raw RawEvent) ([]domain.Event, error)

// Source is a scanner bound to one stream: a category on one contract
type Source struct {
	Category     domain.EventCategory
	Contract     string
	ContractType domain.ContractType
	Fetch        FetchFunc
	Parse        ParseFunc
}

// Bind selects the fetch and parse operations a stream of the given category uses
func Bind(s Scanner, category domain.EventCategory, contract string, contractType domain.ContractType) (Source, error) {
	src := Source{Category: category, Contract: contract, ContractType: contractType}

	switch category {
	case domain.EventCategoryDeploy:
		src.Fetch = func(ctx context.Context, from, to uint64) ([]RawEvent, error) {
			return s.FetchDeploys(ctx, contract, contractType, from, to)
		}
		src.Parse = func(ctx context.Context, raw RawEvent) ([]domain.Event, error) {
			return s.ParseDeploy(ctx, raw, contractType)
		}
	case domain.EventCategoryMint:
		src.Fetch = func(ctx context.Context, from, to uint64) ([]RawEvent, error) {
			return s.FetchMints(ctx, contract, contractType, from, to)
		}
		src.Parse = func(ctx context.Context, raw RawEvent) ([]domain.Event, error) {
			return s.ParseMint(ctx, raw, contractType)
		}
	case domain.EventCategoryBuy:
		src.Fetch = func(ctx context.Context, from, to uint64) ([]RawEvent, error) {
			return s.FetchBuys(ctx, contract, from, to)
		}
		src.Parse = s.ParseBuy
	case domain.EventCategoryApprove:
		src.Fetch = func(ctx context.Context, from, to uint64) ([]RawEvent, error) {
			return s.FetchApprovals(ctx, contract, from, to)
		}
		src.Parse = s.ParseApproval
	default:
		return Source{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedCategory, category)
	}

	return src, nil
}

// Malformed wraps a parse failure as domain.ErrMalformedEvent
func Malformed(raw RawEvent, format string, args ...interface{}) error {
	return fmt.Errorf("%w: tx %s log %d: %s", domain.ErrMalformedEvent, raw.TxHash, raw.LogIndex, fmt.Sprintf(format, args...))
}
