package gateway

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/providers/tron"
)

// CallKind distinguishes executing a read from assembling a transaction
type CallKind string

const (
	CallKindRead  CallKind = "read"
	CallKindWrite CallKind = "write"
)

// CallRequest describes one contract function call
type CallRequest struct {
	Kind         CallKind
	ContractType domain.ContractType
	Function     string
	// Inputs are the function arguments; address strings and decimal strings are accepted
	Inputs []interface{}
	// OutputTypes optionally overrides the ABI outputs used to decode a read, e.g. []string{"string"}
	OutputTypes []string
	Address     string
	// From is the caller; required for writes
	From  string
	Value *big.Int
}

// CallResult is the decoded output of a read or the unsigned transaction of a write
type CallResult struct {
	Outputs []interface{}
	// Transaction is the unsigned EVM transaction of a write
	Transaction *types.Transaction
	// RawTransaction is the unsigned transaction as the chain expects it for signing:
	// the binary encoding on EVM chains, the transaction JSON on Tron
	RawTransaction []byte
}

// Gateway hides the RPC and encoding differences of a chain family behind contract calls
//
//go:generate mockgen -source=gateway.go -destination=../mocks/gateway.go -package=mocks -mock_names=Gateway=MockGateway
type Gateway interface {
	// Call executes a read or assembles a write; RPC errors are returned unchanged, without retry
	Call(ctx context.Context, req CallRequest) (*CallResult, error)
	// NormalizeAddress converts an address to the family's canonical form
	NormalizeAddress(address string) (string, error)
	// Network returns the network the gateway talks to
	Network() domain.Network
}

// New creates the gateway of a network according to its chain family
func New(network domain.Network, ethClient adapter.EthClient, tronClient tron.Client) (Gateway, error) {
	switch network.Family {
	case domain.ChainFamilyEVM:
		if ethClient == nil {
			return nil, fmt.Errorf("network %s: ethereum client is required", network.Name)
		}
		return NewEVMGateway(network, ethClient), nil
	case domain.ChainFamilyTron:
		if tronClient == nil {
			return nil, fmt.Errorf("network %s: tron client is required", network.Name)
		}
		return NewTronGateway(network, tronClient), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedChainFamily, network.Family)
	}
}

// ReadString is a convenience for single-string reads such as tokenURI and uri
func ReadString(ctx context.Context, g Gateway, contractType domain.ContractType, address, function string, inputs ...interface{}) (string, error) {
	result, err := g.Call(ctx, CallRequest{
		Kind:         CallKindRead,
		ContractType: contractType,
		Function:     function,
		Inputs:       inputs,
		OutputTypes:  []string{"string"},
		Address:      address,
	})
	if err != nil {
		return "", err
	}
	if len(result.Outputs) != 1 {
		return "", fmt.Errorf("%s returned %d outputs", function, len(result.Outputs))
	}
	s, ok := result.Outputs[0].(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T, want string", function, result.Outputs[0])
	}
	return s, nil
}
