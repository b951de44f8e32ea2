package gateway

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/providers/tron"
)

type tronGateway struct {
	network domain.Network
	client  tron.Client
}

// NewTronGateway creates a gateway for a Tron full node
func NewTronGateway(network domain.Network, client tron.Client) Gateway {
	return &tronGateway{network: network, client: client}
}

func (g *tronGateway) Network() domain.Network {
	return g.network
}

func (g *tronGateway) NormalizeAddress(address string) (string, error) {
	return domain.NormalizeTronAddress(address)
}

func (g *tronGateway) Call(ctx context.Context, req CallRequest) (*CallResult, error) {
	contractABI, err := ABI(req.ContractType)
	if err != nil {
		return nil, err
	}

	method, ok := contractABI.Methods[req.Function]
	if !ok {
		return nil, fmt.Errorf("function %s not found in %s abi", req.Function, req.ContractType)
	}

	inputs, err := coerceInputs(method.Inputs, req.Inputs, tronAddressParser)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s inputs: %w", req.Function, err)
	}

	packed, err := method.Inputs.Pack(inputs...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", req.Function, err)
	}

	contract, err := domain.NormalizeTronAddress(req.Address)
	if err != nil {
		return nil, err
	}

	owner := req.From
	if owner == "" {
		owner = domain.TRON_ZERO_ADDRESS
	}
	if owner, err = domain.NormalizeTronAddress(owner); err != nil {
		return nil, err
	}

	trigger := tron.TriggerRequest{
		OwnerAddress:     owner,
		ContractAddress:  contract,
		FunctionSelector: method.Sig,
		Parameter:        hex.EncodeToString(packed),
		Visible:          true,
	}

	switch req.Kind {
	case CallKindRead:
		return g.read(ctx, method, req.OutputTypes, trigger)
	case CallKindWrite:
		if req.From == "" {
			return nil, fmt.Errorf("write call %s requires a sender", req.Function)
		}
		trigger.FeeLimit = g.network.FeeLimit
		if req.Value != nil {
			trigger.CallValue = req.Value.Int64()
		}
		tx, err := g.client.TriggerSmartContract(ctx, trigger)
		if err != nil {
			return nil, err
		}
		return &CallResult{RawTransaction: tx}, nil
	default:
		return nil, fmt.Errorf("unknown call kind %s", req.Kind)
	}
}

func (g *tronGateway) read(ctx context.Context, method abi.Method, outputTypes []string, trigger tron.TriggerRequest) (*CallResult, error) {
	result, err := g.client.TriggerConstantContract(ctx, trigger)
	if err != nil {
		return nil, err
	}

	output, err := hex.DecodeString(result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", method.Name, err)
	}

	args, err := outputArguments(method, outputTypes)
	if err != nil {
		return nil, err
	}

	outputs, err := args.Unpack(output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method.Name, err)
	}

	for i, o := range outputs {
		if addr, ok := o.(common.Address); ok {
			outputs[i] = domain.EVMToTronAddress(addr)
		}
	}

	return &CallResult{Outputs: outputs}, nil
}
