package gateway

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/domain"
)

type evmGateway struct {
	network domain.Network
	client  adapter.EthClient
}

// NewEVMGateway creates a gateway for an Ethereum JSON-RPC network
func NewEVMGateway(network domain.Network, client adapter.EthClient) Gateway {
	return &evmGateway{network: network, client: client}
}

func (g *evmGateway) Network() domain.Network {
	return g.network
}

func (g *evmGateway) NormalizeAddress(address string) (string, error) {
	return domain.NormalizeEVMAddress(address)
}

func (g *evmGateway) Call(ctx context.Context, req CallRequest) (*CallResult, error) {
	contractABI, err := ABI(req.ContractType)
	if err != nil {
		return nil, err
	}

	method, ok := contractABI.Methods[req.Function]
	if !ok {
		return nil, fmt.Errorf("function %s not found in %s abi", req.Function, req.ContractType)
	}

	inputs, err := coerceInputs(method.Inputs, req.Inputs, evmAddressParser)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s inputs: %w", req.Function, err)
	}

	data, err := contractABI.Pack(req.Function, inputs...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", req.Function, err)
	}

	to, err := evmAddressParser(req.Address)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case CallKindRead:
		return g.read(ctx, method.Name, req, to, data)
	case CallKindWrite:
		return g.write(ctx, req, to, data)
	default:
		return nil, fmt.Errorf("unknown call kind %s", req.Kind)
	}
}

func (g *evmGateway) read(ctx context.Context, methodName string, req CallRequest, to common.Address, data []byte) (*CallResult, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	if req.From != "" {
		from, err := evmAddressParser(req.From)
		if err != nil {
			return nil, err
		}
		msg.From = from
	}

	output, err := g.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", methodName, err)
	}

	contractABI, _ := ABI(req.ContractType)
	args, err := outputArguments(contractABI.Methods[methodName], req.OutputTypes)
	if err != nil {
		return nil, err
	}

	outputs, err := args.Unpack(output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", methodName, err)
	}

	return &CallResult{Outputs: outputs}, nil
}

func (g *evmGateway) write(ctx context.Context, req CallRequest, to common.Address, data []byte) (*CallResult, error) {
	if req.From == "" {
		return nil, fmt.Errorf("write call %s requires a sender", req.Function)
	}
	from, err := evmAddressParser(req.From)
	if err != nil {
		return nil, err
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := g.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gas, err := g.client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	chainID := new(big.Int).SetUint64(g.network.ChainID)
	if g.network.ChainID == 0 {
		chainID, err = g.client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
	}

	head, err := g.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}

	var tx *types.Transaction
	if head.BaseFee != nil {
		tip, err := g.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas tip cap: %w", err)
		}
		// Leave room for the base fee to double before the transaction is mined
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Value:     value,
			Data:      data,
		})
	} else {
		price, err := g.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     data,
		})
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	return &CallResult{Transaction: tx, RawTransaction: raw}, nil
}
