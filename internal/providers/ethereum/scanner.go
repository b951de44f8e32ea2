package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/gateway"
	"github.com/feral-file/marketplace-indexer/internal/scanner"
)

// Event names as declared in the embedded ABIs
const (
	EventERC721Made     = "ERC721Made"
	EventERC1155Made    = "ERC1155Made"
	EventTransfer       = "Transfer"
	EventTransferSingle = "TransferSingle"
	EventTransferBatch  = "TransferBatch"
	EventExchangeMade   = "ExchangeMade"
	EventApproval       = "Approval"
)

// logSource fetches logs of one contract and is shared by the per-category scanners
type logSource struct {
	client adapter.EthClient
}

func (s *logSource) fetch(ctx context.Context, contract string, topics []common.Hash, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, contract)
	}

	logs, err := s.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{common.HexToAddress(contract)},
		Topics:    [][]common.Hash{topics},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter logs of %s in [%d, %d]: %w", contract, fromBlock, toBlock, err)
	}

	events := make([]scanner.RawEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		events = append(events, scanner.RawEvent{
			BlockNumber: l.BlockNumber,
			TxHash:      l.TxHash.Hex(),
			LogIndex:    l.Index,
			Payload:     l,
		})
	}
	return events, nil
}

func payload(raw scanner.RawEvent) (types.Log, error) {
	l, ok := raw.Payload.(types.Log)
	if !ok {
		return types.Log{}, scanner.Malformed(raw, "unexpected payload %T", raw.Payload)
	}
	return l, nil
}

func eventID(contractType domain.ContractType, name string) common.Hash {
	return gateway.MustABI(contractType).Events[name].ID
}

// unpackData decodes the non-indexed fields of a log into a map
func unpackData(raw scanner.RawEvent, l types.Log, contractType domain.ContractType, name string) (map[string]interface{}, error) {
	event := gateway.MustABI(contractType).Events[name]
	values := make(map[string]interface{})
	if err := event.Inputs.NonIndexed().UnpackIntoMap(values, l.Data); err != nil {
		return nil, scanner.Malformed(raw, "unpack %s: %v", name, err)
	}
	return values, nil
}

func topicAddress(h common.Hash) string {
	return common.BytesToAddress(h.Bytes()).Hex()
}

func amountOf(raw scanner.RawEvent, v *big.Int) (int64, error) {
	if v == nil || !v.IsInt64() || v.Sign() < 0 {
		return 0, scanner.Malformed(raw, "amount %v out of range", v)
	}
	return v.Int64(), nil
}

type deployScanner struct {
	*logSource
}

func deployEventName(contractType domain.ContractType) (string, error) {
	switch contractType {
	case domain.ContractTypeFabric721:
		return EventERC721Made, nil
	case domain.ContractTypeFabric1155:
		return EventERC1155Made, nil
	default:
		return "", fmt.Errorf("contract type %s does not deploy collections", contractType)
	}
}

func (s *deployScanner) FetchDeploys(ctx context.Context, fabric string, contractType domain.ContractType, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	name, err := deployEventName(contractType)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, fabric, []common.Hash{eventID(contractType, name)}, fromBlock, toBlock)
}

func (s *deployScanner) ParseDeploy(_ context.Context, raw scanner.RawEvent, contractType domain.ContractType) ([]domain.Event, error) {
	l, err := payload(raw)
	if err != nil {
		return nil, err
	}
	name, err := deployEventName(contractType)
	if err != nil {
		return nil, err
	}

	values, err := unpackData(raw, l, contractType, name)
	if err != nil {
		return nil, err
	}

	newToken, ok := values["newToken"].(common.Address)
	if !ok {
		return nil, scanner.Malformed(raw, "%s without newToken", name)
	}
	collectionName, ok := values["name"].(string)
	if !ok {
		return nil, scanner.Malformed(raw, "%s without name", name)
	}

	return []domain.Event{&domain.DeployData{
		CollectionName: collectionName,
		Address:        newToken.Hex(),
		DeployBlock:    l.BlockNumber,
		ContractType:   contractType.TokenStandard(),
		TxHash:         raw.TxHash,
	}}, nil
}

type mintScanner struct {
	*logSource
}

func (s *mintScanner) FetchMints(ctx context.Context, collection string, contractType domain.ContractType, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	switch contractType.TokenStandard() {
	case domain.ContractTypeERC721:
		return s.fetch(ctx, collection, []common.Hash{eventID(domain.ContractTypeERC721, EventTransfer)}, fromBlock, toBlock)
	case domain.ContractTypeERC1155:
		return s.fetch(ctx, collection, []common.Hash{
			eventID(domain.ContractTypeERC1155, EventTransferSingle),
			eventID(domain.ContractTypeERC1155, EventTransferBatch),
		}, fromBlock, toBlock)
	default:
		return nil, fmt.Errorf("contract type %s has no transfer events", contractType)
	}
}

func (s *mintScanner) ParseMint(_ context.Context, raw scanner.RawEvent, contractType domain.ContractType) ([]domain.Event, error) {
	l, err := payload(raw)
	if err != nil {
		return nil, err
	}
	if len(l.Topics) == 0 {
		return nil, scanner.Malformed(raw, "log without topics")
	}

	base := domain.MintData{
		TxHash:      raw.TxHash,
		Contract:    l.Address.Hex(),
		Standard:    contractType.TokenStandard(),
		BlockNumber: l.BlockNumber,
		LogIndex:    l.Index,
	}

	switch l.Topics[0] {
	case eventID(domain.ContractTypeERC721, EventTransfer):
		// Transfer(address indexed from, address indexed to, uint256 indexed tokenId)
		if len(l.Topics) != 4 {
			return nil, scanner.Malformed(raw, "Transfer with %d topics", len(l.Topics))
		}
		d := base
		d.OldOwner = topicAddress(l.Topics[1])
		d.NewOwner = topicAddress(l.Topics[2])
		d.TokenID = new(big.Int).SetBytes(l.Topics[3].Bytes()).String()
		d.Amount = 1
		return []domain.Event{&d}, nil

	case eventID(domain.ContractTypeERC1155, EventTransferSingle):
		if len(l.Topics) != 4 {
			return nil, scanner.Malformed(raw, "TransferSingle with %d topics", len(l.Topics))
		}
		values, err := unpackData(raw, l, domain.ContractTypeERC1155, EventTransferSingle)
		if err != nil {
			return nil, err
		}
		id, _ := values["id"].(*big.Int)
		if id == nil {
			return nil, scanner.Malformed(raw, "TransferSingle without id")
		}
		amount, err := amountOf(raw, asBigInt(values["value"]))
		if err != nil {
			return nil, err
		}
		d := base
		d.OldOwner = topicAddress(l.Topics[2])
		d.NewOwner = topicAddress(l.Topics[3])
		d.TokenID = id.String()
		d.Amount = amount
		return []domain.Event{&d}, nil

	case eventID(domain.ContractTypeERC1155, EventTransferBatch):
		if len(l.Topics) != 4 {
			return nil, scanner.Malformed(raw, "TransferBatch with %d topics", len(l.Topics))
		}
		values, err := unpackData(raw, l, domain.ContractTypeERC1155, EventTransferBatch)
		if err != nil {
			return nil, err
		}
		ids, _ := values["ids"].([]*big.Int)
		amounts, _ := values["values"].([]*big.Int)
		if len(ids) != len(amounts) {
			return nil, scanner.Malformed(raw, "TransferBatch with %d ids and %d values", len(ids), len(amounts))
		}

		events := make([]domain.Event, 0, len(ids))
		for i := range ids {
			amount, err := amountOf(raw, amounts[i])
			if err != nil {
				return nil, err
			}
			d := base
			d.OldOwner = topicAddress(l.Topics[2])
			d.NewOwner = topicAddress(l.Topics[3])
			d.TokenID = ids[i].String()
			d.Amount = amount
			events = append(events, &d)
		}
		return events, nil

	default:
		return nil, scanner.Malformed(raw, "unexpected topic %s", l.Topics[0].Hex())
	}
}

type buyScanner struct {
	*logSource
}

func (s *buyScanner) FetchBuys(ctx context.Context, exchange string, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	return s.fetch(ctx, exchange, []common.Hash{eventID(domain.ContractTypeExchange, EventExchangeMade)}, fromBlock, toBlock)
}

func (s *buyScanner) ParseBuy(_ context.Context, raw scanner.RawEvent) ([]domain.Event, error) {
	l, err := payload(raw)
	if err != nil {
		return nil, err
	}

	values, err := unpackData(raw, l, domain.ContractTypeExchange, EventExchangeMade)
	if err != nil {
		return nil, err
	}

	seller, ok1 := values["seller"].(common.Address)
	collection, ok2 := values["sellTokenAddress"].(common.Address)
	buyer, ok3 := values["buyer"].(common.Address)
	currency, ok4 := values["buyTokenAddress"].(common.Address)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, scanner.Malformed(raw, "ExchangeMade with missing addresses")
	}

	sellID := asBigInt(values["sellId"])
	price := asBigInt(values["buyAmount"])
	if sellID == nil || price == nil {
		return nil, scanner.Malformed(raw, "ExchangeMade with missing amounts")
	}
	amount, err := amountOf(raw, asBigInt(values["sellAmount"]))
	if err != nil {
		return nil, err
	}

	return []domain.Event{&domain.BuyData{
		Buyer:             buyer.Hex(),
		Seller:            seller.Hex(),
		Price:             price,
		Amount:            amount,
		TokenID:           sellID.String(),
		TxHash:            raw.TxHash,
		CollectionAddress: collection.Hex(),
		CurrencyAddress:   currency.Hex(),
		BlockNumber:       l.BlockNumber,
		LogIndex:          l.Index,
	}}, nil
}

type approveScanner struct {
	*logSource
}

func (s *approveScanner) FetchApprovals(ctx context.Context, currency string, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	return s.fetch(ctx, currency, []common.Hash{eventID(domain.ContractTypeERC20, EventApproval)}, fromBlock, toBlock)
}

func (s *approveScanner) ParseApproval(_ context.Context, raw scanner.RawEvent) ([]domain.Event, error) {
	l, err := payload(raw)
	if err != nil {
		return nil, err
	}
	// Approval(address indexed owner, address indexed spender, uint256 value)
	if len(l.Topics) != 3 {
		return nil, scanner.Malformed(raw, "Approval with %d topics", len(l.Topics))
	}

	values, err := unpackData(raw, l, domain.ContractTypeERC20, EventApproval)
	if err != nil {
		return nil, err
	}
	value := asBigInt(values["value"])
	if value == nil {
		return nil, scanner.Malformed(raw, "Approval without value")
	}

	return []domain.Event{&domain.ApproveData{
		Exchange:        topicAddress(l.Topics[2]),
		User:            topicAddress(l.Topics[1]),
		AllowanceAmount: value,
		Currency:        l.Address.Hex(),
		TxHash:          raw.TxHash,
		BlockNumber:     l.BlockNumber,
		LogIndex:        l.Index,
	}}, nil
}

func asBigInt(v interface{}) *big.Int {
	n, _ := v.(*big.Int)
	return n
}

// Scanner is the EVM event source, composed of one scanner per category
type Scanner struct {
	*deployScanner
	*mintScanner
	*buyScanner
	*approveScanner
}

// NewScanner creates the EVM event source of a network
func NewScanner(client adapter.EthClient) scanner.Scanner {
	src := &logSource{client: client}
	return &Scanner{
		deployScanner:  &deployScanner{src},
		mintScanner:    &mintScanner{src},
		buyScanner:     &buyScanner{src},
		approveScanner: &approveScanner{src},
	}
}
