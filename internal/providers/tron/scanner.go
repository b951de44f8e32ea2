package tron

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/feral-file/marketplace-indexer/internal/block"
	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/scanner"
)

// Event names as TronGrid reports them
const (
	EventERC721Made     = "ERC721Made"
	EventERC1155Made    = "ERC1155Made"
	EventTransfer       = "Transfer"
	EventTransferSingle = "TransferSingle"
	EventTransferBatch  = "TransferBatch"
	EventExchangeMade   = "ExchangeMade"
	EventApproval       = "Approval"
)

// eventSource fetches the events of one contract for a block window
// TronGrid filters by block timestamp, so the window bounds are translated through the block provider
type eventSource struct {
	client Client
	blocks block.Provider
}

func (s *eventSource) fetch(ctx context.Context, contract string, eventNames []string, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	if fromBlock > toBlock {
		return nil, nil
	}

	minTime, err := s.blocks.BlockTimestamp(ctx, fromBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to get timestamp of block %d: %w", fromBlock, err)
	}
	maxTime, err := s.blocks.BlockTimestamp(ctx, toBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to get timestamp of block %d: %w", toBlock, err)
	}

	var events []scanner.RawEvent
	for _, name := range eventNames {
		found, err := s.client.GetContractEvents(ctx, EventQuery{
			ContractAddress: contract,
			EventName:       name,
			MinTimestamp:    minTime,
			MaxTimestamp:    maxTime,
		})
		if err != nil {
			return nil, err
		}

		for _, e := range found {
			// blocks sharing a boundary timestamp may fall outside the window
			if e.BlockNumber < fromBlock || e.BlockNumber > toBlock {
				continue
			}
			events = append(events, scanner.RawEvent{
				BlockNumber: e.BlockNumber,
				TxHash:      e.TransactionID,
				LogIndex:    e.EventIndex,
				Payload:     e,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}
		return events[i].LogIndex < events[j].LogIndex
	})

	return events, nil
}

func payload(raw scanner.RawEvent) (ContractEvent, error) {
	e, ok := raw.Payload.(ContractEvent)
	if !ok {
		return ContractEvent{}, scanner.Malformed(raw, "unexpected payload %T", raw.Payload)
	}
	return e, nil
}

// resultAddress reads an address field of an event result as base58check
func resultAddress(raw scanner.RawEvent, e ContractEvent, field string) (string, error) {
	v, ok := e.Result[field].(string)
	if !ok || v == "" {
		return "", scanner.Malformed(raw, "%s without %s", e.EventName, field)
	}
	addr, err := domain.NormalizeTronAddress(v)
	if err != nil {
		return "", scanner.Malformed(raw, "%s %s: %v", e.EventName, field, err)
	}
	return addr, nil
}

func resultString(raw scanner.RawEvent, e ContractEvent, field string) (string, error) {
	v, ok := e.Result[field].(string)
	if !ok {
		return "", scanner.Malformed(raw, "%s without %s", e.EventName, field)
	}
	return v, nil
}

func parseBigInt(raw scanner.RawEvent, v interface{}) (*big.Int, error) {
	var s string
	switch n := v.(type) {
	case string:
		s = n
	case json.Number:
		s = n.String()
	case float64:
		s = big.NewFloat(n).Text('f', 0)
	default:
		return nil, scanner.Malformed(raw, "unexpected number %v", v)
	}

	b, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, scanner.Malformed(raw, "invalid number %q", s)
	}
	return b, nil
}

func resultBigInt(raw scanner.RawEvent, e ContractEvent, field string) (*big.Int, error) {
	v, ok := e.Result[field]
	if !ok {
		return nil, scanner.Malformed(raw, "%s without %s", e.EventName, field)
	}
	return parseBigInt(raw, v)
}

func resultAmount(raw scanner.RawEvent, e ContractEvent, field string) (int64, error) {
	n, err := resultBigInt(raw, e, field)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() || n.Sign() < 0 {
		return 0, scanner.Malformed(raw, "%s %s out of range", e.EventName, field)
	}
	return n.Int64(), nil
}

// resultBigInts reads an array field, served either as a JSON array or as its string rendering
func resultBigInts(raw scanner.RawEvent, e ContractEvent, field string) ([]*big.Int, error) {
	var items []interface{}
	switch v := e.Result[field].(type) {
	case []interface{}:
		items = v
	case string:
		trimmed := strings.Trim(v, "[] ")
		if trimmed == "" {
			return nil, nil
		}
		for _, part := range strings.Split(trimmed, ",") {
			items = append(items, strings.Trim(part, "\" "))
		}
	default:
		return nil, scanner.Malformed(raw, "%s without %s", e.EventName, field)
	}

	out := make([]*big.Int, 0, len(items))
	for _, item := range items {
		n, err := parseBigInt(raw, item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

type deployScanner struct {
	*eventSource
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
	return s.fetch(ctx, fabric, []string{name}, fromBlock, toBlock)
}

func (s *deployScanner) ParseDeploy(_ context.Context, raw scanner.RawEvent, contractType domain.ContractType) ([]domain.Event, error) {
	e, err := payload(raw)
	if err != nil {
		return nil, err
	}

	address, err := resultAddress(raw, e, "newToken")
	if err != nil {
		return nil, err
	}
	name, err := resultString(raw, e, "name")
	if err != nil {
		return nil, err
	}

	return []domain.Event{&domain.DeployData{
		CollectionName: name,
		Address:        address,
		DeployBlock:    e.BlockNumber,
		ContractType:   contractType.TokenStandard(),
		TxHash:         e.TransactionID,
	}}, nil
}

type mintScanner struct {
	*eventSource
}

func (s *mintScanner) FetchMints(ctx context.Context, collection string, contractType domain.ContractType, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	switch contractType.TokenStandard() {
	case domain.ContractTypeERC721:
		return s.fetch(ctx, collection, []string{EventTransfer}, fromBlock, toBlock)
	case domain.ContractTypeERC1155:
		return s.fetch(ctx, collection, []string{EventTransferSingle, EventTransferBatch}, fromBlock, toBlock)
	default:
		return nil, fmt.Errorf("contract type %s has no transfer events", contractType)
	}
}

func (s *mintScanner) ParseMint(_ context.Context, raw scanner.RawEvent, contractType domain.ContractType) ([]domain.Event, error) {
	e, err := payload(raw)
	if err != nil {
		return nil, err
	}

	contract, err := domain.NormalizeTronAddress(e.ContractAddress)
	if err != nil {
		return nil, scanner.Malformed(raw, "contract address: %v", err)
	}
	from, err := resultAddress(raw, e, "from")
	if err != nil {
		return nil, err
	}
	to, err := resultAddress(raw, e, "to")
	if err != nil {
		return nil, err
	}

	base := domain.MintData{
		OldOwner:    from,
		NewOwner:    to,
		TxHash:      e.TransactionID,
		Contract:    contract,
		Standard:    contractType.TokenStandard(),
		BlockNumber: e.BlockNumber,
		LogIndex:    e.EventIndex,
	}

	switch e.EventName {
	case EventTransfer:
		id, err := resultBigInt(raw, e, "tokenId")
		if err != nil {
			return nil, err
		}
		d := base
		d.TokenID = id.String()
		d.Amount = 1
		return []domain.Event{&d}, nil

	case EventTransferSingle:
		id, err := resultBigInt(raw, e, "id")
		if err != nil {
			return nil, err
		}
		amount, err := resultAmount(raw, e, "value")
		if err != nil {
			return nil, err
		}
		d := base
		d.TokenID = id.String()
		d.Amount = amount
		return []domain.Event{&d}, nil

	case EventTransferBatch:
		ids, err := resultBigInts(raw, e, "ids")
		if err != nil {
			return nil, err
		}
		amounts, err := resultBigInts(raw, e, "values")
		if err != nil {
			return nil, err
		}
		if len(ids) != len(amounts) {
			return nil, scanner.Malformed(raw, "TransferBatch with %d ids and %d values", len(ids), len(amounts))
		}

		events := make([]domain.Event, 0, len(ids))
		for i := range ids {
			if !amounts[i].IsInt64() || amounts[i].Sign() < 0 {
				return nil, scanner.Malformed(raw, "TransferBatch value out of range")
			}
			d := base
			d.TokenID = ids[i].String()
			d.Amount = amounts[i].Int64()
			events = append(events, &d)
		}
		return events, nil

	default:
		return nil, scanner.Malformed(raw, "unexpected event %s", e.EventName)
	}
}

type buyScanner struct {
	*eventSource
}

func (s *buyScanner) FetchBuys(ctx context.Context, exchange string, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	return s.fetch(ctx, exchange, []string{EventExchangeMade}, fromBlock, toBlock)
}

func (s *buyScanner) ParseBuy(_ context.Context, raw scanner.RawEvent) ([]domain.Event, error) {
	e, err := payload(raw)
	if err != nil {
		return nil, err
	}

	addresses := make(map[string]string, 4)
	for _, field := range []string{"seller", "sellTokenAddress", "buyer", "buyTokenAddress"} {
		addr, err := resultAddress(raw, e, field)
		if err != nil {
			return nil, err
		}
		addresses[field] = addr
	}

	sellID, err := resultBigInt(raw, e, "sellId")
	if err != nil {
		return nil, err
	}
	amount, err := resultAmount(raw, e, "sellAmount")
	if err != nil {
		return nil, err
	}
	price, err := resultBigInt(raw, e, "buyAmount")
	if err != nil {
		return nil, err
	}

	return []domain.Event{&domain.BuyData{
		Buyer:             addresses["buyer"],
		Seller:            addresses["seller"],
		Price:             price,
		Amount:            amount,
		TokenID:           sellID.String(),
		TxHash:            e.TransactionID,
		CollectionAddress: addresses["sellTokenAddress"],
		CurrencyAddress:   addresses["buyTokenAddress"],
		BlockNumber:       e.BlockNumber,
		LogIndex:          e.EventIndex,
	}}, nil
}

type approveScanner struct {
	*eventSource
}

func (s *approveScanner) FetchApprovals(ctx context.Context, currency string, fromBlock, toBlock uint64) ([]scanner.RawEvent, error) {
	return s.fetch(ctx, currency, []string{EventApproval}, fromBlock, toBlock)
}

func (s *approveScanner) ParseApproval(_ context.Context, raw scanner.RawEvent) ([]domain.Event, error) {
	e, err := payload(raw)
	if err != nil {
		return nil, err
	}

	currency, err := domain.NormalizeTronAddress(e.ContractAddress)
	if err != nil {
		return nil, scanner.Malformed(raw, "contract address: %v", err)
	}
	owner, err := resultAddress(raw, e, "owner")
	if err != nil {
		return nil, err
	}
	spender, err := resultAddress(raw, e, "spender")
	if err != nil {
		return nil, err
	}
	value, err := resultBigInt(raw, e, "value")
	if err != nil {
		return nil, err
	}

	return []domain.Event{&domain.ApproveData{
		Exchange:        spender,
		User:            owner,
		AllowanceAmount: value,
		Currency:        currency,
		TxHash:          e.TransactionID,
		BlockNumber:     e.BlockNumber,
		LogIndex:        e.EventIndex,
	}}, nil
}

// Scanner is the Tron event source, composed of one scanner per category
type Scanner struct {
	*deployScanner
	*mintScanner
	*buyScanner
	*approveScanner
}

// NewScanner creates the Tron event source of a network
func NewScanner(client Client, blocks block.Provider) scanner.Scanner {
	src := &eventSource{client: client, blocks: blocks}
	return &Scanner{
		deployScanner:  &deployScanner{src},
		mintScanner:    &mintScanner{src},
		buyScanner:     &buyScanner{src},
		approveScanner: &approveScanner{src},
	}
}
