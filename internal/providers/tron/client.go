package tron

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/block"
)

const (
	// APIKeyHeader carries the TronGrid API key
	APIKeyHeader = "TRON-PRO-API-KEY"

	// EventPageSize is the largest page TronGrid serves for contract events
	EventPageSize = 200

	// SolidifiedHeadPath serves the chain height. Event queries only return solidified blocks,
	// so the height must come from the same finality level or windows run past the events.
	SolidifiedHeadPath = "/walletsolidity/getnowblock"

	// OnlyConfirmedEvents restricts event queries to solidified blocks
	OnlyConfirmedEvents = true
)

// BlockHeader is the header of a Tron block as served by the full node API
type BlockHeader struct {
	BlockID     string `json:"blockID"`
	BlockHeader struct {
		RawData struct {
			Number    uint64 `json:"number"`
			Timestamp int64  `json:"timestamp"` // milliseconds
		} `json:"raw_data"`
	} `json:"block_header"`
}

// Number returns the block height
func (b *BlockHeader) Number() uint64 {
	return b.BlockHeader.RawData.Number
}

// Time returns the block timestamp
func (b *BlockHeader) Time() time.Time {
	return time.UnixMilli(b.BlockHeader.RawData.Timestamp)
}

// ContractEvent is one decoded event log served by TronGrid
type ContractEvent struct {
	BlockNumber     uint64                 `json:"block_number"`
	BlockTimestamp  int64                  `json:"block_timestamp"` // milliseconds
	ContractAddress string                 `json:"contract_address"`
	EventIndex      uint                   `json:"event_index"`
	EventName       string                 `json:"event_name"`
	Result          map[string]interface{} `json:"result"`
	TransactionID   string                 `json:"transaction_id"`
}

type eventsResponse struct {
	Data    []ContractEvent `json:"data"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Meta    struct {
		Fingerprint string `json:"fingerprint"`
		PageSize    int    `json:"page_size"`
	} `json:"meta"`
}

// EventQuery selects the events of one contract within a block timestamp range (inclusive)
type EventQuery struct {
	ContractAddress string
	EventName       string
	MinTimestamp    time.Time
	MaxTimestamp    time.Time
}

// TriggerRequest is the body of triggerconstantcontract and triggersmartcontract
type TriggerRequest struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
	FeeLimit         int64  `json:"fee_limit,omitempty"`
	CallValue        int64  `json:"call_value,omitempty"`
	Visible          bool   `json:"visible"`
}

type triggerResult struct {
	Result struct {
		Result  bool   `json:"result"`
		Code    string `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"result"`
	ConstantResult []string        `json:"constant_result,omitempty"`
	Transaction    json.RawMessage `json:"transaction,omitempty"`
}

func (r *triggerResult) err() error {
	if r.Result.Result {
		return nil
	}
	msg := r.Result.Message
	// the node hex-encodes its error messages
	if decoded, err := hexDecode(msg); err == nil {
		msg = string(decoded)
	}
	return fmt.Errorf("tron node rejected call: %s %s", r.Result.Code, msg)
}

// Client is the Tron full-node and TronGrid REST client
//
//go:generate mockgen -source=client.go -destination=../../mocks/tron_client.go -package=mocks -mock_names=Client=MockTronClient
type Client interface {
	// GetNowBlock returns the latest solidified block, the newest block confirmed events can come from
	GetNowBlock(ctx context.Context) (*BlockHeader, error)

	// GetBlockByNum returns the block at a height
	GetBlockByNum(ctx context.Context, number uint64) (*BlockHeader, error)

	// GetContractEvents returns every confirmed event matching the query, following fingerprint paging
	GetContractEvents(ctx context.Context, query EventQuery) ([]ContractEvent, error)

	// TriggerConstantContract executes a read-only call and returns the hex-encoded result
	TriggerConstantContract(ctx context.Context, req TriggerRequest) (string, error)

	// TriggerSmartContract builds an unsigned transaction calling a contract
	TriggerSmartContract(ctx context.Context, req TriggerRequest) (json.RawMessage, error)
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient adapter.HTTPClient
}

// NewClient creates a Tron API client; baseURL must not carry a trailing slash
func NewClient(baseURL, apiKey string, httpClient adapter.HTTPClient) Client {
	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{APIKeyHeader: c.apiKey}
}

func (c *client) GetNowBlock(ctx context.Context) (*BlockHeader, error) {
	var b BlockHeader
	if err := c.httpClient.PostJSON(ctx, c.baseURL+SolidifiedHeadPath, c.headers(), struct{}{}, &b); err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}
	return &b, nil
}

func (c *client) GetBlockByNum(ctx context.Context, number uint64) (*BlockHeader, error) {
	body := map[string]uint64{"num": number}

	var b BlockHeader
	if err := c.httpClient.PostJSON(ctx, c.baseURL+"/wallet/getblockbynum", c.headers(), body, &b); err != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", number, err)
	}
	if b.BlockID == "" {
		return nil, fmt.Errorf("block %d not found", number)
	}
	return &b, nil
}

func (c *client) GetContractEvents(ctx context.Context, query EventQuery) ([]ContractEvent, error) {
	var events []ContractEvent
	fingerprint := ""

	for {
		params := url.Values{}
		params.Set("event_name", query.EventName)
		params.Set("min_block_timestamp", strconv.FormatInt(query.MinTimestamp.UnixMilli(), 10))
		params.Set("max_block_timestamp", strconv.FormatInt(query.MaxTimestamp.UnixMilli(), 10))
		params.Set("order_by", "block_timestamp,asc")
		params.Set("only_confirmed", strconv.FormatBool(OnlyConfirmedEvents))
		params.Set("limit", strconv.Itoa(EventPageSize))
		if fingerprint != "" {
			params.Set("fingerprint", fingerprint)
		}

		u := fmt.Sprintf("%s/v1/contracts/%s/events?%s", c.baseURL, query.ContractAddress, params.Encode())

		var resp eventsResponse
		if err := c.httpClient.GetJSON(ctx, u, c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("failed to get %s events of %s: %w", query.EventName, query.ContractAddress, err)
		}
		if resp.Error != "" {
			return nil, fmt.Errorf("failed to get %s events of %s: %s", query.EventName, query.ContractAddress, resp.Error)
		}

		events = append(events, resp.Data...)

		if resp.Meta.Fingerprint == "" || len(resp.Data) == 0 {
			return events, nil
		}
		fingerprint = resp.Meta.Fingerprint
	}
}

func (c *client) TriggerConstantContract(ctx context.Context, req TriggerRequest) (string, error) {
	var resp triggerResult
	if err := c.httpClient.PostJSON(ctx, c.baseURL+"/wallet/triggerconstantcontract", c.headers(), req, &resp); err != nil {
		return "", fmt.Errorf("failed to call %s: %w", req.FunctionSelector, err)
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	if len(resp.ConstantResult) == 0 {
		return "", fmt.Errorf("%s returned no result", req.FunctionSelector)
	}
	return resp.ConstantResult[0], nil
}

func (c *client) TriggerSmartContract(ctx context.Context, req TriggerRequest) (json.RawMessage, error) {
	var resp triggerResult
	if err := c.httpClient.PostJSON(ctx, c.baseURL+"/wallet/triggersmartcontract", c.headers(), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to build %s transaction: %w", req.FunctionSelector, err)
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	if len(resp.Transaction) == 0 {
		return nil, fmt.Errorf("%s returned no transaction", req.FunctionSelector)
	}
	return resp.Transaction, nil
}

// blockFetcher serves chain heights and block timestamps to the block provider
type blockFetcher struct {
	client Client
}

// NewBlockFetcher creates a block.Fetcher backed by the Tron API
func NewBlockFetcher(client Client) block.Fetcher {
	return &blockFetcher{client: client}
}

func (f *blockFetcher) FetchHeight(ctx context.Context) (uint64, error) {
	b, err := f.client.GetNowBlock(ctx)
	if err != nil {
		return 0, err
	}
	return b.Number(), nil
}

func (f *blockFetcher) FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	b, err := f.client.GetBlockByNum(ctx, blockNumber)
	if err != nil {
		return time.Time{}, err
	}
	return b.Time(), nil
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
