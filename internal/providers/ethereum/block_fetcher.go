package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/block"
)

// blockFetcher implements block.Fetcher over JSON-RPC
type blockFetcher struct {
	client adapter.EthClient
}

// NewBlockFetcher creates a block.Fetcher backed by an Ethereum client
func NewBlockFetcher(client adapter.EthClient) block.Fetcher {
	return &blockFetcher{client: client}
}

// FetchHeight fetches the latest block number
func (f *blockFetcher) FetchHeight(ctx context.Context) (uint64, error) {
	n, err := f.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return n, nil
}

// FetchBlockTimestamp fetches the timestamp of a block from its header
func (f *blockFetcher) FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := f.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get block %d: %w", blockNumber, err)
	}
	return time.Unix(int64(header.Time), 0), nil //nolint:gosec,G115
}
