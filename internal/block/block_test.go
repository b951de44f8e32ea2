package block_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-indexer/internal/block"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testBlockProviderMocks contains all the mocks needed for testing the block provider
type testBlockProviderMocks struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockBlockFetcher
	clock    *mocks.MockClock
	provider block.Provider
}

func setupTest(t *testing.T) *testBlockProviderMocks {
	ctrl := gomock.NewController(t)

	mockFetcher := mocks.NewMockBlockFetcher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	provider, err := block.NewProvider(mockFetcher, block.Config{
		TTL:                10 * time.Second,
		StaleWindow:        2 * time.Minute,
		TimestampCacheSize: 2,
	}, mockClock)
	require.NoError(t, err)

	return &testBlockProviderMocks{
		ctrl:     ctrl,
		fetcher:  mockFetcher,
		clock:    mockClock,
		provider: provider,
	}
}

func tearDownTest(tm *testBlockProviderMocks) {
	tm.ctrl.Finish()
}

func TestProvider_Height_FirstFetch(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1000), nil)

	height, err := tm.provider.Height(ctx)

	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestProvider_Height_UsesCache_WithinTTL(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1000), nil)

	_, err := tm.provider.Height(ctx)
	require.NoError(t, err)

	// Within TTL the fetcher is not called again
	tm.clock.EXPECT().Now().Return(now.Add(5 * time.Second))

	height, err := tm.provider.Height(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestProvider_Height_RefreshesCache_AfterTTL(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		tm.clock.EXPECT().Now().Return(now),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1000), nil),
		tm.clock.EXPECT().Now().Return(now.Add(11*time.Second)),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1005), nil),
	)

	_, err := tm.provider.Height(ctx)
	require.NoError(t, err)

	height, err := tm.provider.Height(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1005), height)
}

func TestProvider_Height_NeverMovesBackwards(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		tm.clock.EXPECT().Now().Return(now),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1000), nil),
		tm.clock.EXPECT().Now().Return(now.Add(11*time.Second)),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(998), nil),
	)

	_, err := tm.provider.Height(ctx)
	require.NoError(t, err)

	height, err := tm.provider.Height(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestProvider_Height_UsesStaleCacheOnError_WithinStaleWindow(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		tm.clock.EXPECT().Now().Return(now),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1000), nil),
		tm.clock.EXPECT().Now().Return(now.Add(time.Minute)),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(0), errors.New("rpc unavailable")),
	)

	_, err := tm.provider.Height(ctx)
	require.NoError(t, err)

	height, err := tm.provider.Height(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestProvider_Height_ReturnsError_WhenNoCache_AndFetchFails(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(0), errors.New("rpc unavailable"))

	height, err := tm.provider.Height(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rpc unavailable")
	assert.Equal(t, uint64(0), height)
}

func TestProvider_Height_ReturnsError_WhenStaleCache_BeyondStaleWindow(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		tm.clock.EXPECT().Now().Return(now),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1000), nil),
		tm.clock.EXPECT().Now().Return(now.Add(3*time.Minute)),
		tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(0), errors.New("rpc unavailable")),
	)

	_, err := tm.provider.Height(ctx)
	require.NoError(t, err)

	_, err = tm.provider.Height(ctx)
	assert.Error(t, err)
}

func TestProvider_Height_ConcurrentAccess(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.fetcher.EXPECT().FetchHeight(ctx).Return(uint64(1000), nil).AnyTimes()
	tm.clock.EXPECT().Now().Return(now).AnyTimes()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			height, err := tm.provider.Height(ctx)
			assert.NoError(t, err)
			assert.Equal(t, uint64(1000), height)
		}()
	}
	wg.Wait()
}

func TestProvider_BlockTimestamp_CachesResult(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	blockTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1000)).Return(blockTime, nil).Times(1)

	for range 3 {
		ts, err := tm.provider.BlockTimestamp(ctx, 1000)
		assert.NoError(t, err)
		assert.Equal(t, blockTime, ts)
	}
}

func TestProvider_BlockTimestamp_EvictsLeastRecentlyUsed(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1)).Return(base, nil).Times(2)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(2)).Return(base.Add(3*time.Second), nil).Times(1)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(3)).Return(base.Add(6*time.Second), nil).Times(1)

	for _, n := range []uint64{1, 2, 3, 1} {
		_, err := tm.provider.BlockTimestamp(ctx, n)
		require.NoError(t, err)
	}
}

func TestProvider_BlockTimestamp_ReturnsError_WhenFetchFails(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1000)).Return(time.Time{}, errors.New("block not found"))

	_, err := tm.provider.BlockTimestamp(ctx, 1000)
	assert.ErrorContains(t, err, "block not found")
}
