package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/handler"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/mocks"
	"github.com/feral-file/marketplace-indexer/internal/orchestrator"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

// testLauncherMocks contains all the mocks needed for testing the launcher
type testLauncherMocks struct {
	ctrl        *gomock.Controller
	store       *mocks.MockStore
	checkpoints *mocks.MockCheckpointStore
	scanner     *mocks.MockScanner
	blocks      *mocks.MockBlockProvider
	clock       *mocks.MockClock
	launcher    *orchestrator.Launcher
}

func setupLauncher(t *testing.T, network domain.Network, handlers map[domain.EventCategory]handler.Handler) *testLauncherMocks {
	ctrl := gomock.NewController(t)

	tm := &testLauncherMocks{
		ctrl:        ctrl,
		store:       mocks.NewMockStore(ctrl),
		checkpoints: mocks.NewMockCheckpointStore(ctrl),
		scanner:     mocks.NewMockScanner(ctrl),
		blocks:      mocks.NewMockBlockProvider(ctrl),
		clock:       mocks.NewMockClock(ctrl),
	}

	if handlers == nil {
		h := mocks.NewMockHandler(ctrl)
		handlers = map[domain.EventCategory]handler.Handler{
			domain.EventCategoryDeploy:  h,
			domain.EventCategoryMint:    h,
			domain.EventCategoryBuy:     h,
			domain.EventCategoryApprove: h,
		}
	}

	tm.launcher = orchestrator.NewLauncher(orchestrator.Config{
		PollInterval:      15 * time.Second,
		MaxBlockRange:     domain.DEFAULT_MAX_BLOCK_RANGE,
		WindowSize:        domain.DEFAULT_WINDOW_SIZE,
		RestartBackoff:    10 * time.Second,
		DiscoveryInterval: time.Minute,
	}, []orchestrator.NetworkRuntime{{
		Network:  network,
		Scanner:  tm.scanner,
		Blocks:   tm.blocks,
		Handlers: handlers,
	}}, tm.store, tm.checkpoints, nil, tm.clock, logger.NewRegistry())

	// started streams park on their first checkpoint read until the test cancels them
	tm.checkpoints.EXPECT().GetCheckpoint(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.StreamKey) (uint64, bool, error) {
			<-ctx.Done()
			return 0, false, ctx.Err()
		}).AnyTimes()

	return tm
}

func testEVMNetwork() domain.Network {
	return domain.Network{
		Name:               testNetwork,
		Family:             domain.ChainFamilyEVM,
		ConfirmationMargin: 3,
		ExchangeAddress:    "0x1111111111111111111111111111111111111111",
		FabricAddresses: map[domain.ContractType]string{
			domain.ContractTypeFabric721:  "0x2222222222222222222222222222222222222222",
			domain.ContractTypeFabric1155: "0x3333333333333333333333333333333333333333",
		},
	}
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestLauncher_Discover_StartsMintAndApproveStreams(t *testing.T) {
	tm := setupLauncher(t, testEVMNetwork(), nil)
	defer tm.ctrl.Finish()

	ctx := cancelledContext()
	address := testCollection

	tm.store.EXPECT().GetCommittedCollections(gomock.Any(), testNetwork).Return([]schema.Collection{
		{ID: 1, Network: testNetwork, Name: "Genesis", Address: &address, Standard: domain.ContractTypeERC721, Status: schema.CollectionStatusCommitted},
		{ID: 2, Network: testNetwork, Name: "Broken", Standard: domain.ContractTypeERC721, Status: schema.CollectionStatusCommitted},
	}, nil).Times(2)
	tm.store.EXPECT().GetCurrencies(gomock.Any(), testNetwork).Return([]schema.Currency{
		{ID: 1, Network: testNetwork, Address: domain.ETHEREUM_ZERO_ADDRESS, Symbol: "ETH", Decimals: 18},
		{ID: 2, Network: testNetwork, Address: "0x4444444444444444444444444444444444444444", Symbol: "USDC", Decimals: 6},
	}, nil).Times(2)

	require.NoError(t, tm.launcher.Discover(ctx))
	assert.Equal(t, 2, tm.launcher.StreamCount())

	// a second pass starts nothing new
	require.NoError(t, tm.launcher.Discover(ctx))
	assert.Equal(t, 2, tm.launcher.StreamCount())

	tm.launcher.Wait()
}

func TestLauncher_Discover_ReturnsStoreError(t *testing.T) {
	tm := setupLauncher(t, testEVMNetwork(), nil)
	defer tm.ctrl.Finish()

	tm.store.EXPECT().GetCommittedCollections(gomock.Any(), testNetwork).Return(nil, errors.New("db down"))

	err := tm.launcher.Discover(cancelledContext())
	assert.EqualError(t, err, "db down")
	assert.Equal(t, 0, tm.launcher.StreamCount())
	tm.launcher.Wait()
}

func TestLauncher_Run_StartsConfiguredStreams(t *testing.T) {
	tm := setupLauncher(t, testEVMNetwork(), nil)
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.store.EXPECT().GetCommittedCollections(gomock.Any(), testNetwork).Return(nil, nil)
	tm.store.EXPECT().GetCurrencies(gomock.Any(), testNetwork).Return(nil, nil)
	tm.clock.EXPECT().SleepContext(gomock.Any(), time.Minute).DoAndReturn(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	// two fabric deploy streams and the exchange buy stream
	require.NoError(t, tm.launcher.Run(ctx))
	assert.Equal(t, 3, tm.launcher.StreamCount())
}

func TestLauncher_SkipsCategoriesWithoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHandler(ctrl)

	network := testEVMNetwork()
	tm := setupLauncher(t, network, map[domain.EventCategory]handler.Handler{
		domain.EventCategoryBuy: h,
	})
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.store.EXPECT().GetCommittedCollections(gomock.Any(), testNetwork).Return(nil, nil)
	tm.store.EXPECT().GetCurrencies(gomock.Any(), testNetwork).Return(nil, nil)
	tm.clock.EXPECT().SleepContext(gomock.Any(), time.Minute).DoAndReturn(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	require.NoError(t, tm.launcher.Run(ctx))
	assert.Equal(t, 1, tm.launcher.StreamCount())
}

func TestLauncher_Run_EveryStreamPolls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	checkpoints := mocks.NewMockCheckpointStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	h := mocks.NewMockHandler(ctrl)
	handlers := map[domain.EventCategory]handler.Handler{
		domain.EventCategoryDeploy:  h,
		domain.EventCategoryMint:    h,
		domain.EventCategoryBuy:     h,
		domain.EventCategoryApprove: h,
	}

	launcher := orchestrator.NewLauncher(orchestrator.Config{
		PollInterval:      15 * time.Second,
		MaxBlockRange:     domain.DEFAULT_MAX_BLOCK_RANGE,
		WindowSize:        domain.DEFAULT_WINDOW_SIZE,
		RestartBackoff:    10 * time.Second,
		DiscoveryInterval: time.Minute,
	}, []orchestrator.NetworkRuntime{{
		Network:  testEVMNetwork(),
		Scanner:  mocks.NewMockScanner(ctrl),
		Blocks:   mocks.NewMockBlockProvider(ctrl),
		Handlers: handlers,
	}}, st, checkpoints, nil, clock, logger.NewRegistry())

	var collections []schema.Collection
	for i := 0; i < 40; i++ {
		address := fmt.Sprintf("0x%040x", 0xc000+i)
		collections = append(collections, schema.Collection{
			ID: int64(i + 1), Network: testNetwork, Address: &address,
			Standard: domain.ContractTypeERC721, Status: schema.CollectionStatusCommitted,
		})
	}
	currencies := []schema.Currency{{ID: 1, Network: testNetwork, Address: domain.ETHEREUM_ZERO_ADDRESS, Symbol: "ETH", Decimals: 18}}
	for i := 0; i < 8; i++ {
		currencies = append(currencies, schema.Currency{
			ID: int64(i + 2), Network: testNetwork, Address: fmt.Sprintf("0x%040x", 0xe000+i), Symbol: fmt.Sprintf("T%d", i), Decimals: 6,
		})
	}
	// three configured streams, one mint stream per collection and one approve stream per token currency
	const want = 3 + 40 + 8

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st.EXPECT().GetCommittedCollections(gomock.Any(), testNetwork).Return(collections, nil).AnyTimes()
	st.EXPECT().GetCurrencies(gomock.Any(), testNetwork).Return(currencies, nil).AnyTimes()
	clock.EXPECT().SleepContext(gomock.Any(), time.Minute).DoAndReturn(func(ctx context.Context, _ time.Duration) error {
		<-ctx.Done()
		return ctx.Err()
	}).AnyTimes()

	var mu sync.Mutex
	polled := make(map[domain.StreamKey]struct{})
	checkpoints.EXPECT().GetCheckpoint(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, key domain.StreamKey) (uint64, bool, error) {
			mu.Lock()
			polled[key] = struct{}{}
			mu.Unlock()
			<-ctx.Done()
			return 0, false, ctx.Err()
		}).AnyTimes()

	done := make(chan error, 1)
	go func() { done <- launcher.Run(ctx) }()

	// every stream holds its worker until cancellation, so all of them must be running at once
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(polled) == want
	}, 10*time.Second, 10*time.Millisecond)
	assert.Equal(t, want, launcher.StreamCount())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("launcher did not stop")
	}
}
