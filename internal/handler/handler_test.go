package handler_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/handler"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/mocks"
	"github.com/feral-file/marketplace-indexer/internal/store"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

const (
	testNetwork    = "ethereum"
	testExchange   = "0x1111111111111111111111111111111111111111"
	testCollection = "0x2222222222222222222222222222222222222222"
	testCurrency   = "0x3333333333333333333333333333333333333333"
	alice          = "0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa"
	bob            = "0xBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBb"
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

// testHandlerMocks contains all the mocks needed for testing the handlers
type testHandlerMocks struct {
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	gateway *mocks.MockGateway
	logs    *observer.ObservedLogs
	deps    handler.Deps
}

func setupTest(t *testing.T) *testHandlerMocks {
	ctrl := gomock.NewController(t)

	tm := &testHandlerMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		gateway: mocks.NewMockGateway(ctrl),
	}

	core, logs := observer.New(zapcore.DebugLevel)
	tm.logs = logs

	currencies, err := handler.NewCurrencyCache(tm.store, 0)
	require.NoError(t, err)

	tm.deps = handler.Deps{
		Store:   tm.store,
		Gateway: tm.gateway,
		Network: domain.Network{
			Name:            testNetwork,
			Family:          domain.ChainFamilyEVM,
			ExchangeAddress: testExchange,
		},
		Loggers:    logger.NewRegistryWithBase(func() *zap.Logger { return zap.New(core) }),
		Currencies: currencies,
	}
	return tm
}

func tearDownTest(tm *testHandlerMocks) {
	tm.ctrl.Finish()
}

// newHandler builds the handler of a category and runs its transactions against the mock store
func (tm *testHandlerMocks) newHandler(t *testing.T, category domain.EventCategory) handler.Handler {
	h, err := handler.New(category, tm.deps)
	require.NoError(t, err)
	return h
}

// expectTransaction makes WithTransaction run its callback on the mock store
func (tm *testHandlerMocks) expectTransaction() *gomock.Call {
	return tm.store.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(store.Store) error) error {
			return fn(tm.store)
		})
}

func strPtr(s string) *string {
	return &s
}

func TestNew_UnsupportedCategory(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	_, err := handler.New(domain.EventCategory("listing"), tm.deps)
	assert.ErrorIs(t, err, domain.ErrUnsupportedCategory)
}

func TestHandlers_RejectForeignEvents(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	deploy := &domain.DeployData{CollectionName: "Genesis"}
	for _, category := range []domain.EventCategory{
		domain.EventCategoryMint,
		domain.EventCategoryBuy,
		domain.EventCategoryApprove,
	} {
		err := tm.newHandler(t, category).Save(context.Background(), deploy)
		assert.ErrorIs(t, err, domain.ErrMalformedEvent, category)
	}

	err := tm.newHandler(t, domain.EventCategoryDeploy).Save(context.Background(), &domain.MintData{})
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestDeployHandler_CommitsPendingCollection(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	event := &domain.DeployData{
		CollectionName: "Genesis",
		Address:        testCollection,
		DeployBlock:    18_000_123,
		ContractType:   domain.ContractTypeERC721,
		TxHash:         "0xdeploy",
	}

	tm.expectTransaction()
	tm.store.EXPECT().GetPendingCollectionByName(gomock.Any(), testNetwork, "Genesis").Return(&schema.Collection{
		ID:       7,
		Network:  testNetwork,
		Name:     "Genesis",
		Standard: domain.ContractTypeERC721,
		Status:   schema.CollectionStatusPending,
	}, nil)
	tm.store.EXPECT().CommitCollection(gomock.Any(), int64(7), testCollection, uint64(18_000_123)).Return(nil)

	require.NoError(t, tm.newHandler(t, domain.EventCategoryDeploy).Save(context.Background(), event))
}

func TestDeployHandler_SkipsUnknownOrCommittedCollection(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.expectTransaction()
	tm.store.EXPECT().GetPendingCollectionByName(gomock.Any(), testNetwork, "Genesis").Return(nil, nil)

	err := tm.newHandler(t, domain.EventCategoryDeploy).Save(context.Background(), &domain.DeployData{
		CollectionName: "Genesis",
		Address:        testCollection,
	})
	require.NoError(t, err)
}

func TestDeployHandler_PropagatesStoreError(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	dbErr := errors.New("connection reset")
	tm.expectTransaction()
	tm.store.EXPECT().GetPendingCollectionByName(gomock.Any(), testNetwork, "Genesis").Return(nil, dbErr)

	err := tm.newHandler(t, domain.EventCategoryDeploy).Save(context.Background(), &domain.DeployData{CollectionName: "Genesis"})
	assert.ErrorIs(t, err, dbErr)
}

func TestCurrencyCache_CachesHitsOnly(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	usdc := &schema.Currency{ID: 3, Network: testNetwork, Address: testCurrency, Symbol: "USDC", Decimals: 6}

	tm.store.EXPECT().GetCurrencyByAddress(gomock.Any(), testNetwork, testCurrency).Return(usdc, nil).Times(1)
	tm.store.EXPECT().GetCurrencyByAddress(gomock.Any(), testNetwork, alice).Return(nil, nil).Times(2)

	for i := 0; i < 2; i++ {
		currency, err := tm.deps.Currencies.Get(ctx, testNetwork, testCurrency)
		require.NoError(t, err)
		require.NotNil(t, currency)
		assert.Equal(t, "USDC", currency.Symbol)

		missing, err := tm.deps.Currencies.Get(ctx, testNetwork, alice)
		require.NoError(t, err)
		assert.Nil(t, missing)
	}
}
