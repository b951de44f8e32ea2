package ethereum_test

import (
	"context"
	"math/big"
	"os"
	"testing"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/gateway"
	"github.com/feral-file/marketplace-indexer/internal/logger"
	"github.com/feral-file/marketplace-indexer/internal/mocks"
	"github.com/feral-file/marketplace-indexer/internal/providers/ethereum"
	"github.com/feral-file/marketplace-indexer/internal/scanner"
)

var (
	collection = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	alice      = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob        = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	currency   = common.HexToAddress("0x0000000000000000000000000000000000c0ffee")
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

// testScannerMocks contains all the mocks needed for testing the EVM scanner
type testScannerMocks struct {
	ctrl    *gomock.Controller
	client  *mocks.MockEthClient
	scanner scanner.Scanner
}

func setupScanner(t *testing.T) *testScannerMocks {
	ctrl := gomock.NewController(t)
	tm := &testScannerMocks{
		ctrl:   ctrl,
		client: mocks.NewMockEthClient(ctrl),
	}
	tm.scanner = ethereum.NewScanner(tm.client)
	return tm
}

func topicID(t *testing.T, ct domain.ContractType, name string) common.Hash {
	t.Helper()
	event, ok := gateway.MustABI(ct).Events[name]
	require.True(t, ok, "event %s missing from %s abi", name, ct)
	return event.ID
}

func packData(t *testing.T, ct domain.ContractType, name string, values ...interface{}) []byte {
	t.Helper()
	data, err := gateway.MustABI(ct).Events[name].Inputs.NonIndexed().Pack(values...)
	require.NoError(t, err)
	return data
}

func addressTopic(a common.Address) common.Hash {
	return common.BytesToHash(a.Bytes())
}

func rawOf(l types.Log) scanner.RawEvent {
	return scanner.RawEvent{BlockNumber: l.BlockNumber, TxHash: l.TxHash.Hex(), LogIndex: l.Index, Payload: l}
}

func TestScanner_FetchMints_ERC1155Query(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	kept := types.Log{Address: collection, BlockNumber: 105, TxHash: common.HexToHash("0x01"), Index: 3}
	removed := types.Log{Address: collection, BlockNumber: 106, TxHash: common.HexToHash("0x02"), Removed: true}

	tm.client.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q goethereum.FilterQuery) ([]types.Log, error) {
			assert.Equal(t, uint64(100), q.FromBlock.Uint64())
			assert.Equal(t, uint64(110), q.ToBlock.Uint64())
			assert.Equal(t, []common.Address{collection}, q.Addresses)
			require.Len(t, q.Topics, 1)
			assert.Equal(t, []common.Hash{
				topicID(t, domain.ContractTypeERC1155, ethereum.EventTransferSingle),
				topicID(t, domain.ContractTypeERC1155, ethereum.EventTransferBatch),
			}, q.Topics[0])
			return []types.Log{kept, removed}, nil
		})

	raws, err := tm.scanner.FetchMints(context.Background(), collection.Hex(), domain.ContractTypeFabric1155, 100, 110)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, uint64(105), raws[0].BlockNumber)
	assert.Equal(t, uint(3), raws[0].LogIndex)
	assert.Equal(t, kept.TxHash.Hex(), raws[0].TxHash)
}

func TestScanner_Fetch_Errors(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	_, err := tm.scanner.FetchApprovals(context.Background(), "not-an-address", 1, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)

	_, err = tm.scanner.FetchDeploys(context.Background(), collection.Hex(), domain.ContractTypeERC20, 1, 2)
	assert.Error(t, err)

	tm.client.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
	_, err = tm.scanner.FetchBuys(context.Background(), collection.Hex(), 1, 2)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "[1, 2]")
}

func TestScanner_ParseDeploy(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	l := types.Log{
		Address:     bob,
		Topics:      []common.Hash{topicID(t, domain.ContractTypeFabric721, ethereum.EventERC721Made)},
		Data:        packData(t, domain.ContractTypeFabric721, ethereum.EventERC721Made, collection, "Genesis", "GEN"),
		BlockNumber: 120,
		TxHash:      common.HexToHash("0xd3"),
	}

	events, err := tm.scanner.ParseDeploy(context.Background(), rawOf(l), domain.ContractTypeFabric721)
	require.NoError(t, err)
	require.Len(t, events, 1)

	d := events[0].(*domain.DeployData)
	assert.Equal(t, "Genesis", d.CollectionName)
	assert.Equal(t, collection.Hex(), d.Address)
	assert.Equal(t, uint64(120), d.DeployBlock)
	assert.Equal(t, domain.ContractTypeERC721, d.ContractType)
	assert.Equal(t, l.TxHash.Hex(), d.TxHash)
}

func TestScanner_ParseMint_ERC721Transfer(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	tokenID, _ := new(big.Int).SetString("12345678901234567890", 10)
	l := types.Log{
		Address: collection,
		Topics: []common.Hash{
			topicID(t, domain.ContractTypeERC721, ethereum.EventTransfer),
			addressTopic(common.Address{}),
			addressTopic(alice),
			common.BigToHash(tokenID),
		},
		BlockNumber: 130,
		Index:       2,
	}

	events, err := tm.scanner.ParseMint(context.Background(), rawOf(l), domain.ContractTypeERC721)
	require.NoError(t, err)
	require.Len(t, events, 1)

	d := events[0].(*domain.MintData)
	assert.Equal(t, "12345678901234567890", d.TokenID)
	assert.Equal(t, alice.Hex(), d.NewOwner)
	assert.Equal(t, domain.ETHEREUM_ZERO_ADDRESS, d.OldOwner)
	assert.Equal(t, int64(1), d.Amount)
	assert.Equal(t, collection.Hex(), d.Contract)
	assert.Equal(t, domain.TransferKindMint, d.Kind(domain.ETHEREUM_ZERO_ADDRESS))
	assert.Equal(t, uint(2), d.LogIndex)
}

func TestScanner_ParseMint_TransferSingle(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	l := types.Log{
		Address: collection,
		Topics: []common.Hash{
			topicID(t, domain.ContractTypeERC1155, ethereum.EventTransferSingle),
			addressTopic(bob),
			addressTopic(alice),
			addressTopic(bob),
		},
		Data:        packData(t, domain.ContractTypeERC1155, ethereum.EventTransferSingle, big.NewInt(7), big.NewInt(4)),
		BlockNumber: 131,
	}

	events, err := tm.scanner.ParseMint(context.Background(), rawOf(l), domain.ContractTypeFabric1155)
	require.NoError(t, err)
	require.Len(t, events, 1)

	d := events[0].(*domain.MintData)
	assert.Equal(t, "7", d.TokenID)
	assert.Equal(t, int64(4), d.Amount)
	assert.Equal(t, alice.Hex(), d.OldOwner)
	assert.Equal(t, bob.Hex(), d.NewOwner)
	assert.Equal(t, domain.ContractTypeERC1155, d.Standard)
	assert.Equal(t, domain.TransferKindTransfer, d.Kind(domain.ETHEREUM_ZERO_ADDRESS))
}

func TestScanner_ParseMint_TransferBatchExpands(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	l := types.Log{
		Address: collection,
		Topics: []common.Hash{
			topicID(t, domain.ContractTypeERC1155, ethereum.EventTransferBatch),
			addressTopic(alice),
			addressTopic(alice),
			addressTopic(common.Address{}),
		},
		Data: packData(t, domain.ContractTypeERC1155, ethereum.EventTransferBatch,
			[]*big.Int{big.NewInt(1), big.NewInt(2)},
			[]*big.Int{big.NewInt(3), big.NewInt(4)},
		),
		BlockNumber: 140,
		Index:       6,
	}

	events, err := tm.scanner.ParseMint(context.Background(), rawOf(l), domain.ContractTypeERC1155)
	require.NoError(t, err)
	require.Len(t, events, 2)

	first, second := events[0].(*domain.MintData), events[1].(*domain.MintData)
	assert.Equal(t, "1", first.TokenID)
	assert.Equal(t, int64(3), first.Amount)
	assert.Equal(t, "2", second.TokenID)
	assert.Equal(t, int64(4), second.Amount)
	assert.Equal(t, uint(6), second.LogIndex)
	assert.Equal(t, domain.TransferKindBurn, second.Kind(domain.ETHEREUM_ZERO_ADDRESS))
}

func TestScanner_ParseMint_Malformed(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	huge := new(big.Int).Lsh(big.NewInt(1), 100)

	tests := []struct {
		name string
		log  types.Log
	}{
		{
			name: "no topics",
			log:  types.Log{Address: collection},
		},
		{
			name: "erc20 style transfer",
			log: types.Log{Address: collection, Topics: []common.Hash{
				topicID(t, domain.ContractTypeERC721, ethereum.EventTransfer),
				addressTopic(alice),
				addressTopic(bob),
			}},
		},
		{
			name: "unknown topic",
			log:  types.Log{Address: collection, Topics: []common.Hash{common.HexToHash("0xdead")}},
		},
		{
			name: "amount out of range",
			log: types.Log{
				Address: collection,
				Topics: []common.Hash{
					topicID(t, domain.ContractTypeERC1155, ethereum.EventTransferSingle),
					addressTopic(bob), addressTopic(alice), addressTopic(bob),
				},
				Data: packData(t, domain.ContractTypeERC1155, ethereum.EventTransferSingle, big.NewInt(1), huge),
			},
		},
		{
			name: "truncated data",
			log: types.Log{
				Address: collection,
				Topics: []common.Hash{
					topicID(t, domain.ContractTypeERC1155, ethereum.EventTransferSingle),
					addressTopic(bob), addressTopic(alice), addressTopic(bob),
				},
				Data: []byte{0x01},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.scanner.ParseMint(context.Background(), rawOf(tt.log), domain.ContractTypeERC1155)
			assert.ErrorIs(t, err, domain.ErrMalformedEvent)
		})
	}

	_, err := tm.scanner.ParseMint(context.Background(), scanner.RawEvent{Payload: "not a log"}, domain.ContractTypeERC721)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestScanner_ParseBuy(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	l := types.Log{
		Topics: []common.Hash{topicID(t, domain.ContractTypeExchange, ethereum.EventExchangeMade)},
		Data: packData(t, domain.ContractTypeExchange, ethereum.EventExchangeMade,
			alice, collection, big.NewInt(7), big.NewInt(2),
			bob, currency, big.NewInt(0), big.NewInt(5_000_000),
		),
		BlockNumber: 150,
		TxHash:      common.HexToHash("0x5a1e"),
		Index:       9,
	}

	events, err := tm.scanner.ParseBuy(context.Background(), rawOf(l))
	require.NoError(t, err)
	require.Len(t, events, 1)

	d := events[0].(*domain.BuyData)
	assert.Equal(t, alice.Hex(), d.Seller)
	assert.Equal(t, bob.Hex(), d.Buyer)
	assert.Equal(t, collection.Hex(), d.CollectionAddress)
	assert.Equal(t, currency.Hex(), d.CurrencyAddress)
	assert.Equal(t, "7", d.TokenID)
	assert.Equal(t, int64(2), d.Amount)
	assert.Equal(t, 0, d.Price.Cmp(big.NewInt(5_000_000)))
	assert.Equal(t, uint64(150), d.BlockNumber)
	assert.Equal(t, uint(9), d.LogIndex)
}

func TestScanner_ParseApproval(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	maxAllowance := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	l := types.Log{
		Address: currency,
		Topics: []common.Hash{
			topicID(t, domain.ContractTypeERC20, ethereum.EventApproval),
			addressTopic(alice),
			addressTopic(bob),
		},
		Data:        packData(t, domain.ContractTypeERC20, ethereum.EventApproval, maxAllowance),
		BlockNumber: 160,
	}

	events, err := tm.scanner.ParseApproval(context.Background(), rawOf(l))
	require.NoError(t, err)
	require.Len(t, events, 1)

	d := events[0].(*domain.ApproveData)
	assert.Equal(t, alice.Hex(), d.User)
	assert.Equal(t, bob.Hex(), d.Exchange)
	assert.Equal(t, currency.Hex(), d.Currency)
	assert.Equal(t, 256, d.AllowanceAmount.BitLen())

	l.Topics = l.Topics[:2]
	_, err = tm.scanner.ParseApproval(context.Background(), rawOf(l))
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestBlockFetcher(t *testing.T) {
	tm := setupScanner(t)
	defer tm.ctrl.Finish()

	fetcher := ethereum.NewBlockFetcher(tm.client)

	tm.client.EXPECT().BlockNumber(gomock.Any()).Return(uint64(19_000_000), nil)
	tm.client.EXPECT().HeaderByNumber(gomock.Any(), big.NewInt(42)).Return(&types.Header{Time: 1_700_000_000}, nil)
	tm.client.EXPECT().HeaderByNumber(gomock.Any(), big.NewInt(43)).Return(nil, assert.AnError)

	height, err := fetcher.FetchHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(19_000_000), height)

	ts, err := fetcher.FetchBlockTimestamp(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), ts.Unix())

	_, err = fetcher.FetchBlockTimestamp(context.Background(), 43)
	assert.ErrorIs(t, err, assert.AnError)
}
