package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

const (
	testNetwork = "ethereum"
	testAlice   = "0x00000000000000000000000000000000000A11cE"
	testBob     = "0x0000000000000000000000000000000000000B0b"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func stringPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

// seedCurrency registers a currency on the test network
func seedCurrency(t *testing.T, store Store, address, symbol string, decimals int32) *schema.Currency {
	t.Helper()
	c := &schema.Currency{Network: testNetwork, Address: address, Symbol: symbol, Decimals: decimals}
	require.NoError(t, store.CreateCurrency(context.Background(), c))
	return c
}

// seedCommittedCollection creates a collection and commits it at the given address
func seedCommittedCollection(t *testing.T, store Store, name, address string, standard domain.ContractType) *schema.Collection {
	t.Helper()
	ctx := context.Background()

	c := &schema.Collection{Network: testNetwork, Name: name, Standard: standard}
	require.NoError(t, store.CreateCollection(ctx, c))
	require.NoError(t, store.CommitCollection(ctx, c.ID, address, 100))

	committed, err := store.GetCollectionByAddress(ctx, testNetwork, address)
	require.NoError(t, err)
	require.NotNil(t, committed)
	return committed
}

// seedToken creates a pending token in a collection
func seedToken(t *testing.T, store Store, collectionID int64, ipfsHash string) *schema.Token {
	t.Helper()
	token := &schema.Token{CollectionID: collectionID, IPFSHash: ipfsHash, Name: "token " + ipfsHash, Status: schema.TokenStatusPending, TotalSupply: 1}
	require.NoError(t, store.CreateToken(context.Background(), token))
	return token
}

// =============================================================================
// Test: Collections
// =============================================================================

func testCollections(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("pending collection is found by name until committed", func(t *testing.T) {
		c := &schema.Collection{Network: testNetwork, Name: "Genesis", Standard: domain.ContractTypeERC721}
		require.NoError(t, store.CreateCollection(ctx, c))
		assert.NotZero(t, c.ID)

		pending, err := store.GetPendingCollectionByName(ctx, testNetwork, "Genesis")
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, c.ID, pending.ID)
		assert.Equal(t, schema.CollectionStatusPending, pending.Status)
		assert.Nil(t, pending.Address)

		other, err := store.GetPendingCollectionByName(ctx, "tron", "Genesis")
		require.NoError(t, err)
		assert.Nil(t, other)

		address := "0x1111111111111111111111111111111111111111"
		require.NoError(t, store.CommitCollection(ctx, c.ID, address, 4242))

		pending, err = store.GetPendingCollectionByName(ctx, testNetwork, "Genesis")
		require.NoError(t, err)
		assert.Nil(t, pending)

		committed, err := store.GetCollectionByAddress(ctx, testNetwork, address)
		require.NoError(t, err)
		require.NotNil(t, committed)
		assert.Equal(t, schema.CollectionStatusCommitted, committed.Status)
		require.NotNil(t, committed.DeployBlock)
		assert.Equal(t, int64(4242), *committed.DeployBlock)
	})

	t.Run("commit of a committed collection changes nothing", func(t *testing.T) {
		address := "0x2222222222222222222222222222222222222222"
		c := seedCommittedCollection(t, store, "Second", address, domain.ContractTypeERC1155)

		require.NoError(t, store.CommitCollection(ctx, c.ID, "0x3333333333333333333333333333333333333333", 9999))

		again, err := store.GetCollectionByAddress(ctx, testNetwork, address)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, int64(100), *again.DeployBlock)
	})

	t.Run("committed collections of a network", func(t *testing.T) {
		before, err := store.GetCommittedCollections(ctx, testNetwork)
		require.NoError(t, err)

		seedCommittedCollection(t, store, "Third", "0x4444444444444444444444444444444444444444", domain.ContractTypeERC721)
		require.NoError(t, store.CreateCollection(ctx, &schema.Collection{Network: testNetwork, Name: "Unminted", Standard: domain.ContractTypeERC721}))

		after, err := store.GetCommittedCollections(ctx, testNetwork)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)
		for _, c := range after {
			assert.Equal(t, schema.CollectionStatusCommitted, c.Status)
			assert.NotNil(t, c.Address)
		}
	})

	t.Run("unknown address", func(t *testing.T) {
		c, err := store.GetCollectionByAddress(ctx, testNetwork, "0x9999999999999999999999999999999999999999")
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}

// =============================================================================
// Test: Tokens
// =============================================================================

func testTokens(t *testing.T, store Store) {
	ctx := context.Background()
	collection := seedCommittedCollection(t, store, "Tokens", "0x5555555555555555555555555555555555555555", domain.ContractTypeERC721)
	currency := seedCurrency(t, store, "0x6666666666666666666666666666666666666666", "USDC", 6)

	t.Run("lock by ipfs hash then commit with an internal id", func(t *testing.T) {
		token := seedToken(t, store, collection.ID, "QmHashOne")

		err := store.WithTransaction(ctx, func(tx Store) error {
			locked, err := tx.LockTokenByIPFSHash(ctx, collection.ID, "QmHashOne")
			if err != nil {
				return err
			}
			require.NotNil(t, locked)
			assert.Equal(t, token.ID, locked.ID)

			locked.InternalID = stringPtr("42")
			locked.Status = schema.TokenStatusCommitted
			locked.OwnerAddress = stringPtr(testAlice)
			locked.Selling = true
			locked.Price = decimal.NewNullDecimal(decimal.RequireFromString("12.5"))
			locked.CurrencyID = int64Ptr(currency.ID)
			return tx.UpdateToken(ctx, locked)
		})
		require.NoError(t, err)

		got, err := store.LockTokenByInternalID(ctx, collection.ID, "42")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, schema.TokenStatusCommitted, got.Status)
		assert.Equal(t, testAlice, *got.OwnerAddress)
		assert.True(t, got.Selling)
		assert.True(t, got.Price.Valid)
		assert.True(t, decimal.RequireFromString("12.5").Equal(got.Price.Decimal))
		assert.Equal(t, currency.ID, *got.CurrencyID)
	})

	t.Run("missing tokens are nil", func(t *testing.T) {
		got, err := store.LockTokenByIPFSHash(ctx, collection.ID, "QmMissing")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = store.LockTokenByInternalID(ctx, collection.ID, "404")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = store.GetTokenByID(ctx, -1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("update does not touch immutable fields", func(t *testing.T) {
		token := seedToken(t, store, collection.ID, "QmHashTwo")
		token.IPFSHash = "QmChanged"
		token.Name = "renamed"
		token.TotalSupply = 7
		require.NoError(t, store.UpdateToken(ctx, token))

		got, err := store.GetTokenByID(ctx, token.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "QmHashTwo", got.IPFSHash)
		assert.Equal(t, "token QmHashTwo", got.Name)
		assert.Equal(t, int64(7), got.TotalSupply)
	})
}

// =============================================================================
// Test: Ownerships
// =============================================================================

func testOwnerships(t *testing.T, store Store) {
	ctx := context.Background()
	collection := seedCommittedCollection(t, store, "Editions", "0x7777777777777777777777777777777777777777", domain.ContractTypeERC1155)
	token := seedToken(t, store, collection.ID, "QmEdition")

	require.NoError(t, store.AdjustOwnership(ctx, token.ID, testAlice, 5))
	require.NoError(t, store.AdjustOwnership(ctx, token.ID, testAlice, 3))
	require.NoError(t, store.AdjustOwnership(ctx, token.ID, testBob, 2))

	alice, err := store.GetOwnership(ctx, token.ID, testAlice)
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, int64(8), alice.Quantity)

	sum, err := store.SumOwnership(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum)

	require.NoError(t, store.AdjustOwnership(ctx, token.ID, testAlice, -3))
	alice, err = store.GetOwnership(ctx, token.ID, testAlice)
	require.NoError(t, err)
	assert.Equal(t, int64(5), alice.Quantity)

	// rows are deleted instead of reaching zero
	require.NoError(t, store.AdjustOwnership(ctx, token.ID, testBob, -2))
	bob, err := store.GetOwnership(ctx, token.ID, testBob)
	require.NoError(t, err)
	assert.Nil(t, bob)

	// decreasing a missing row is a no-op
	require.NoError(t, store.AdjustOwnership(ctx, token.ID, testBob, -1))
	require.NoError(t, store.AdjustOwnership(ctx, token.ID, testBob, 0))

	ownerships, err := store.GetOwnerships(ctx, token.ID)
	require.NoError(t, err)
	require.Len(t, ownerships, 1)
	assert.Equal(t, testAlice, ownerships[0].OwnerAddress)

	sum, err = store.SumOwnership(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum)
}

// =============================================================================
// Test: Token history
// =============================================================================

func testTokenHistory(t *testing.T, store Store) {
	ctx := context.Background()
	collection := seedCommittedCollection(t, store, "History", "0x8888888888888888888888888888888888888888", domain.ContractTypeERC721)
	currency := seedCurrency(t, store, "0x8888888888888888888888888888888888888889", "WETH", 18)
	first := seedToken(t, store, collection.ID, "QmFirst")
	second := seedToken(t, store, collection.ID, "QmSecond")

	transfer := &schema.TokenHistory{
		TokenID:     first.ID,
		TxHash:      "0xtx1",
		Method:      schema.TokenHistoryMethodTransfer,
		FromAddress: stringPtr(testAlice),
		ToAddress:   stringPtr(testBob),
		Amount:      1,
		BlockNumber: int64Ptr(500),
		Raw:         datatypes.JSON(`{"token_id":"1"}`),
	}
	created, err := store.CreateTokenHistory(ctx, transfer)
	require.NoError(t, err)
	assert.True(t, created)

	dup := *transfer
	dup.ID = 0
	created, err = store.CreateTokenHistory(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created, "same token, tx and method")

	created, err = store.CreateTokenHistory(ctx, &schema.TokenHistory{TokenID: first.ID, TxHash: "0xtx1", Method: schema.TokenHistoryMethodListing})
	require.NoError(t, err)
	assert.True(t, created, "another method of the same transaction")

	created, err = store.CreateTokenHistory(ctx, &schema.TokenHistory{TokenID: second.ID, TxHash: "0xtx1", Method: schema.TokenHistoryMethodTransfer, Amount: 1})
	require.NoError(t, err)
	assert.True(t, created, "another token of the same batch transaction")

	rows, err := store.GetTokenHistoryByTxHash(ctx, first.ID, "0xtx1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, schema.TokenHistoryMethodTransfer, rows[0].Method)

	// a sale indexed after its transfer converts the row
	row := rows[0]
	row.Method = schema.TokenHistoryMethodBuy
	row.Price = decimal.NewNullDecimal(decimal.RequireFromString("0.25"))
	row.CurrencyID = int64Ptr(currency.ID)
	require.NoError(t, store.UpdateTokenHistory(ctx, &row))

	rows, err = store.GetTokenHistoryByTxHash(ctx, first.ID, "0xtx1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, schema.TokenHistoryMethodBuy, rows[0].Method)
	assert.True(t, decimal.RequireFromString("0.25").Equal(rows[0].Price.Decimal))
	assert.Equal(t, testBob, *rows[0].ToAddress)
}

// =============================================================================
// Test: Bids
// =============================================================================

func testBids(t *testing.T, store Store) {
	ctx := context.Background()
	collection := seedCommittedCollection(t, store, "Bids", "0x9999999999999999999999999999999999999990", domain.ContractTypeERC1155)
	currency := seedCurrency(t, store, "0x9999999999999999999999999999999999999991", "USDT", 6)
	token := seedToken(t, store, collection.ID, "QmBid")

	newBid := func(user string, amount int64, quantity int64) *schema.Bid {
		b := &schema.Bid{
			TokenID:     token.ID,
			UserAddress: user,
			Amount:      decimal.NewFromInt(amount),
			Quantity:    quantity,
			CurrencyID:  currency.ID,
			State:       schema.BidStatePending,
		}
		require.NoError(t, store.CreateBid(ctx, b))
		return b
	}

	low := newBid(testAlice, 1_000_000, 3)
	high := newBid(testBob, 5_000_000, 1)
	other := newBid(testAlice, 2_000_000, 1)

	t.Run("pending bids of a user in a currency", func(t *testing.T) {
		bids, err := store.GetPendingBids(ctx, testAlice, currency.ID)
		require.NoError(t, err)
		require.Len(t, bids, 2)
		assert.Equal(t, low.ID, bids[0].ID)
		assert.Equal(t, other.ID, bids[1].ID)
	})

	t.Run("commit is one-shot", func(t *testing.T) {
		ok, err := store.CommitBid(ctx, other.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.CommitBid(ctx, other.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		bids, err := store.GetPendingBids(ctx, testAlice, currency.ID)
		require.NoError(t, err)
		assert.Len(t, bids, 1)
	})

	t.Run("highest outstanding bid", func(t *testing.T) {
		best, err := store.GetHighestBid(ctx, token.ID)
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, high.ID, best.ID)
	})

	t.Run("shrink keeps the remainder and deletes exhausted bids", func(t *testing.T) {
		require.NoError(t, store.ShrinkBid(ctx, low.ID, 2))
		got, err := store.GetBidByID(ctx, low.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.Quantity)

		require.NoError(t, store.ShrinkBid(ctx, high.ID, 5))
		got, err = store.GetBidByID(ctx, high.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, store.ShrinkBid(ctx, high.ID, 1))
	})

	t.Run("expire then delete outstanding bids", func(t *testing.T) {
		require.NoError(t, store.ExpireBids(ctx, token.ID))

		got, err := store.GetBidByID(ctx, low.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.BidStateExpired, got.State)

		best, err := store.GetHighestBid(ctx, token.ID)
		require.NoError(t, err)
		assert.Nil(t, best)

		fresh := newBid(testBob, 10, 1)
		require.NoError(t, store.DeleteBids(ctx, token.ID))

		got, err = store.GetBidByID(ctx, fresh.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		// expired bids are kept
		got, err = store.GetBidByID(ctx, low.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("bids history is unique per bid and method", func(t *testing.T) {
		ok, err := store.CreateBidsHistory(ctx, &schema.BidsHistory{BidID: other.ID, Method: schema.BidsHistoryMethodBet, TxHash: "0xapprove1"})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.CreateBidsHistory(ctx, &schema.BidsHistory{BidID: other.ID, Method: schema.BidsHistoryMethodBet, TxHash: "0xapprove2"})
		require.NoError(t, err)
		assert.False(t, ok)

		history, err := store.GetBidsHistory(ctx, other.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "0xapprove1", history[0].TxHash)
	})
}

// =============================================================================
// Test: Currencies
// =============================================================================

func testCurrencies(t *testing.T, store Store) {
	ctx := context.Background()

	usdc := seedCurrency(t, store, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USDC", 6)
	seedCurrency(t, store, domain.ETHEREUM_ZERO_ADDRESS, "ETH", 18)

	got, err := store.GetCurrencyByAddress(ctx, testNetwork, usdc.Address)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int32(6), got.Decimals)
	assert.False(t, got.IsNative(domain.ETHEREUM_ZERO_ADDRESS))

	byID, err := store.GetCurrencyByID(ctx, usdc.ID)
	require.NoError(t, err)
	assert.Equal(t, "USDC", byID.Symbol)

	missing, err := store.GetCurrencyByAddress(ctx, "tron", usdc.Address)
	require.NoError(t, err)
	assert.Nil(t, missing)

	currencies, err := store.GetCurrencies(ctx, testNetwork)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(currencies), 2)

	natives := 0
	for _, c := range currencies {
		if c.IsNative(domain.ETHEREUM_ZERO_ADDRESS) {
			natives++
		}
	}
	assert.Equal(t, 1, natives)

	err = store.CreateCurrency(ctx, &schema.Currency{Network: testNetwork, Address: usdc.Address, Symbol: "USDC", Decimals: 6})
	assert.Error(t, err, "duplicate (network, address)")
}

// =============================================================================
// Test: Transactions
// =============================================================================

func testWithTransaction(t *testing.T, store Store) {
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := store.WithTransaction(ctx, func(tx Store) error {
		if err := tx.CreateCollection(ctx, &schema.Collection{Network: testNetwork, Name: "RolledBack", Standard: domain.ContractTypeERC721}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	c, err := store.GetPendingCollectionByName(ctx, testNetwork, "RolledBack")
	require.NoError(t, err)
	assert.Nil(t, c)

	err = store.WithTransaction(ctx, func(tx Store) error {
		return tx.CreateCollection(ctx, &schema.Collection{Network: testNetwork, Name: "Kept", Standard: domain.ContractTypeERC721})
	})
	require.NoError(t, err)

	c, err = store.GetPendingCollectionByName(ctx, testNetwork, "Kept")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestBidTotal(t *testing.T) {
	bid := schema.Bid{Amount: decimal.NewFromInt(1_500_000), Quantity: 3}
	assert.True(t, decimal.NewFromInt(4_500_000).Equal(BidTotal(bid)))
}

func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Collections", testCollections},
		{"Tokens", testTokens},
		{"Ownerships", testOwnerships},
		{"TokenHistory", testTokenHistory},
		{"Bids", testBids},
		{"Currencies", testCurrencies},
		{"WithTransaction", testWithTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
