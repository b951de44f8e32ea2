package handler

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/feral-file/marketplace-indexer/internal/store"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

const defaultCurrencyCacheSize = 256

// CurrencyCache resolves currencies by (network, address)
// Currencies never change once registered, so only hits are cached; a miss is looked up again next time
type CurrencyCache struct {
	store store.Store
	cache *lru.Cache[string, schema.Currency]
}

// NewCurrencyCache creates a currency cache holding up to size entries
func NewCurrencyCache(s store.Store, size int) (*CurrencyCache, error) {
	if size <= 0 {
		size = defaultCurrencyCacheSize
	}
	cache, err := lru.New[string, schema.Currency](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create currency cache: %w", err)
	}
	return &CurrencyCache{store: s, cache: cache}, nil
}

// Get returns the currency registered at an address, nil when there is none
func (c *CurrencyCache) Get(ctx context.Context, network, address string) (*schema.Currency, error) {
	key := network + ":" + address
	if currency, ok := c.cache.Get(key); ok {
		return &currency, nil
	}

	currency, err := c.store.GetCurrencyByAddress(ctx, network, address)
	if err != nil {
		return nil, err
	}
	if currency == nil {
		return nil, nil
	}

	c.cache.Add(key, *currency)
	return currency, nil
}
