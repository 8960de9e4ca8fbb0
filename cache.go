package greetseed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/permadao/greetseed/cache"
	"github.com/permadao/greetseed/schema"
)

const listCacheExp = 5 * time.Minute

// Cache holds the per-address list caches fronting the store plus the
// chain status sampled by the background jobs.
type Cache struct {
	local *cache.Cache

	lock        sync.RWMutex
	chainId     int64
	latestBlock uint64
}

func NewCache() *Cache {
	local, err := cache.NewLocalCache(listCacheExp)
	if err != nil {
		panic(err)
	}
	return &Cache{local: local}
}

func txsKey(address string) string  { return "txs:" + address }
func nftsKey(address string) string { return "nfts:" + address }

func (c *Cache) GetTransactions(address string) ([]schema.Transaction, bool) {
	data, err := c.local.Cache.Get(txsKey(address))
	if err != nil {
		return nil, false
	}
	txs := make([]schema.Transaction, 0)
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, false
	}
	return txs, true
}

func (c *Cache) SetTransactions(address string, txs []schema.Transaction) {
	data, err := json.Marshal(txs)
	if err != nil {
		return
	}
	_ = c.local.Cache.Set(txsKey(address), data)
}

func (c *Cache) GetNfts(address string) ([]schema.Nft, bool) {
	data, err := c.local.Cache.Get(nftsKey(address))
	if err != nil {
		return nil, false
	}
	nfts := make([]schema.Nft, 0)
	if err := json.Unmarshal(data, &nfts); err != nil {
		return nil, false
	}
	return nfts, true
}

func (c *Cache) SetNfts(address string, nfts []schema.Nft) {
	data, err := json.Marshal(nfts)
	if err != nil {
		return
	}
	_ = c.local.Cache.Set(nftsKey(address), data)
}

// InvalidateAddress drops both list entries so the next read hits the store.
func (c *Cache) InvalidateAddress(address string) {
	_ = c.local.Cache.Delete(txsKey(address))
	_ = c.local.Cache.Delete(nftsKey(address))
}

func (c *Cache) GetChainStatus() (chainId int64, latestBlock uint64) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.chainId, c.latestBlock
}

func (c *Cache) UpdateChainStatus(chainId int64, latestBlock uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.chainId = chainId
	c.latestBlock = latestBlock
}
