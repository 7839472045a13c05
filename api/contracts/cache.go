// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

type cacheKey struct {
	revision uint64
	height   uint64
	contract cw.Addr
	msg      string
}

// queryCache memoizes smart query responses. Entries are keyed by the host
// revision and height, so a commit or a new block makes them unreachable.
type queryCache struct {
	cache *lru.Cache
	mu    sync.Mutex
}

func newQueryCache(size int) *queryCache {
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New(size)
	if err != nil {
		// lru.New only throws an error if the number is less than 1
		panic(fmt.Errorf("failed to create query cache: %v", err))
	}
	return &queryCache{cache: cache}
}

// GetOrAdd returns the cached response for key or runs query and caches its
// result. The second return value reports a cache hit.
func (c *queryCache) GetOrAdd(key cacheKey, query func() ([]byte, error)) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.cache.Get(key); ok {
		return v.([]byte), true, nil
	}
	data, err := query()
	if err != nil {
		return nil, false, err
	}
	c.cache.Add(key, data)
	return data, false, nil
}
