package market

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lumidex/swap-engine/internal/domain"
)

const numShards = 16

// ShardedPoolMap spreads pools over lock shards so concurrent quote
// requests do not contend on one mutex. Keys are canonical pool IDs.
type ShardedPoolMap struct {
	shards [numShards]poolShard
}

type poolShard struct {
	mu    sync.RWMutex
	pools map[common.Hash]*domain.Pool
}

func NewShardedPoolMap() *ShardedPoolMap {
	m := &ShardedPoolMap{}
	for i := 0; i < numShards; i++ {
		m.shards[i].pools = make(map[common.Hash]*domain.Pool)
	}
	return m
}

func (m *ShardedPoolMap) getShard(key common.Hash) *poolShard {
	idx := key[0] % numShards
	return &m.shards[idx]
}

func (m *ShardedPoolMap) Get(key common.Hash) (*domain.Pool, bool) {
	shard := m.getShard(key)
	shard.mu.RLock()
	pool, ok := shard.pools[key]
	shard.mu.RUnlock()
	return pool, ok
}

func (m *ShardedPoolMap) Set(key common.Hash, pool *domain.Pool) {
	shard := m.getShard(key)
	shard.mu.Lock()
	shard.pools[key] = pool
	shard.mu.Unlock()
}

func (m *ShardedPoolMap) Delete(key common.Hash) {
	shard := m.getShard(key)
	shard.mu.Lock()
	delete(shard.pools, key)
	shard.mu.Unlock()
}

func (m *ShardedPoolMap) Len() int {
	total := 0
	for i := 0; i < numShards; i++ {
		m.shards[i].mu.RLock()
		total += len(m.shards[i].pools)
		m.shards[i].mu.RUnlock()
	}
	return total
}

// GetAll returns a snapshot of every registered pool.
func (m *ShardedPoolMap) GetAll() []*domain.Pool {
	result := make([]*domain.Pool, 0, m.Len())
	for i := 0; i < numShards; i++ {
		m.shards[i].mu.RLock()
		for _, pool := range m.shards[i].pools {
			result = append(result, pool)
		}
		m.shards[i].mu.RUnlock()
	}
	return result
}
