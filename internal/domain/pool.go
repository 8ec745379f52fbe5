package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// PoolKey is the canonical descriptor of a trading pool. Slot 0/slot 1
// assignment is stable regardless of the order a call site supplies the
// pair, so the same unordered pair always derives the same key.
type PoolKey struct {
	Token0    common.Address `json:"token0"`
	ID0       *uint256.Int   `json:"id0"`
	Token1    common.Address `json:"token1"`
	ID1       *uint256.Int   `json:"id1"`
	FeeOrHook *uint256.Int   `json:"feeOrHook"`
}

// Hash derives the pool identifier: keccak256 over the fixed field order
// (id0, id1, token0, token1, feeOrHook), each field left-padded to 32 bytes.
// Callers recompute this independently to look up reserves, so the encoding
// must stay bit-exact.
func (k PoolKey) Hash() common.Hash {
	var buf [5 * 32]byte
	k.ID0.WriteToSlice(buf[0:32])
	k.ID1.WriteToSlice(buf[32:64])
	copy(buf[76:96], k.Token0.Bytes())
	copy(buf[108:128], k.Token1.Bytes())
	k.FeeOrHook.WriteToSlice(buf[128:160])
	return crypto.Keccak256Hash(buf[:])
}

// Reserves is a point-in-time snapshot of a pool's balances. It is read
// fresh before each quote; staleness tolerance is the caller's concern.
type Reserves struct {
	Reserve0 *uint256.Int `json:"reserve0"`
	Reserve1 *uint256.Int `json:"reserve1"`
}

// Pool is a registry entry: a canonical key plus its per-pool fee. Fees are
// not a shared constant; each pool carries its own rate in basis points.
type Pool struct {
	Key    PoolKey     `json:"key"`
	PoolID common.Hash `json:"poolId"`
	FeeBps uint16      `json:"feeBps"`
	Slot0  Token       `json:"slot0"`
	Slot1  Token       `json:"slot1"`
}
