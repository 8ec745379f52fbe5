package router

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/domain"
)

// Shared pair fixtures for the router package tests.

func nativeAsset() domain.Token {
	return domain.Token{
		Origin:   common.HexToAddress("0x1000000000000000000000000000000000000001"),
		LocalID:  nil,
		Decimals: 18,
		Class:    domain.ClassPrimary,
	}
}

func primaryToken(id uint64) domain.Token {
	return domain.Token{
		Origin:   common.HexToAddress("0x1000000000000000000000000000000000000001"),
		LocalID:  uint256.NewInt(id),
		Decimals: 18,
		Class:    domain.ClassPrimary,
	}
}

func secondaryToken(id uint64) domain.Token {
	return domain.Token{
		Origin:   common.HexToAddress("0x2000000000000000000000000000000000000002"),
		LocalID:  uint256.NewInt(id),
		Decimals: 6,
		Class:    domain.ClassSecondary,
	}
}

func externalToken(addr string) domain.Token {
	return domain.Token{
		Origin:   common.HexToAddress(addr),
		LocalID:  uint256.NewInt(0),
		Decimals: 18,
		Class:    domain.ClassExternal,
	}
}

// fixturePools implements PoolStates over a static set of pools.
type fixturePools struct {
	pools []fixturePool
}

type fixturePool struct {
	a, b     domain.Token
	feeBps   uint16
	reserveA *uint256.Int // reserve on a's side
	reserveB *uint256.Int
}

func (f *fixturePools) PairState(a, b domain.Token) (domain.Pool, domain.Reserves, bool) {
	for _, p := range f.pools {
		var matched bool
		var ra, rb *uint256.Int
		if p.a.Equal(a) && p.b.Equal(b) {
			matched, ra, rb = true, p.reserveA, p.reserveB
		} else if p.a.Equal(b) && p.b.Equal(a) {
			matched, ra, rb = true, p.reserveB, p.reserveA
		}
		if !matched {
			continue
		}

		key, err := DerivePoolKey(a, b, uint256.NewInt(uint64(p.feeBps)))
		if err != nil {
			return domain.Pool{}, domain.Reserves{}, false
		}
		slot0, slot1 := a, b
		r0, r1 := ra, rb
		if b.Less(a) {
			slot0, slot1 = b, a
			r0, r1 = rb, ra
		}
		pool := domain.Pool{
			Key:    key,
			PoolID: key.Hash(),
			FeeBps: p.feeBps,
			Slot0:  slot0,
			Slot1:  slot1,
		}
		return pool, domain.Reserves{Reserve0: r0, Reserve1: r1}, true
	}
	return domain.Pool{}, domain.Reserves{}, false
}
