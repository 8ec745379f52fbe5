// Package router holds the pure pricing core: pool key derivation,
// constant-product quoting, slippage bounds, price impact estimation, and
// route resolution. Everything here is synchronous and side-effect-free.
package router

import (
	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
)

// DerivePoolKey canonicalizes a token pair into a PoolKey. The native base
// asset always lands in slot 0 with id 0; otherwise slots follow the total
// order over (class, localId), so both argument orders derive the same key.
func DerivePoolKey(a, b domain.Token, feeOrHook *uint256.Int) (domain.PoolKey, error) {
	if a.Equal(b) {
		return domain.PoolKey{}, common.ErrInvalidPair
	}

	lo, hi := a, b
	if b.Less(a) {
		lo, hi = b, a
	}

	if feeOrHook == nil {
		feeOrHook = uint256.NewInt(0)
	}

	return domain.PoolKey{
		Token0:    lo.Origin,
		ID0:       lo.EffectiveID(),
		Token1:    hi.Origin,
		ID1:       hi.EffectiveID(),
		FeeOrHook: feeOrHook,
	}, nil
}
