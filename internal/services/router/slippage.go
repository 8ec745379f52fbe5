package router

import (
	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
)

// Bound converts a raw quoted amount into its slippage bound. For ExactIn
// the bound is the minimum acceptable output (amount scaled down); for
// ExactOut it is the maximum acceptable input (amount scaled up). Tolerance
// is in basis points and must stay below 10000.
func Bound(amount *uint256.Int, toleranceBps uint16, direction domain.SwapDirection) (*uint256.Int, error) {
	if toleranceBps >= common.BpsDenom {
		return nil, common.ErrToleranceOutOfRange
	}

	var factor *uint256.Int
	if direction == domain.ExactIn {
		factor = uint256.NewInt(uint64(common.BpsDenom - toleranceBps))
	} else {
		factor = uint256.NewInt(uint64(common.BpsDenom + toleranceBps))
	}

	bounded := new(uint256.Int)
	if _, overflow := bounded.MulOverflow(amount, factor); overflow {
		return nil, ErrAmountOverflow
	}
	return bounded.Div(bounded, uint256.NewInt(common.BpsDenom)), nil
}
