package router

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/common"
)

// ErrAmountOverflow guards the 256-bit intermediate products. Reserves and
// amounts that overflow reserve * 10000 * amount are beyond anything a real
// pool holds, so this is a hard reject rather than a silent wrap.
var ErrAmountOverflow = errors.New("amount overflow")

// AmountOut prices an exact-input trade against the constant-product curve:
//
//	out = floor(in * (10000-fee) * reserveOut / (reserveIn*10000 + in*(10000-fee)))
//
// The fee is deducted from the input side. AmountOut(0) = 0.
func AmountOut(amountIn, reserveIn, reserveOut *uint256.Int, feeBps uint16) (*uint256.Int, error) {
	if feeBps >= common.BpsDenom {
		return nil, common.ErrFeeOutOfRange
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, common.ErrEmptyPool
	}
	if amountIn.IsZero() {
		return uint256.NewInt(0), nil
	}

	feeFactor := uint256.NewInt(uint64(common.BpsDenom - feeBps))

	inAfterFee := new(uint256.Int)
	if _, overflow := inAfterFee.MulOverflow(amountIn, feeFactor); overflow {
		return nil, ErrAmountOverflow
	}

	numerator := new(uint256.Int)
	if _, overflow := numerator.MulOverflow(inAfterFee, reserveOut); overflow {
		return nil, ErrAmountOverflow
	}

	denominator := new(uint256.Int)
	if _, overflow := denominator.MulOverflow(reserveIn, uint256.NewInt(common.BpsDenom)); overflow {
		return nil, ErrAmountOverflow
	}
	if _, overflow := denominator.AddOverflow(denominator, inAfterFee); overflow {
		return nil, ErrAmountOverflow
	}

	return numerator.Div(numerator, denominator), nil
}

// AmountIn prices an exact-output trade: the minimum input that yields
// amountOut, rounded up so rounding never benefits the trader:
//
//	in = ceil(out * reserveIn * 10000 / ((reserveOut-out) * (10000-fee)))
//
// Undefined when amountOut meets or exceeds reserveOut.
func AmountIn(amountOut, reserveIn, reserveOut *uint256.Int, feeBps uint16) (*uint256.Int, error) {
	if feeBps >= common.BpsDenom {
		return nil, common.ErrFeeOutOfRange
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, common.ErrEmptyPool
	}
	if amountOut.IsZero() {
		return uint256.NewInt(0), nil
	}
	if !amountOut.Lt(reserveOut) {
		return nil, common.ErrPoolDrained
	}

	numerator := new(uint256.Int)
	if _, overflow := numerator.MulOverflow(amountOut, reserveIn); overflow {
		return nil, ErrAmountOverflow
	}
	if _, overflow := numerator.MulOverflow(numerator, uint256.NewInt(common.BpsDenom)); overflow {
		return nil, ErrAmountOverflow
	}

	remaining := new(uint256.Int).Sub(reserveOut, amountOut)
	denominator := new(uint256.Int)
	if _, overflow := denominator.MulOverflow(remaining, uint256.NewInt(uint64(common.BpsDenom-feeBps))); overflow {
		return nil, ErrAmountOverflow
	}

	// Ceiling division: (numerator + denominator - 1) / denominator.
	ceil := new(uint256.Int).Sub(denominator, uint256.NewInt(1))
	if _, overflow := ceil.AddOverflow(ceil, numerator); overflow {
		return nil, ErrAmountOverflow
	}

	return ceil.Div(ceil, denominator), nil
}
