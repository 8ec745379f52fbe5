// Package common contains shared constants and error types used across services
package common

import "github.com/holiman/uint256"

const (
	// BpsDenom is the basis-point denominator: 10000 bps = 100%.
	BpsDenom = 10000

	// DefaultSlippageBps is the slippage tolerance applied when a request
	// does not supply one (100 bps = 1%).
	DefaultSlippageBps uint16 = 100

	// DefaultDeadlineWindow is the window, in seconds, added to the current
	// time to produce the absolute deadline embedded in swap calls.
	DefaultDeadlineWindow = 1200

	// DefaultImpactCeilingPct is the price-impact magnitude above which the
	// estimator reports Unavailable instead of a misleading number.
	DefaultImpactCeilingPct = 90.0
)

// MaxUint256 is the approve-max allowance value. Granting it once lets
// repeat trades skip the approval step.
var MaxUint256 = new(uint256.Int).Sub(uint256.NewInt(0), uint256.NewInt(1))
