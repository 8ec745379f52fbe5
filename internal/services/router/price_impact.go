package router

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/domain"
)

// Price impact severity thresholds in percent.
const (
	impactLowPct      = 1.0
	impactModeratePct = 3.0
	impactHighPct     = 5.0
	impactExtremePct  = 10.0
)

// ImpactSeverity classifies a price impact for display and metrics.
type ImpactSeverity string

const (
	SeverityNone     ImpactSeverity = "none"
	SeverityLow      ImpactSeverity = "low"
	SeverityModerate ImpactSeverity = "moderate"
	SeverityHigh     ImpactSeverity = "high"
	SeverityExtreme  ImpactSeverity = "extreme"
)

func GetImpactSeverity(impactPct float64) ImpactSeverity {
	magnitude := impactPct
	if magnitude < 0 {
		magnitude = -magnitude
	}
	switch {
	case magnitude < impactLowPct:
		return SeverityNone
	case magnitude < impactModeratePct:
		return SeverityLow
	case magnitude < impactHighPct:
		return SeverityModerate
	case magnitude < impactExtremePct:
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}

// GetImpactWarning returns a user-facing warning for the given impact.
func GetImpactWarning(impactPct float64) string {
	switch GetImpactSeverity(impactPct) {
	case SeverityLow:
		return "Low price impact"
	case SeverityModerate:
		return "Moderate price impact - consider reducing trade size"
	case SeverityHigh:
		return "High price impact - you may receive significantly less"
	case SeverityExtreme:
		return "EXTREME price impact - this trade will move the market price"
	default:
		return ""
	}
}

// Estimator projects post-trade reserves and reports the spot-price delta.
// Impacts whose magnitude exceeds CeilingPct are reported as unavailable
// rather than as a misleading number.
type Estimator struct {
	CeilingPct float64
}

func NewEstimator(ceilingPct float64) *Estimator {
	return &Estimator{CeilingPct: ceilingPct}
}

// Estimate simulates an exact-input trade of amountIn against the reserves
// of one hop and returns the resulting price delta. The spot price is the
// input-side reserve over the output-side reserve, so buying an asset up
// yields a positive impact. A nil result means the estimate is unavailable:
// zero reserves, a pool-draining trade, or an impact past the ceiling.
func (e *Estimator) Estimate(reserveIn, reserveOut, amountIn *uint256.Int, feeBps uint16) *domain.PriceImpact {
	if reserveIn == nil || reserveOut == nil || reserveIn.IsZero() || reserveOut.IsZero() {
		return nil
	}

	amountOut, err := AmountOut(amountIn, reserveIn, reserveOut, feeBps)
	if err != nil {
		return nil
	}
	if !amountOut.Lt(reserveOut) {
		return nil
	}

	afterIn := new(uint256.Int).Add(reserveIn, amountIn)
	afterOut := new(uint256.Int).Sub(reserveOut, amountOut)
	if afterOut.IsZero() {
		return nil
	}

	before := ratio(reserveIn, reserveOut)
	after := ratio(afterIn, afterOut)
	if before == 0 {
		return nil
	}

	impact := (after - before) / before * 100
	if impact > e.CeilingPct || impact < -e.CeilingPct {
		return nil
	}

	return &domain.PriceImpact{
		BeforePrice: before,
		AfterPrice:  after,
		ImpactPct:   impact,
	}
}

// ratio computes num/den through big.Float so reserves near 2^256 stay
// representable.
func ratio(num, den *uint256.Int) float64 {
	n := new(big.Float).SetInt(num.ToBig())
	d := new(big.Float).SetInt(den.ToBig())
	out, _ := new(big.Float).Quo(n, d).Float64()
	return out
}
