package builder

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
)

// Builder assembles call plans against a single exchange contract, which is
// both the swap target and the spender/operator that approvals grant.
type Builder struct {
	exchange common.Address
}

func NewBuilder(exchange common.Address) *Builder {
	return &Builder{exchange: exchange}
}

func (b *Builder) Exchange() common.Address {
	return b.exchange
}

// Build produces the ordered call sequence sufficient to execute the route
// given the live approval state. Approval and authorization calls are
// appended only when the current state requires them, so a plan built after
// a partial execution simply shrinks. The swap is always last and always
// present; the plan never checks balances (the executing contract does).
func (b *Builder) Build(
	route domain.Route,
	quote domain.SwapQuote,
	sell domain.Token,
	state domain.ApprovalState,
	caller common.Address,
	recipient common.Address,
	deadline uint64,
) (*domain.CallPlan, error) {
	if !route.Resolved() {
		return nil, swapcommon.ErrRouteUnresolved
	}
	if quote.AmountIn == nil || quote.AmountOut == nil || quote.Bounded == nil {
		return nil, fmt.Errorf("%w: quote not bounded", swapcommon.ErrRouteUnresolved)
	}
	if recipient == (common.Address{}) {
		recipient = caller
	}

	required := requiredSpend(quote)
	plan := &domain.CallPlan{Deadline: deadline}

	if !sell.IsNative() {
		switch {
		case sell.Class == domain.ClassExternal && allowanceShort(state.Allowance, required):
			// Approve-max so repeat trades skip this step entirely.
			payload, err := EncodeApprove(b.exchange, swapcommon.MaxUint256)
			if err != nil {
				return nil, err
			}
			plan.Calls = append(plan.Calls, domain.Call{
				Kind:    domain.CallApprove,
				Target:  sell.Origin,
				Payload: payload,
				Value:   uint256.NewInt(0),
			})
		case sell.Class != domain.ClassExternal && !state.OperatorApproved:
			payload, err := EncodeSetOperator(b.exchange, true)
			if err != nil {
				return nil, err
			}
			plan.Calls = append(plan.Calls, domain.Call{
				Kind:    domain.CallSetOperator,
				Target:  sell.Origin,
				Payload: payload,
				Value:   uint256.NewInt(0),
			})
		}
	}

	payload, err := b.swapPayload(route, quote, recipient, deadline)
	if err != nil {
		return nil, err
	}

	value := uint256.NewInt(0)
	if sell.IsNative() {
		// For ExactOut the attached value is the slippage-bounded maximum
		// input, not the raw quoted input.
		value = required.Clone()
	}

	plan.Calls = append(plan.Calls, domain.Call{
		Kind:    domain.CallSwap,
		Target:  b.exchange,
		Payload: payload,
		Value:   value,
	})
	return plan, nil
}

func (b *Builder) swapPayload(route domain.Route, quote domain.SwapQuote, recipient common.Address, deadline uint64) ([]byte, error) {
	switch route.Kind {
	case domain.RouteDirect:
		hop := route.Hops[0]
		if quote.Direction == domain.ExactIn {
			return EncodeSwapExactIn(hop.Key, quote.AmountIn, quote.Bounded, hop.ZeroForOne, recipient, deadline)
		}
		return EncodeSwapExactOut(hop.Key, quote.AmountOut, quote.Bounded, hop.ZeroForOne, recipient, deadline)

	case domain.RouteTwoHop:
		keys := []domain.PoolKey{route.Hops[0].Key, route.Hops[1].Key}
		if quote.Direction == domain.ExactIn {
			return EncodeSwapPathExactIn(keys, quote.AmountIn, quote.Bounded, recipient, deadline)
		}
		return EncodeSwapPathExactOut(keys, quote.AmountOut, quote.Bounded, recipient, deadline)

	default:
		return nil, swapcommon.ErrRouteUnresolved
	}
}

// requiredSpend is what the exchange may pull from the seller: the exact
// input for ExactIn, the bounded maximum input for ExactOut.
func requiredSpend(quote domain.SwapQuote) *uint256.Int {
	if quote.Direction == domain.ExactIn {
		return quote.AmountIn
	}
	return quote.Bounded
}

func allowanceShort(allowance, required *uint256.Int) bool {
	return allowance == nil || allowance.Lt(required)
}
