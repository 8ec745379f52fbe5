package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// SwapDirection says which side of the trade is fixed.
type SwapDirection uint8

const (
	ExactIn SwapDirection = iota
	ExactOut
)

func (d SwapDirection) String() string {
	if d == ExactOut {
		return "ExactOut"
	}
	return "ExactIn"
}

// SwapQuote is the priced trade before submission. For ExactIn, Bounded is
// the minimum acceptable output (Bounded <= AmountOut); for ExactOut it is
// the maximum acceptable input (Bounded >= AmountIn).
type SwapQuote struct {
	Direction SwapDirection `json:"direction"`
	AmountIn  *uint256.Int  `json:"amountIn"`
	AmountOut *uint256.Int  `json:"amountOut"`
	Bounded   *uint256.Int  `json:"bounded"`
}

// PriceImpact reports the projected spot-price delta of a trade. A nil
// estimate means the impact is unavailable (drained pool, zero reserves, or
// past the reporting ceiling).
type PriceImpact struct {
	BeforePrice float64 `json:"beforePrice"`
	AfterPrice  float64 `json:"afterPrice"`
	ImpactPct   float64 `json:"impactPct"`
}

// Hop is one pool traversal inside a route: the canonical key, the reserve
// snapshot it was quoted against, and that pool's own fee.
type Hop struct {
	Key        PoolKey     `json:"key"`
	PoolID     common.Hash `json:"poolId"`
	Reserves   Reserves    `json:"reserves"`
	FeeBps     uint16      `json:"feeBps"`
	ZeroForOne bool        `json:"zeroForOne"`
}

// In returns the reserve on the input side of the hop.
func (h Hop) In() *uint256.Int {
	if h.ZeroForOne {
		return h.Reserves.Reserve0
	}
	return h.Reserves.Reserve1
}

// Out returns the reserve on the output side of the hop.
func (h Hop) Out() *uint256.Int {
	if h.ZeroForOne {
		return h.Reserves.Reserve1
	}
	return h.Reserves.Reserve0
}

type RouteKind uint8

const (
	RouteUnset RouteKind = iota
	RouteDirect
	RouteTwoHop
)

func (k RouteKind) String() string {
	switch k {
	case RouteDirect:
		return "Direct"
	case RouteTwoHop:
		return "TwoHop"
	default:
		return "Unset"
	}
}

// Route is either a single pool traversal or two hops chained through the
// native base asset. Intermediate is the base-asset amount flowing between
// the hops of a TwoHop route; it never leaves the batched swap call.
type Route struct {
	Kind         RouteKind    `json:"kind"`
	Hops         []Hop        `json:"hops"`
	Intermediate *uint256.Int `json:"intermediate,omitempty"`
}

func (r Route) Resolved() bool {
	switch r.Kind {
	case RouteDirect:
		return len(r.Hops) == 1
	case RouteTwoHop:
		return len(r.Hops) == 2
	default:
		return false
	}
}
