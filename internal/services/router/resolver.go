package router

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
)

// PoolStates supplies the pool and a fresh reserve snapshot for a token
// pair. Implementations decide where the snapshot comes from (a registry
// plus ledger reads in production, fixtures in tests).
type PoolStates interface {
	PairState(a, b domain.Token) (domain.Pool, domain.Reserves, bool)
}

// Resolver decides between single-hop and two-hop routing. A pair trades
// directly when one side is the native base asset; otherwise the trade
// chains sell->base->buy, each hop priced with its own pool's fee.
type Resolver struct {
	base domain.Token
}

func NewResolver(base domain.Token) *Resolver {
	return &Resolver{base: base}
}

func (r *Resolver) Base() domain.Token {
	return r.base
}

// Resolve produces the route shape for a pair, with reserves and per-pool
// fees attached to every hop. It does not price the trade; QuoteRoute does.
func (r *Resolver) Resolve(sell, buy domain.Token, pools PoolStates) (domain.Route, error) {
	if sell.Equal(buy) {
		return domain.Route{}, common.ErrInvalidPair
	}

	if sell.IsNative() || buy.IsNative() {
		hop, err := r.hopFor(sell, buy, pools)
		if err != nil {
			return domain.Route{}, err
		}
		return domain.Route{Kind: domain.RouteDirect, Hops: []domain.Hop{hop}}, nil
	}

	first, err := r.hopFor(sell, r.base, pools)
	if err != nil {
		return domain.Route{}, err
	}
	second, err := r.hopFor(r.base, buy, pools)
	if err != nil {
		return domain.Route{}, err
	}
	return domain.Route{Kind: domain.RouteTwoHop, Hops: []domain.Hop{first, second}}, nil
}

// hopFor looks up the pool pairing in with out and snapshots it as a hop.
// Missing pools or a zero reserve on either side surface as NoRoute.
func (r *Resolver) hopFor(in, out domain.Token, pools PoolStates) (domain.Hop, error) {
	pool, reserves, ok := pools.PairState(in, out)
	if !ok {
		return domain.Hop{}, fmt.Errorf("%w: %s/%s", common.ErrNoRoute, in.Origin, out.Origin)
	}
	if reserves.Reserve0 == nil || reserves.Reserve1 == nil ||
		reserves.Reserve0.IsZero() || reserves.Reserve1.IsZero() {
		return domain.Hop{}, fmt.Errorf("%w: pool %s has an empty side", common.ErrNoRoute, pool.PoolID)
	}
	return domain.Hop{
		Key:        pool.Key,
		PoolID:     pool.PoolID,
		Reserves:   reserves,
		FeeBps:     pool.FeeBps,
		ZeroForOne: pool.Slot0.Equal(in),
	}, nil
}

// QuoteRoute prices a resolved route. ExactIn walks the hops forward;
// ExactOut walks them backward, so each hop receives the amount the next
// one requires. For two-hop routes the intermediate base-asset amount is
// recorded on the route; it only ever exists inside the batched swap call.
func QuoteRoute(route *domain.Route, amount *uint256.Int, direction domain.SwapDirection) (*domain.SwapQuote, error) {
	if route == nil || !route.Resolved() {
		return nil, common.ErrRouteUnresolved
	}

	current := amount
	if direction == domain.ExactIn {
		for i := range route.Hops {
			hop := route.Hops[i]
			out, err := AmountOut(current, hop.In(), hop.Out(), hop.FeeBps)
			if err != nil {
				return nil, err
			}
			if route.Kind == domain.RouteTwoHop && i == 0 {
				route.Intermediate = out
			}
			current = out
		}
		return &domain.SwapQuote{Direction: direction, AmountIn: amount, AmountOut: current}, nil
	}

	for i := len(route.Hops) - 1; i >= 0; i-- {
		hop := route.Hops[i]
		in, err := AmountIn(current, hop.In(), hop.Out(), hop.FeeBps)
		if err != nil {
			return nil, err
		}
		if route.Kind == domain.RouteTwoHop && i == 1 {
			route.Intermediate = in
		}
		current = in
	}
	return &domain.SwapQuote{Direction: direction, AmountIn: current, AmountOut: amount}, nil
}
