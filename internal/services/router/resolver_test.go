package router

import (
	"errors"
	"testing"

	"github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
)

func TestResolveDirectWhenBaseAssetInvolved(t *testing.T) {
	native := nativeAsset()
	tok := secondaryToken(5)
	pools := &fixturePools{pools: []fixturePool{
		{a: native, b: tok, feeBps: 30, reserveA: u(1_000_000), reserveB: u(2_000_000)},
	}}

	r := NewResolver(native)
	route, err := r.Resolve(native, tok, pools)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if route.Kind != domain.RouteDirect || len(route.Hops) != 1 {
		t.Fatalf("route = %s with %d hops, want Direct with 1", route.Kind, len(route.Hops))
	}
	if !route.Hops[0].ZeroForOne {
		t.Errorf("selling the base asset must traverse slot0 -> slot1")
	}
	if !route.Hops[0].In().Eq(u(1_000_000)) {
		t.Errorf("input-side reserve = %s, want the base side", route.Hops[0].In().Dec())
	}
}

func TestResolveTwoHopThroughBase(t *testing.T) {
	native := nativeAsset()
	sell := secondaryToken(1)
	buy := secondaryToken(2)
	pools := &fixturePools{pools: []fixturePool{
		{a: sell, b: native, feeBps: 30, reserveA: u(1_000_000), reserveB: u(1_000_000)},
		{a: native, b: buy, feeBps: 100, reserveA: u(5_000_000), reserveB: u(5_000_000)},
	}}

	r := NewResolver(native)
	route, err := r.Resolve(sell, buy, pools)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if route.Kind != domain.RouteTwoHop || len(route.Hops) != 2 {
		t.Fatalf("route = %s with %d hops, want TwoHop with 2", route.Kind, len(route.Hops))
	}

	// Each hop must carry its own pool's fee, not a shared constant.
	if route.Hops[0].FeeBps != 30 || route.Hops[1].FeeBps != 100 {
		t.Errorf("hop fees = %d/%d, want 30/100", route.Hops[0].FeeBps, route.Hops[1].FeeBps)
	}
	if route.Hops[0].FeeBps == route.Hops[1].FeeBps {
		t.Errorf("distinct per-pool fees collapsed to one value")
	}
}

func TestResolveNoRoute(t *testing.T) {
	native := nativeAsset()
	sell := secondaryToken(1)
	buy := secondaryToken(2)

	r := NewResolver(native)

	// Missing second pool.
	pools := &fixturePools{pools: []fixturePool{
		{a: sell, b: native, feeBps: 30, reserveA: u(1000), reserveB: u(1000)},
	}}
	if _, err := r.Resolve(sell, buy, pools); !errors.Is(err, common.ErrNoRoute) {
		t.Errorf("missing pool: err = %v, want ErrNoRoute", err)
	}

	// Pool present but drained on one side.
	pools = &fixturePools{pools: []fixturePool{
		{a: sell, b: native, feeBps: 30, reserveA: u(1000), reserveB: u(0)},
		{a: native, b: buy, feeBps: 100, reserveA: u(1000), reserveB: u(1000)},
	}}
	if _, err := r.Resolve(sell, buy, pools); !errors.Is(err, common.ErrNoRoute) {
		t.Errorf("zero reserve: err = %v, want ErrNoRoute", err)
	}
}

func TestResolveIdenticalPair(t *testing.T) {
	native := nativeAsset()
	tok := secondaryToken(1)
	r := NewResolver(native)
	if _, err := r.Resolve(tok, tok, &fixturePools{}); !errors.Is(err, common.ErrInvalidPair) {
		t.Errorf("identical pair: err = %v, want ErrInvalidPair", err)
	}
}

func TestQuoteRouteExactInChainsHops(t *testing.T) {
	native := nativeAsset()
	sell := secondaryToken(1)
	buy := secondaryToken(2)
	pools := &fixturePools{pools: []fixturePool{
		{a: sell, b: native, feeBps: 30, reserveA: u(1_000_000), reserveB: u(1_000_000)},
		{a: native, b: buy, feeBps: 100, reserveA: u(1_000_000), reserveB: u(1_000_000)},
	}}

	r := NewResolver(native)
	route, err := r.Resolve(sell, buy, pools)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	amountIn := u(10_000)
	quote, err := QuoteRoute(&route, amountIn, domain.ExactIn)
	if err != nil {
		t.Fatalf("QuoteRoute: %v", err)
	}

	// First hop alone.
	hop1Out, err := AmountOut(amountIn, u(1_000_000), u(1_000_000), 30)
	if err != nil {
		t.Fatalf("AmountOut: %v", err)
	}
	if route.Intermediate == nil || !route.Intermediate.Eq(hop1Out) {
		t.Errorf("intermediate = %v, want first-hop output %s", route.Intermediate, hop1Out.Dec())
	}

	// Second hop consumes the intermediate with its own fee.
	hop2Out, err := AmountOut(hop1Out, u(1_000_000), u(1_000_000), 100)
	if err != nil {
		t.Fatalf("AmountOut: %v", err)
	}
	if !quote.AmountOut.Eq(hop2Out) {
		t.Errorf("AmountOut = %s, want chained %s", quote.AmountOut.Dec(), hop2Out.Dec())
	}
	if !quote.AmountIn.Eq(amountIn) {
		t.Errorf("AmountIn = %s, want the request amount", quote.AmountIn.Dec())
	}
}

func TestQuoteRouteExactOutWalksBackward(t *testing.T) {
	native := nativeAsset()
	sell := secondaryToken(1)
	buy := secondaryToken(2)
	pools := &fixturePools{pools: []fixturePool{
		{a: sell, b: native, feeBps: 30, reserveA: u(1_000_000), reserveB: u(1_000_000)},
		{a: native, b: buy, feeBps: 100, reserveA: u(1_000_000), reserveB: u(1_000_000)},
	}}

	r := NewResolver(native)
	route, err := r.Resolve(sell, buy, pools)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	amountOut := u(10_000)
	quote, err := QuoteRoute(&route, amountOut, domain.ExactOut)
	if err != nil {
		t.Fatalf("QuoteRoute: %v", err)
	}

	// Second hop decides how much base asset it needs; the first hop prices
	// that requirement.
	baseNeeded, err := AmountIn(amountOut, u(1_000_000), u(1_000_000), 100)
	if err != nil {
		t.Fatalf("AmountIn: %v", err)
	}
	if route.Intermediate == nil || !route.Intermediate.Eq(baseNeeded) {
		t.Errorf("intermediate = %v, want second-hop input %s", route.Intermediate, baseNeeded.Dec())
	}

	sellNeeded, err := AmountIn(baseNeeded, u(1_000_000), u(1_000_000), 30)
	if err != nil {
		t.Fatalf("AmountIn: %v", err)
	}
	if !quote.AmountIn.Eq(sellNeeded) {
		t.Errorf("AmountIn = %s, want %s", quote.AmountIn.Dec(), sellNeeded.Dec())
	}
	if !quote.AmountOut.Eq(amountOut) {
		t.Errorf("AmountOut = %s, want the request amount", quote.AmountOut.Dec())
	}
}

func TestQuoteRouteUnresolved(t *testing.T) {
	route := domain.Route{}
	if _, err := QuoteRoute(&route, u(100), domain.ExactIn); !errors.Is(err, common.ErrRouteUnresolved) {
		t.Errorf("unresolved route: err = %v, want ErrRouteUnresolved", err)
	}
	if _, err := QuoteRoute(nil, u(100), domain.ExactIn); !errors.Is(err, common.ErrRouteUnresolved) {
		t.Errorf("nil route: err = %v, want ErrRouteUnresolved", err)
	}
}

func BenchmarkResolveAndQuoteTwoHop(b *testing.B) {
	native := nativeAsset()
	sell := secondaryToken(1)
	buy := secondaryToken(2)
	pools := &fixturePools{pools: []fixturePool{
		{a: sell, b: native, feeBps: 30, reserveA: u(1_000_000), reserveB: u(1_000_000)},
		{a: native, b: buy, feeBps: 100, reserveA: u(1_000_000), reserveB: u(1_000_000)},
	}}
	r := NewResolver(native)
	amount := u(10_000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		route, _ := r.Resolve(sell, buy, pools)
		_, _ = QuoteRoute(&route, amount, domain.ExactIn)
	}
}
