package builder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
	"github.com/lumidex/swap-engine/internal/services/router"
)

var (
	exchangeAddr  = common.HexToAddress("0xEEEE000000000000000000000000000000000001")
	callerAddr    = common.HexToAddress("0xCA11000000000000000000000000000000000001")
	recipientAddr = common.HexToAddress("0x4Ec1000000000000000000000000000000000001")
)

func nativeAsset() domain.Token {
	return domain.Token{
		Origin:   common.HexToAddress("0x1000000000000000000000000000000000000001"),
		Decimals: 18,
		Class:    domain.ClassPrimary,
	}
}

func externalSellToken() domain.Token {
	return domain.Token{
		Origin:   common.HexToAddress("0x5000000000000000000000000000000000000005"),
		LocalID:  uint256.NewInt(0),
		Decimals: 18,
		Class:    domain.ClassExternal,
	}
}

func operatorSellToken() domain.Token {
	return domain.Token{
		Origin:   common.HexToAddress("0x2000000000000000000000000000000000000002"),
		LocalID:  uint256.NewInt(7),
		Decimals: 6,
		Class:    domain.ClassSecondary,
	}
}

func directRoute(t *testing.T, sell, buy domain.Token) domain.Route {
	t.Helper()
	key, err := router.DerivePoolKey(sell, buy, uint256.NewInt(30))
	if err != nil {
		t.Fatalf("DerivePoolKey: %v", err)
	}
	return domain.Route{
		Kind: domain.RouteDirect,
		Hops: []domain.Hop{{
			Key:        key,
			PoolID:     key.Hash(),
			Reserves:   domain.Reserves{Reserve0: uint256.NewInt(1_000_000), Reserve1: uint256.NewInt(1_000_000)},
			FeeBps:     30,
			ZeroForOne: true,
		}},
	}
}

func twoHopRoute(t *testing.T, sell, base, buy domain.Token) domain.Route {
	t.Helper()
	k1, err := router.DerivePoolKey(sell, base, uint256.NewInt(30))
	if err != nil {
		t.Fatalf("DerivePoolKey: %v", err)
	}
	k2, err := router.DerivePoolKey(base, buy, uint256.NewInt(100))
	if err != nil {
		t.Fatalf("DerivePoolKey: %v", err)
	}
	reserves := domain.Reserves{Reserve0: uint256.NewInt(1_000_000), Reserve1: uint256.NewInt(1_000_000)}
	return domain.Route{
		Kind: domain.RouteTwoHop,
		Hops: []domain.Hop{
			{Key: k1, PoolID: k1.Hash(), Reserves: reserves, FeeBps: 30, ZeroForOne: false},
			{Key: k2, PoolID: k2.Hash(), Reserves: reserves, FeeBps: 100, ZeroForOne: true},
		},
		Intermediate: uint256.NewInt(9_960),
	}
}

func exactInQuote(in, out, bounded uint64) domain.SwapQuote {
	return domain.SwapQuote{
		Direction: domain.ExactIn,
		AmountIn:  uint256.NewInt(in),
		AmountOut: uint256.NewInt(out),
		Bounded:   uint256.NewInt(bounded),
	}
}

func exactOutQuote(in, out, bounded uint64) domain.SwapQuote {
	return domain.SwapQuote{
		Direction: domain.ExactOut,
		AmountIn:  uint256.NewInt(in),
		AmountOut: uint256.NewInt(out),
		Bounded:   uint256.NewInt(bounded),
	}
}

func TestBuildAppendsApprovalWhenAllowanceShort(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	sell := externalSellToken()
	route := directRoute(t, nativeAsset(), sell) // buy native with external token
	quote := exactInQuote(10_000, 9_900, 9_801)

	state := domain.ApprovalState{Allowance: uint256.NewInt(0)}
	plan, err := b.Build(route, quote, sell, state, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Calls) != 2 {
		t.Fatalf("plan has %d calls, want 2 (approve, swap)", len(plan.Calls))
	}
	approve, swap := plan.Calls[0], plan.Calls[1]
	if approve.Kind != domain.CallApprove {
		t.Errorf("first call = %s, want approve", approve.Kind)
	}
	if approve.Target != sell.Origin {
		t.Errorf("approve targets %s, want the sell token contract %s", approve.Target, sell.Origin)
	}
	sel := Selector("approve(address,uint256)")
	if !bytes.Equal(approve.Payload[:4], sel[:]) {
		t.Errorf("approve payload selector mismatch")
	}
	if swap.Kind != domain.CallSwap || swap.Target != exchangeAddr {
		t.Errorf("last call must be the swap against the exchange")
	}

	// Once the allowance covers the spend, the next plan is just the swap.
	state = domain.ApprovalState{Allowance: uint256.NewInt(10_000)}
	plan, err = b.Build(route, quote, sell, state, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Calls) != 1 || plan.Calls[0].Kind != domain.CallSwap {
		t.Fatalf("plan has %d calls, want only the swap", len(plan.Calls))
	}
}

func TestBuildAppendsOperatorAuthorization(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	sell := operatorSellToken()
	route := directRoute(t, nativeAsset(), sell)
	quote := exactInQuote(10_000, 9_900, 9_801)

	plan, err := b.Build(route, quote, sell, domain.ApprovalState{}, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Calls) != 2 {
		t.Fatalf("plan has %d calls, want 2 (setOperator, swap)", len(plan.Calls))
	}
	if plan.Calls[0].Kind != domain.CallSetOperator || plan.Calls[0].Target != sell.Origin {
		t.Errorf("first call = %s on %s, want setOperator on the token contract", plan.Calls[0].Kind, plan.Calls[0].Target)
	}
	if plan.Calls[1].Kind != domain.CallSwap {
		t.Errorf("swap must follow the authorization")
	}

	plan, err = b.Build(route, quote, sell, domain.ApprovalState{OperatorApproved: true}, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Calls) != 1 {
		t.Fatalf("operator already authorized: plan has %d calls, want 1", len(plan.Calls))
	}
}

func TestBuildNativeSellAttachesValue(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	native := nativeAsset()
	buy := operatorSellToken()
	route := directRoute(t, native, buy)

	// ExactIn: the attached value is the exact input.
	quote := exactInQuote(10_000, 9_900, 9_801)
	plan, err := b.Build(route, quote, native, domain.ApprovalState{}, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Calls) != 1 {
		t.Fatalf("native sell needs no approvals, plan has %d calls", len(plan.Calls))
	}
	if !plan.Calls[0].Value.Eq(uint256.NewInt(10_000)) {
		t.Errorf("ExactIn value = %s, want the raw input 10000", plan.Calls[0].Value.Dec())
	}

	// ExactOut: the attached value is the bounded maximum, not the raw quote.
	quote = exactOutQuote(10_000, 9_900, 10_100)
	plan, err = b.Build(route, quote, native, domain.ApprovalState{}, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !plan.Calls[0].Value.Eq(uint256.NewInt(10_100)) {
		t.Errorf("ExactOut value = %s, want the bounded max 10100", plan.Calls[0].Value.Dec())
	}
}

func TestBuildTokenSellAttachesNoValue(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	sell := externalSellToken()
	route := directRoute(t, nativeAsset(), sell)
	quote := exactInQuote(10_000, 9_900, 9_801)

	plan, err := b.Build(route, quote, sell, domain.ApprovalState{Allowance: uint256.NewInt(10_000)}, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !plan.Calls[0].Value.IsZero() {
		t.Errorf("token sell attached value %s, want 0", plan.Calls[0].Value.Dec())
	}
}

func TestBuildTwoHopBatchesOneSwapCall(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	sell := operatorSellToken()
	buy := externalSellToken()
	route := twoHopRoute(t, sell, nativeAsset(), buy)
	quote := exactInQuote(10_000, 9_850, 9_751)

	plan, err := b.Build(route, quote, sell, domain.ApprovalState{OperatorApproved: true}, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Calls) != 1 {
		t.Fatalf("two-hop plan has %d calls, want a single batched swap", len(plan.Calls))
	}
	sel := Selector("swapPathExactIn((uint256,uint256,address,address,uint256)[],uint256,uint256,address,uint256)")
	if !bytes.Equal(plan.Calls[0].Payload[:4], sel[:]) {
		t.Errorf("two-hop payload is not the batched path call")
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	sell := externalSellToken()
	route := directRoute(t, nativeAsset(), sell)
	quote := exactInQuote(10_000, 9_900, 9_801)
	state := domain.ApprovalState{Allowance: uint256.NewInt(0)}

	p1, err := b.Build(route, quote, sell, state, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p2, err := b.Build(route, quote, sell, state, callerAddr, recipientAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(p1.Calls) != len(p2.Calls) {
		t.Fatalf("plan lengths differ")
	}
	for i := range p1.Calls {
		if !bytes.Equal(p1.Calls[i].Payload, p2.Calls[i].Payload) {
			t.Errorf("call %d payload differs between identical builds", i)
		}
	}
}

func TestBuildDefaultsRecipientToCaller(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	sell := externalSellToken()
	route := directRoute(t, nativeAsset(), sell)
	quote := exactInQuote(10_000, 9_900, 9_801)
	state := domain.ApprovalState{Allowance: uint256.NewInt(10_000)}

	explicit, err := b.Build(route, quote, sell, state, callerAddr, callerAddr, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defaulted, err := b.Build(route, quote, sell, state, callerAddr, common.Address{}, 1_700_001_200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.Equal(explicit.Calls[0].Payload, defaulted.Calls[0].Payload) {
		t.Errorf("zero recipient did not default to the caller")
	}
}

func TestBuildUnresolvedRoute(t *testing.T) {
	b := NewBuilder(exchangeAddr)
	quote := exactInQuote(10_000, 9_900, 9_801)

	if _, err := b.Build(domain.Route{}, quote, externalSellToken(), domain.ApprovalState{}, callerAddr, recipientAddr, 0); !errors.Is(err, swapcommon.ErrRouteUnresolved) {
		t.Errorf("empty route: err = %v, want ErrRouteUnresolved", err)
	}

	route := directRoute(t, nativeAsset(), externalSellToken())
	unbounded := domain.SwapQuote{Direction: domain.ExactIn, AmountIn: uint256.NewInt(1), AmountOut: uint256.NewInt(1)}
	if _, err := b.Build(route, unbounded, externalSellToken(), domain.ApprovalState{}, callerAddr, recipientAddr, 0); !errors.Is(err, swapcommon.ErrRouteUnresolved) {
		t.Errorf("unbounded quote: err = %v, want ErrRouteUnresolved", err)
	}
}
