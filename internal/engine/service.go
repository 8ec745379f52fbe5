// Package engine orchestrates a swap request end to end: resolve tokens,
// snapshot reserves, pick the route, price it, bound it, and turn it into
// a call plan against the live approval state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/lumidex/swap-engine/internal/adapters/ledger"
	swapcommon "github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/config"
	"github.com/lumidex/swap-engine/internal/domain"
	"github.com/lumidex/swap-engine/internal/metrics"
	"github.com/lumidex/swap-engine/internal/services/builder"
	"github.com/lumidex/swap-engine/internal/services/market"
	"github.com/lumidex/swap-engine/internal/services/router"
)

const ENGINE_SERVICE_NAME = "SwapEngineService"

// ErrUnknownToken is returned when a request names a symbol the registry
// does not carry.
var ErrUnknownToken = errors.New("unknown token")

// LedgerReader is the slice of the ledger adapter the engine depends on;
// tests substitute a canned implementation.
type LedgerReader interface {
	Reserves(ctx context.Context, poolID common.Hash) (domain.Reserves, error)
	ApprovalState(ctx context.Context, sell domain.Token, owner common.Address) (domain.ApprovalState, error)
}

// QuoteRequest is a priced-trade request. A zero SlippageBps falls back to
// the configured default.
type QuoteRequest struct {
	SellSymbol  string
	BuySymbol   string
	Amount      *uint256.Int
	Direction   domain.SwapDirection
	SlippageBps uint16
}

// QuoteResult is everything a caller needs to judge a trade before
// committing to it.
type QuoteResult struct {
	Sell   domain.Token        `json:"sell"`
	Buy    domain.Token        `json:"buy"`
	Route  domain.Route        `json:"route"`
	Quote  domain.SwapQuote    `json:"quote"`
	Impact *domain.PriceImpact `json:"impact,omitempty"`
	// Warning is non-empty when the impact is notable or unavailable.
	Warning string `json:"warning,omitempty"`
}

// PlanRequest extends a quote request with the executing account.
type PlanRequest struct {
	QuoteRequest
	Caller    common.Address
	Recipient common.Address
}

type PlanResult struct {
	QuoteResult
	Plan *domain.CallPlan `json:"plan"`
}

type Service struct {
	container.BaseDIInstance
	logger *swapcommon.ServiceLogger

	registry *market.RegistryService
	reader   LedgerReader

	resolver  *router.Resolver
	estimator *router.Estimator
	builder   *builder.Builder

	defaultSlippageBps uint16
	deadlineWindow     uint64

	now func() time.Time
}

func (svc *Service) ID() string {
	return ENGINE_SERVICE_NAME
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = swapcommon.NewServiceLogger(svc)
	svc.registry = c.Instance(market.REGISTRY_SERVICE_NAME).(*market.RegistryService)

	ledgerConfig := c.GetConfig(config.LEDGER_CONFIG_KEY).(*config.LedgerConfig)
	engineConfig := c.GetConfig(config.ENGINE_CONFIG_KEY).(*config.EngineConfig)

	client, err := ethclient.Dial(ledgerConfig.RPCUrl)
	if err != nil {
		return fmt.Errorf("dial ledger rpc: %w", err)
	}
	svc.reader = ledger.NewReader(client, ledgerConfig.ExchangeAddress)

	svc.estimator = router.NewEstimator(engineConfig.ImpactCeilingPct)
	svc.builder = builder.NewBuilder(ledgerConfig.ExchangeAddress)
	svc.defaultSlippageBps = engineConfig.DefaultSlippageBps
	svc.deadlineWindow = engineConfig.DeadlineWindow
	svc.now = time.Now
	return nil
}

func (svc *Service) Start() error {
	// The registry is loaded by now; the base asset is fixed for the
	// process lifetime.
	svc.resolver = router.NewResolver(svc.registry.BaseAsset())
	metrics.PoolCount.Set(float64(len(svc.registry.Pools())))
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// Quote resolves, prices, and bounds a trade against fresh reserves.
func (svc *Service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	start := svc.now()
	result, err := svc.quote(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.QuoteRequests.WithLabelValues(req.Direction.String(), status).Inc()
	metrics.QuoteDuration.WithLabelValues(req.Direction.String()).Observe(svc.now().Sub(start).Seconds())
	return result, err
}

func (svc *Service) quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	if req.Amount == nil || req.Amount.IsZero() {
		return nil, fmt.Errorf("amount must be positive")
	}
	sell, ok := svc.registry.TokenBySymbol(req.SellSymbol)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownToken, req.SellSymbol)
	}
	buy, ok := svc.registry.TokenBySymbol(req.BuySymbol)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownToken, req.BuySymbol)
	}

	states, err := svc.snapshotPools(ctx, sell, buy)
	if err != nil {
		return nil, err
	}

	route, err := svc.resolver.Resolve(sell, buy, states)
	if err != nil {
		return nil, err
	}
	metrics.RouteKinds.WithLabelValues(route.Kind.String()).Inc()

	quote, err := router.QuoteRoute(&route, req.Amount, req.Direction)
	if err != nil {
		return nil, err
	}

	tolerance := req.SlippageBps
	if tolerance == 0 {
		tolerance = svc.defaultSlippageBps
	}
	boundBase := quote.AmountOut
	if req.Direction == domain.ExactOut {
		boundBase = quote.AmountIn
	}
	quote.Bounded, err = router.Bound(boundBase, tolerance, req.Direction)
	if err != nil {
		return nil, err
	}

	impact, warning := svc.estimateImpact(route, quote)
	return &QuoteResult{
		Sell:    sell,
		Buy:     buy,
		Route:   route,
		Quote:   *quote,
		Impact:  impact,
		Warning: warning,
	}, nil
}

// Plan quotes the trade and builds the call sequence for the caller's
// current approval state.
func (svc *Service) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	status := "ok"
	result, err := svc.plan(ctx, req)
	if err != nil {
		status = "error"
	}
	metrics.PlanRequests.WithLabelValues(req.Direction.String(), status).Inc()
	if result != nil {
		metrics.PlanCallCount.Observe(float64(len(result.Plan.Calls)))
	}
	return result, err
}

func (svc *Service) plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	if req.Caller == (common.Address{}) {
		return nil, fmt.Errorf("caller address is required")
	}

	quoted, err := svc.quote(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	state, err := svc.reader.ApprovalState(ctx, quoted.Sell, req.Caller)
	if err != nil {
		return nil, fmt.Errorf("approval state read: %w", err)
	}

	deadline := uint64(svc.now().Unix()) + svc.deadlineWindow
	plan, err := svc.builder.Build(quoted.Route, quoted.Quote, quoted.Sell, state, req.Caller, req.Recipient, deadline)
	if err != nil {
		return nil, err
	}

	svc.logger.Debug().
		Str("route", quoted.Route.Kind.String()).
		Int("calls", len(plan.Calls)).
		Uint64("deadline", deadline).
		Msg("plan built")
	return &PlanResult{QuoteResult: *quoted, Plan: plan}, nil
}

// snapshotPools prefetches reserves for every pool the pair can traverse,
// concurrently, and wraps them as the resolver's pool source.
func (svc *Service) snapshotPools(ctx context.Context, sell, buy domain.Token) (router.PoolStates, error) {
	pairs := svc.neededPairs(sell, buy)

	states := &poolSnapshot{
		registry: svc.registry,
		reserves: make(map[common.Hash]domain.Reserves, len(pairs)),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, pair := range pairs {
		pool, ok := svc.registry.PairPool(pair[0], pair[1])
		if !ok {
			// Let the resolver report the missing pool as NoRoute.
			continue
		}
		wg.Add(1)
		go func(poolID common.Hash) {
			defer wg.Done()
			start := svc.now()
			reserves, err := svc.reader.Reserves(ctx, poolID)
			metrics.ReserveReadDuration.Observe(svc.now().Sub(start).Seconds())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.ReserveReads.WithLabelValues("error").Inc()
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			metrics.ReserveReads.WithLabelValues("ok").Inc()
			states.reserves[poolID] = reserves
		}(pool.PoolID)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("reserve snapshot: %w", firstErr)
	}
	return states, nil
}

// neededPairs lists the pools a route between the two tokens can use.
func (svc *Service) neededPairs(sell, buy domain.Token) [][2]domain.Token {
	if sell.IsNative() || buy.IsNative() {
		return [][2]domain.Token{{sell, buy}}
	}
	base := svc.resolver.Base()
	return [][2]domain.Token{{sell, base}, {base, buy}}
}

// estimateImpact reports the compounded spot-price move across the route's
// hops, using each hop's actual input amount.
func (svc *Service) estimateImpact(route domain.Route, quote *domain.SwapQuote) (*domain.PriceImpact, string) {
	amounts := hopInputs(route, quote)

	compound := 1.0
	var first, last *domain.PriceImpact
	for i, hop := range route.Hops {
		impact := svc.estimator.Estimate(hop.In(), hop.Out(), amounts[i], hop.FeeBps)
		if impact == nil {
			return nil, "price impact unavailable for this trade size"
		}
		compound *= 1 + impact.ImpactPct/100
		if i == 0 {
			first = impact
		}
		last = impact
	}

	total := (compound - 1) * 100
	metrics.PriceImpact.WithLabelValues(string(router.GetImpactSeverity(total))).Observe(total * 100)
	return &domain.PriceImpact{
		BeforePrice: first.BeforePrice,
		AfterPrice:  last.AfterPrice,
		ImpactPct:   total,
	}, router.GetImpactWarning(total)
}

// hopInputs returns the input amount entering each hop.
func hopInputs(route domain.Route, quote *domain.SwapQuote) []*uint256.Int {
	if route.Kind == domain.RouteTwoHop {
		return []*uint256.Int{quote.AmountIn, route.Intermediate}
	}
	return []*uint256.Int{quote.AmountIn}
}

// poolSnapshot serves resolver lookups from prefetched reserves.
type poolSnapshot struct {
	registry *market.RegistryService
	reserves map[common.Hash]domain.Reserves
}

func (s *poolSnapshot) PairState(a, b domain.Token) (domain.Pool, domain.Reserves, bool) {
	pool, ok := s.registry.PairPool(a, b)
	if !ok {
		return domain.Pool{}, domain.Reserves{}, false
	}
	reserves, ok := s.reserves[pool.PoolID]
	if !ok {
		return domain.Pool{}, domain.Reserves{}, false
	}
	return *pool, reserves, true
}
