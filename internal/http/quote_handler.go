package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
	"github.com/lumidex/swap-engine/internal/engine"
	"github.com/lumidex/swap-engine/internal/http/httputil"
	"github.com/lumidex/swap-engine/internal/services/router"
)

type QuoteHandler struct {
	engineSvc *engine.Service
}

func NewQuoteHandler(engineSvc *engine.Service) *QuoteHandler {
	return &QuoteHandler{engineSvc: engineSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteQuery are the request parameters shared by quote and plan requests.
type QuoteQuery struct {
	// Registry symbol of the token being sold
	Sell string `form:"sell" json:"sell" binding:"required" example:"GEM"`

	// Registry symbol of the token being bought
	Buy string `form:"buy" json:"buy" binding:"required" example:"USDX"`

	// Amount in smallest token units, decimal string
	Amount string `form:"amount" json:"amount" binding:"required" example:"1000000"`

	// ExactIn fixes the input amount; ExactOut fixes the output
	Direction string `form:"direction" json:"direction" binding:"required" enums:"ExactIn,ExactOut" example:"ExactIn"`

	// Slippage tolerance in basis points; 0 uses the configured default
	SlippageBps uint16 `form:"slippageBps" json:"slippageBps" example:"100"`
}

// HopInfo describes one pool traversal of the chosen route.
type HopInfo struct {
	PoolID     string `json:"poolId" example:"0x9c22ff..."`
	FeeBps     uint16 `json:"feeBps" example:"30"`
	ZeroForOne bool   `json:"zeroForOne" example:"true"`
}

// QuoteResponse is the priced trade before any commitment.
type QuoteResponse struct {
	Sell      string `json:"sell" example:"GEM"`
	Buy       string `json:"buy" example:"USDX"`
	Direction string `json:"direction" example:"ExactIn"`

	AmountIn  string `json:"amountIn" example:"1000000"`
	AmountOut string `json:"amountOut" example:"996006"`

	// Minimum output (ExactIn) or maximum input (ExactOut) after slippage
	Bounded string `json:"bounded" example:"986045"`

	RouteKind string    `json:"routeKind" example:"TwoHop"`
	Hops      []HopInfo `json:"hops"`

	// Base-asset amount between the hops of a two-hop route
	Intermediate string `json:"intermediate,omitempty" example:"997000"`

	// Price impact percent; absent when unavailable for this trade size
	PriceImpactPct *float64 `json:"priceImpactPct,omitempty" example:"0.42"`
	Severity       string   `json:"severity,omitempty" example:"low"`
	Warning        string   `json:"warning,omitempty"`
}

func parseQuoteQuery(c *gin.Context) (engine.QuoteRequest, bool) {
	var query QuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return engine.QuoteRequest{}, false
	}
	return buildQuoteRequest(c, query)
}

func buildQuoteRequest(c *gin.Context, query QuoteQuery) (engine.QuoteRequest, bool) {
	amount, err := uint256.FromDecimal(query.Amount)
	if err != nil || amount.IsZero() {
		httputil.BadRequest(c, "invalid amount: must be a positive integer")
		return engine.QuoteRequest{}, false
	}

	var direction domain.SwapDirection
	switch query.Direction {
	case "ExactIn":
		direction = domain.ExactIn
	case "ExactOut":
		direction = domain.ExactOut
	default:
		httputil.BadRequest(c, "invalid direction: must be ExactIn or ExactOut")
		return engine.QuoteRequest{}, false
	}

	return engine.QuoteRequest{
		SellSymbol:  query.Sell,
		BuySymbol:   query.Buy,
		Amount:      amount,
		Direction:   direction,
		SlippageBps: query.SlippageBps,
	}, true
}

func buildQuoteResponse(req engine.QuoteRequest, result *engine.QuoteResult) QuoteResponse {
	hops := make([]HopInfo, 0, len(result.Route.Hops))
	for _, hop := range result.Route.Hops {
		hops = append(hops, HopInfo{
			PoolID:     hop.PoolID.Hex(),
			FeeBps:     hop.FeeBps,
			ZeroForOne: hop.ZeroForOne,
		})
	}

	resp := QuoteResponse{
		Sell:      req.SellSymbol,
		Buy:       req.BuySymbol,
		Direction: result.Quote.Direction.String(),
		AmountIn:  result.Quote.AmountIn.Dec(),
		AmountOut: result.Quote.AmountOut.Dec(),
		Bounded:   result.Quote.Bounded.Dec(),
		RouteKind: result.Route.Kind.String(),
		Hops:      hops,
		Warning:   result.Warning,
	}
	if result.Route.Intermediate != nil {
		resp.Intermediate = result.Route.Intermediate.Dec()
	}
	if result.Impact != nil {
		pct := result.Impact.ImpactPct
		resp.PriceImpactPct = &pct
		resp.Severity = string(router.GetImpactSeverity(pct))
	}
	return resp
}

// respondEngineError maps the engine's error taxonomy onto HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, swapcommon.ErrNoRoute):
		httputil.NotFound(c, err.Error())
	case errors.Is(err, engine.ErrUnknownToken),
		errors.Is(err, swapcommon.ErrInvalidPair),
		errors.Is(err, swapcommon.ErrToleranceOutOfRange),
		errors.Is(err, swapcommon.ErrEmptyPool),
		errors.Is(err, swapcommon.ErrPoolDrained),
		errors.Is(err, swapcommon.ErrRouteUnresolved):
		httputil.BadRequest(c, err.Error())
	default:
		httputil.BadGateway(c, fmt.Sprintf("quote failed: %v", err))
	}
}

// @Summary Get swap quote
// @Description Price a trade between two registered tokens. Pairs involving
// @Description the native base asset trade directly; any other pair routes
// @Description through the base asset in a single batched two-hop call.
// @Tags quote
// @Produce json
// @Param sell query string true "Sell token symbol" example("GEM")
// @Param buy query string true "Buy token symbol" example("USDX")
// @Param amount query string true "Amount in smallest units" example("1000000")
// @Param direction query string true "ExactIn or ExactOut" Enums(ExactIn, ExactOut)
// @Param slippageBps query int false "Slippage tolerance in basis points" default(100)
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response "No route between the pair"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	req, ok := parseQuoteQuery(c)
	if !ok {
		return
	}

	result, err := h.engineSvc.Quote(c.Request.Context(), req)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	httputil.Success(c, buildQuoteResponse(req, result))
}
