package http

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"

	"github.com/lumidex/swap-engine/internal/engine"
	"github.com/lumidex/swap-engine/internal/http/httputil"
)

type PlanHandler struct {
	engineSvc *engine.Service
}

func NewPlanHandler(engineSvc *engine.Service) *PlanHandler {
	return &PlanHandler{engineSvc: engineSvc}
}

func (h *PlanHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.buildPlan)
}

func (h *PlanHandler) Root() string {
	return "/plan"
}

// PlanBody is the call-plan build request.
type PlanBody struct {
	QuoteQuery

	// Address submitting and paying for the calls
	Caller string `json:"caller" binding:"required" example:"0xCa11000000000000000000000000000000000001"`

	// Address receiving the bought tokens; defaults to the caller
	Recipient string `json:"recipient,omitempty" example:"0x4eC1000000000000000000000000000000000001"`
}

// CallInfo is one planned submission, payload hex-encoded for signing.
type CallInfo struct {
	Kind    string `json:"kind" example:"approve"`
	Target  string `json:"target" example:"0xEEeE000000000000000000000000000000000001"`
	Payload string `json:"payload" example:"0x095ea7b3..."`
	Value   string `json:"value" example:"0"`
}

// PlanResponse is the quote plus the ordered calls that execute it.
type PlanResponse struct {
	QuoteResponse

	Calls    []CallInfo `json:"calls"`
	Deadline uint64     `json:"deadline" example:"1700001200"`
}

// @Summary Build a call plan
// @Description Quote the trade and produce the ordered calls sufficient to
// @Description execute it from the caller's current approval state: at most
// @Description one approval or operator authorization, then exactly one swap.
// @Description Calls must be submitted sequentially, each awaited before the
// @Description next; after a partial execution, rebuilding yields the
// @Description shrunken remainder.
// @Tags plan
// @Accept json
// @Produce json
// @Param request body PlanBody true "Plan request"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response "No route between the pair"
// @Router /api/v1/plan [post]
func (h *PlanHandler) buildPlan(c *gin.Context) {
	var body PlanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	quoteReq, ok := buildQuoteRequest(c, body.QuoteQuery)
	if !ok {
		return
	}
	if !common.IsHexAddress(body.Caller) {
		httputil.BadRequest(c, "invalid caller address")
		return
	}
	req := engine.PlanRequest{
		QuoteRequest: quoteReq,
		Caller:       common.HexToAddress(body.Caller),
	}
	if body.Recipient != "" {
		if !common.IsHexAddress(body.Recipient) {
			httputil.BadRequest(c, "invalid recipient address")
			return
		}
		req.Recipient = common.HexToAddress(body.Recipient)
	}

	result, err := h.engineSvc.Plan(c.Request.Context(), req)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	calls := make([]CallInfo, 0, len(result.Plan.Calls))
	for _, call := range result.Plan.Calls {
		calls = append(calls, CallInfo{
			Kind:    call.Kind.String(),
			Target:  call.Target.Hex(),
			Payload: hexutil.Encode(call.Payload),
			Value:   call.Value.Dec(),
		})
	}

	httputil.Success(c, PlanResponse{
		QuoteResponse: buildQuoteResponse(quoteReq, &result.QuoteResult),
		Calls:         calls,
		Deadline:      result.Plan.Deadline,
	})
}
