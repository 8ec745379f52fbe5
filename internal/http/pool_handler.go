package http

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/lumidex/swap-engine/internal/domain"
	"github.com/lumidex/swap-engine/internal/http/httputil"
	"github.com/lumidex/swap-engine/internal/services/market"
)

type PoolHandler struct {
	registry *market.RegistryService
}

func NewPoolHandler(registry *market.RegistryService) *PoolHandler {
	return &PoolHandler{registry: registry}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listPools)
	pub.GET("/:id", h.getPool)
	admin.POST("", h.addPool)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

// PoolInfo is the registry view of one pool.
type PoolInfo struct {
	// Canonical pool id, the keccak hash of the pool key
	PoolID string `json:"poolId" example:"0x9c22ff..."`

	// Slot 0 and slot 1 token origins in canonical order
	Token0 string `json:"token0" example:"0x1000000000000000000000000000000000000001"`
	Token1 string `json:"token1" example:"0x2000000000000000000000000000000000000002"`

	// Local token ids within their origin contracts
	ID0 string `json:"id0" example:"0"`
	ID1 string `json:"id1" example:"7"`

	// This pool's own fee in basis points
	FeeBps uint16 `json:"feeBps" example:"30"`
}

// PoolListResponse is a paginated pool listing.
type PoolListResponse struct {
	Pools []PoolInfo `json:"pools"`
	Total int        `json:"total" example:"12"`
	Page  int        `json:"page" example:"1"`
	Limit int        `json:"limit" example:"100"`
}

func poolInfo(pool *domain.Pool) PoolInfo {
	return PoolInfo{
		PoolID: pool.PoolID.Hex(),
		Token0: pool.Key.Token0.Hex(),
		Token1: pool.Key.Token1.Hex(),
		ID0:    pool.Key.ID0.Dec(),
		ID1:    pool.Key.ID1.Dec(),
		FeeBps: pool.FeeBps,
	}
}

// @Summary List registered pools
// @Tags pools
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Pools per page" default(100)
// @Success 200 {object} PoolListResponse
// @Router /api/v1/pools [get]
func (h *PoolHandler) listPools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	all := h.registry.Pools()
	total := len(all)
	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	pools := make([]PoolInfo, 0, end-offset)
	for _, pool := range all[offset:end] {
		pools = append(pools, poolInfo(pool))
	}
	httputil.Success(c, PoolListResponse{Pools: pools, Total: total, Page: page, Limit: limit})
}

// @Summary Get a pool by id
// @Tags pools
// @Produce json
// @Param id path string true "Canonical pool id"
// @Success 200 {object} PoolInfo
// @Failure 404 {object} httputil.Response
// @Router /api/v1/pools/{id} [get]
func (h *PoolHandler) getPool(c *gin.Context) {
	pool, ok := h.registry.PoolByID(common.HexToHash(c.Param("id")))
	if !ok {
		httputil.NotFound(c, "pool not found")
		return
	}
	httputil.Success(c, poolInfo(pool))
}

// AddPoolBody registers a pool between two known tokens.
type AddPoolBody struct {
	TokenA string `json:"tokenA" binding:"required" example:"GEM"`
	TokenB string `json:"tokenB" binding:"required" example:"USDX"`
	FeeBps uint16 `json:"feeBps" binding:"required" example:"30"`
}

func (h *PoolHandler) addPool(c *gin.Context) {
	var body AddPoolBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if body.FeeBps >= 10000 {
		httputil.BadRequest(c, "feeBps must be below 10000")
		return
	}
	a, ok := h.registry.TokenBySymbol(body.TokenA)
	if !ok {
		httputil.BadRequest(c, "unknown token "+body.TokenA)
		return
	}
	b, ok := h.registry.TokenBySymbol(body.TokenB)
	if !ok {
		httputil.BadRequest(c, "unknown token "+body.TokenB)
		return
	}
	pool, err := h.registry.AddPool(a, b, body.FeeBps)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	httputil.Success(c, poolInfo(pool))
}
