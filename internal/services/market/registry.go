// Package market holds the token and pool registry the engine quotes
// against. The registry is loaded from a JSON file at startup and can be
// extended at runtime; reserve freshness is not its concern.
package market

import (
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/bytedance/sonic"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/config"
	"github.com/lumidex/swap-engine/internal/domain"
	"github.com/lumidex/swap-engine/internal/services/router"
)

const REGISTRY_SERVICE_NAME = "MarketRegistryService"

type registryFile struct {
	BaseAsset string      `json:"baseAsset"`
	Tokens    []tokenSpec `json:"tokens"`
	Pools     []poolSpec  `json:"pools"`
}

type tokenSpec struct {
	Symbol   string `json:"symbol"`
	Origin   string `json:"origin"`
	LocalID  string `json:"localId,omitempty"` // absent for the native base asset
	Decimals uint8  `json:"decimals"`
	Class    string `json:"class"`
}

type poolSpec struct {
	TokenA string `json:"tokenA"`
	TokenB string `json:"tokenB"`
	FeeBps uint16 `json:"feeBps"`
}

type RegistryService struct {
	container.BaseDIInstance
	logger *swapcommon.ServiceLogger

	registryPath string

	mu     sync.RWMutex
	base   domain.Token
	tokens map[string]domain.Token // by symbol
	pairs  map[string]common.Hash  // normalized pair -> pool id
	pools  *ShardedPoolMap
}

// NewRegistry builds an empty registry outside the DI container.
func NewRegistry() *RegistryService {
	return &RegistryService{
		tokens: make(map[string]domain.Token),
		pairs:  make(map[string]common.Hash),
		pools:  NewShardedPoolMap(),
	}
}

func (svc *RegistryService) ID() string {
	return REGISTRY_SERVICE_NAME
}

func (svc *RegistryService) Configure(c container.IContainer) error {
	svc.logger = swapcommon.NewServiceLogger(svc)
	engineConfig := c.GetConfig(config.ENGINE_CONFIG_KEY).(*config.EngineConfig)
	svc.registryPath = engineConfig.RegistryPath
	svc.tokens = make(map[string]domain.Token)
	svc.pairs = make(map[string]common.Hash)
	svc.pools = NewShardedPoolMap()
	return nil
}

func (svc *RegistryService) Start() error {
	if err := svc.LoadFile(svc.registryPath); err != nil {
		return err
	}
	svc.logger.Info().
		Int("tokens", len(svc.tokens)).
		Int("pools", svc.pools.Len()).
		Msg("registry loaded")
	return nil
}

func (svc *RegistryService) Stop() error {
	return nil
}

func (svc *RegistryService) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read registry %s: %w", path, err)
	}
	return svc.Load(data)
}

// Load replaces the registry content with the parsed file. Pools are
// re-derived from their token pair, never trusted from the file.
func (svc *RegistryService) Load(data []byte) error {
	var file registryFile
	if err := sonic.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse registry: %w", err)
	}

	tokens := make(map[string]domain.Token, len(file.Tokens))
	for _, spec := range file.Tokens {
		token, err := parseToken(spec)
		if err != nil {
			return err
		}
		if _, dup := tokens[spec.Symbol]; dup {
			return fmt.Errorf("duplicate token symbol %q", spec.Symbol)
		}
		tokens[spec.Symbol] = token
	}

	base, ok := tokens[file.BaseAsset]
	if !ok {
		return fmt.Errorf("base asset %q not among registry tokens", file.BaseAsset)
	}
	if !base.IsNative() {
		return fmt.Errorf("base asset %q must omit localId", file.BaseAsset)
	}

	pairs := make(map[string]common.Hash, len(file.Pools))
	pools := NewShardedPoolMap()
	for _, spec := range file.Pools {
		a, ok := tokens[spec.TokenA]
		if !ok {
			return fmt.Errorf("pool references unknown token %q", spec.TokenA)
		}
		b, ok := tokens[spec.TokenB]
		if !ok {
			return fmt.Errorf("pool references unknown token %q", spec.TokenB)
		}
		pool, err := buildPool(a, b, spec.FeeBps)
		if err != nil {
			return fmt.Errorf("pool %s/%s: %w", spec.TokenA, spec.TokenB, err)
		}
		pairs[pairLabel(a, b)] = pool.PoolID
		pools.Set(pool.PoolID, pool)
	}

	svc.mu.Lock()
	svc.base = base
	svc.tokens = tokens
	svc.pairs = pairs
	svc.pools = pools
	svc.mu.Unlock()
	return nil
}

func parseToken(spec tokenSpec) (domain.Token, error) {
	token := domain.Token{
		Origin:   common.HexToAddress(spec.Origin),
		Decimals: spec.Decimals,
	}
	switch spec.Class {
	case "primary":
		token.Class = domain.ClassPrimary
	case "secondary":
		token.Class = domain.ClassSecondary
	case "external":
		token.Class = domain.ClassExternal
	default:
		return domain.Token{}, fmt.Errorf("token %q: unknown class %q", spec.Symbol, spec.Class)
	}
	if spec.LocalID != "" {
		id, err := uint256.FromDecimal(spec.LocalID)
		if err != nil {
			return domain.Token{}, fmt.Errorf("token %q: bad localId %q: %w", spec.Symbol, spec.LocalID, err)
		}
		token.LocalID = id
	}
	return token, nil
}

func buildPool(a, b domain.Token, feeBps uint16) (*domain.Pool, error) {
	key, err := router.DerivePoolKey(a, b, uint256.NewInt(uint64(feeBps)))
	if err != nil {
		return nil, err
	}
	slot0, slot1 := a, b
	if b.Less(a) {
		slot0, slot1 = b, a
	}
	return &domain.Pool{
		Key:    key,
		PoolID: key.Hash(),
		FeeBps: feeBps,
		Slot0:  slot0,
		Slot1:  slot1,
	}, nil
}

// pairLabel is the order-insensitive lookup key for a token pair.
func pairLabel(a, b domain.Token) string {
	if b.Less(a) {
		a, b = b, a
	}
	return tokenLabel(a) + "|" + tokenLabel(b)
}

func tokenLabel(t domain.Token) string {
	if t.IsNative() {
		return "native"
	}
	return t.Origin.Hex() + "#" + t.LocalID.Dec()
}

func (svc *RegistryService) BaseAsset() domain.Token {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.base
}

func (svc *RegistryService) TokenBySymbol(symbol string) (domain.Token, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	token, ok := svc.tokens[symbol]
	return token, ok
}

// PairPool returns the registered pool for an unordered token pair.
func (svc *RegistryService) PairPool(a, b domain.Token) (*domain.Pool, bool) {
	svc.mu.RLock()
	poolID, ok := svc.pairs[pairLabel(a, b)]
	pools := svc.pools
	svc.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return pools.Get(poolID)
}

func (svc *RegistryService) PoolByID(id common.Hash) (*domain.Pool, bool) {
	svc.mu.RLock()
	pools := svc.pools
	svc.mu.RUnlock()
	return pools.Get(id)
}

func (svc *RegistryService) Pools() []*domain.Pool {
	svc.mu.RLock()
	pools := svc.pools
	svc.mu.RUnlock()
	return pools.GetAll()
}

// AddPool registers a pool at runtime, replacing any pool for the pair.
func (svc *RegistryService) AddPool(a, b domain.Token, feeBps uint16) (*domain.Pool, error) {
	pool, err := buildPool(a, b, feeBps)
	if err != nil {
		return nil, err
	}
	svc.mu.Lock()
	svc.pairs[pairLabel(a, b)] = pool.PoolID
	svc.pools.Set(pool.PoolID, pool)
	svc.mu.Unlock()
	return pool, nil
}
