package config

import (
	"errors"

	"github.com/andrew-solarstorm/go-packages/common"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
)

// EngineConfig carries the quoting defaults and the path of the token/pool
// registry file loaded at startup.
type EngineConfig struct {
	DefaultSlippageBps uint16
	DeadlineWindow     uint64 // seconds added to now for plan deadlines
	ImpactCeilingPct   float64
	RegistryPath       string
}

func (ec *EngineConfig) Key() string {
	return ENGINE_CONFIG_KEY
}

func (ec *EngineConfig) Load() error {
	ec.DefaultSlippageBps = uint16(common.GetEnvOrDefaultInt("DEFAULT_SLIPPAGE_BPS", int(swapcommon.DefaultSlippageBps)))
	ec.DeadlineWindow = uint64(common.GetEnvOrDefaultInt("DEADLINE_WINDOW_SECONDS", swapcommon.DefaultDeadlineWindow))
	ec.ImpactCeilingPct = float64(common.GetEnvOrDefaultInt("IMPACT_CEILING_PCT", int(swapcommon.DefaultImpactCeilingPct)))
	ec.RegistryPath = common.GetEnvOrDefault("REGISTRY_PATH", "registry.json")
	return ec.Validate()
}

func (ec *EngineConfig) Validate() error {
	if ec.DefaultSlippageBps >= swapcommon.BpsDenom {
		return errors.New("DEFAULT_SLIPPAGE_BPS must be below 10000")
	}
	if ec.DeadlineWindow == 0 {
		return errors.New("DEADLINE_WINDOW_SECONDS must be positive")
	}
	if ec.ImpactCeilingPct <= 0 || ec.ImpactCeilingPct > 100 {
		return errors.New("IMPACT_CEILING_PCT must be in (0, 100]")
	}
	if ec.RegistryPath == "" {
		return errors.New("REGISTRY_PATH is required")
	}
	return nil
}
