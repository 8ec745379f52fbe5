package config

import (
	"os"
	"testing"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
)

// unsetEnv clears a variable for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, os.Getenv(key))
	os.Unsetenv(key)
}

func TestEngineConfigDefaults(t *testing.T) {
	unsetEnv(t, "DEFAULT_SLIPPAGE_BPS")
	unsetEnv(t, "DEADLINE_WINDOW_SECONDS")
	unsetEnv(t, "IMPACT_CEILING_PCT")
	unsetEnv(t, "REGISTRY_PATH")

	ec := &EngineConfig{}
	if err := ec.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ec.DefaultSlippageBps != swapcommon.DefaultSlippageBps {
		t.Errorf("DefaultSlippageBps = %d, want %d", ec.DefaultSlippageBps, swapcommon.DefaultSlippageBps)
	}
	if ec.DeadlineWindow != swapcommon.DefaultDeadlineWindow {
		t.Errorf("DeadlineWindow = %d, want %d", ec.DeadlineWindow, swapcommon.DefaultDeadlineWindow)
	}
	if ec.ImpactCeilingPct != swapcommon.DefaultImpactCeilingPct {
		t.Errorf("ImpactCeilingPct = %v, want %v", ec.ImpactCeilingPct, swapcommon.DefaultImpactCeilingPct)
	}
	if ec.RegistryPath != "registry.json" {
		t.Errorf("RegistryPath = %q, want registry.json", ec.RegistryPath)
	}
}

func TestEngineConfigFromEnv(t *testing.T) {
	t.Setenv("DEFAULT_SLIPPAGE_BPS", "50")
	t.Setenv("DEADLINE_WINDOW_SECONDS", "600")
	t.Setenv("IMPACT_CEILING_PCT", "80")
	t.Setenv("REGISTRY_PATH", "/etc/lumidex/registry.json")

	ec := &EngineConfig{}
	if err := ec.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ec.DefaultSlippageBps != 50 {
		t.Errorf("DefaultSlippageBps = %d, want 50", ec.DefaultSlippageBps)
	}
	if ec.DeadlineWindow != 600 {
		t.Errorf("DeadlineWindow = %d, want 600", ec.DeadlineWindow)
	}
	if ec.ImpactCeilingPct != 80 {
		t.Errorf("ImpactCeilingPct = %v, want 80", ec.ImpactCeilingPct)
	}
	if ec.RegistryPath != "/etc/lumidex/registry.json" {
		t.Errorf("RegistryPath = %q", ec.RegistryPath)
	}
}

func TestEngineConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		conf EngineConfig
	}{
		{"slippage at denominator", EngineConfig{DefaultSlippageBps: 10000, DeadlineWindow: 1200, ImpactCeilingPct: 90, RegistryPath: "r.json"}},
		{"zero deadline window", EngineConfig{DefaultSlippageBps: 100, DeadlineWindow: 0, ImpactCeilingPct: 90, RegistryPath: "r.json"}},
		{"ceiling above 100", EngineConfig{DefaultSlippageBps: 100, DeadlineWindow: 1200, ImpactCeilingPct: 101, RegistryPath: "r.json"}},
		{"empty registry path", EngineConfig{DefaultSlippageBps: 100, DeadlineWindow: 1200, ImpactCeilingPct: 90, RegistryPath: ""}},
	}
	for _, tc := range cases {
		if err := tc.conf.Validate(); err == nil {
			t.Errorf("%s: Validate accepted an invalid config", tc.name)
		}
	}
}
