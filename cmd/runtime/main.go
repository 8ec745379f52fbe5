package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/config"
	"github.com/lumidex/swap-engine/internal/engine"
	"github.com/lumidex/swap-engine/internal/http"
	"github.com/lumidex/swap-engine/internal/services/market"
)

// @title Lumidex Swap Engine API
// @version 1.0
// @description Client-side swap routing and transaction planning for the Lumidex exchange.
// @description
// @description ## - Features
// @description - **Canonical Pool Keys**: Order-independent pool derivation, native base asset pinned to slot 0
// @description - **Smart Routing**: Direct swaps against the base asset, batched two-hop routing for everything else
// @description - **Price Impact Analysis**: Spot-price delta projection with severity warnings
// @description - **Slippage Protection**: Per-request tolerance with bps-exact bound calculation
// @description - **Call Planning**: Minimal approve/setOperator/swap sequences from live approval state
// @description
// @description ## - Usage Tips
// @description - Amounts are decimal strings in smallest token units
// @description - Default slippage tolerance is 100 bps (1%)
// @description - Plans expire at their deadline (default: 20 minutes after issue)
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Price a trade with routing and impact analysis
// @tag.name plan
// @tag.description Build the ordered call sequence that executes a trade
// @tag.name pools
// @tag.description Inspect and manage the pool registry

func main() {
	// load env
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	generalConf := &config.GeneralConfig{}

	// di container config
	conf := container.NewConf(
		generalConf,
		&config.LedgerConfig{},
		&config.EngineConfig{},
	)

	// di container
	dic, err := container.New(
		// config
		conf,

		// services
		&market.RegistryService{},
		&engine.Service{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	common.InitLogging(generalConf.LogLevel, generalConf.Env)

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
