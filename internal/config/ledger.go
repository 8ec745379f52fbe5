package config

import (
	"errors"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/andrew-solarstorm/go-packages/common"
)

// LedgerConfig points the engine at the chain it reads reserves from and
// the exchange contract every swap call targets.
type LedgerConfig struct {
	RPCUrl          string
	ExchangeAddress ethcommon.Address
	ReceiptTimeout  int // seconds to wait for a submitted call to finalize
}

func (lc *LedgerConfig) Key() string {
	return LEDGER_CONFIG_KEY
}

func (lc *LedgerConfig) Load() error {
	lc.RPCUrl = common.GetEnvOrDefault("RPC_URL", "http://localhost:8545")
	lc.ExchangeAddress = ethcommon.HexToAddress(common.GetEnvOrDefault("EXCHANGE_ADDRESS", ""))
	lc.ReceiptTimeout = common.GetEnvOrDefaultInt("RECEIPT_TIMEOUT_SECONDS", 90)
	return lc.Validate()
}

func (lc *LedgerConfig) Validate() error {
	if lc.RPCUrl == "" {
		return errors.New("RPC_URL is required")
	}
	if lc.ExchangeAddress == (ethcommon.Address{}) {
		return errors.New("EXCHANGE_ADDRESS is required")
	}
	if lc.ReceiptTimeout <= 0 {
		return errors.New("RECEIPT_TIMEOUT_SECONDS must be positive")
	}
	return nil
}
