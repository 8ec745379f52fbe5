package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TokenClass identifies which approval model a token's origin contract uses.
type TokenClass uint8

const (
	// ClassPrimary and ClassSecondary are multi-token contract classes that
	// gate spending through a holder-level operator flag (setOperator).
	ClassPrimary TokenClass = iota
	ClassSecondary
	// ClassExternal is an externally-standard token with per-amount
	// allowances (approve/allowance).
	ClassExternal
)

func (c TokenClass) String() string {
	switch c {
	case ClassPrimary:
		return "Primary"
	case ClassSecondary:
		return "Secondary"
	case ClassExternal:
		return "External"
	default:
		return "UNKNOWN"
	}
}

// Token is resolved from the registry once per request and never mutated.
// A nil LocalID marks the native base asset.
type Token struct {
	Origin   common.Address `json:"origin"`
	LocalID  *uint256.Int   `json:"localId"`
	Decimals uint8          `json:"decimals"`
	Class    TokenClass     `json:"class"`
}

func (t Token) IsNative() bool {
	return t.LocalID == nil
}

// Equal reports whether two tokens refer to the same asset.
func (t Token) Equal(o Token) bool {
	if t.Origin != o.Origin {
		return false
	}
	if t.IsNative() || o.IsNative() {
		return t.IsNative() == o.IsNative()
	}
	return t.LocalID.Eq(o.LocalID)
}

// Less defines the total order used for canonical pool slot assignment:
// first by origin class, then by numeric local identifier, with the origin
// address breaking ties between distinct contracts sharing an id. The
// native base asset sorts before everything.
func (t Token) Less(o Token) bool {
	if t.IsNative() != o.IsNative() {
		return t.IsNative()
	}
	if t.Class != o.Class {
		return t.Class < o.Class
	}
	if t.IsNative() {
		return false
	}
	if !t.LocalID.Eq(o.LocalID) {
		return t.LocalID.Lt(o.LocalID)
	}
	return t.Origin.Cmp(o.Origin) < 0
}

// EffectiveID is the identifier encoded into pool keys: 0 for the native
// base asset, the local id otherwise.
func (t Token) EffectiveID() *uint256.Int {
	if t.LocalID == nil {
		return uint256.NewInt(0)
	}
	return t.LocalID
}
