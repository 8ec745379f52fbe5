package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CallKind labels a planned call so executors and UIs can render progress
// without decoding payloads.
type CallKind uint8

const (
	CallApprove CallKind = iota
	CallSetOperator
	CallSwap
)

func (k CallKind) String() string {
	switch k {
	case CallApprove:
		return "approve"
	case CallSetOperator:
		return "setOperator"
	case CallSwap:
		return "swap"
	default:
		return "UNKNOWN"
	}
}

// Call is one on-chain submission: an opaque payload for a specific target,
// plus native value attached to the transaction. The wallet layer signs and
// submits it; the engine never holds keys.
type Call struct {
	Kind    CallKind       `json:"kind"`
	Target  common.Address `json:"target"`
	Payload []byte         `json:"payload"`
	Value   *uint256.Int   `json:"value"`
}

// CallPlan is the ordered sequence sufficient to execute a resolved route
// given the approval state it was built against. Any call that depends on a
// prior call's effect appears strictly later; the plan is deterministic for
// the same input state. Calls must be submitted sequentially, each awaited
// before the next.
type CallPlan struct {
	Calls    []Call `json:"calls"`
	Deadline uint64 `json:"deadline"`
}

// ApprovalState is the live spending permission snapshot for the sell asset,
// read immediately before planning.
type ApprovalState struct {
	Allowance        *uint256.Int `json:"allowance"`
	OperatorApproved bool         `json:"operatorApproved"`
}
