// Package executor walks a call plan against the ledger, one call at a
// time. Later calls depend on the state changes of earlier ones, so the
// plan is abandoned at the first failure; a fresh plan built afterwards
// shrinks past the calls that already landed.
package executor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
	"github.com/lumidex/swap-engine/internal/metrics"
)

// Submitter sends a single call to the ledger and waits for its outcome.
// Submit returns the submission handle; Await blocks until the call is
// finalized and returns ErrExecutionReverted when it landed but failed.
type Submitter interface {
	Submit(ctx context.Context, call domain.Call) (common.Hash, error)
	Await(ctx context.Context, txHash common.Hash) error
}

// CallResult records the outcome of one submitted call.
type CallResult struct {
	Kind   domain.CallKind `json:"kind"`
	TxHash common.Hash     `json:"txHash"`
}

type Executor struct {
	submitter Submitter
}

func NewExecutor(submitter Submitter) *Executor {
	return &Executor{submitter: submitter}
}

// Execute submits the plan's calls strictly in order, awaiting each before
// sending the next. It returns the results of every call that finalized
// successfully alongside the error that stopped the walk, so the caller
// can tell a rejected submission from a genuine on-ledger failure.
func (e *Executor) Execute(ctx context.Context, plan *domain.CallPlan) ([]CallResult, error) {
	if plan == nil || len(plan.Calls) == 0 {
		return nil, fmt.Errorf("%w: empty plan", swapcommon.ErrSubmissionRejected)
	}

	results := make([]CallResult, 0, len(plan.Calls))
	for i, call := range plan.Calls {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		txHash, err := e.submitter.Submit(ctx, call)
		if err != nil {
			metrics.SubmittedCalls.WithLabelValues(call.Kind.String(), "rejected").Inc()
			log.Warn().Err(err).
				Str("kind", call.Kind.String()).
				Int("index", i).
				Msg("[executor] submission rejected, abandoning plan")
			return results, fmt.Errorf("%w: call %d (%s): %v", swapcommon.ErrSubmissionRejected, i, call.Kind, err)
		}

		if err := e.submitter.Await(ctx, txHash); err != nil {
			metrics.SubmittedCalls.WithLabelValues(call.Kind.String(), "failed").Inc()
			log.Warn().Err(err).
				Str("kind", call.Kind.String()).
				Str("tx", txHash.Hex()).
				Msg("[executor] call failed on ledger, abandoning plan")
			return results, fmt.Errorf("call %d (%s) %s: %w", i, call.Kind, txHash.Hex(), err)
		}

		metrics.SubmittedCalls.WithLabelValues(call.Kind.String(), "ok").Inc()
		results = append(results, CallResult{Kind: call.Kind, TxHash: txHash})
	}
	return results, nil
}
