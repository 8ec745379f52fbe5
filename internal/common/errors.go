// Package common provides shared utilities used across all features
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Closed error taxonomy for quoting and planning. Every failure path in the
// engine returns one of these (possibly wrapped); nothing is retried
// automatically, since a changed quote or stale approval needs re-planning.
var (
	ErrInvalidPair         = errors.New("invalid pair: identical tokens")
	ErrEmptyPool           = errors.New("empty pool: zero reserve")
	ErrPoolDrained         = errors.New("pool drained: requested output meets or exceeds reserve")
	ErrFeeOutOfRange       = errors.New("fee out of range")
	ErrToleranceOutOfRange = errors.New("slippage tolerance out of range")
	ErrNoRoute             = errors.New("no route: required pool missing or empty")
	ErrRouteUnresolved     = errors.New("route unresolved")

	// Ledger-submission outcomes mapped at the collaborator boundary.
	// A voluntary rejection is not an error condition for the user; a
	// reverted execution is.
	ErrSubmissionRejected = errors.New("submission rejected by holder")
	ErrExecutionReverted  = errors.New("execution reverted")
)

// HttpError represents an HTTP error with status code and message
type HttpError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s %s", e.StatusCode, e.Code, e.Message)
}

func messageOrDefault(msg string, defaultMsg string) string {
	if msg != "" {
		return msg
	}
	return defaultMsg
}

// HTTP Error constructors

func HTTPErrorBadRequest(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    messageOrDefault(msg, "Bad request"),
	}
}

func HTTPErrorNotFound(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    messageOrDefault(msg, "Not found"),
	}
}

func HTTPErrorInternalError(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    messageOrDefault(msg, "Internal server error"),
	}
}

func HTTPErrorBadGateway(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusBadGateway,
		Code:       "LEDGER_UNAVAILABLE",
		Message:    messageOrDefault(msg, "Ledger read failed"),
	}
}
