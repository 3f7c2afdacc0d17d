package types

import (
	"errors"
	"fmt"
)

var (
	ErrMissingLicenseKey = errors.New("NEW_RELIC_LICENSE_KEY is not configured")
	ErrMissingAccountID  = errors.New("NEW_RELIC_ACCOUNT_ID is not configured")
)

// DataFetchError wraps a failure of a cost or recommendation data provider:
// transport errors, auth errors, or a payload that violates the contract.
// It aborts the workflow that owns the fetch, and only that workflow.
type DataFetchError struct {
	Source string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("data fetch from %s failed: %v", e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// NewDataFetchError wraps err with the name of the provider that failed.
func NewDataFetchError(source string, err error) *DataFetchError {
	return &DataFetchError{Source: source, Err: err}
}

// ProviderError wraps a failure of the reasoning provider (network, quota,
// throttling). It never aborts a workflow; the caller downgrades to the
// fallback analysis.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("reasoning provider call failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError signals that the reasoning provider replied but the reply did
// not contain a JSON object matching the expected schema. Treated exactly
// like ProviderError by callers.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}

// SinkError wraps a telemetry delivery failure. The run is still considered
// complete; numeric correctness does not depend on delivery.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("telemetry delivery failed: %v", e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
