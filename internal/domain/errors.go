package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds callers are expected to branch on.
var (
	ErrNoKnownFormat   = errors.New("no known genotype format detected")
	ErrCuratedSetEmpty = errors.New("curated variant set is missing or empty")
	ErrCategoriesEmpty = errors.New("category catalog is missing or empty")
	ErrReferenceStore  = errors.New("reference store unavailable")
	ErrRunCancelled    = errors.New("analysis run cancelled")
)

// FormatDetectionError reports that none of the sampled lines matched a known
// export format. Distinct from per-line parse failures, which are counted and
// skipped.
type FormatDetectionError struct {
	SampledLines int
}

// Error implements the error interface.
func (e *FormatDetectionError) Error() string {
	return fmt.Sprintf("unrecognized genotype export: no known format in first %d lines", e.SampledLines)
}

// Unwrap makes the error match ErrNoKnownFormat under errors.Is.
func (e *FormatDetectionError) Unwrap() error {
	return ErrNoKnownFormat
}

// ReferenceStoreError wraps a failed reference-store query so callers can
// distinguish "no rows matched" (empty result, nil error) from "could not
// query" (this error). Always fatal to the run.
type ReferenceStoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ReferenceStoreError) Error() string {
	return fmt.Sprintf("reference store %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause and matches ErrReferenceStore.
func (e *ReferenceStoreError) Unwrap() error {
	return e.Err
}

// Is matches both the wrapped cause and the ErrReferenceStore sentinel.
func (e *ReferenceStoreError) Is(target error) bool {
	return target == ErrReferenceStore
}

// NewReferenceStoreError wraps err as a store failure for operation op.
func NewReferenceStoreError(op string, err error) *ReferenceStoreError {
	return &ReferenceStoreError{Op: op, Err: err}
}

// ConfigurationError reports an invalid or missing static input discovered at
// startup. Configuration problems are never deferred to per-run handling.
type ConfigurationError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError wraps err as a startup configuration failure.
func NewConfigurationError(source string, err error) *ConfigurationError {
	return &ConfigurationError{Source: source, Err: err}
}
