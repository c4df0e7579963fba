package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormatDetectionError(t *testing.T) {
	err := &FormatDetectionError{SampledLines: 100}

	if !errors.Is(err, ErrNoKnownFormat) {
		t.Error("Expected FormatDetectionError to match ErrNoKnownFormat")
	}

	wrapped := fmt.Errorf("parsing export: %w", err)
	if !errors.Is(wrapped, ErrNoKnownFormat) {
		t.Error("Expected wrapped error to match ErrNoKnownFormat")
	}

	var target *FormatDetectionError
	if !errors.As(wrapped, &target) || target.SampledLines != 100 {
		t.Error("Expected errors.As to recover the sampled line count")
	}
}

func TestReferenceStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewReferenceStoreError("lookup associations", cause)

	if !errors.Is(err, ErrReferenceStore) {
		t.Error("Expected store error to match ErrReferenceStore")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected store error to expose its cause")
	}
	if errors.Is(err, ErrNoKnownFormat) {
		t.Error("Expected store error not to match unrelated sentinels")
	}
}

func TestReferenceStoreErrorDistinctFromEmptyResult(t *testing.T) {
	// "no rows matched" is a nil error with an empty map; only a failed query
	// produces the store error kind.
	var err error
	if errors.Is(err, ErrReferenceStore) {
		t.Error("Expected nil error not to be a store failure")
	}

	err = NewReferenceStoreError("lookup clinical", errors.New("timeout"))
	if !errors.Is(err, ErrReferenceStore) {
		t.Error("Expected query failure to be a store failure")
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("curated variant list", ErrCuratedSetEmpty)

	if !errors.Is(err, ErrCuratedSetEmpty) {
		t.Error("Expected configuration error to expose its cause")
	}
	if err.Error() == "" {
		t.Error("Expected non-empty error message")
	}
}
