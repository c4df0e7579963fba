package reference

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/longevity-genome-engine/internal/domain"
)

// BreakerStore decorates a ReferenceStore with a circuit breaker so that a
// struggling backend fails fast instead of stalling every batch in a run.
type BreakerStore struct {
	inner   domain.ReferenceStore
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewBreakerStore wraps inner with a circuit breaker that trips after five
// consecutive failed lookups.
func NewBreakerStore(inner domain.ReferenceStore, logger *logrus.Logger) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        "ReferenceStore",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from_state":      from.String(),
				"to_state":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &BreakerStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     logger,
	}
}

// LookupAssociations runs the inner lookup through the breaker.
func (b *BreakerStore) LookupAssociations(ctx context.Context, rsids []string) (map[string][]domain.ReferenceAssociation, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.LookupAssociations(ctx, rsids)
	})
	if err != nil {
		return nil, wrapBreakerErr("lookup associations", err)
	}
	return result.(map[string][]domain.ReferenceAssociation), nil
}

// LookupClinical runs the inner lookup through the breaker.
func (b *BreakerStore) LookupClinical(ctx context.Context, rsids []string) (map[string][]domain.ReferenceClinical, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.LookupClinical(ctx, rsids)
	})
	if err != nil {
		return nil, wrapBreakerErr("lookup clinical", err)
	}
	return result.(map[string][]domain.ReferenceClinical), nil
}

// wrapBreakerErr keeps every failure typed as a ReferenceStoreError,
// including the breaker's own open-state rejections.
func wrapBreakerErr(op string, err error) error {
	if _, ok := err.(*domain.ReferenceStoreError); ok {
		return err
	}
	return domain.NewReferenceStoreError(op, err)
}
