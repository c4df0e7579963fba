// Package analysis implements the matching, scoring, classification and
// grouping stages of a genotype analysis run, plus the orchestration that
// ties them to a parsed export.
package analysis

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/longevity-genome-engine/internal/domain"
)

// MatchStats aggregates the reference-row counts of one matching pass.
type MatchStats struct {
	AssociationRows int
	ClinicalRows    int
}

// Matcher joins filtered genotype calls with their reference rows. Calls are
// processed in fixed-size batches; independent batches run concurrently
// against the store, bounded by the configured concurrency and rate limit.
// Output order is not input order, downstream sorting owns ordering.
type Matcher struct {
	store   domain.ReferenceStore
	cfg     domain.ReferenceConfig
	limiter *rate.Limiter
	log     *logrus.Logger
}

// NewMatcher creates a matcher over store. A zero or negative batch size or
// concurrency falls back to the defaults.
func NewMatcher(store domain.ReferenceStore, cfg domain.ReferenceConfig, logger *logrus.Logger) *Matcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultBatchSize
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = domain.DefaultBatchConcurrency
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = domain.DefaultQueryTimeout
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Matcher{
		store:   store,
		cfg:     cfg,
		limiter: limiter,
		log:     logger,
	}
}

// Match retrieves the reference rows for every callable genotype call.
// No-call records are skipped before querying. Any store failure fails the
// whole run; remaining batches are abandoned.
func (m *Matcher) Match(ctx context.Context, calls []domain.GenotypeCall) ([]domain.MatchedVariant, MatchStats, error) {
	callable := make([]domain.GenotypeCall, 0, len(calls))
	for _, call := range calls {
		if call.NoCall {
			continue
		}
		callable = append(callable, call)
	}

	var (
		mu      sync.Mutex
		matched []domain.MatchedVariant
		stats   MatchStats
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(m.cfg.BatchConcurrency)

	for start := 0; start < len(callable); start += m.cfg.BatchSize {
		end := start + m.cfg.BatchSize
		if end > len(callable) {
			end = len(callable)
		}
		batch := callable[start:end]

		group.Go(func() error {
			batchMatched, batchStats, err := m.matchBatch(groupCtx, batch)
			if err != nil {
				return err
			}

			mu.Lock()
			matched = append(matched, batchMatched...)
			stats.AssociationRows += batchStats.AssociationRows
			stats.ClinicalRows += batchStats.ClinicalRows
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, MatchStats{}, domain.ErrRunCancelled
		}
		return nil, MatchStats{}, err
	}

	m.log.WithFields(logrus.Fields{
		"calls":            len(callable),
		"matched_variants": len(matched),
		"association_rows": stats.AssociationRows,
		"clinical_rows":    stats.ClinicalRows,
	}).Info("Reference matching completed")

	return matched, stats, nil
}

// matchBatch queries both reference datasets for one batch and joins the
// rows back onto their calls.
func (m *Matcher) matchBatch(ctx context.Context, batch []domain.GenotypeCall) ([]domain.MatchedVariant, MatchStats, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, MatchStats{}, err
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, m.cfg.QueryTimeout)
	defer cancel()

	rsids := uniqueRSIDs(batch)

	associations, err := m.store.LookupAssociations(queryCtx, rsids)
	if err != nil {
		return nil, MatchStats{}, err
	}
	clinical, err := m.store.LookupClinical(queryCtx, rsids)
	if err != nil {
		return nil, MatchStats{}, err
	}

	var stats MatchStats
	matched := make([]domain.MatchedVariant, 0, len(batch))
	for _, call := range batch {
		variant := domain.MatchedVariant{
			Call:         call,
			Associations: associations[call.RSID],
			Clinical:     clinical[call.RSID],
		}
		if !variant.HasEvidence() {
			continue
		}
		stats.AssociationRows += len(variant.Associations)
		stats.ClinicalRows += len(variant.Clinical)
		matched = append(matched, variant)
	}

	return matched, stats, nil
}

func uniqueRSIDs(calls []domain.GenotypeCall) []string {
	seen := make(map[string]struct{}, len(calls))
	rsids := make([]string, 0, len(calls))
	for _, call := range calls {
		if _, ok := seen[call.RSID]; ok {
			continue
		}
		seen[call.RSID] = struct{}{}
		rsids = append(rsids, call.RSID)
	}
	return rsids
}
