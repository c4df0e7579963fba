package analysis

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/longevity-genome-engine/internal/curated"
	"github.com/longevity-genome-engine/internal/domain"
	"github.com/longevity-genome-engine/internal/genotype"
)

// cancelCheckInterval is how many parsed calls pass between context checks
// while draining the input stream.
const cancelCheckInterval = 1024

// Analyzer orchestrates one analysis run: parse, filter, match, score,
// classify, group. Analyzers are safe to share across concurrent runs; all
// per-run state lives in the call stack.
type Analyzer struct {
	data       domain.CuratedData
	matcher    *Matcher
	scorer     *Scorer
	classifier *Classifier
	grouper    *Grouper
	output     domain.OutputConfig
	log        *logrus.Logger
}

// NewAnalyzer wires an analyzer from the curated configuration, the
// reference store and the engine config.
func NewAnalyzer(data domain.CuratedData, store domain.ReferenceStore, cfg *domain.Config, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		data:       data,
		matcher:    NewMatcher(store, cfg.Reference, logger),
		scorer:     NewScorer(cfg.Scoring),
		classifier: NewClassifier(cfg.Classifier),
		grouper:    NewGrouper(data, logger),
		output:     cfg.Output,
		log:        logger,
	}
}

// Analyze runs one full analysis over a raw genotype export. It either
// returns a complete category-grouped result or a single kinded error; there
// is no partial success.
func (a *Analyzer) Analyze(ctx context.Context, r io.Reader) (*domain.AnalysisResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	scanner, err := genotype.NewScanner(r, a.log)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"run_id": runID,
		"format": scanner.Format().String(),
	}).Info("Starting genotype analysis run")

	filter := curated.NewFilter(scanner, a.data)

	var calls []domain.GenotypeCall
	for filter.Next() {
		if len(calls)%cancelCheckInterval == 0 && ctx.Err() != nil {
			return nil, domain.ErrRunCancelled
		}
		calls = append(calls, filter.Call())
	}
	if err := filter.Err(); err != nil {
		return nil, fmt.Errorf("reading genotype export: %w", err)
	}

	matched, stats, err := a.matcher.Match(ctx, calls)
	if err != nil {
		return nil, err
	}

	scored := a.scoreVariants(matched)
	groups := a.grouper.Group(scored)
	for i := range groups {
		groups[i].Highlights = groups[i].Preview(a.output.PreviewSize)
	}

	result := &domain.AnalysisResult{
		RunID:  runID,
		Format: scanner.Format(),
		Summary: domain.AnalysisSummary{
			TotalCalls:      filter.Seen(),
			NoCalls:         scanner.NoCallCount(),
			SkippedLines:    scanner.SkippedCount(),
			CuratedMatched:  filter.Matched(),
			AssociationRows: stats.AssociationRows,
			ClinicalRows:    stats.ClinicalRows,
		},
		Categories:      groups,
		TopAssociations: a.topAssociations(scored),
		ClinicalFlags:   a.clinicalFlags(scored),
		CreatedAt:       time.Now().UTC(),
	}

	a.log.WithFields(logrus.Fields{
		"run_id":          runID,
		"total_calls":     result.Summary.TotalCalls,
		"curated_matched": result.Summary.CuratedMatched,
		"scored_variants": len(scored),
		"categories":      len(groups),
		"duration":        time.Since(start).String(),
	}).Info("Analysis run completed")

	return result, nil
}

// scoreVariants expands each matched variant into per-observation scored
// rows: one per association row, or a single clinical-only row when no
// association matched. Variants without any evidence never reach this stage.
func (a *Analyzer) scoreVariants(matched []domain.MatchedVariant) []domain.ScoredVariant {
	var scored []domain.ScoredVariant

	for _, m := range matched {
		best := m.BestClinical()
		pathogenicity := 0
		condition := ""
		if best != nil {
			pathogenicity = best.PathogenicityScore
			condition = best.Condition
		}

		if len(m.Associations) == 0 {
			if best == nil {
				continue
			}
			ev := Evidence{Pathogenicity: pathogenicity}
			scored = append(scored, a.buildScored(m.Call, domain.ReferenceAssociation{
				RiskAllele: best.RiskAllele,
				Trait:      best.Condition,
			}, ev, condition, pathogenicity))
			continue
		}

		for _, assoc := range m.Associations {
			ev := Evidence{
				PValue:        assoc.PValue,
				Pathogenicity: pathogenicity,
				OddsRatio:     assoc.OddsRatio,
				Frequency:     assoc.RiskAlleleFrequency,
			}
			scored = append(scored, a.buildScored(m.Call, assoc, ev, condition, pathogenicity))
		}
	}

	return scored
}

// buildScored assembles one scored, classified, categorized observation.
func (a *Analyzer) buildScored(call domain.GenotypeCall, assoc domain.ReferenceAssociation, ev Evidence, condition string, pathogenicity int) domain.ScoredVariant {
	userHasRiskAllele := call.HasAllele(assoc.RiskAllele)

	level := a.classifier.Classify(Observation{
		HasEvidence:       true,
		UserHasRiskAllele: userHasRiskAllele,
		Evidence:          ev,
	})

	return domain.ScoredVariant{
		RSID:       call.RSID,
		Genotype:   call.Genotype(),
		Chromosome: call.Chromosome,
		Position:   call.Position,

		Trait:               assoc.Trait,
		RiskAllele:          assoc.RiskAllele,
		PValue:              assoc.PValue,
		OddsRatio:           assoc.OddsRatio,
		RiskAlleleFrequency: assoc.RiskAlleleFrequency,
		StudyDescription:    assoc.StudyDescription,
		PubmedID:            assoc.PubmedID,

		ClinicalCondition:    condition,
		ClinicalSignificance: pathogenicity,

		ImportanceScore:   a.scorer.Score(ev),
		UserHasRiskAllele: userHasRiskAllele,
		RiskLevel:         level,
		Category:          a.grouper.AssignCategory(call.RSID, assoc.Trait, curated.CategorizeTrait),
	}
}

// topAssociations returns the globally highest-scoring observations, capped
// at the configured count.
func (a *Analyzer) topAssociations(scored []domain.ScoredVariant) []domain.ScoredVariant {
	top := make([]domain.ScoredVariant, len(scored))
	copy(top, scored)

	sort.SliceStable(top, func(i, j int) bool {
		if top[i].ImportanceScore != top[j].ImportanceScore {
			return top[i].ImportanceScore > top[j].ImportanceScore
		}
		if top[i].RSID != top[j].RSID {
			return top[i].RSID < top[j].RSID
		}
		return top[i].Trait < top[j].Trait
	})

	if a.output.TopAssociations > 0 && len(top) > a.output.TopAssociations {
		top = top[:a.output.TopAssociations]
	}
	return top
}

// clinicalFlags returns the clinically significant variants: the best
// observation per rsid whose pathogenicity meets the flag threshold, capped
// at the configured count.
func (a *Analyzer) clinicalFlags(scored []domain.ScoredVariant) []domain.ScoredVariant {
	best := make(map[string]domain.ScoredVariant)
	for _, sv := range scored {
		if sv.ClinicalSignificance < a.output.ClinicalFlagScore {
			continue
		}
		current, ok := best[sv.RSID]
		if !ok || sv.ImportanceScore > current.ImportanceScore {
			best[sv.RSID] = sv
		}
	}

	flags := make([]domain.ScoredVariant, 0, len(best))
	for _, sv := range best {
		flags = append(flags, sv)
	}
	sort.SliceStable(flags, func(i, j int) bool {
		if flags[i].ClinicalSignificance != flags[j].ClinicalSignificance {
			return flags[i].ClinicalSignificance > flags[j].ClinicalSignificance
		}
		if flags[i].ImportanceScore != flags[j].ImportanceScore {
			return flags[i].ImportanceScore > flags[j].ImportanceScore
		}
		return flags[i].RSID < flags[j].RSID
	})

	if a.output.ClinicalFlags > 0 && len(flags) > a.output.ClinicalFlags {
		flags = flags[:a.output.ClinicalFlags]
	}
	return flags
}
