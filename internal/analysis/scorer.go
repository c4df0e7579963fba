package analysis

import (
	"math"

	"github.com/longevity-genome-engine/internal/domain"
)

// Evidence is the explicit, per-factor nullable input to scoring and
// classification. Each factor is independently optional so "no data" is a
// branch, not a falsy coercion.
type Evidence struct {
	PValue        *float64
	Pathogenicity int
	OddsRatio     *float64
	Frequency     *float64
}

// LogP returns -log10(pValue) clamped to the given bounds, or the floor when
// the p-value is missing or non-positive.
func (e Evidence) LogP(floor, ceiling float64) float64 {
	if e.PValue == nil || *e.PValue <= 0 {
		return floor
	}
	logP := -math.Log10(*e.PValue)
	if logP > ceiling {
		return ceiling
	}
	if logP < floor {
		return floor
	}
	return logP
}

// EffectMagnitude returns |ln(oddsRatio)|: zero for a neutral or missing
// odds ratio, positive for both risk-increasing and protective effects.
func (e Evidence) EffectMagnitude() float64 {
	if e.OddsRatio == nil || *e.OddsRatio <= 0 {
		return 0
	}
	return math.Abs(math.Log(*e.OddsRatio))
}

// EffectDeparture returns the odds ratio folded onto the risk-increasing
// scale, max(OR, 1/OR), so protective and risk effects of equal strength
// compare equal against OR-scale thresholds. Zero when the odds ratio is
// missing or non-positive.
func (e Evidence) EffectDeparture() float64 {
	if e.OddsRatio == nil || *e.OddsRatio <= 0 {
		return 0
	}
	return math.Max(*e.OddsRatio, 1 / *e.OddsRatio)
}

// IsCommon reports whether the risk-allele frequency exceeds the threshold.
// An unknown frequency counts as common, never as rare.
func (e Evidence) IsCommon(threshold float64) bool {
	if e.Frequency == nil {
		return true
	}
	return *e.Frequency > threshold
}

// IsRare reports whether the frequency is known and below the threshold.
func (e Evidence) IsRare(threshold float64) bool {
	return e.Frequency != nil && *e.Frequency < threshold
}

// Scorer computes the composite importance score of one evidence observation.
// The score is a weighted sum of the statistical, clinical and effect-size
// components, discounted for very common risk alleles. Deterministic: the
// same evidence always scores the same.
type Scorer struct {
	cfg domain.ScoringConfig
}

// NewScorer creates a scorer with the given weights and clamps.
func NewScorer(cfg domain.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the importance score for one evidence observation. Missing
// evidence contributes nothing; all-missing evidence scores the floor, not
// an error. The result is never negative.
func (s *Scorer) Score(ev Evidence) float64 {
	statComponent := ev.LogP(s.cfg.StatFloor, s.cfg.StatCap)
	clinicalComponent := float64(ev.Pathogenicity)
	effectComponent := ev.EffectMagnitude()

	score := s.cfg.StatWeight*statComponent +
		s.cfg.ClinicalWeight*clinicalComponent +
		s.cfg.EffectWeight*effectComponent

	// a risk allele most of the population carries is less differentiating
	if ev.Frequency != nil && *ev.Frequency > s.cfg.CommonFrequency {
		score *= s.cfg.CommonDiscount
	}

	if score < 0 {
		return 0
	}
	return score
}
