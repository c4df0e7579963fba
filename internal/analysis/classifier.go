package analysis

import (
	"math"

	"github.com/longevity-genome-engine/internal/domain"
)

// Observation is the classifier's view of one scored evidence row: the
// evidence factors plus whether any reference row matched and whether the
// user carries the risk allele.
type Observation struct {
	HasEvidence       bool
	UserHasRiskAllele bool
	Evidence          Evidence
}

// Classifier maps an observation to one of the six risk levels via an
// ordered rule table, first match wins. It is a total function: anything the
// table does not cover classifies as unknown, never an error.
type Classifier struct {
	cfg   domain.ClassifierConfig
	rules []rule
}

type rule struct {
	name    string
	matches func(Observation) bool
	level   domain.RiskLevel
}

// NewClassifier builds the rule table around the configured thresholds.
func NewClassifier(cfg domain.ClassifierConfig) *Classifier {
	c := &Classifier{cfg: cfg}

	// Thresholds compare against the uncapped -log10(p); the scorer's cap
	// bounds score magnitude, not evidence strength.
	logP := func(o Observation) float64 {
		return o.Evidence.LogP(0, math.Inf(1))
	}

	strong := func(o Observation) bool {
		return logP(o) >= cfg.StrongEvidenceLogP ||
			o.Evidence.Pathogenicity >= cfg.StrongPathogenicity
	}
	moderate := func(o Observation) bool {
		return logP(o) >= cfg.ModerateEvidenceLogP ||
			o.Evidence.Pathogenicity >= cfg.ModeratePathogenicity
	}
	highEffect := func(o Observation) bool {
		return o.Evidence.EffectDeparture() >= cfg.HighEffectOddsRatio
	}
	moderateEffect := func(o Observation) bool {
		return o.Evidence.EffectDeparture() >= cfg.ModerateEffectOddsRatio
	}
	rare := func(o Observation) bool {
		return o.Evidence.IsRare(cfg.RareFrequencyMax)
	}
	common := func(o Observation) bool {
		return o.Evidence.IsCommon(cfg.CommonFrequencyMin)
	}

	c.rules = []rule{
		{
			name:    "no reference match",
			matches: func(o Observation) bool { return !o.HasEvidence },
			level:   domain.RiskUnknown,
		},
		{
			name:    "risk allele not carried",
			matches: func(o Observation) bool { return !o.UserHasRiskAllele },
			level:   domain.RiskLower,
		},
		{
			name: "strong rare high-effect",
			matches: func(o Observation) bool {
				return strong(o) && highEffect(o) && rare(o)
			},
			level: domain.RiskVeryHigh,
		},
		{
			name: "strong with moderate effect or common allele",
			matches: func(o Observation) bool {
				return strong(o) && (moderateEffect(o) || common(o))
			},
			level: domain.RiskHigh,
		},
		{
			name: "moderate evidence or common carried allele",
			matches: func(o Observation) bool {
				return moderate(o) || common(o)
			},
			level: domain.RiskModerate,
		},
		{
			name:    "weak evidence with risk allele",
			matches: func(o Observation) bool { return true },
			level:   domain.RiskSlight,
		},
	}

	return c
}

// Classify returns the risk level for one observation.
func (c *Classifier) Classify(o Observation) domain.RiskLevel {
	for _, r := range c.rules {
		if r.matches(o) {
			return r.level
		}
	}
	return domain.RiskUnknown
}
