// Package reference implements the batched reference-store lookups over the
// association and clinical-significance datasets, plus the caching and
// circuit-breaker decorators wrapped around them.
package reference

import "strings"

// significanceScores maps ClinVar significance labels to the 0-10 ordinal
// pathogenicity scale. Higher means more clinically important. Entries are
// matched as case-insensitive substrings in declaration order, so the more
// specific combined labels come before their components.
var significanceScores = []struct {
	label string
	score int
}{
	{"Conflicting interpretations of pathogenicity", 4},
	{"Pathogenic/Established risk allele", 10},
	{"Pathogenic/Likely pathogenic", 9},
	{"Likely pathogenic", 8},
	{"Pathogenic", 10},
	{"risk factor", 7},
	{"drug response", 6},
	{"association", 5},
	{"Uncertain significance", 3},
	{"not provided", 2},
	{"other", 2},
	{"Likely benign", 1},
	{"Benign", 0},
}

// reviewStatusScores maps ClinVar review-status labels to a 0-4 reliability
// ordinal, matched the same way.
var reviewStatusScores = []struct {
	label string
	score int
}{
	{"practice guideline", 4},
	{"reviewed by expert panel", 4},
	{"criteria provided, multiple submitters, no conflicts", 3},
	{"criteria provided, conflicting interpretations", 2},
	{"criteria provided, single submitter", 2},
	{"no assertion criteria provided", 1},
	{"no assertion provided", 1},
}

// ParseSignificance normalizes a raw clinical-significance label and returns
// its pathogenicity score. Unrecognized labels pass through with score 0.
func ParseSignificance(raw string) (string, int) {
	lower := strings.ToLower(raw)
	for _, entry := range significanceScores {
		if strings.Contains(lower, strings.ToLower(entry.label)) {
			return entry.label, entry.score
		}
	}
	return raw, 0
}

// ReviewStatusScore returns the reliability ordinal for a raw review-status
// label. Unrecognized labels score 0.
func ReviewStatusScore(raw string) int {
	lower := strings.ToLower(raw)
	for _, entry := range reviewStatusScores {
		if strings.Contains(lower, strings.ToLower(entry.label)) {
			return entry.score
		}
	}
	return 0
}
