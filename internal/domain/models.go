package domain

import (
	"time"
)

// GenotypeCall is one parsed line of a genotype export: the pair of alleles
// the user carries at a single variant position. Immutable once produced.
type GenotypeCall struct {
	RSID       string   `json:"rsid"`
	Chromosome string   `json:"chromosome"`
	Position   int64    `json:"position"`
	Allele1    string   `json:"allele1"`
	Allele2    string   `json:"allele2"`
	Zygosity   Zygosity `json:"zygosity"`
	NoCall     bool     `json:"no_call"`
}

// Genotype returns the two alleles as a single display string, e.g. "AG".
func (c GenotypeCall) Genotype() string {
	return c.Allele1 + c.Allele2
}

// HasAllele reports whether either observed allele equals the given base.
// No-call placeholders never match.
func (c GenotypeCall) HasAllele(allele string) bool {
	if allele == "" || c.NoCall {
		return false
	}
	return c.Allele1 == allele || c.Allele2 == allele
}

// ReferenceAssociation is one association-study row from the reference
// dataset. Nullable evidence factors are pointers so "no data" stays
// distinguishable from a zero value. Read-only to this engine.
type ReferenceAssociation struct {
	RSID                string   `json:"rsid"`
	RiskAllele          string   `json:"risk_allele"`
	Trait               string   `json:"trait"`
	PValue              *float64 `json:"p_value,omitempty"`
	OddsRatio           *float64 `json:"odds_ratio,omitempty"`
	RiskAlleleFrequency *float64 `json:"risk_allele_frequency,omitempty"`
	StudyDescription    string   `json:"study_description,omitempty"`
	PubmedID            string   `json:"pubmed_id,omitempty"`
	MappedGene          string   `json:"mapped_gene,omitempty"`
}

// ReferenceClinical is one clinical-significance row from the reference
// dataset. PathogenicityScore is the 0-10 ordinal derived from the raw
// significance label; ReviewScore rates submission reliability.
type ReferenceClinical struct {
	RSID               string `json:"rsid"`
	RiskAllele         string `json:"risk_allele,omitempty"`
	Condition          string `json:"condition"`
	Significance       string `json:"significance"`
	PathogenicityScore int    `json:"pathogenicity_score"`
	ReviewStatus       string `json:"review_status,omitempty"`
	ReviewScore        int    `json:"review_score"`
	Accession          string `json:"accession,omitempty"`
	Gene               string `json:"gene,omitempty"`
}

// MatchedVariant joins one genotype call with every reference row sharing its
// variant identifier. Rows whose risk allele the user does not carry are
// retained so absence of the risk allele can be reported, not dropped.
type MatchedVariant struct {
	Call         GenotypeCall           `json:"call"`
	Associations []ReferenceAssociation `json:"associations"`
	Clinical     []ReferenceClinical    `json:"clinical"`
}

// HasEvidence reports whether any reference rows matched at all.
func (m MatchedVariant) HasEvidence() bool {
	return len(m.Associations) > 0 || len(m.Clinical) > 0
}

// BestClinical returns the clinical row with the highest pathogenicity score,
// review score breaking ties, or nil when there are no clinical rows.
func (m MatchedVariant) BestClinical() *ReferenceClinical {
	var best *ReferenceClinical
	for i := range m.Clinical {
		c := &m.Clinical[i]
		if best == nil ||
			c.PathogenicityScore > best.PathogenicityScore ||
			(c.PathogenicityScore == best.PathogenicityScore && c.ReviewScore > best.ReviewScore) {
			best = c
		}
	}
	return best
}

// ScoredVariant is one scored, risk-classified evidence observation: a
// genotype call paired with one association row (or clinical evidence alone)
// plus the computed importance score and risk level. Immutable once built.
type ScoredVariant struct {
	RSID       string `json:"rsid"`
	Genotype   string `json:"genotype"`
	Chromosome string `json:"chromosome"`
	Position   int64  `json:"position"`

	Trait               string   `json:"trait"`
	RiskAllele          string   `json:"risk_allele,omitempty"`
	PValue              *float64 `json:"p_value,omitempty"`
	OddsRatio           *float64 `json:"odds_ratio,omitempty"`
	RiskAlleleFrequency *float64 `json:"risk_allele_frequency,omitempty"`
	StudyDescription    string   `json:"study_description,omitempty"`
	PubmedID            string   `json:"pubmed_id,omitempty"`

	ClinicalCondition    string `json:"clinical_condition,omitempty"`
	ClinicalSignificance int    `json:"clinical_significance,omitempty"`

	ImportanceScore   float64   `json:"importance_score"`
	UserHasRiskAllele bool      `json:"user_has_risk_allele"`
	RiskLevel         RiskLevel `json:"risk_level"`
	Category          string    `json:"category"`
}

// CategoryGroup is the ordered result set for one health category. Variants
// are sorted by risk-level priority then importance score, both descending;
// previews and pages are slices over this one precomputed order.
type CategoryGroup struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Variants    []ScoredVariant `json:"variants"`
	// Highlights is the emitted preview: the head of Variants, capped at
	// the configured preview size.
	Highlights []ScoredVariant `json:"highlights,omitempty"`
	TotalCount int             `json:"total_count"`
}

// TopRiskLevel returns the highest risk level present in the group. The
// variants are already ordered, so this is the first entry's level.
func (g CategoryGroup) TopRiskLevel() RiskLevel {
	if len(g.Variants) == 0 {
		return RiskUnknown
	}
	return g.Variants[0].RiskLevel
}

// Preview returns up to n variants from the head of the precomputed order.
func (g CategoryGroup) Preview(n int) []ScoredVariant {
	if n < 0 {
		n = 0
	}
	if n > len(g.Variants) {
		n = len(g.Variants)
	}
	return g.Variants[:n]
}

// Page returns a stable offset/limit slice over the precomputed order.
// Out-of-range offsets yield an empty slice, never an error.
func (g CategoryGroup) Page(offset, limit int) []ScoredVariant {
	if offset < 0 || limit <= 0 || offset >= len(g.Variants) {
		return []ScoredVariant{}
	}
	end := offset + limit
	if end > len(g.Variants) {
		end = len(g.Variants)
	}
	return g.Variants[offset:end]
}

// AnalysisSummary carries the aggregate counts produced as a side effect of
// parsing, filtering, and matching. Audit-level numbers: calls discarded by
// the curated filter are only visible here.
type AnalysisSummary struct {
	TotalCalls      int `json:"total_calls"`
	NoCalls         int `json:"no_calls"`
	SkippedLines    int `json:"skipped_lines"`
	CuratedMatched  int `json:"curated_matched"`
	AssociationRows int `json:"association_rows"`
	ClinicalRows    int `json:"clinical_rows"`
}

// AnalysisResult is the complete output of one analysis run: category groups
// in display order plus the summary counts and global previews.
type AnalysisResult struct {
	RunID           string          `json:"run_id"`
	Format          FileFormat      `json:"format"`
	Summary         AnalysisSummary `json:"summary"`
	Categories      []CategoryGroup `json:"categories"`
	TopAssociations []ScoredVariant `json:"top_associations"`
	ClinicalFlags   []ScoredVariant `json:"clinical_flags"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CategoryInfo describes one health category from the category catalog.
type CategoryInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// OverrideKey identifies one (variant, trait) observation in the manual
// category override table used to resolve pleiotropic variants.
type OverrideKey struct {
	RSID  string
	Trait string
}
