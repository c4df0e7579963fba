package domain

import (
	"testing"
)

func TestRiskLevelConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    RiskLevel
		expected string
	}{
		{"Very High", RiskVeryHigh, "very_high"},
		{"High", RiskHigh, "high"},
		{"Moderate", RiskModerate, "moderate"},
		{"Slight", RiskSlight, "slight"},
		{"Lower", RiskLower, "lower"},
		{"Unknown", RiskUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if !tt.value.IsValid() {
				t.Errorf("Expected %s to be valid", tt.expected)
			}
		})
	}
}

func TestRiskLevelPriorityOrdering(t *testing.T) {
	ordered := []RiskLevel{RiskVeryHigh, RiskHigh, RiskModerate, RiskSlight, RiskLower, RiskUnknown}

	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Priority() <= ordered[i].Priority() {
			t.Errorf("Expected %s to outrank %s", ordered[i-1], ordered[i])
		}
	}
}

func TestRiskLevelInvalid(t *testing.T) {
	if RiskLevel("critical").IsValid() {
		t.Error("Expected undeclared level to be invalid")
	}
	if RiskLevel("critical").Priority() != 0 {
		t.Error("Expected undeclared level to sort last")
	}
}

func TestZygosityConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    Zygosity
		expected string
	}{
		{"Homozygous", Homozygous, "homozygous"},
		{"Heterozygous", Heterozygous, "heterozygous"},
		{"Hemizygous", Hemizygous, "hemizygous"},
		{"No Call", NoCall, "no_call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if !tt.value.IsValid() {
				t.Errorf("Expected %s to be valid", tt.expected)
			}
		})
	}
}

func TestFileFormatIsKnown(t *testing.T) {
	tests := []struct {
		name   string
		value  FileFormat
		known  bool
	}{
		{"23andMe", Format23andMe, true},
		{"Ancestry", FormatAncestry, true},
		{"VCF", FormatVCF, true},
		{"Unknown", FormatUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.IsKnown() != tt.known {
				t.Errorf("Expected IsKnown() = %v for %s", tt.known, tt.value)
			}
		})
	}
}

func TestGenotypeCallHasAllele(t *testing.T) {
	call := GenotypeCall{RSID: "rs000001", Allele1: "A", Allele2: "G", Zygosity: Heterozygous}

	if !call.HasAllele("A") || !call.HasAllele("G") {
		t.Error("Expected both observed alleles to match")
	}
	if call.HasAllele("T") {
		t.Error("Expected unobserved allele not to match")
	}
	if call.HasAllele("") {
		t.Error("Expected empty allele not to match")
	}

	noCall := GenotypeCall{RSID: "rs000002", Allele1: "-", Allele2: "-", Zygosity: NoCall, NoCall: true}
	if noCall.HasAllele("-") {
		t.Error("Expected no-call placeholders not to match")
	}
}

func TestMatchedVariantBestClinical(t *testing.T) {
	m := MatchedVariant{
		Clinical: []ReferenceClinical{
			{Condition: "Condition A", PathogenicityScore: 5, ReviewScore: 3},
			{Condition: "Condition B", PathogenicityScore: 8, ReviewScore: 1},
			{Condition: "Condition C", PathogenicityScore: 8, ReviewScore: 4},
		},
	}

	best := m.BestClinical()
	if best == nil || best.Condition != "Condition C" {
		t.Errorf("Expected highest pathogenicity with review-score tiebreak, got %+v", best)
	}

	empty := MatchedVariant{}
	if empty.BestClinical() != nil {
		t.Error("Expected nil for variant without clinical rows")
	}
}

func TestCategoryGroupPage(t *testing.T) {
	group := CategoryGroup{
		ID: "cardio",
		Variants: []ScoredVariant{
			{RSID: "rs1"}, {RSID: "rs2"}, {RSID: "rs3"}, {RSID: "rs4"}, {RSID: "rs5"},
		},
		TotalCount: 5,
	}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"First page", 0, 2, []string{"rs1", "rs2"}},
		{"Middle page", 2, 2, []string{"rs3", "rs4"}},
		{"Short last page", 4, 2, []string{"rs5"}},
		{"Offset past end", 10, 2, []string{}},
		{"Negative offset", -1, 2, []string{}},
		{"Zero limit", 0, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := group.Page(tt.offset, tt.limit)
			if len(page) != len(tt.want) {
				t.Fatalf("Expected %d variants, got %d", len(tt.want), len(page))
			}
			for i, rsid := range tt.want {
				if page[i].RSID != rsid {
					t.Errorf("Expected %s at index %d, got %s", rsid, i, page[i].RSID)
				}
			}
		})
	}
}

func TestCategoryGroupPagesReconstructOrder(t *testing.T) {
	group := CategoryGroup{ID: "metabolic"}
	for i := 0; i < 7; i++ {
		group.Variants = append(group.Variants, ScoredVariant{RSID: string(rune('a' + i))})
	}
	group.TotalCount = len(group.Variants)

	var rebuilt []ScoredVariant
	for offset := 0; offset < group.TotalCount; offset += 3 {
		rebuilt = append(rebuilt, group.Page(offset, 3)...)
	}

	if len(rebuilt) != group.TotalCount {
		t.Fatalf("Expected %d variants after concatenating pages, got %d", group.TotalCount, len(rebuilt))
	}
	for i := range rebuilt {
		if rebuilt[i].RSID != group.Variants[i].RSID {
			t.Errorf("Page concatenation diverged at index %d", i)
		}
	}
}
