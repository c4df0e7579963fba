package analysis

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/longevity-genome-engine/internal/domain"
)

// Grouper assigns every scored variant to exactly one category and assembles
// the ordered per-category result sets. Ordering is computed once; previews
// and pages are slices over it.
type Grouper struct {
	data domain.CuratedData
	log  *logrus.Logger
}

// NewGrouper creates a grouper over the curated configuration.
func NewGrouper(data domain.CuratedData, logger *logrus.Logger) *Grouper {
	return &Grouper{data: data, log: logger}
}

// AssignCategory resolves the category for one (variant, trait) observation:
// the manual override first, then the variant's primary category, then the
// keyword bucket of the trait label.
func (g *Grouper) AssignCategory(rsid, trait string, fallback func(string) string) string {
	if category, ok := g.data.Override(rsid, trait); ok {
		return category
	}
	if category, ok := g.data.PrimaryCategory(rsid); ok {
		return category
	}
	return fallback(trait)
}

// Group buckets the scored variants by their assigned category and orders
// both the variants within each group and the groups themselves. The result
// is deterministic for the same input set regardless of input order.
func (g *Grouper) Group(scored []domain.ScoredVariant) []domain.CategoryGroup {
	buckets := make(map[string][]domain.ScoredVariant)
	for _, sv := range scored {
		buckets[sv.Category] = append(buckets[sv.Category], sv)
	}

	groups := make([]domain.CategoryGroup, 0, len(buckets))
	for id, variants := range buckets {
		sortVariants(variants)

		group := domain.CategoryGroup{
			ID:         id,
			Label:      id,
			Variants:   variants,
			TotalCount: len(variants),
		}
		if info, ok := g.data.Category(id); ok {
			group.Label = info.Label
			group.Description = info.Description
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		pi, pj := groups[i].TopRiskLevel().Priority(), groups[j].TopRiskLevel().Priority()
		if pi != pj {
			return pi > pj
		}
		if groups[i].TotalCount != groups[j].TotalCount {
			return groups[i].TotalCount > groups[j].TotalCount
		}
		return groups[i].ID < groups[j].ID
	})

	g.log.WithFields(logrus.Fields{
		"variants":   len(scored),
		"categories": len(groups),
	}).Debug("Grouped scored variants")

	return groups
}

// sortVariants orders a category's variants by risk-level priority then
// importance score, both descending, with identity fields breaking remaining
// ties so the order is reproducible.
func sortVariants(variants []domain.ScoredVariant) {
	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i], variants[j]
		if a.RiskLevel.Priority() != b.RiskLevel.Priority() {
			return a.RiskLevel.Priority() > b.RiskLevel.Priority()
		}
		if a.ImportanceScore != b.ImportanceScore {
			return a.ImportanceScore > b.ImportanceScore
		}
		if a.RSID != b.RSID {
			return a.RSID < b.RSID
		}
		return a.Trait < b.Trait
	})
}
