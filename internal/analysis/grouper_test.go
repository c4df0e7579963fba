package analysis

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longevity-genome-engine/internal/curated"
	"github.com/longevity-genome-engine/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func loadCurated(t *testing.T) domain.CuratedData {
	t.Helper()
	data, err := curated.Load(domain.CuratedConfig{}, newTestLogger())
	require.NoError(t, err)
	return data
}

func scoredVariant(rsid, trait, category string, level domain.RiskLevel, score float64) domain.ScoredVariant {
	return domain.ScoredVariant{
		RSID:            rsid,
		Trait:           trait,
		Category:        category,
		RiskLevel:       level,
		ImportanceScore: score,
	}
}

func TestAssignCategoryOverrideWins(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	// the override sends the trait-specific observation away from the
	// variant's primary category
	category := grouper.AssignCategory("rs429358", "Parental lifespan", curated.CategorizeTrait)
	assert.Equal(t, "General Longevity", category)

	category = grouper.AssignCategory("rs429358", "Alzheimer's disease", curated.CategorizeTrait)
	assert.Equal(t, "Alzheimer", category)
}

func TestAssignCategoryPrimaryFallback(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	// no override for this trait, so the primary category applies
	category := grouper.AssignCategory("rs7903146", "Some unrelated trait", curated.CategorizeTrait)
	assert.Equal(t, "T2D", category)
}

func TestAssignCategoryKeywordFallback(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	// unknown variant falls back to keyword bucketing of the trait label
	category := grouper.AssignCategory("rs999999", "Pancreatic cancer", curated.CategorizeTrait)
	assert.Equal(t, "Cancer", category)

	category = grouper.AssignCategory("rs999999", "Standing height", curated.CategorizeTrait)
	assert.Equal(t, "Body measurement", category)
}

func TestGroupOrdersVariantsWithinCategory(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	scored := []domain.ScoredVariant{
		scoredVariant("rs1", "trait a", "T2D", domain.RiskModerate, 30),
		scoredVariant("rs2", "trait b", "T2D", domain.RiskVeryHigh, 5),
		scoredVariant("rs3", "trait c", "T2D", domain.RiskModerate, 50),
		scoredVariant("rs4", "trait d", "T2D", domain.RiskLower, 99),
	}

	groups := grouper.Group(scored)
	require.Len(t, groups, 1)

	got := make([]string, 0, 4)
	for _, v := range groups[0].Variants {
		got = append(got, v.RSID)
	}

	// risk priority first, importance score second
	assert.Equal(t, []string{"rs2", "rs3", "rs1", "rs4"}, got)
	assert.Equal(t, 4, groups[0].TotalCount)
}

func TestGroupOrdersCategories(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	scored := []domain.ScoredVariant{
		scoredVariant("rs1", "a", "T2D", domain.RiskSlight, 1),
		scoredVariant("rs2", "b", "T2D", domain.RiskSlight, 2),
		scoredVariant("rs3", "c", "T2D", domain.RiskSlight, 3),
		scoredVariant("rs4", "d", "Alzheimer", domain.RiskVeryHigh, 1),
		scoredVariant("rs5", "e", "Cardiological", domain.RiskSlight, 9),
	}

	groups := grouper.Group(scored)
	require.Len(t, groups, 3)

	// highest risk present wins, then variant count
	assert.Equal(t, "Alzheimer", groups[0].ID)
	assert.Equal(t, "T2D", groups[1].ID)
	assert.Equal(t, "Cardiological", groups[2].ID)
}

func TestGroupUsesCatalogLabels(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	groups := grouper.Group([]domain.ScoredVariant{
		scoredVariant("rs1", "a", "T2D", domain.RiskSlight, 1),
		scoredVariant("rs2", "b", "NotInCatalog", domain.RiskSlight, 1),
	})
	require.Len(t, groups, 2)

	byID := map[string]domain.CategoryGroup{}
	for _, g := range groups {
		byID[g.ID] = g
	}

	assert.Equal(t, "Type 2 Diabetes", byID["T2D"].Label)
	// unknown ids keep the id as label rather than dropping the group
	assert.Equal(t, "NotInCatalog", byID["NotInCatalog"].Label)
}

func TestGroupOrderingReproducible(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	base := []domain.ScoredVariant{
		scoredVariant("rs1", "a", "T2D", domain.RiskModerate, 10),
		scoredVariant("rs2", "b", "T2D", domain.RiskModerate, 10),
		scoredVariant("rs3", "c", "T2D", domain.RiskHigh, 4),
		scoredVariant("rs4", "d", "AF", domain.RiskHigh, 8),
		scoredVariant("rs5", "e", "AF", domain.RiskSlight, 2),
	}

	reference := grouper.Group(append([]domain.ScoredVariant(nil), base...))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.ScoredVariant(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, reference, grouper.Group(shuffled))
	}
}

func TestGroupPaginationOverPrecomputedOrder(t *testing.T) {
	grouper := NewGrouper(loadCurated(t), newTestLogger())

	var scored []domain.ScoredVariant
	levels := []domain.RiskLevel{domain.RiskVeryHigh, domain.RiskHigh, domain.RiskModerate, domain.RiskSlight}
	for i := 0; i < 12; i++ {
		scored = append(scored, scoredVariant(
			// rs10..rs21 keep the identity tie-break lexicographic
			"rs1"+string(rune('0'+i%10)), "trait", "T2D", levels[i%len(levels)], float64(i),
		))
	}

	groups := grouper.Group(scored)
	require.Len(t, groups, 1)
	group := groups[0]

	// concatenating pages reconstructs the full order exactly once each
	var pages []domain.ScoredVariant
	for offset := 0; offset < group.TotalCount; offset += 5 {
		page := group.Page(offset, 5)
		pages = append(pages, page...)
		// same request twice yields identical results
		assert.Equal(t, page, group.Page(offset, 5))
	}
	assert.Equal(t, group.Variants, pages)

	// preview is a bounded slice over the same order
	assert.Equal(t, group.Variants[:3], group.Preview(3))
	assert.Empty(t, group.Page(group.TotalCount, 5))
}
