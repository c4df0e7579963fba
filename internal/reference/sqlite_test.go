package reference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLiteStore(":memory:", newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func seedAssociations(t *testing.T, store *SQLiteStore) {
	t.Helper()

	_, err := store.DB().Exec(`
		INSERT INTO reference_associations
			(rsid, risk_allele, trait, p_value, odds_ratio, risk_allele_frequency, study_description, pubmed_id, mapped_gene)
		VALUES
			('rs429358', 'C', 'Alzheimer''s disease', 1e-30, 3.2, 0.14, 'GWAS of AD', '12345', 'APOE'),
			('rs429358', 'C', 'Parental lifespan', 1e-10, 1.1, 0.14, 'lifespan GWAS', '23456', 'APOE'),
			('rs7903146', 'T', 'Type 2 diabetes', 5e-8, 1.4, 0.30, 'T2D GWAS', '34567', 'TCF7L2'),
			('rs9939609', 'A', 'Body mass index', NULL, NULL, NULL, 'BMI GWAS', '45678', 'FTO')`)
	require.NoError(t, err)
}

func seedClinical(t *testing.T, store *SQLiteStore) {
	t.Helper()

	_, err := store.DB().Exec(`
		INSERT INTO reference_clinical
			(rsid, risk_allele, condition, significance, review_status, accession, gene)
		VALUES
			('rs429358', 'C', 'Alzheimer disease', 'Pathogenic', 'reviewed by expert panel', 'RCV000019456', 'APOE'),
			('rs429358', 'C', 'Hyperlipoproteinemia', 'Uncertain significance', 'criteria provided, single submitter', 'RCV000019457', 'APOE')`)
	require.NoError(t, err)
}

func TestSQLiteLookupAssociations(t *testing.T) {
	store := newMemoryStore(t)
	seedAssociations(t, store)

	result, err := store.LookupAssociations(context.Background(), []string{"rs429358", "rs7903146", "rs404"})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Len(t, result["rs429358"], 2)
	assert.Len(t, result["rs7903146"], 1)
	assert.NotContains(t, result, "rs404")

	assoc := result["rs7903146"][0]
	assert.Equal(t, "T", assoc.RiskAllele)
	require.NotNil(t, assoc.OddsRatio)
	assert.InDelta(t, 1.4, *assoc.OddsRatio, 1e-9)
}

func TestSQLiteNullableEvidenceFactors(t *testing.T) {
	store := newMemoryStore(t)
	seedAssociations(t, store)

	result, err := store.LookupAssociations(context.Background(), []string{"rs9939609"})
	require.NoError(t, err)

	require.Len(t, result["rs9939609"], 1)
	assoc := result["rs9939609"][0]
	assert.Nil(t, assoc.PValue)
	assert.Nil(t, assoc.OddsRatio)
	assert.Nil(t, assoc.RiskAlleleFrequency)
}

func TestSQLiteLookupClinical(t *testing.T) {
	store := newMemoryStore(t)
	seedClinical(t, store)

	result, err := store.LookupClinical(context.Background(), []string{"rs429358"})
	require.NoError(t, err)

	rows := result["rs429358"]
	require.Len(t, rows, 2)

	assert.Equal(t, 10, rows[0].PathogenicityScore)
	assert.Equal(t, 4, rows[0].ReviewScore)
	assert.Equal(t, 3, rows[1].PathogenicityScore)
	assert.Equal(t, 2, rows[1].ReviewScore)
}

func TestSQLiteEmptyBatch(t *testing.T) {
	store := newMemoryStore(t)

	result, err := store.LookupAssociations(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result)

	clinical, err := store.LookupClinical(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, clinical)
}

func TestSQLiteEnsureSchemaIdempotent(t *testing.T) {
	store := newMemoryStore(t)
	assert.NoError(t, store.EnsureSchema(context.Background()))
}
