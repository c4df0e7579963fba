package curated

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longevity-genome-engine/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	data, err := Load(domain.CuratedConfig{}, newTestLogger())
	require.NoError(t, err)

	assert.Greater(t, data.Size(), 50)
	assert.True(t, data.Contains("rs429358"))
	assert.False(t, data.Contains("rs0"))

	category, ok := data.PrimaryCategory("rs7903146")
	require.True(t, ok)
	assert.Equal(t, "T2D", category)

	info, ok := data.Category("Cardiological")
	require.True(t, ok)
	assert.Equal(t, "Cardiovascular Health", info.Label)

	assert.NotEmpty(t, data.Categories())
}

func TestLoadOverrideResolution(t *testing.T) {
	data, err := Load(domain.CuratedConfig{}, newTestLogger())
	require.NoError(t, err)

	// rs429358 is pleiotropic: trait-specific overrides send it to two
	// different categories.
	category, ok := data.Override("rs429358", "Alzheimer's disease")
	require.True(t, ok)
	assert.Equal(t, "Alzheimer", category)

	category, ok = data.Override("rs429358", "Parental lifespan")
	require.True(t, ok)
	assert.Equal(t, "General Longevity", category)

	// trait labels match case-insensitively
	category, ok = data.Override("rs429358", "ALZHEIMER'S DISEASE")
	require.True(t, ok)
	assert.Equal(t, "Alzheimer", category)

	_, ok = data.Override("rs429358", "Height")
	assert.False(t, ok)
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()

	variantsPath := filepath.Join(dir, "variants.json")
	require.NoError(t, os.WriteFile(variantsPath, []byte(`[{"rsid":"rs1","category":"Cancer"}]`), 0o644))

	cfg := domain.CuratedConfig{VariantListPath: variantsPath}
	data, err := Load(cfg, newTestLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, data.Size())
	assert.True(t, data.Contains("rs1"))
	assert.False(t, data.Contains("rs429358"))
}

func TestLoadMissingFile(t *testing.T) {
	cfg := domain.CuratedConfig{VariantListPath: "/nonexistent/variants.json"}
	_, err := Load(cfg, newTestLogger())
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadEmptyCuratedSet(t *testing.T) {
	dir := t.TempDir()
	variantsPath := filepath.Join(dir, "variants.json")
	require.NoError(t, os.WriteFile(variantsPath, []byte(`[]`), 0o644))

	_, err := Load(domain.CuratedConfig{VariantListPath: variantsPath}, newTestLogger())
	assert.ErrorIs(t, err, domain.ErrCuratedSetEmpty)
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	variantsPath := filepath.Join(dir, "variants.json")
	require.NoError(t, os.WriteFile(variantsPath, []byte(`{not json`), 0o644))

	_, err := Load(domain.CuratedConfig{VariantListPath: variantsPath}, newTestLogger())
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestPrimaryCategoryMissing(t *testing.T) {
	data, err := Load(domain.CuratedConfig{}, newTestLogger())
	require.NoError(t, err)

	_, ok := data.PrimaryCategory("rs-not-curated")
	assert.False(t, ok)
}
