// Package curated loads the static curated-variant configuration and filters
// genotype call streams down to it. The curated set, category catalog and
// override table are loaded once at startup and are immutable afterwards.
package curated

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-genome-engine/internal/domain"
)

//go:embed data/variants.json
var defaultVariantsJSON []byte

//go:embed data/categories.json
var defaultCategoriesJSON []byte

//go:embed data/overrides.json
var defaultOverridesJSON []byte

// variantEntry is one row of the curated variant list: the identifier plus
// its primary condition category.
type variantEntry struct {
	RSID     string `json:"rsid"`
	Category string `json:"category"`
}

// overrideEntry maps one (variant, trait) observation to a category,
// resolving pleiotropic variants trait by trait.
type overrideEntry struct {
	RSID     string `json:"rsid"`
	Trait    string `json:"trait"`
	Category string `json:"category"`
}

// Data is the process-wide curated configuration. It satisfies
// domain.CuratedData and is safe for concurrent reads.
type Data struct {
	variants   map[string]string
	categories []domain.CategoryInfo
	byID       map[string]domain.CategoryInfo
	overrides  map[domain.OverrideKey]string
}

// Load reads the curated variant list, category catalog and override table.
// Empty paths fall back to the embedded defaults. A missing or empty curated
// list or catalog is a startup failure, not a per-run one.
func Load(cfg domain.CuratedConfig, logger *logrus.Logger) (*Data, error) {
	variantsRaw, err := readSource(cfg.VariantListPath, defaultVariantsJSON)
	if err != nil {
		return nil, domain.NewConfigurationError(cfg.VariantListPath, err)
	}
	categoriesRaw, err := readSource(cfg.CategoriesPath, defaultCategoriesJSON)
	if err != nil {
		return nil, domain.NewConfigurationError(cfg.CategoriesPath, err)
	}
	overridesRaw, err := readSource(cfg.OverridesPath, defaultOverridesJSON)
	if err != nil {
		return nil, domain.NewConfigurationError(cfg.OverridesPath, err)
	}

	data, err := parse(variantsRaw, categoriesRaw, overridesRaw)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"variants":   len(data.variants),
		"categories": len(data.categories),
		"overrides":  len(data.overrides),
	}).Info("Loaded curated variant configuration")

	return data, nil
}

// readSource returns the file contents at path, or the embedded fallback when
// no path is configured.
func readSource(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading curated data: %w", err)
	}
	return raw, nil
}

func parse(variantsRaw, categoriesRaw, overridesRaw []byte) (*Data, error) {
	var variantList []variantEntry
	if err := json.Unmarshal(variantsRaw, &variantList); err != nil {
		return nil, domain.NewConfigurationError("variants", fmt.Errorf("decoding curated variant list: %w", err))
	}
	if len(variantList) == 0 {
		return nil, domain.NewConfigurationError("variants", domain.ErrCuratedSetEmpty)
	}

	var categoryList []domain.CategoryInfo
	if err := json.Unmarshal(categoriesRaw, &categoryList); err != nil {
		return nil, domain.NewConfigurationError("categories", fmt.Errorf("decoding category catalog: %w", err))
	}
	if len(categoryList) == 0 {
		return nil, domain.NewConfigurationError("categories", domain.ErrCategoriesEmpty)
	}

	var overrideList []overrideEntry
	if err := json.Unmarshal(overridesRaw, &overrideList); err != nil {
		return nil, domain.NewConfigurationError("overrides", fmt.Errorf("decoding override table: %w", err))
	}

	data := &Data{
		variants:   make(map[string]string, len(variantList)),
		categories: categoryList,
		byID:       make(map[string]domain.CategoryInfo, len(categoryList)),
		overrides:  make(map[domain.OverrideKey]string, len(overrideList)),
	}

	for _, v := range variantList {
		if v.RSID == "" {
			continue
		}
		data.variants[v.RSID] = v.Category
	}
	if len(data.variants) == 0 {
		return nil, domain.NewConfigurationError("variants", domain.ErrCuratedSetEmpty)
	}

	for _, c := range categoryList {
		data.byID[c.ID] = c
	}

	for _, o := range overrideList {
		if o.RSID == "" || o.Trait == "" || o.Category == "" {
			continue
		}
		data.overrides[overrideKey(o.RSID, o.Trait)] = o.Category
	}

	return data, nil
}

// overrideKey normalizes the lookup key so trait labels match
// case-insensitively across reference datasets.
func overrideKey(rsid, trait string) domain.OverrideKey {
	return domain.OverrideKey{
		RSID:  strings.ToLower(rsid),
		Trait: strings.ToLower(trait),
	}
}

// Contains reports whether the variant is in the curated set.
func (d *Data) Contains(rsid string) bool {
	_, ok := d.variants[rsid]
	return ok
}

// Size returns the number of curated variants.
func (d *Data) Size() int {
	return len(d.variants)
}

// Categories returns the catalog in file order.
func (d *Data) Categories() []domain.CategoryInfo {
	return d.categories
}

// Category looks up a catalog entry by identifier.
func (d *Data) Category(id string) (domain.CategoryInfo, bool) {
	info, ok := d.byID[id]
	return info, ok
}

// PrimaryCategory returns the default category for a curated variant.
func (d *Data) PrimaryCategory(rsid string) (string, bool) {
	category, ok := d.variants[rsid]
	if !ok || category == "" {
		return "", false
	}
	return category, true
}

// Override resolves the trait-specific category for a pleiotropic variant.
func (d *Data) Override(rsid, trait string) (string, bool) {
	category, ok := d.overrides[overrideKey(rsid, trait)]
	return category, ok
}
