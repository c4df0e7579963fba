package curated

import "strings"

// keywordBuckets are evaluated in order; the first bucket with a matching
// keyword wins.
var keywordBuckets = []struct {
	category string
	keywords []string
}{
	{"Cancer", []string{"cancer", "tumor", "carcinoma", "melanoma", "leukemia", "lymphoma"}},
	{"Cardiovascular disease", []string{"heart", "cardiac", "cardiovascular", "coronary", "blood pressure", "hypertension"}},
	{"Lipid or lipoprotein measurement", []string{"cholesterol", "ldl", "hdl", "triglyceride", "lipid"}},
	{"Metabolic disorder", []string{"diabetes", "glucose", "insulin", "metabolic"}},
	{"Neurological disorder", []string{"alzheimer", "parkinson", "neurological", "brain", "cognitive", "dementia"}},
	{"Body measurement", []string{"height", "weight", "bmi", "body mass"}},
	{"Other measurement", []string{"measurement"}},
	{"Other disease", []string{"disease", "disorder"}},
}

// CategorizeTrait buckets a free-text trait label into a phenotype category.
// Used as the last resort when neither the override table nor the primary
// category table covers a variant.
func CategorizeTrait(trait string) string {
	traitLower := strings.ToLower(trait)

	for _, bucket := range keywordBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(traitLower, keyword) {
				return bucket.category
			}
		}
	}
	return "Other trait"
}
