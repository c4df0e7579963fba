package domain

import (
	"context"
)

// ReferenceStore is the batched lookup capability over the two reference
// datasets. Implementations must answer a batch of variant identifiers with
// every row whose identifier is in the batch, each row tagged with its own
// risk allele for client-side allele matching. An empty map with a nil error
// means "no rows matched"; a failed query must return a ReferenceStoreError.
type ReferenceStore interface {
	LookupAssociations(ctx context.Context, rsids []string) (map[string][]ReferenceAssociation, error)
	LookupClinical(ctx context.Context, rsids []string) (map[string][]ReferenceClinical, error)
}

// CallSource yields genotype calls one at a time in input order. Single pass,
// not restartable. After Next returns false, Err reports whether iteration
// stopped on a failure or on end of input.
type CallSource interface {
	Next() bool
	Call() GenotypeCall
	Err() error
}

// CuratedData is the read-only static configuration loaded once per process:
// the curated variant set, the category catalog, the per-variant primary
// category table, and the (variant, trait) override table.
type CuratedData interface {
	Contains(rsid string) bool
	Size() int
	Categories() []CategoryInfo
	Category(id string) (CategoryInfo, bool)
	PrimaryCategory(rsid string) (string, bool)
	Override(rsid, trait string) (string, bool)
}
