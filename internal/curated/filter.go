package curated

import (
	"github.com/longevity-genome-engine/internal/domain"
)

// Filter narrows a genotype call stream to the curated variant set. It wraps
// a CallSource and is itself one, preserving input order. The seen/matched
// counters must be read here because later stages never see discarded calls.
type Filter struct {
	source  domain.CallSource
	data    domain.CuratedData
	call    domain.GenotypeCall
	seen    int
	matched int
}

// NewFilter wraps source so that only curated variants pass through.
func NewFilter(source domain.CallSource, data domain.CuratedData) *Filter {
	return &Filter{source: source, data: data}
}

// Next advances to the next curated genotype call.
func (f *Filter) Next() bool {
	for f.source.Next() {
		call := f.source.Call()
		f.seen++
		if !f.data.Contains(call.RSID) {
			continue
		}
		f.matched++
		f.call = call
		return true
	}
	return false
}

// Call returns the current curated call. Only valid after Next returns true.
func (f *Filter) Call() domain.GenotypeCall {
	return f.call
}

// Err reports the underlying source's error, if any.
func (f *Filter) Err() error {
	return f.source.Err()
}

// Seen returns how many calls the filter has consumed from its source.
func (f *Filter) Seen() int {
	return f.seen
}

// Matched returns how many consumed calls were in the curated set.
func (f *Filter) Matched() int {
	return f.matched
}
