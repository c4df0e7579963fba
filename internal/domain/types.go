// Package domain contains the core entities and types for consumer genotype
// risk analysis: genotype calls, reference evidence rows, scored variants,
// and the six-level risk classification used for display ordering.
package domain

import "errors"

// RiskLevel is the discrete risk classification assigned to a scored variant.
// Levels are ordered: very_high > high > moderate > slight > lower > unknown.
type RiskLevel string

const (
	RiskVeryHigh RiskLevel = "very_high"
	RiskHigh     RiskLevel = "high"
	RiskModerate RiskLevel = "moderate"
	RiskSlight   RiskLevel = "slight"
	RiskLower    RiskLevel = "lower"
	RiskUnknown  RiskLevel = "unknown"
)

// Zygosity describes the relationship between the two alleles of a call.
type Zygosity string

const (
	Homozygous   Zygosity = "homozygous"
	Heterozygous Zygosity = "heterozygous"
	Hemizygous   Zygosity = "hemizygous"
	NoCall       Zygosity = "no_call"
)

// FileFormat identifies a recognized genotype export format.
type FileFormat string

const (
	Format23andMe  FileFormat = "23andme"
	FormatAncestry FileFormat = "ancestry"
	FormatVCF      FileFormat = "vcf"
	FormatUnknown  FileFormat = "unknown"
)

// Validation errors for result integrity
var (
	ErrInvalidRiskLevel = errors.New("invalid risk level")
	ErrInvalidZygosity  = errors.New("invalid zygosity")
)

// IsValid reports whether the risk level is one of the six defined levels.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskVeryHigh, RiskHigh, RiskModerate, RiskSlight, RiskLower, RiskUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// Priority returns the sort priority of the risk level. Higher values sort
// first; unknown and any malformed value sort last.
func (r RiskLevel) Priority() int {
	switch r {
	case RiskVeryHigh:
		return 5
	case RiskHigh:
		return 4
	case RiskModerate:
		return 3
	case RiskSlight:
		return 2
	case RiskLower:
		return 1
	default:
		return 0
	}
}

// LogFields returns structured logging fields for the risk level.
func (r RiskLevel) LogFields() map[string]any {
	return map[string]any{
		"risk_level": string(r),
		"priority":   r.Priority(),
		"is_valid":   r.IsValid(),
	}
}

// IsValid reports whether the zygosity is a defined value.
func (z Zygosity) IsValid() bool {
	switch z {
	case Homozygous, Heterozygous, Hemizygous, NoCall:
		return true
	default:
		return false
	}
}

// String returns the string representation of the zygosity.
func (z Zygosity) String() string {
	return string(z)
}

// String returns the string representation of the file format.
func (f FileFormat) String() string {
	return string(f)
}

// IsKnown reports whether the format is one the parser can decode.
func (f FileFormat) IsKnown() bool {
	return f == Format23andMe || f == FormatAncestry || f == FormatVCF
}
