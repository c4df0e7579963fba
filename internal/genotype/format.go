// Package genotype detects consumer genotyping export formats and streams
// normalized genotype calls out of them.
package genotype

import (
	"strings"

	"github.com/longevity-genome-engine/internal/domain"
)

// detectSampleLines is how many leading lines are examined before format
// detection gives up.
const detectSampleLines = 100

// minValidDataLines is how many well-formed data lines confirm a
// tab-separated export.
const minValidDataLines = 5

var validChromosomes = map[string]bool{
	"1": true, "2": true, "3": true, "4": true, "5": true,
	"6": true, "7": true, "8": true, "9": true, "10": true,
	"11": true, "12": true, "13": true, "14": true, "15": true,
	"16": true, "17": true, "18": true, "19": true, "20": true,
	"21": true, "22": true, "X": true, "Y": true, "MT": true, "M": true,
}

// DetectFormatFromFilename guesses the export format from a filename alone,
// for when content is not yet available. Returns FormatUnknown when the name
// is ambiguous.
func DetectFormatFromFilename(fileName string) domain.FileFormat {
	lowerName := strings.ToLower(fileName)

	if strings.Contains(lowerName, "23andme") || strings.Contains(lowerName, "23-and-me") {
		return domain.Format23andMe
	}
	if strings.Contains(lowerName, "ancestry") {
		return domain.FormatAncestry
	}
	if strings.HasSuffix(lowerName, ".vcf") || strings.HasSuffix(lowerName, ".vcf.gz") {
		return domain.FormatVCF
	}
	return domain.FormatUnknown
}

// DetectFormat identifies the export format from a sample of leading lines.
func DetectFormat(lines []string) domain.FileFormat {
	headerFound := false
	dataLinesChecked := 0
	validTabLines := 0
	validAncestryLines := 0
	firstLine := true

	for i, line := range lines {
		if i >= detectSampleLines {
			break
		}
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		if strings.HasPrefix(stripped, "##fileformat=VCF") {
			return domain.FormatVCF
		}
		if strings.HasPrefix(stripped, "#CHROM\t") {
			return domain.FormatVCF
		}

		if strings.HasPrefix(stripped, "#") || firstLine {
			lower := strings.ToLower(stripped)
			if strings.Contains(lower, "rsid") && strings.Contains(lower, "chromosome") &&
				strings.Contains(lower, "position") {
				headerFound = true
				firstLine = false
				continue
			}
			if strings.HasPrefix(stripped, "#") {
				firstLine = false
				continue
			}
		}
		firstLine = false

		if dataLinesChecked >= 10 {
			continue
		}
		dataLinesChecked++

		parts := strings.Split(stripped, "\t")
		if isGenotypeDataLine(parts, 4) {
			validTabLines++
		} else if isGenotypeDataLine(parts, 5) {
			// Ancestry exports split the genotype into two allele columns
			validAncestryLines++
		}
	}

	// A recognized header is strong evidence on its own; headerless input
	// needs enough well-formed lines to rule out coincidence.
	switch {
	case headerFound && validAncestryLines > validTabLines:
		return domain.FormatAncestry
	case headerFound && validTabLines > 0:
		return domain.Format23andMe
	case validTabLines >= minValidDataLines:
		return domain.Format23andMe
	case validAncestryLines >= minValidDataLines:
		return domain.FormatAncestry
	}
	return domain.FormatUnknown
}

// isGenotypeDataLine checks whether a split line looks like a tab-separated
// genotype record with the given column count.
func isGenotypeDataLine(parts []string, columns int) bool {
	if len(parts) != columns {
		return false
	}

	rsid, chromosome, position := parts[0], parts[1], parts[2]
	if !strings.HasPrefix(rsid, "rs") && !strings.HasPrefix(rsid, "i") {
		return false
	}
	if !validChromosomes[chromosome] {
		return false
	}
	if !isDigits(position) {
		return false
	}

	if columns == 4 {
		genotype := parts[3]
		return len(genotype) == 1 || len(genotype) == 2
	}
	return len(parts[3]) == 1 && len(parts[4]) == 1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
