package genotype

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-genome-engine/internal/domain"
)

// Scanner streams genotype calls out of a raw export. It reads the source a
// line at a time in a single pass: comment lines are skipped, malformed lines
// are counted and skipped, and no-call lines are emitted flagged rather than
// dropped so downstream counts stay auditable.
type Scanner struct {
	reader *bufio.Reader
	log    *logrus.Logger

	format    domain.FileFormat
	sample    []string // detection sample, replayed before reading on
	samplePos int

	call domain.GenotypeCall
	err  error
	done bool

	headerSkipped bool

	totalCalls int
	noCalls    int
	skipped    int
}

// NewScanner samples the leading lines of r to detect the export format and
// returns a scanner positioned at the start of the data. Fails with a
// FormatDetectionError when no known format matches the sample.
func NewScanner(r io.Reader, logger *logrus.Logger) (*Scanner, error) {
	reader := bufio.NewReader(r)

	sample := make([]string, 0, detectSampleLines)
	for len(sample) < detectSampleLines {
		line, err := reader.ReadString('\n')
		if line != "" {
			sample = append(sample, strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			break
		}
	}

	format := DetectFormat(sample)
	if !format.IsKnown() {
		return nil, &domain.FormatDetectionError{SampledLines: len(sample)}
	}

	logger.WithFields(logrus.Fields{
		"format":        format.String(),
		"sampled_lines": len(sample),
	}).Debug("Detected genotype export format")

	return &Scanner{
		reader: reader,
		log:    logger,
		format: format,
		sample: sample,
	}, nil
}

// Format returns the detected export format.
func (s *Scanner) Format() domain.FileFormat {
	return s.format
}

// Next advances to the next genotype call. It returns false when the input is
// exhausted or a read error occurred; Err distinguishes the two.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	for {
		line, ok := s.nextLine()
		if !ok {
			s.done = true
			return false
		}

		call, outcome := s.parseLine(line)
		switch outcome {
		case lineCall:
			s.call = call
			s.totalCalls++
			if call.NoCall {
				s.noCalls++
			}
			return true
		case lineSkipped:
			s.skipped++
		case lineIgnored:
			// comments, headers, blanks
		}
	}
}

// Call returns the current genotype call. Only valid after Next returns true.
func (s *Scanner) Call() domain.GenotypeCall {
	return s.call
}

// Err returns the first read error encountered, or nil at clean end of input.
func (s *Scanner) Err() error {
	return s.err
}

// TotalCalls returns the number of calls emitted so far, no-calls included.
func (s *Scanner) TotalCalls() int {
	return s.totalCalls
}

// NoCallCount returns how many emitted calls carried the no-call flag.
func (s *Scanner) NoCallCount() int {
	return s.noCalls
}

// SkippedCount returns how many malformed data lines were skipped.
func (s *Scanner) SkippedCount() int {
	return s.skipped
}

// nextLine replays the detection sample first, then reads on from the source.
func (s *Scanner) nextLine() (string, bool) {
	if s.samplePos < len(s.sample) {
		line := s.sample[s.samplePos]
		s.samplePos++
		return line, true
	}

	line, err := s.reader.ReadString('\n')
	if line != "" {
		return strings.TrimRight(line, "\r\n"), true
	}
	if err != nil && err != io.EOF {
		s.err = err
	}
	return "", false
}

type lineOutcome int

const (
	lineCall lineOutcome = iota
	lineSkipped
	lineIgnored
)

// parseLine decodes one raw line according to the detected format.
func (s *Scanner) parseLine(line string) (domain.GenotypeCall, lineOutcome) {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return domain.GenotypeCall{}, lineIgnored
	}
	if strings.HasPrefix(stripped, "#") {
		return domain.GenotypeCall{}, lineIgnored
	}

	switch s.format {
	case domain.FormatVCF:
		return s.parseVCFLine(stripped)
	case domain.FormatAncestry:
		return s.parseAncestryLine(stripped)
	default:
		return s.parse23andMeLine(stripped)
	}
}

// parse23andMeLine decodes a tab-separated rsid/chromosome/position/genotype
// line.
func (s *Scanner) parse23andMeLine(line string) (domain.GenotypeCall, lineOutcome) {
	parts := strings.Split(line, "\t")
	if len(parts) < 4 {
		return domain.GenotypeCall{}, lineSkipped
	}

	rsid, chromosome, position, genotype := parts[0], parts[1], parts[2], parts[3]
	if s.isHeaderLine(rsid) {
		return domain.GenotypeCall{}, lineIgnored
	}

	pos, err := strconv.ParseInt(position, 10, 64)
	if err != nil || rsid == "" || len(genotype) == 0 || len(genotype) > 2 {
		return domain.GenotypeCall{}, lineSkipped
	}

	allele1 := string(genotype[0])
	allele2 := ""
	if len(genotype) == 2 {
		allele2 = string(genotype[1])
	}

	return buildCall(rsid, chromosome, pos, allele1, allele2), lineCall
}

// parseAncestryLine decodes a five-column line with separate allele columns.
func (s *Scanner) parseAncestryLine(line string) (domain.GenotypeCall, lineOutcome) {
	parts := strings.Split(line, "\t")
	if len(parts) < 5 {
		return domain.GenotypeCall{}, lineSkipped
	}

	rsid, chromosome, position := parts[0], parts[1], parts[2]
	if s.isHeaderLine(rsid) {
		return domain.GenotypeCall{}, lineIgnored
	}

	pos, err := strconv.ParseInt(position, 10, 64)
	if err != nil || rsid == "" || len(parts[3]) != 1 || len(parts[4]) != 1 {
		return domain.GenotypeCall{}, lineSkipped
	}

	return buildCall(rsid, chromosome, pos, parts[3], parts[4]), lineCall
}

// parseVCFLine decodes a VCF data line using the sample's GT field to resolve
// the observed alleles against REF/ALT.
func (s *Scanner) parseVCFLine(line string) (domain.GenotypeCall, lineOutcome) {
	parts := strings.Split(line, "\t")
	if len(parts) < 10 {
		return domain.GenotypeCall{}, lineSkipped
	}

	chromosome := strings.TrimPrefix(parts[0], "chr")
	rsid := parts[2]
	if rsid == "" || rsid == "." {
		return domain.GenotypeCall{}, lineSkipped
	}

	pos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.GenotypeCall{}, lineSkipped
	}

	gt := extractGTField(parts[8], parts[9])
	if gt == "" {
		return domain.GenotypeCall{}, lineSkipped
	}

	alleles := resolveVCFAlleles(gt, parts[3], parts[4])
	if alleles == nil {
		return domain.GenotypeCall{}, lineSkipped
	}

	allele2 := ""
	if len(alleles) > 1 {
		allele2 = alleles[1]
	}
	return buildCall(rsid, chromosome, pos, alleles[0], allele2), lineCall
}

// isHeaderLine recognizes a data-position header row, which 23andMe exports
// sometimes emit without the comment marker.
func (s *Scanner) isHeaderLine(firstField string) bool {
	if s.headerSkipped {
		return false
	}
	if strings.EqualFold(firstField, "rsid") {
		s.headerSkipped = true
		return true
	}
	return false
}

// extractGTField pulls the GT value out of a VCF FORMAT/sample column pair.
func extractGTField(format, sample string) string {
	formatKeys := strings.Split(format, ":")
	sampleValues := strings.Split(sample, ":")
	for i, key := range formatKeys {
		if key == "GT" && i < len(sampleValues) {
			return sampleValues[i]
		}
	}
	return ""
}

// resolveVCFAlleles maps GT indices onto the REF and ALT base strings.
// Missing genotypes ("./.") resolve to no-call placeholders.
func resolveVCFAlleles(gt, ref, alt string) []string {
	options := append([]string{ref}, strings.Split(alt, ",")...)

	separator := "/"
	if strings.Contains(gt, "|") {
		separator = "|"
	}

	indices := strings.Split(gt, separator)
	if len(indices) == 0 || len(indices) > 2 {
		return nil
	}

	alleles := make([]string, 0, 2)
	for _, idx := range indices {
		if idx == "." {
			alleles = append(alleles, "-")
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 || n >= len(options) {
			return nil
		}
		alleles = append(alleles, options[n])
	}
	return alleles
}

// buildCall assembles a GenotypeCall, deriving zygosity and the no-call flag
// from the allele pair.
func buildCall(rsid, chromosome string, position int64, allele1, allele2 string) domain.GenotypeCall {
	noCall := isNoCallAllele(allele1) || isNoCallAllele(allele2)

	var zygosity domain.Zygosity
	switch {
	case noCall:
		zygosity = domain.NoCall
	case allele2 == "":
		zygosity = domain.Hemizygous
	case allele1 == allele2:
		zygosity = domain.Homozygous
	default:
		zygosity = domain.Heterozygous
	}

	return domain.GenotypeCall{
		RSID:       rsid,
		Chromosome: chromosome,
		Position:   position,
		Allele1:    allele1,
		Allele2:    allele2,
		Zygosity:   zygosity,
		NoCall:     noCall,
	}
}

// isNoCallAllele reports whether an allele symbol is a no-call placeholder.
func isNoCallAllele(allele string) bool {
	return allele == "-" || allele == "0" || allele == "."
}
