package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/longevity-genome-engine/internal/domain"
)

// PgxQuerier is the subset of pgxpool.Pool the store needs. Kept narrow so
// tests can substitute a mock connection.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore answers batched reference lookups from PostgreSQL. Rows are
// fetched with a single ANY($1) query per batch and per dataset.
type PostgresStore struct {
	db  PgxQuerier
	log *logrus.Logger
}

// NewPostgresStore creates a PostgreSQL-backed reference store.
func NewPostgresStore(db PgxQuerier, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: logger,
	}
}

// LookupAssociations returns all association rows whose rsid is in the batch,
// keyed by rsid. An empty map with nil error means no rows matched.
func (s *PostgresStore) LookupAssociations(ctx context.Context, rsids []string) (map[string][]domain.ReferenceAssociation, error) {
	if len(rsids) == 0 {
		return map[string][]domain.ReferenceAssociation{}, nil
	}

	query := `
		SELECT rsid, risk_allele, trait, p_value, odds_ratio, risk_allele_frequency,
			   study_description, pubmed_id, mapped_gene
		FROM reference_associations
		WHERE rsid = ANY($1)`

	rows, err := s.db.Query(ctx, query, rsids)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"batch_size": len(rsids),
			"error":      err,
		}).Error("Failed to query association rows")
		return nil, domain.NewReferenceStoreError("lookup associations", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.ReferenceAssociation)
	for rows.Next() {
		var assoc domain.ReferenceAssociation
		err := rows.Scan(
			&assoc.RSID,
			&assoc.RiskAllele,
			&assoc.Trait,
			&assoc.PValue,
			&assoc.OddsRatio,
			&assoc.RiskAlleleFrequency,
			&assoc.StudyDescription,
			&assoc.PubmedID,
			&assoc.MappedGene,
		)
		if err != nil {
			return nil, domain.NewReferenceStoreError("scan association row", err)
		}
		result[assoc.RSID] = append(result[assoc.RSID], assoc)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewReferenceStoreError("iterate association rows", fmt.Errorf("iterating rows: %w", err))
	}

	return result, nil
}

// LookupClinical returns all clinical-significance rows whose rsid is in the
// batch, keyed by rsid. The stored raw labels are normalized into ordinal
// scores on the way out.
func (s *PostgresStore) LookupClinical(ctx context.Context, rsids []string) (map[string][]domain.ReferenceClinical, error) {
	if len(rsids) == 0 {
		return map[string][]domain.ReferenceClinical{}, nil
	}

	query := `
		SELECT rsid, risk_allele, condition, significance, review_status, accession, gene
		FROM reference_clinical
		WHERE rsid = ANY($1)`

	rows, err := s.db.Query(ctx, query, rsids)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"batch_size": len(rsids),
			"error":      err,
		}).Error("Failed to query clinical rows")
		return nil, domain.NewReferenceStoreError("lookup clinical", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.ReferenceClinical)
	for rows.Next() {
		var clin domain.ReferenceClinical
		var rawSignificance, rawReviewStatus string
		err := rows.Scan(
			&clin.RSID,
			&clin.RiskAllele,
			&clin.Condition,
			&rawSignificance,
			&rawReviewStatus,
			&clin.Accession,
			&clin.Gene,
		)
		if err != nil {
			return nil, domain.NewReferenceStoreError("scan clinical row", err)
		}

		clin.Significance, clin.PathogenicityScore = ParseSignificance(rawSignificance)
		clin.ReviewStatus = rawReviewStatus
		clin.ReviewScore = ReviewStatusScore(rawReviewStatus)
		result[clin.RSID] = append(result[clin.RSID], clin)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewReferenceStoreError("iterate clinical rows", fmt.Errorf("iterating rows: %w", err))
	}

	return result, nil
}
