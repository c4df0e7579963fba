package reference

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/longevity-genome-engine/internal/domain"
)

// SQLiteStore answers batched reference lookups from a local SQLite file.
// Used for offline runs and tests; the schema mirrors the PostgreSQL one.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// OpenSQLiteStore opens (or creates) the SQLite database at path. Pass
// ":memory:" for an ephemeral store.
func OpenSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.NewReferenceStoreError("open sqlite", err)
	}

	// single writer; WAL keeps concurrent readers cheap
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, domain.NewReferenceStoreError("configure sqlite", err)
	}
	db.SetMaxOpenConns(1)

	logger.WithField("path", path).Info("Opened SQLite reference store")

	return &SQLiteStore{db: db, log: logger}, nil
}

// DB exposes the underlying handle for schema setup and data loading.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the reference tables when they do not exist yet.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS reference_associations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rsid TEXT NOT NULL,
			risk_allele TEXT NOT NULL DEFAULT '',
			trait TEXT NOT NULL DEFAULT '',
			p_value REAL,
			odds_ratio REAL,
			risk_allele_frequency REAL,
			study_description TEXT NOT NULL DEFAULT '',
			pubmed_id TEXT NOT NULL DEFAULT '',
			mapped_gene TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_reference_associations_rsid ON reference_associations(rsid);

		CREATE TABLE IF NOT EXISTS reference_clinical (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rsid TEXT NOT NULL,
			risk_allele TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			significance TEXT NOT NULL DEFAULT '',
			review_status TEXT NOT NULL DEFAULT '',
			accession TEXT NOT NULL DEFAULT '',
			gene TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_reference_clinical_rsid ON reference_clinical(rsid);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return domain.NewReferenceStoreError("create sqlite schema", err)
	}
	return nil
}

// LookupAssociations returns all association rows whose rsid is in the batch,
// keyed by rsid.
func (s *SQLiteStore) LookupAssociations(ctx context.Context, rsids []string) (map[string][]domain.ReferenceAssociation, error) {
	if len(rsids) == 0 {
		return map[string][]domain.ReferenceAssociation{}, nil
	}

	query := fmt.Sprintf(`
		SELECT rsid, risk_allele, trait, p_value, odds_ratio, risk_allele_frequency,
			   study_description, pubmed_id, mapped_gene
		FROM reference_associations
		WHERE rsid IN (%s)`, placeholders(len(rsids)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(rsids)...)
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
		return nil, domain.NewReferenceStoreError("iterate association rows", err)
	}

	return result, nil
}

// LookupClinical returns all clinical rows whose rsid is in the batch, keyed
// by rsid, with raw labels normalized into ordinal scores.
func (s *SQLiteStore) LookupClinical(ctx context.Context, rsids []string) (map[string][]domain.ReferenceClinical, error) {
	if len(rsids) == 0 {
		return map[string][]domain.ReferenceClinical{}, nil
	}

	query := fmt.Sprintf(`
		SELECT rsid, risk_allele, condition, significance, review_status, accession, gene
		FROM reference_clinical
		WHERE rsid IN (%s)`, placeholders(len(rsids)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(rsids)...)
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
		return nil, domain.NewReferenceStoreError("iterate clinical rows", err)
	}

	return result, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(rsids []string) []any {
	args := make([]any, len(rsids))
	for i, id := range rsids {
		args[i] = id
	}
	return args
}
