package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS transformations (
	id               TEXT PRIMARY KEY,
	profile_id       TEXT NOT NULL,
	organization_id  TEXT NOT NULL,
	source_data_hash TEXT NOT NULL,
	success          INTEGER NOT NULL,
	result           TEXT NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS quality_scores (
	id            TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	subject_id    TEXT NOT NULL,
	target_id     TEXT NOT NULL DEFAULT '',
	overall_score REAL NOT NULL,
	rating        TEXT NOT NULL,
	score         TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_transformations_profile ON transformations(profile_id);
CREATE INDEX IF NOT EXISTS idx_transformations_org_hash ON transformations(organization_id, source_data_hash);
CREATE INDEX IF NOT EXISTS idx_quality_scores_subject ON quality_scores(kind, subject_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveTransformation(ctx context.Context, result *model.TransformationResult) (*TransformationRecord, error) {
	if result == nil {
		return nil, eris.New("sqlite: nil transformation result")
	}
	rec := newTransformationRecord(result)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transformations (id, profile_id, organization_id, source_data_hash, success, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET success = excluded.success, result = excluded.result`,
		rec.ID, rec.ProfileID, rec.OrganizationID, rec.SourceDataHash, rec.Success, string(resultJSON), rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert transformation %s", rec.ID)
	}
	return rec, nil
}

// FindTransformationByHash returns the latest successful transformation of
// the profile and organization with the given source hash, or nil when there
// is none.
func (s *SQLiteStore) FindTransformationByHash(ctx context.Context, profileID, organizationID, hash string) (*TransformationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, organization_id, source_data_hash, success, result, created_at FROM transformations
		 WHERE profile_id = ? AND organization_id = ? AND source_data_hash = ? AND success = 1
		 ORDER BY created_at DESC LIMIT 1`,
		profileID, organizationID, hash,
	)
	rec, err := scanTransformation(row)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s *SQLiteStore) GetTransformation(ctx context.Context, id string) (*TransformationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, organization_id, source_data_hash, success, result, created_at FROM transformations WHERE id = ?`,
		id,
	)
	rec, err := scanTransformation(row)
	if errors.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(err, "transformation %s", id)
	}
	return rec, err
}

func (s *SQLiteStore) ListTransformations(ctx context.Context, filter TransformationFilter) ([]TransformationRecord, error) {
	query := `SELECT id, profile_id, organization_id, source_data_hash, success, result, created_at FROM transformations WHERE 1=1`
	var args []any

	if filter.ProfileID != "" {
		query += ` AND profile_id = ?`
		args = append(args, filter.ProfileID)
	}
	if filter.OrganizationID != "" {
		query += ` AND organization_id = ?`
		args = append(args, filter.OrganizationID)
	}
	if filter.FailedOnly {
		query += ` AND success = 0`
	}
	if !filter.CreatedAfter.IsZero() {
		query += ` AND created_at > ?`
		args = append(args, filter.CreatedAfter.UTC())
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, listLimit(filter.Limit))

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list transformations")
	}
	defer rows.Close()

	var out []TransformationRecord
	for rows.Next() {
		rec, err := scanTransformation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list transformations iterate")
}

func (s *SQLiteStore) SaveQualityScore(ctx context.Context, rec QualityScoreRecord) (*QualityScoreRecord, error) {
	rec = prepareScoreRecord(rec)

	scoreJSON, err := json.Marshal(rec.Score)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal score")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quality_scores (id, kind, subject_id, target_id, overall_score, rating, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, string(rec.Kind), rec.SubjectID, rec.TargetID, rec.Score.OverallScore, string(rec.Score.Rating), string(scoreJSON), rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert quality score")
	}
	return &rec, nil
}

// SaveQualityScores inserts recs in a single transaction.
func (s *SQLiteStore) SaveQualityScores(ctx context.Context, recs []QualityScoreRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO quality_scores (id, kind, subject_id, target_id, overall_score, rating, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare quality score insert")
	}
	defer stmt.Close() //nolint:errcheck

	var n int
	for _, rec := range recs {
		rec = prepareScoreRecord(rec)
		scoreJSON, err := json.Marshal(rec.Score)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: marshal score %s", rec.ID)
		}
		res, err := stmt.ExecContext(ctx,
			rec.ID, string(rec.Kind), rec.SubjectID, rec.TargetID, rec.Score.OverallScore, string(rec.Score.Rating), string(scoreJSON), rec.CreatedAt,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert quality score %s", rec.ID)
		}
		affected, _ := res.RowsAffected()
		n += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit quality scores")
	}
	return n, nil
}

func (s *SQLiteStore) ListQualityScores(ctx context.Context, filter ScoreFilter) ([]QualityScoreRecord, error) {
	query := `SELECT id, kind, subject_id, target_id, score, created_at FROM quality_scores WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if filter.SubjectID != "" {
		query += ` AND subject_id = ?`
		args = append(args, filter.SubjectID)
	}
	query += ` ORDER BY created_at DESC, overall_score DESC, id LIMIT ?`
	args = append(args, listLimit(filter.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list quality scores")
	}
	defer rows.Close()

	var out []QualityScoreRecord
	for rows.Next() {
		var rec QualityScoreRecord
		var scoreJSON string
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.SubjectID, &rec.TargetID, &scoreJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan quality score")
		}
		if err := json.Unmarshal([]byte(scoreJSON), &rec.Score); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal score")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list quality scores iterate")
}

// helpers

func newTransformationRecord(result *model.TransformationResult) *TransformationRecord {
	id := result.ID
	if id == "" {
		id = uuid.New().String()
	}
	return &TransformationRecord{
		ID:             id,
		ProfileID:      result.ProfileID,
		OrganizationID: result.OrganizationID,
		SourceDataHash: result.SourceDataHash,
		Success:        result.Success,
		Result:         *result,
		CreatedAt:      time.Now().UTC(),
	}
}

func prepareScoreRecord(rec QualityScoreRecord) QualityScoreRecord {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTransformation(row scannable) (*TransformationRecord, error) {
	var rec TransformationRecord
	var resultJSON string

	err := row.Scan(&rec.ID, &rec.ProfileID, &rec.OrganizationID, &rec.SourceDataHash, &rec.Success, &resultJSON, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan transformation")
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &rec, nil
}
