package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// Pool is the subset of *pgxpool.Pool the store uses. pgxmock pools satisfy it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS transformations (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	profile_id       TEXT NOT NULL,
	organization_id  TEXT NOT NULL,
	source_data_hash TEXT NOT NULL,
	success          BOOLEAN NOT NULL,
	result           JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS quality_scores (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	kind          TEXT NOT NULL,
	subject_id    TEXT NOT NULL,
	target_id     TEXT NOT NULL DEFAULT '',
	overall_score DOUBLE PRECISION NOT NULL,
	rating        TEXT NOT NULL,
	score         JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_transformations_profile ON transformations(profile_id);
CREATE INDEX IF NOT EXISTS idx_transformations_org_hash ON transformations(organization_id, source_data_hash);
CREATE INDEX IF NOT EXISTS idx_quality_scores_subject ON quality_scores(kind, subject_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveTransformation(ctx context.Context, result *model.TransformationResult) (*TransformationRecord, error) {
	if result == nil {
		return nil, eris.New("postgres: nil transformation result")
	}
	rec := newTransformationRecord(result)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO transformations (id, profile_id, organization_id, source_data_hash, success, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET success = EXCLUDED.success, result = EXCLUDED.result`,
		rec.ID, rec.ProfileID, rec.OrganizationID, rec.SourceDataHash, rec.Success, resultJSON, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert transformation %s", rec.ID)
	}
	return rec, nil
}

// FindTransformationByHash returns the latest successful transformation of
// the profile and organization with the given source hash, or nil when there
// is none.
func (s *PostgresStore) FindTransformationByHash(ctx context.Context, profileID, organizationID, hash string) (*TransformationRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, profile_id, organization_id, source_data_hash, success, result, created_at FROM transformations
		 WHERE profile_id = $1 AND organization_id = $2 AND source_data_hash = $3 AND success
		 ORDER BY created_at DESC LIMIT 1`,
		profileID, organizationID, hash,
	)
	rec, err := scanPgTransformation(row)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s *PostgresStore) GetTransformation(ctx context.Context, id string) (*TransformationRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, profile_id, organization_id, source_data_hash, success, result, created_at FROM transformations WHERE id = $1`,
		id,
	)
	rec, err := scanPgTransformation(row)
	if errors.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(err, "transformation %s", id)
	}
	return rec, err
}

func (s *PostgresStore) ListTransformations(ctx context.Context, filter TransformationFilter) ([]TransformationRecord, error) {
	query := `SELECT id, profile_id, organization_id, source_data_hash, success, result, created_at FROM transformations WHERE true`
	args := []any{}
	argIdx := 1

	if filter.ProfileID != "" {
		query += fmt.Sprintf(` AND profile_id = $%d`, argIdx)
		args = append(args, filter.ProfileID)
		argIdx++
	}
	if filter.OrganizationID != "" {
		query += fmt.Sprintf(` AND organization_id = $%d`, argIdx)
		args = append(args, filter.OrganizationID)
		argIdx++
	}
	if filter.FailedOnly {
		query += ` AND NOT success`
	}
	if !filter.CreatedAfter.IsZero() {
		query += fmt.Sprintf(` AND created_at > $%d`, argIdx)
		args = append(args, filter.CreatedAfter)
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d`, argIdx)
	args = append(args, listLimit(filter.Limit))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list transformations")
	}
	defer rows.Close()

	var out []TransformationRecord
	for rows.Next() {
		rec, err := scanPgTransformation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list transformations iterate")
}

func (s *PostgresStore) SaveQualityScore(ctx context.Context, rec QualityScoreRecord) (*QualityScoreRecord, error) {
	rec = prepareScoreRecord(rec)

	scoreJSON, err := json.Marshal(rec.Score)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal score")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO quality_scores (id, kind, subject_id, target_id, overall_score, rating, score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, string(rec.Kind), rec.SubjectID, rec.TargetID, rec.Score.OverallScore, string(rec.Score.Rating), scoreJSON, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert quality score")
	}
	return &rec, nil
}

// SaveQualityScores bulk-inserts recs with COPY and returns the row count.
func (s *PostgresStore) SaveQualityScores(ctx context.Context, recs []QualityScoreRecord) (int, error) {
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		rec = prepareScoreRecord(rec)
		scoreJSON, err := json.Marshal(rec.Score)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal score %s", rec.ID)
		}
		rows = append(rows, []any{
			rec.ID, string(rec.Kind), rec.SubjectID, rec.TargetID, rec.Score.OverallScore, string(rec.Score.Rating), scoreJSON, rec.CreatedAt,
		})
	}

	n, err := copyRows(ctx, s.pool, "quality_scores", qualityScoreColumns, rows)
	return int(n), err
}

func (s *PostgresStore) ListQualityScores(ctx context.Context, filter ScoreFilter) ([]QualityScoreRecord, error) {
	query := `SELECT id, kind, subject_id, target_id, score, created_at FROM quality_scores WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Kind != "" {
		query += fmt.Sprintf(` AND kind = $%d`, argIdx)
		args = append(args, string(filter.Kind))
		argIdx++
	}
	if filter.SubjectID != "" {
		query += fmt.Sprintf(` AND subject_id = $%d`, argIdx)
		args = append(args, filter.SubjectID)
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, overall_score DESC, id LIMIT $%d`, argIdx)
	args = append(args, listLimit(filter.Limit))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list quality scores")
	}
	defer rows.Close()

	var out []QualityScoreRecord
	for rows.Next() {
		var rec QualityScoreRecord
		var kind string
		var scoreJSON []byte
		if err := rows.Scan(&rec.ID, &kind, &rec.SubjectID, &rec.TargetID, &scoreJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan quality score")
		}
		rec.Kind = ScoreKind(kind)
		if err := json.Unmarshal(scoreJSON, &rec.Score); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal score")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list quality scores iterate")
}

func scanPgTransformation(row pgx.Row) (*TransformationRecord, error) {
	var rec TransformationRecord
	var resultJSON []byte

	err := row.Scan(&rec.ID, &rec.ProfileID, &rec.OrganizationID, &rec.SourceDataHash, &rec.Success, &resultJSON, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan transformation")
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &rec, nil
}
