package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

var qualityScoreColumns = []string{"id", "kind", "subject_id", "target_id", "overall_score", "rating", "score", "created_at"}

// copyRows bulk-inserts rows into table using the PostgreSQL COPY protocol.
// COPY is all-or-nothing, so a failed call leaves no partial rows behind.
func copyRows(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: COPY INTO %s", table)
	}
	return n, nil
}
