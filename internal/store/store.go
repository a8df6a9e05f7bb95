package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nonprofit-intel/internal/config"
	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/resilience"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// ScoreKind names the scorer that produced a stored quality score.
type ScoreKind string

const (
	ScoreKindProfile    ScoreKind = "profile"
	ScoreKindFunding    ScoreKind = "funding"
	ScoreKindNetworking ScoreKind = "networking"
	ScoreKindDiscovery  ScoreKind = "discovery"
)

// TransformationRecord is a persisted transformation result.
type TransformationRecord struct {
	ID             string                     `json:"id"`
	ProfileID      string                     `json:"profile_id"`
	OrganizationID string                     `json:"organization_id"`
	SourceDataHash string                     `json:"source_data_hash"`
	Success        bool                       `json:"success"`
	Result         model.TransformationResult `json:"result"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// TransformationFilter specifies criteria for listing transformations.
type TransformationFilter struct {
	ProfileID      string    `json:"profile_id,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	FailedOnly     bool      `json:"failed_only,omitempty"`
	CreatedAfter   time.Time `json:"created_after,omitempty"`
	Limit          int       `json:"limit,omitempty"`
	Offset         int       `json:"offset,omitempty"`
}

// QualityScoreRecord is a persisted quality score. SubjectID is the profile
// being scored; TargetID is the foundation, peer or candidate it was scored
// against, empty for profile scores.
type QualityScoreRecord struct {
	ID        string             `json:"id"`
	Kind      ScoreKind          `json:"kind"`
	SubjectID string             `json:"subject_id"`
	TargetID  string             `json:"target_id,omitempty"`
	Score     model.QualityScore `json:"score"`
	CreatedAt time.Time          `json:"created_at"`
}

// ScoreFilter specifies criteria for listing quality scores.
type ScoreFilter struct {
	Kind      ScoreKind `json:"kind,omitempty"`
	SubjectID string    `json:"subject_id,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// Store persists transformation results and quality scores.
type Store interface {
	// Transformations
	SaveTransformation(ctx context.Context, result *model.TransformationResult) (*TransformationRecord, error)
	FindTransformationByHash(ctx context.Context, profileID, organizationID, hash string) (*TransformationRecord, error)
	GetTransformation(ctx context.Context, id string) (*TransformationRecord, error)
	ListTransformations(ctx context.Context, filter TransformationFilter) ([]TransformationRecord, error)

	// Quality scores
	SaveQualityScore(ctx context.Context, rec QualityScoreRecord) (*QualityScoreRecord, error)
	SaveQualityScores(ctx context.Context, recs []QualityScoreRecord) (int, error)
	ListQualityScores(ctx context.Context, filter ScoreFilter) ([]QualityScoreRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

// Open creates the backend named by cfg.Driver and runs its migration. Writes
// are retried on transient errors when cfg.RetryAttempts > 1.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	if cfg.RetryAttempts > 1 {
		rc := resilience.DefaultRetryConfig()
		rc.MaxAttempts = cfg.RetryAttempts
		s = WithRetry(s, rc)
	}
	return s, nil
}

func listLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}
