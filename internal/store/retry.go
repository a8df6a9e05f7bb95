package store

import (
	"context"

	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/resilience"
)

// retryStore retries writes and hash lookups that fail with transient
// database errors. Records get their ids before the first attempt so a
// retried write cannot create a duplicate.
type retryStore struct {
	Store
	cfg resilience.RetryConfig
}

// WithRetry wraps s so its writes are retried according to cfg.
func WithRetry(s Store, cfg resilience.RetryConfig) Store {
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("store", "write")
	}
	return &retryStore{Store: s, cfg: cfg}
}

func (r *retryStore) SaveTransformation(ctx context.Context, result *model.TransformationResult) (*TransformationRecord, error) {
	if result != nil && result.ID == "" {
		cp := *result
		cp.ID = newTransformationRecord(result).ID
		result = &cp
	}
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (*TransformationRecord, error) {
		return r.Store.SaveTransformation(ctx, result)
	})
}

func (r *retryStore) FindTransformationByHash(ctx context.Context, profileID, organizationID, hash string) (*TransformationRecord, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (*TransformationRecord, error) {
		return r.Store.FindTransformationByHash(ctx, profileID, organizationID, hash)
	})
}

func (r *retryStore) SaveQualityScore(ctx context.Context, rec QualityScoreRecord) (*QualityScoreRecord, error) {
	rec = prepareScoreRecord(rec)
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (*QualityScoreRecord, error) {
		return r.Store.SaveQualityScore(ctx, rec)
	})
}

func (r *retryStore) SaveQualityScores(ctx context.Context, recs []QualityScoreRecord) (int, error) {
	prepared := make([]QualityScoreRecord, len(recs))
	for i, rec := range recs {
		prepared[i] = prepareScoreRecord(rec)
	}
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (int, error) {
		return r.Store.SaveQualityScores(ctx, prepared)
	})
}
