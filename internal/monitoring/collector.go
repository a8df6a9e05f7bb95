// Package monitoring summarizes recent transformation runs and raises alerts
// when their failure rate or data quality crosses configured thresholds.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nonprofit-intel/internal/store"
)

const maxCollectedRuns = 10000

// MetricsSnapshot holds a point-in-time view of transformation health.
type MetricsSnapshot struct {
	TransformTotal     int     `json:"transform_total"`
	TransformSucceeded int     `json:"transform_succeeded"`
	TransformFailed    int     `json:"transform_failed"`
	FailRate           float64 `json:"fail_rate"`
	AvgDataQuality     float64 `json:"avg_data_quality"`
	PeopleCreated      int     `json:"people_created"`
	ValidationErrors   int     `json:"validation_errors"`
	Organizations      int     `json:"organizations"`

	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// TransformationLister is the store subset the collector reads from.
type TransformationLister interface {
	ListTransformations(ctx context.Context, filter store.TransformationFilter) ([]store.TransformationRecord, error)
}

// Collector gathers metrics from stored transformation runs.
type Collector struct {
	store TransformationLister
}

// NewCollector creates a new metrics collector.
func NewCollector(st TransformationLister) *Collector {
	return &Collector{store: st}
}

// Collect gathers a snapshot over the given lookback window. Average data
// quality covers successful runs only.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	now := time.Now().UTC()
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   now,
	}

	runs, err := c.store.ListTransformations(ctx, store.TransformationFilter{
		CreatedAfter: now.Add(-time.Duration(lookbackHours) * time.Hour),
		Limit:        maxCollectedRuns,
	})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list transformations")
	}

	orgs := make(map[string]struct{})
	var totalQuality float64
	for _, r := range runs {
		snap.TransformTotal++
		orgs[r.OrganizationID] = struct{}{}
		snap.ValidationErrors += r.Result.ErrorCount()
		if !r.Success {
			snap.TransformFailed++
			continue
		}
		snap.TransformSucceeded++
		snap.PeopleCreated += r.Result.Stats.PeopleCreated
		totalQuality += r.Result.Stats.DataQualityScore
	}

	snap.Organizations = len(orgs)
	if snap.TransformTotal > 0 {
		snap.FailRate = float64(snap.TransformFailed) / float64(snap.TransformTotal)
	}
	if snap.TransformSucceeded > 0 {
		snap.AvgDataQuality = totalQuality / float64(snap.TransformSucceeded)
	}
	return snap, nil
}
