package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/nonprofit-intel/internal/monitoring"
)

func TestFormatHealth(t *testing.T) {
	snap := &monitoring.MetricsSnapshot{
		TransformTotal: 10, TransformSucceeded: 6, TransformFailed: 4,
		FailRate: 0.4, AvgDataQuality: 72.5, Organizations: 7, LookbackHours: 24,
	}

	var buf bytes.Buffer
	formatHealth(&buf, healthReport{Snapshot: snap})
	out := buf.String()
	assert.Contains(t, out, "last 24h")
	assert.Contains(t, out, "10 (6 ok, 4 failed)")
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, "72.5")
	assert.Contains(t, out, "No alerts.")

	buf.Reset()
	formatHealth(&buf, healthReport{Snapshot: snap, Alerts: []monitoring.Alert{
		{Type: monitoring.AlertTransformFailureRate, Severity: "high", Message: "too many failures"},
	}})
	assert.Contains(t, buf.String(), "[high] too many failures")
}
