package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertTransformFailureRate AlertType = "transform_failure_rate"
	AlertLowDataQuality       AlertType = "low_data_quality"
)

// minRunsForAlert keeps a handful of runs from tripping rate-based alerts.
const minRunsForAlert = 5

// Alert is one threshold breach, posted to the webhook as JSON.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter compares snapshots with the monitoring thresholds.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter returns an Alerter with a 10s webhook timeout.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate returns the alerts the snapshot triggers, failure rate first.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	if snap.TransformTotal >= minRunsForAlert && snap.FailRate > a.cfg.FailureRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertTransformFailureRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Transformation failure rate %.1f%% exceeds threshold %.1f%% (%d failed / %d in last %dh)",
				snap.FailRate*100, a.cfg.FailureRateThreshold*100,
				snap.TransformFailed, snap.TransformTotal, snap.LookbackHours,
			),
			Details: map[string]any{
				"failure_rate": snap.FailRate,
				"threshold":    a.cfg.FailureRateThreshold,
				"failed":       snap.TransformFailed,
				"total":        snap.TransformTotal,
			},
			Timestamp: now,
		})
	}

	if a.cfg.MinDataQuality > 0 && snap.TransformSucceeded >= minRunsForAlert && snap.AvgDataQuality < a.cfg.MinDataQuality {
		alerts = append(alerts, Alert{
			Type:     AlertLowDataQuality,
			Severity: "medium",
			Message: fmt.Sprintf(
				"Average data quality %.1f is below %.1f across %d successful runs in last %dh",
				snap.AvgDataQuality, a.cfg.MinDataQuality, snap.TransformSucceeded, snap.LookbackHours,
			),
			Details: map[string]any{
				"avg_data_quality": snap.AvgDataQuality,
				"threshold":        a.cfg.MinDataQuality,
				"succeeded":        snap.TransformSucceeded,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts posts each alert to the webhook and returns how many were
// accepted. Delivery failures are logged, not returned.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" {
		return 0
	}

	log := zap.L().With(zap.String("component", "monitoring.alerter"))
	var sent int
	for _, alert := range alerts {
		status, err := a.post(ctx, alert)
		if err != nil {
			log.Error("alert delivery failed", zap.String("type", string(alert.Type)), zap.Int("status", status), zap.Error(err))
			continue
		}
		log.Info("alert delivered", zap.String("type", string(alert.Type)), zap.String("severity", alert.Severity))
		sent++
	}
	return sent
}

// post sends one alert as JSON and returns the response status.
func (a *Alerter) post(ctx context.Context, alert Alert) (int, error) {
	body, err := json.Marshal(alert)
	if err != nil {
		return 0, eris.Wrapf(err, "monitoring: encode %s alert", alert.Type)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, eris.Wrap(err, "monitoring: build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "monitoring: post webhook")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, eris.Errorf("monitoring: webhook rejected alert with status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
