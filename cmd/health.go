package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/nonprofit-intel/internal/monitoring"
)

var (
	healthHours  int
	healthNotify bool
	healthStrict bool
	healthOutput string
)

// healthReport is the output of runs health.
type healthReport struct {
	Snapshot *monitoring.MetricsSnapshot `json:"snapshot"`
	Alerts   []monitoring.Alert          `json:"alerts"`
	Sent     int                         `json:"alerts_sent,omitempty"`
}

var runsHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Summarize recent transformation runs and check alert thresholds",
	Long: `Collects failure rate and data quality over the lookback window and evaluates
the monitoring thresholds. With --notify, alerts are posted to monitoring.webhook_url.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("monitoring"); err != nil {
			return err
		}
		if err := checkOutput(healthOutput); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		hours := healthHours
		if hours <= 0 {
			hours = cfg.Monitoring.LookbackWindowHours
		}

		snap, err := monitoring.NewCollector(st).Collect(ctx, hours)
		if err != nil {
			return eris.Wrap(err, "runs health")
		}

		alerter := monitoring.NewAlerter(cfg.Monitoring)
		report := healthReport{Snapshot: snap, Alerts: alerter.Evaluate(snap)}
		if healthNotify {
			report.Sent = alerter.SendAlerts(ctx, report.Alerts)
		}

		if healthOutput == outputTable {
			formatHealth(os.Stdout, report)
		} else if err := writeJSON(os.Stdout, report); err != nil {
			return err
		}

		if healthStrict && len(report.Alerts) > 0 {
			return eris.Errorf("runs health: %d alert(s) raised", len(report.Alerts))
		}
		return nil
	},
}

func init() {
	runsHealthCmd.Flags().IntVar(&healthHours, "hours", 0, "lookback window in hours (defaults to monitoring.lookback_window_hours)")
	runsHealthCmd.Flags().BoolVar(&healthNotify, "notify", false, "post alerts to the configured webhook")
	runsHealthCmd.Flags().BoolVar(&healthStrict, "strict", false, "exit non-zero when any alert is raised")
	runsHealthCmd.Flags().StringVar(&healthOutput, "output", outputTable, "output format: json or table")
	runsCmd.AddCommand(runsHealthCmd)
}

func formatHealth(out io.Writer, r healthReport) {
	s := r.Snapshot
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Window:\tlast %dh\n", s.LookbackHours)
	_, _ = fmt.Fprintf(w, "Runs:\t%d (%d ok, %d failed)\n", s.TransformTotal, s.TransformSucceeded, s.TransformFailed)
	_, _ = fmt.Fprintf(w, "Organizations:\t%d\n", s.Organizations)
	_, _ = fmt.Fprintf(w, "Failure rate:\t%.1f%%\n", s.FailRate*100)
	_, _ = fmt.Fprintf(w, "Avg data quality:\t%.1f\n", s.AvgDataQuality)
	_, _ = fmt.Fprintf(w, "People created:\t%d\n", s.PeopleCreated)
	_, _ = fmt.Fprintf(w, "Validation errors:\t%d\n", s.ValidationErrors)
	_ = w.Flush()

	if len(r.Alerts) == 0 {
		_, _ = fmt.Fprintln(out, "\nNo alerts.")
		return
	}
	_, _ = fmt.Fprintln(out, "\nAlerts:")
	for _, a := range r.Alerts {
		_, _ = fmt.Fprintf(out, "  [%s] %s\n", a.Severity, a.Message)
	}
}
