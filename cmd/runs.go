package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/nonprofit-intel/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored transformations and scores",
	Long:  "Commands for listing and viewing persisted transformation results and quality scores.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored transformations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		profile, _ := cmd.Flags().GetString("profile")
		org, _ := cmd.Flags().GetString("org")
		failed, _ := cmd.Flags().GetBool("failed")
		limit, _ := cmd.Flags().GetInt("limit")

		recs, err := st.ListTransformations(ctx, store.TransformationFilter{
			ProfileID:      profile,
			OrganizationID: org,
			FailedOnly:     failed,
			Limit:          limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(recs) == 0 {
			fmt.Fprintln(os.Stderr, "No transformations found.")
			return nil
		}

		formatTransformationList(os.Stdout, recs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <result-id>",
	Short: "Show a stored transformation result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetTransformation(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		return writeJSON(os.Stdout, rec)
	},
}

// -- runs scores --

var runsScoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "List stored quality scores",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		kind, _ := cmd.Flags().GetString("kind")
		subject, _ := cmd.Flags().GetString("subject")
		limit, _ := cmd.Flags().GetInt("limit")

		recs, err := st.ListQualityScores(ctx, store.ScoreFilter{
			Kind:      store.ScoreKind(kind),
			SubjectID: subject,
			Limit:     limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs scores")
		}

		if len(recs) == 0 {
			fmt.Fprintln(os.Stderr, "No scores found.")
			return nil
		}

		formatScoreRecords(os.Stdout, recs)
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("profile", "", "filter by profile id")
	runsListCmd.Flags().String("org", "", "filter by organization id")
	runsListCmd.Flags().Bool("failed", false, "only show unsuccessful transformations")
	runsListCmd.Flags().Int("limit", 50, "max number of results to display")

	runsScoresCmd.Flags().String("kind", "", "filter by score kind (profile, funding, networking, discovery)")
	runsScoresCmd.Flags().String("subject", "", "filter by profile id")
	runsScoresCmd.Flags().Int("limit", 50, "max number of scores to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsScoresCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatTransformationList writes a tabular list of transformations to out.
func formatTransformationList(out io.Writer, recs []store.TransformationRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tORGANIZATION\tPROFILE\tSUCCESS\tPEOPLE\tERRORS\tDATA_QUALITY\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t------------\t-------\t-------\t------\t------\t------------\t-------")

	for _, r := range recs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%d\t%.2f\t%s\n",
			truncateID(r.ID),
			r.OrganizationID,
			r.ProfileID,
			r.Success,
			r.Result.Stats.PeopleCreated,
			r.Result.ErrorCount(),
			r.Result.Stats.DataQualityScore,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatScoreRecords writes a tabular list of stored scores to out.
func formatScoreRecords(out io.Writer, recs []store.QualityScoreRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tSUBJECT\tTARGET\tSCORE\tRATING\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t------\t-----\t------\t-------")

	for _, r := range recs {
		target := r.TargetID
		if target == "" {
			target = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%s\t%s\n",
			truncateID(r.ID),
			r.Kind,
			r.SubjectID,
			target,
			r.Score.OverallScore,
			r.Score.Rating,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}
