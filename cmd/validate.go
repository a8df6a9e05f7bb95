package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/quality"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration, inputs and profile completeness",
}

// -- validate config --

var validateConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate the loaded configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		if err := cfg.Validate(mode); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "config ok")
		return nil
	},
}

// -- validate input --

var validateInputCmd = &cobra.Command{
	Use:   "input <file...>",
	Short: "Strictly decode transformation input files without transforming them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var bad int
		for _, path := range args {
			in, err := readTransformInput(path)
			if err != nil {
				bad++
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s: ok (%d records)\n", path, in.RecordCount())
		}
		if bad > 0 {
			return eris.Errorf("%d of %d inputs invalid", bad, len(args))
		}
		return nil
	},
}

// -- validate sources --

var validateSourcesCmd = &cobra.Command{
	Use:   "sources <sources-file>",
	Short: "Report which profile data sources are present and what to collect next",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(validateOutput); err != nil {
			return err
		}
		var src model.ProfileSources
		if err := decodeFile(args[0], &src); err != nil {
			return err
		}

		report := quality.ValidateCompleteness(src)
		if validateOutput == outputTable {
			formatCompleteness(os.Stdout, report)
			return nil
		}
		return writeJSON(os.Stdout, report)
	},
}

func init() {
	validateConfigCmd.Flags().String("mode", "all", "checks to run: store, transform, monitoring or all")
	validateSourcesCmd.Flags().StringVar(&validateOutput, "output", outputJSON, "output format: json or table")

	validateCmd.AddCommand(validateConfigCmd)
	validateCmd.AddCommand(validateInputCmd)
	validateCmd.AddCommand(validateSourcesCmd)
	rootCmd.AddCommand(validateCmd)
}

func formatCompleteness(out io.Writer, r quality.CompletenessReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Completeness:\t%.0f%%\n", r.OverallCompleteness*100)
	_, _ = fmt.Fprintf(w, "Present:\t%s\n", joinOrDash(r.PresentSources))
	_, _ = fmt.Fprintf(w, "Missing:\t%s\n", joinOrDash(r.MissingSources))
	_ = w.Flush()
	for _, rec := range r.Recommendations {
		_, _ = fmt.Fprintf(out, "  - %s\n", rec)
	}
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}
