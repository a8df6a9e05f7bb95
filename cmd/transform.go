package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/store"
	"github.com/sells-group/nonprofit-intel/internal/transform"
)

var (
	transformDir       string
	transformProfileID string
	transformOrgID     string
	transformSave      bool
	transformForce     bool
	transformOutput    string
)

var transformCmd = &cobra.Command{
	Use:   "transform [file...]",
	Short: "Transform raw organization records into entities",
	Long: `Parses, deduplicates and classifies the board, leadership, program and contact
records of one or more organizations. Each JSON or YAML file holds one organization;
its file name is the organization id unless --org-id is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("transform"); err != nil {
			return err
		}
		if err := checkOutput(transformOutput); err != nil {
			return err
		}

		files, err := collectInputs(args, transformDir)
		if err != nil {
			return err
		}
		if transformOrgID != "" && len(files) > 1 {
			return eris.New("--org-id applies to a single input file")
		}

		var st store.Store
		if transformSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		opts := batchOptions{
			ProfileID:      transformProfileID,
			OrganizationID: transformOrgID,
			Force:          transformForce,
			Concurrency:    cfg.Batch.MaxConcurrent,
			RateLimit:      cfg.Batch.RateLimit,
		}
		summaries, err := transformFiles(ctx, files, opts, transform.New(cfg), st)
		if err != nil {
			return err
		}

		if transformOutput == outputTable {
			formatTransformSummaries(os.Stdout, summaries)
			return nil
		}
		return writeJSON(os.Stdout, summaries)
	},
}

func init() {
	transformCmd.Flags().StringVar(&transformDir, "dir", "", "directory of input files to process")
	transformCmd.Flags().StringVar(&transformProfileID, "profile-id", "", "profile id (defaults to the organization id)")
	transformCmd.Flags().StringVar(&transformOrgID, "org-id", "", "organization id for a single input file")
	transformCmd.Flags().BoolVar(&transformSave, "save", false, "persist results to the configured store")
	transformCmd.Flags().BoolVar(&transformForce, "force", false, "re-process inputs whose hash is already stored")
	transformCmd.Flags().StringVar(&transformOutput, "output", outputJSON, "output format: json or table")
	rootCmd.AddCommand(transformCmd)
}

// batchOptions controls a multi-file transformation.
type batchOptions struct {
	ProfileID      string
	OrganizationID string
	Force          bool
	Concurrency    int
	RateLimit      float64
}

// fileSummary reports the outcome for one input file.
type fileSummary struct {
	Path           string                      `json:"path"`
	ProfileID      string                      `json:"profile_id"`
	OrganizationID string                      `json:"organization_id"`
	ResultID       string                      `json:"result_id,omitempty"`
	Success        bool                        `json:"success"`
	Skipped        bool                        `json:"skipped,omitempty"`
	Error          string                      `json:"error,omitempty"`
	Result         *model.TransformationResult `json:"result,omitempty"`
}

// transformFiles processes files concurrently. A failing file is recorded in
// its summary and does not abort the batch. st may be nil.
func transformFiles(ctx context.Context, files []string, opts batchOptions, orch *transform.Orchestrator, st store.Store) ([]fileSummary, error) {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	zap.L().Info("transforming inputs",
		zap.Int("files", len(files)),
		zap.Int("concurrency", concurrency),
		zap.Bool("save", st != nil),
	)

	summaries := make([]fileSummary, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed, skipped atomic.Int64

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return eris.Wrap(err, "rate limit")
				}
			}

			s := transformFile(gctx, path, opts, orch, st)
			summaries[i] = s
			switch {
			case s.Skipped:
				skipped.Add(1)
			case s.Error != "" || !s.Success:
				failed.Add(1)
				zap.L().Warn("transform failed", zap.String("path", path), zap.String("error", s.Error))
			default:
				succeeded.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summaries, err
	}

	zap.L().Info("transform batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int64("skipped", skipped.Load()),
	)
	return summaries, nil
}

func transformFile(ctx context.Context, path string, opts batchOptions, orch *transform.Orchestrator, st store.Store) fileSummary {
	orgID := opts.OrganizationID
	if orgID == "" {
		orgID = idFromPath(path)
	}
	profileID := opts.ProfileID
	if profileID == "" {
		profileID = orgID
	}
	s := fileSummary{Path: path, ProfileID: profileID, OrganizationID: orgID}

	in, err := readTransformInput(path)
	if err != nil {
		s.Error = err.Error()
		return s
	}

	if st != nil && !opts.Force {
		if hash, err := transform.SourceDataHash(in); err == nil {
			prev, err := st.FindTransformationByHash(ctx, profileID, orgID, hash)
			if err != nil {
				s.Error = err.Error()
				return s
			}
			if prev != nil {
				zap.L().Debug("input unchanged, skipping", zap.String("path", path), zap.String("result_id", prev.ID))
				s.ResultID = prev.ID
				s.Success = prev.Success
				s.Skipped = true
				return s
			}
		}
	}

	res := orch.Transform(profileID, orgID, in)
	s.ResultID = res.ID
	s.Success = res.Success
	s.Result = res

	if st != nil {
		if _, err := st.SaveTransformation(ctx, res); err != nil {
			s.Error = err.Error()
		}
	}
	return s
}

// formatTransformSummaries writes a tabular batch summary to out.
func formatTransformSummaries(out io.Writer, summaries []fileSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ORGANIZATION\tRESULT\tSTATUS\tPEOPLE\tERRORS\tDATA_QUALITY")
	_, _ = fmt.Fprintln(w, "------------\t------\t------\t------\t------\t------------")

	for _, s := range summaries {
		status := "failed"
		switch {
		case s.Error != "":
			status = "error"
		case s.Skipped:
			status = "unchanged"
		case s.Success:
			status = "ok"
		}

		people, errs, dq := "-", "-", "-"
		if s.Result != nil {
			people = fmt.Sprint(s.Result.Stats.PeopleCreated)
			errs = fmt.Sprint(s.Result.ErrorCount())
			dq = fmt.Sprintf("%.2f", s.Result.Stats.DataQualityScore)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.OrganizationID, truncateID(s.ResultID), status, people, errs, dq)
	}
	_ = w.Flush()
}
