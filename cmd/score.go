package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/opportunity"
	"github.com/sells-group/nonprofit-intel/internal/quality"
	"github.com/sells-group/nonprofit-intel/internal/store"
)

var (
	scoreSubjectID string
	scoreSave      bool
	scoreDetail    bool
	scoreOutput    string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score profile data quality and opportunities",
}

// -- score profile --

var scoreProfileCmd = &cobra.Command{
	Use:   "profile <sources-file>",
	Short: "Score the data quality of an organization profile",
	Long:  "Reads a JSON or YAML document with optional bmf, form_990, web_intelligence and ai_analysis sections.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var src model.ProfileSources
		if err := decodeFile(args[0], &src); err != nil {
			return err
		}

		subject := subjectOr(args[0])
		res := profileReport{ProfileID: subject, Score: quality.ScoreProfile(src)}
		if scoreDetail {
			res.Sources = map[string]model.QualityScore{}
			if src.BMF != nil {
				res.Sources[quality.ComponentBMF] = quality.ScoreBMFData(src.BMF)
			}
			if src.Form990 != nil {
				res.Sources[quality.ComponentForm990] = quality.ScoreForm990(src.Form990)
			}
			if src.WebIntelligence != nil {
				res.Sources[quality.ComponentWebIntelligence] = quality.ScoreWebIntelligence(src.WebIntelligence)
			}
			if src.AIAnalysis != nil {
				res.Sources[quality.ComponentAIAnalysis] = quality.ScoreAIAnalysis(src.AIAnalysis)
			}
		}

		if err := saveScores(cmd.Context(), []store.QualityScoreRecord{
			{Kind: store.ScoreKindProfile, SubjectID: subject, Score: res.Score},
		}); err != nil {
			return err
		}

		if scoreOutput == outputTable {
			formatScores(os.Stdout, []scoredTarget{{ID: subject, Score: res.Score}})
			return nil
		}
		return writeJSON(os.Stdout, res)
	},
}

// -- score funding --

var scoreFundingCmd = &cobra.Command{
	Use:   "funding <request-file>",
	Short: "Rank candidate foundations for a funding profile",
	Long:  "Reads a document with a profile and a list of foundations.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req fundingRequest
		if err := decodeFile(args[0], &req); err != nil {
			return err
		}

		targets := make([]scoredTarget, 0, len(req.Foundations))
		for _, f := range req.Foundations {
			targets = append(targets, scoredTarget{ID: f.ID, Name: f.Name, Score: opportunity.ScoreFunding(req.Profile, f)})
		}
		return emitTargets(cmd.Context(), store.ScoreKindFunding, subjectOr(req.Profile.ID), targets)
	},
}

// -- score networking --

var scoreNetworkingCmd = &cobra.Command{
	Use:   "networking <request-file>",
	Short: "Rank peer organizations for networking",
	Long:  "Reads a document with a profile and a list of peers.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req networkingRequest
		if err := decodeFile(args[0], &req); err != nil {
			return err
		}

		targets := make([]scoredTarget, 0, len(req.Peers))
		for _, p := range req.Peers {
			targets = append(targets, scoredTarget{ID: p.ID, Name: p.Name, Score: opportunity.ScoreNetworking(req.Profile, p)})
		}
		return emitTargets(cmd.Context(), store.ScoreKindNetworking, subjectOr(req.Profile.ID), targets)
	},
}

// -- score discovery --

var scoreDiscoveryCmd = &cobra.Command{
	Use:   "discovery <request-file>",
	Short: "Rank registry grantmakers found by bulk discovery",
	Long:  "Reads a document with a profile and a list of registry candidates. Weights and category percentiles come from the discovery config section.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req discoveryRequest
		if err := decodeFile(args[0], &req); err != nil {
			return err
		}

		scorer, err := opportunity.NewDiscoveryScorer(cfg.Discovery)
		if err != nil {
			return err
		}
		results := scorer.ScoreBatch(req.Profile, req.Candidates)

		subject := subjectOr(req.Profile.ID)
		recs := make([]store.QualityScoreRecord, 0, len(results))
		for _, r := range results {
			recs = append(recs, store.QualityScoreRecord{
				Kind: store.ScoreKindDiscovery, SubjectID: subject, TargetID: r.CandidateID, Score: discoveryScore(r),
			})
		}
		if err := saveScores(cmd.Context(), recs); err != nil {
			return err
		}

		if scoreOutput == outputTable {
			formatDiscovery(os.Stdout, results)
			return nil
		}
		return writeJSON(os.Stdout, results)
	},
}

func init() {
	scoreCmd.PersistentFlags().StringVar(&scoreSubjectID, "subject-id", "", "profile id to record scores under")
	scoreCmd.PersistentFlags().BoolVar(&scoreSave, "save", false, "persist scores to the configured store")
	scoreCmd.PersistentFlags().StringVar(&scoreOutput, "output", outputJSON, "output format: json or table")
	scoreCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return checkOutput(scoreOutput)
	}
	scoreProfileCmd.Flags().BoolVar(&scoreDetail, "detail", false, "include per-source scores")

	scoreCmd.AddCommand(scoreProfileCmd)
	scoreCmd.AddCommand(scoreFundingCmd)
	scoreCmd.AddCommand(scoreNetworkingCmd)
	scoreCmd.AddCommand(scoreDiscoveryCmd)
	rootCmd.AddCommand(scoreCmd)
}

type profileReport struct {
	ProfileID string                        `json:"profile_id"`
	Score     model.QualityScore            `json:"score"`
	Sources   map[string]model.QualityScore `json:"sources,omitempty"`
}

type fundingRequest struct {
	Profile     model.FundingProfile `json:"profile"`
	Foundations []model.Foundation   `json:"foundations"`
}

type networkingRequest struct {
	Profile model.FundingProfile     `json:"profile"`
	Peers   []model.PeerOrganization `json:"peers"`
}

type discoveryRequest struct {
	Profile    model.FundingProfile      `json:"profile"`
	Candidates []model.RegistryCandidate `json:"candidates"`
}

// scoredTarget is one candidate scored against the subject profile.
type scoredTarget struct {
	ID    string             `json:"id"`
	Name  string             `json:"name,omitempty"`
	Score model.QualityScore `json:"score"`
}

// subjectOr returns --subject-id when set, otherwise fallback.
func subjectOr(fallback string) string {
	if scoreSubjectID != "" {
		return scoreSubjectID
	}
	return fallback
}

// rankTargets sorts by overall score descending, ties by id.
func rankTargets(targets []scoredTarget) {
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Score.OverallScore != targets[j].Score.OverallScore {
			return targets[i].Score.OverallScore > targets[j].Score.OverallScore
		}
		return targets[i].ID < targets[j].ID
	})
}

func emitTargets(ctx context.Context, kind store.ScoreKind, subject string, targets []scoredTarget) error {
	rankTargets(targets)

	recs := make([]store.QualityScoreRecord, 0, len(targets))
	for _, t := range targets {
		recs = append(recs, store.QualityScoreRecord{Kind: kind, SubjectID: subject, TargetID: t.ID, Score: t.Score})
	}
	if err := saveScores(ctx, recs); err != nil {
		return err
	}

	if scoreOutput == outputTable {
		formatScores(os.Stdout, targets)
		return nil
	}
	return writeJSON(os.Stdout, targets)
}

// saveScores persists recs when --save is set.
func saveScores(ctx context.Context, recs []store.QualityScoreRecord) error {
	if !scoreSave || len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if rec.SubjectID == "" {
			return eris.New("score: --subject-id is required to save scores without a profile id")
		}
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if len(recs) == 1 {
		_, err = st.SaveQualityScore(ctx, recs[0])
		return eris.Wrap(err, "score: save")
	}
	n, err := st.SaveQualityScores(ctx, recs)
	if err != nil {
		return eris.Wrap(err, "score: save batch")
	}
	zap.L().Info("saved scores", zap.String("kind", string(recs[0].Kind)), zap.Int("count", n))
	return nil
}

// discoveryScore maps a discovery result onto the common score shape so it
// can be stored alongside the other kinds.
func discoveryScore(r opportunity.DiscoveryResult) model.QualityScore {
	qs := model.NewQualityScore()
	qs.OverallScore = r.Score
	qs.Rating = model.Rating(r.Category)
	for k, v := range r.ComponentScores {
		qs.ComponentScores[k] = v
	}
	return qs
}

func formatScores(out io.Writer, targets []scoredTarget) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSCORE\tRATING\tMISSING")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t------\t-------")
	for _, t := range targets {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.4f\t%s\t%d\n",
			t.ID, t.Name, t.Score.OverallScore, t.Score.Rating, len(t.Score.MissingFields))
	}
	_ = w.Flush()
}

func formatDiscovery(out io.Writer, results []opportunity.DiscoveryResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tID\tNAME\tSCORE\tCATEGORY")
	_, _ = fmt.Fprintln(w, "----\t--\t----\t-----\t--------")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\t%s\n", r.Rank, r.CandidateID, r.Name, r.Score, r.Category)
	}
	_ = w.Flush()
}
