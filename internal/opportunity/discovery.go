package opportunity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/config"
	"github.com/sells-group/nonprofit-intel/internal/model"
)

// Discovery dimension keys.
const (
	DimensionMission     = "mission"
	DimensionGeography   = "geography"
	DimensionFinancial   = "financial"
	DimensionCapacity    = "grant_making_capacity"
	DimensionEligibility = "eligibility"
	DimensionTiming      = "timing"
)

// Discovery categories, from best to worst.
const (
	CategoryTop      = "top_match"
	CategoryStrong   = "strong_match"
	CategoryPossible = "possible_match"
	CategoryWeak     = "weak_match"
)

// DefaultDiscoveryConfig returns a config.DiscoveryConfig with sensible defaults.
// Weights sum to 1.
func DefaultDiscoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		MissionWeight:     0.25,
		GeographyWeight:   0.20,
		FinancialWeight:   0.15,
		CapacityWeight:    0.20,
		EligibilityWeight: 0.10,
		TimingWeight:      0.10,

		TopPercentile:      90,
		StrongPercentile:   70,
		PossiblePercentile: 40,

		AsOfYear: 2026,
	}
}

// DiscoveryWeightSum returns the sum of all dimension weights.
func DiscoveryWeightSum(c config.DiscoveryConfig) float64 {
	return c.MissionWeight + c.GeographyWeight + c.FinancialWeight +
		c.CapacityWeight + c.EligibilityWeight + c.TimingWeight
}

// ValidateDiscoveryConfig checks that a DiscoveryConfig is internally consistent.
func ValidateDiscoveryConfig(c config.DiscoveryConfig) error {
	var errs []string

	weights := []struct {
		name string
		w    float64
	}{
		{"mission_weight", c.MissionWeight},
		{"geography_weight", c.GeographyWeight},
		{"financial_weight", c.FinancialWeight},
		{"capacity_weight", c.CapacityWeight},
		{"eligibility_weight", c.EligibilityWeight},
		{"timing_weight", c.TimingWeight},
	}
	for _, w := range weights {
		if w.w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", w.name))
		}
	}

	if sum := DiscoveryWeightSum(c); math.Abs(sum-1) > 1e-6 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.4f", sum))
	}

	// Percentiles.
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"top_percentile", c.TopPercentile},
		{"strong_percentile", c.StrongPercentile},
		{"possible_percentile", c.PossiblePercentile},
	} {
		if p.v <= 0 || p.v > 100 {
			errs = append(errs, fmt.Sprintf("%s must be in (0, 100]", p.name))
		}
	}
	if !(c.TopPercentile >= c.StrongPercentile && c.StrongPercentile >= c.PossiblePercentile) {
		errs = append(errs, "percentiles must satisfy top >= strong >= possible")
	}

	if c.AsOfYear < 1900 {
		errs = append(errs, "as_of_year must be >= 1900")
	}

	if len(errs) > 0 {
		return eris.Errorf("opportunity: discovery config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DiscoveryResult is the score of one registry candidate.
type DiscoveryResult struct {
	CandidateID     string             `json:"candidate_id"`
	Name            string             `json:"name,omitempty"`
	Score           float64            `json:"score"`
	ComponentScores map[string]float64 `json:"component_scores"`
	Category        string             `json:"category,omitempty"`
	Rank            int                `json:"rank,omitempty"`
}

// DiscoveryScorer scores registry grantmakers for bulk discovery.
type DiscoveryScorer struct {
	cfg config.DiscoveryConfig
}

// NewDiscoveryScorer validates cfg and returns a scorer.
func NewDiscoveryScorer(cfg config.DiscoveryConfig) (*DiscoveryScorer, error) {
	if err := ValidateDiscoveryConfig(cfg); err != nil {
		return nil, err
	}
	return &DiscoveryScorer{cfg: cfg}, nil
}

// Score rates one candidate. Category and Rank are only set by ScoreBatch,
// since they depend on the rest of the batch.
func (s *DiscoveryScorer) Score(profile model.FundingProfile, c model.RegistryCandidate) DiscoveryResult {
	components := map[string]float64{
		DimensionMission:     registryMission(profile.CategoryCodes, c.CategoryCode),
		DimensionGeography:   registryGeography(profile.Region, c.Region),
		DimensionFinancial:   registryFinancial(c.TotalAssets),
		DimensionCapacity:    registryCapacity(c.GrantsPaid, profile.AnnualBudget),
		DimensionEligibility: registryEligibility(c),
		DimensionTiming:      registryTiming(c.LastFilingYear, s.cfg.AsOfYear),
	}

	weights := []struct {
		key string
		w   float64
	}{
		{DimensionMission, s.cfg.MissionWeight},
		{DimensionGeography, s.cfg.GeographyWeight},
		{DimensionFinancial, s.cfg.FinancialWeight},
		{DimensionCapacity, s.cfg.CapacityWeight},
		{DimensionEligibility, s.cfg.EligibilityWeight},
		{DimensionTiming, s.cfg.TimingWeight},
	}
	var total float64
	for _, w := range weights {
		total += components[w.key] * w.w
	}

	return DiscoveryResult{
		CandidateID:     c.ID,
		Name:            c.Name,
		Score:           round4(total),
		ComponentScores: components,
	}
}

// ScoreBatch scores every candidate, sorts by score descending (ties by
// candidate id), ranks from 1, and categorizes each result against the
// nearest-rank percentiles of the batch's own scores.
func (s *DiscoveryScorer) ScoreBatch(profile model.FundingProfile, candidates []model.RegistryCandidate) []DiscoveryResult {
	results := make([]DiscoveryResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, s.Score(profile, c))
	}
	if len(results) == 0 {
		return results
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	sort.Float64s(scores)
	top := percentile(scores, s.cfg.TopPercentile)
	strong := percentile(scores, s.cfg.StrongPercentile)
	possible := percentile(scores, s.cfg.PossiblePercentile)

	counts := make(map[string]int)
	for i := range results {
		results[i].Rank = i + 1
		switch sc := results[i].Score; {
		case sc >= top:
			results[i].Category = CategoryTop
		case sc >= strong:
			results[i].Category = CategoryStrong
		case sc >= possible:
			results[i].Category = CategoryPossible
		default:
			results[i].Category = CategoryWeak
		}
		counts[results[i].Category]++
	}

	zap.L().Info("opportunity: discovery batch scored",
		zap.String("profile_id", profile.ID),
		zap.Int("candidates", len(results)),
		zap.Int(CategoryTop, counts[CategoryTop]),
		zap.Int(CategoryStrong, counts[CategoryStrong]),
		zap.Float64("top_threshold", top),
	)
	return results
}

// percentile returns the nearest-rank p-th percentile of ascending values.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

// registryMission compares a candidate's category code with the profile's.
// An exact code scores 1.0; the same major group (leading letter) 0.6.
func registryMission(profileCodes []string, code string) float64 {
	code = strings.ToUpper(strings.TrimSpace(code))
	set := codeSet(profileCodes)
	if code == "" || len(set) == 0 {
		return 0.3
	}
	if set[code] {
		return 1.0
	}
	for c := range set {
		if c[0] == code[0] {
			return 0.6
		}
	}
	return 0
}

func registryGeography(profileRegion, region string) float64 {
	p, r := strings.TrimSpace(profileRegion), strings.TrimSpace(region)
	switch {
	case p == "" || r == "":
		return 0.5
	case strings.EqualFold(p, r):
		return 1.0
	default:
		return 0.2
	}
}

// registryFinancial tiers total assets.
func registryFinancial(assets *float64) float64 {
	if assets == nil {
		return 0.3
	}
	switch a := *assets; {
	case a >= 10_000_000:
		return 1.0
	case a >= 1_000_000:
		return 0.7
	case a >= 100_000:
		return 0.4
	default:
		return 0.2
	}
}

// registryCapacity rates annual grants paid against the applicant's budget,
// or on an absolute scale when the budget is unknown.
func registryCapacity(grantsPaid, budget *float64) float64 {
	if grantsPaid == nil || *grantsPaid <= 0 {
		return 0
	}
	g := *grantsPaid
	if budget == nil || *budget <= 0 {
		switch {
		case g >= 1_000_000:
			return 1.0
		case g >= 100_000:
			return 0.6
		default:
			return 0.3
		}
	}
	switch ratio := g / *budget; {
	case ratio >= 1:
		return 1.0
	case ratio >= 0.25:
		return 0.75
	case ratio >= 0.05:
		return 0.5
	default:
		return 0.25
	}
}

func registryEligibility(c model.RegistryCandidate) float64 {
	switch {
	case c.IsGrantmaker && c.AcceptsUnsolicited:
		return 1.0
	case c.IsGrantmaker:
		return 0.5
	default:
		return 0
	}
}

// registryTiming rates how recent the candidate's last filing is relative to asOfYear.
func registryTiming(lastFiling, asOfYear int) float64 {
	if lastFiling <= 0 {
		return 0.3
	}
	switch age := asOfYear - lastFiling; {
	case age <= 1:
		return 1.0
	case age <= 2:
		return 0.8
	case age <= 3:
		return 0.5
	default:
		return 0.2
	}
}
