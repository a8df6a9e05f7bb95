// Package opportunity scores how well a nonprofit fits a candidate funder or peer.
//
// Two scoring strategies coexist. ScoreFunding and ScoreNetworking use fixed
// weights against one candidate at a time. DiscoveryScorer uses configurable
// six-dimension weights and categorizes a batch of registry candidates by the
// batch's own score distribution. The two are independent and are not
// expected to agree.
package opportunity

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// Funding component keys and weights.
const (
	ComponentMissionAlignment       = "mission_alignment"
	ComponentGeographicFit          = "geographic_fit"
	ComponentGrantSizeFit           = "grant_size_fit"
	ComponentPastRecipients         = "past_recipients"
	ComponentApplicationFeasibility = "application_feasibility"
)

var fundingWeights = []struct {
	key    string
	weight float64
}{
	{ComponentMissionAlignment, 0.30},
	{ComponentGeographicFit, 0.20},
	{ComponentGrantSizeFit, 0.25},
	{ComponentPastRecipients, 0.15},
	{ComponentApplicationFeasibility, 0.10},
}

// Ideal average grant as a share of the applicant's annual budget, inclusive.
const (
	idealGrantMinShare = 0.10
	idealGrantMaxShare = 0.30
)

// ScoreFunding scores profile against a candidate foundation.
func ScoreFunding(profile model.FundingProfile, f model.Foundation) model.QualityScore {
	qs := model.NewQualityScore()
	qs.ComponentScores[ComponentMissionAlignment] = missionOverlap(profile.CategoryCodes, f.FundedCategories)
	qs.ComponentScores[ComponentGeographicFit] = geographicFit(profile.Region, f.Region, f.Nationwide)
	qs.ComponentScores[ComponentGrantSizeFit] = grantSizeFit(f.AvgGrantSize, profile.AnnualBudget)
	qs.ComponentScores[ComponentPastRecipients] = saturate(f.SimilarRecipientCount, 10)
	qs.ComponentScores[ComponentApplicationFeasibility] = feasibility(f)

	var total float64
	for _, w := range fundingWeights {
		total += qs.ComponentScores[w.key] * w.weight
	}
	qs.OverallScore = round4(total)
	qs.Rating = fundingRating(qs.OverallScore)
	qs.MissingFields = fundingMissing(profile, f)
	qs.Recommendations = fundingAdvice(qs.ComponentScores, f)

	zap.L().Debug("opportunity: scored funding",
		zap.String("profile_id", profile.ID),
		zap.String("foundation_id", f.ID),
		zap.Float64("score", qs.OverallScore),
	)
	return qs
}

// missionOverlap is the share of the profile's categories the other side
// shares. Either side empty yields 0.5.
func missionOverlap(profile, other []string) float64 {
	ps, os := codeSet(profile), codeSet(other)
	if len(ps) == 0 || len(os) == 0 {
		return 0.5
	}
	n := 0
	for c := range ps {
		if os[c] {
			n++
		}
	}
	return float64(n) / float64(len(ps))
}

func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			set[c] = true
		}
	}
	return set
}

func geographicFit(profileRegion, funderRegion string, nationwide bool) float64 {
	p, f := strings.TrimSpace(profileRegion), strings.TrimSpace(funderRegion)
	switch {
	case nationwide:
		return 1.0
	case p == "" || f == "":
		return 0.3
	case strings.EqualFold(p, f):
		return 1.0
	default:
		return 0.5
	}
}

// grantSizeFit compares the average grant to the ideal band of the budget.
func grantSizeFit(avgGrant, budget *float64) float64 {
	if avgGrant == nil || budget == nil || *budget <= 0 || *avgGrant < 0 {
		return 0.5
	}
	eps := *budget * 1e-9
	switch {
	case *avgGrant < *budget*idealGrantMinShare-eps:
		return 0.7
	case *avgGrant > *budget*idealGrantMaxShare+eps:
		return 0.5
	default:
		return 1.0
	}
}

func feasibility(f model.Foundation) float64 {
	switch {
	case f.AcceptingApplications && f.ApplicationDeadline != nil:
		return 1.0
	case f.AcceptingApplications:
		return 0.8
	default:
		return 0.3
	}
}

func fundingRating(score float64) model.Rating {
	switch {
	case score >= 0.80:
		return model.RatingExcellent
	case score >= 0.65:
		return model.RatingGood
	case score >= 0.50:
		return model.RatingFair
	default:
		return model.RatingPoor
	}
}

func fundingMissing(p model.FundingProfile, f model.Foundation) []string {
	out := []string{}
	if len(codeSet(p.CategoryCodes)) == 0 {
		out = append(out, "profile.category_codes")
	}
	if p.AnnualBudget == nil {
		out = append(out, "profile.annual_budget")
	}
	if strings.TrimSpace(p.Region) == "" {
		out = append(out, "profile.region")
	}
	if len(codeSet(f.FundedCategories)) == 0 {
		out = append(out, "foundation.funded_categories")
	}
	if f.AvgGrantSize == nil {
		out = append(out, "foundation.avg_grant_size")
	}
	if strings.TrimSpace(f.Region) == "" && !f.Nationwide {
		out = append(out, "foundation.region")
	}
	return out
}

func fundingAdvice(c map[string]float64, f model.Foundation) []string {
	out := []string{}
	if c[ComponentMissionAlignment] < 0.5 {
		out = append(out, "Mission overlap is weak; frame the request around shared categories")
	}
	if f.AvgGrantSize != nil {
		switch c[ComponentGrantSizeFit] {
		case 0.7:
			out = append(out, "Average grant is below 10% of budget; consider a project-specific request")
		case 0.5:
			out = append(out, "Average grant is above 30% of budget or budget is unknown; confirm capacity to absorb it")
		}
	}
	if !f.AcceptingApplications {
		out = append(out, fmt.Sprintf("%s is not accepting applications; build a relationship before the next cycle", displayName(f.Name, f.ID)))
	}
	return out
}

func displayName(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return id
}

func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
