package opportunity

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// Networking component keys.
const (
	ComponentBoardConnections = "board_connections"
	ComponentFunderOverlap    = "funder_overlap"
	ComponentCollaborationFit = "collaboration_fit"
)

var networkingWeights = []struct {
	key    string
	weight float64
}{
	{ComponentMissionAlignment, 0.25},
	{ComponentBoardConnections, 0.25},
	{ComponentFunderOverlap, 0.30},
	{ComponentCollaborationFit, 0.20},
}

// ScoreNetworking scores profile against a peer organization. Ratings use the
// HIGH/MEDIUM/LOW scale.
func ScoreNetworking(profile model.FundingProfile, peer model.PeerOrganization) model.QualityScore {
	qs := model.NewQualityScore()
	qs.ComponentScores[ComponentMissionAlignment] = missionOverlap(profile.CategoryCodes, peer.CategoryCodes)
	qs.ComponentScores[ComponentBoardConnections] = saturate(peer.SharedBoardMembers, 5)
	qs.ComponentScores[ComponentFunderOverlap] = saturate(peer.SharedFunders, 10)
	qs.ComponentScores[ComponentCollaborationFit] = budgetRatio(profile.AnnualBudget, peer.AnnualBudget)

	var total float64
	for _, w := range networkingWeights {
		total += qs.ComponentScores[w.key] * w.weight
	}
	qs.OverallScore = round4(total)
	qs.Rating = networkingRating(qs.OverallScore)

	if profile.AnnualBudget == nil {
		qs.MissingFields = append(qs.MissingFields, "profile.annual_budget")
	}
	if peer.AnnualBudget == nil {
		qs.MissingFields = append(qs.MissingFields, "peer.annual_budget")
	}
	if peer.SharedBoardMembers > 0 {
		qs.Recommendations = append(qs.Recommendations, "Ask shared board members for a warm introduction")
	}
	if peer.SharedFunders > 0 {
		qs.Recommendations = append(qs.Recommendations, "Explore a joint proposal to shared funders")
	}

	zap.L().Debug("opportunity: scored networking",
		zap.String("profile_id", profile.ID),
		zap.String("peer_id", peer.ID),
		zap.Float64("score", qs.OverallScore),
	)
	return qs
}

// saturate returns count/limit capped at 1. Negative counts score 0.
func saturate(count, limit int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(float64(count)/float64(limit), 1.0)
}

// budgetRatio is min/max of two budgets, 0.5 when either is unknown or not positive.
func budgetRatio(a, b *float64) float64 {
	if a == nil || b == nil || *a <= 0 || *b <= 0 {
		return 0.5
	}
	return math.Min(*a, *b) / math.Max(*a, *b)
}

func networkingRating(score float64) model.Rating {
	switch {
	case score >= 0.70:
		return model.RatingHigh
	case score >= 0.50:
		return model.RatingMedium
	default:
		return model.RatingLow
	}
}
