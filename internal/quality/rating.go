package quality

import "github.com/sells-group/nonprofit-intel/internal/model"

// tier is a rating with the minimum completeness and confidence to earn it.
type tier struct {
	rating        model.Rating
	minScore      float64
	minConfidence float64
}

var componentTiers = []tier{
	{model.RatingExcellent, 0.90, 0},
	{model.RatingGood, 0.75, 0},
	{model.RatingFair, 0.60, 0},
}

var profileTiers = []tier{
	{model.RatingExcellent, 0.85, 0},
	{model.RatingGood, 0.70, 0},
	{model.RatingFair, 0.50, 0},
}

var webTiers = []tier{
	{model.RatingExcellent, 0.90, 0.80},
	{model.RatingGood, 0.75, 0.70},
	{model.RatingFair, 0.60, 0.60},
}

func rate(tiers []tier, score float64, confidence *float64) model.Rating {
	for _, t := range tiers {
		if score < t.minScore {
			continue
		}
		if confidence != nil && *confidence < t.minConfidence {
			continue
		}
		return t.rating
	}
	return model.RatingPoor
}

// componentRating rates a single source score.
func componentRating(score float64) model.Rating { return rate(componentTiers, score, nil) }

// profileRating rates the overall profile score.
func profileRating(score float64) model.Rating { return rate(profileTiers, score, nil) }

// webRating applies the dual completeness/confidence thresholds. A nil
// confidence means no field carried one and only completeness counts.
func webRating(score float64, confidence *float64) model.Rating {
	return rate(webTiers, score, confidence)
}
