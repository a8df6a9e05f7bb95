package opportunity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

func TestScoreNetworking_FunderSaturation(t *testing.T) {
	qs := ScoreNetworking(model.FundingProfile{ID: "p"}, model.PeerOrganization{ID: "o", SharedFunders: 10})
	assert.Equal(t, 1.0, qs.ComponentScores[ComponentFunderOverlap])

	qs = ScoreNetworking(model.FundingProfile{ID: "p"}, model.PeerOrganization{ID: "o", SharedFunders: 25})
	assert.Equal(t, 1.0, qs.ComponentScores[ComponentFunderOverlap])
}

func TestScoreNetworking(t *testing.T) {
	profile := model.FundingProfile{ID: "p", CategoryCodes: []string{"K31"}, AnnualBudget: f64(1_000_000)}

	tests := []struct {
		name   string
		peer   model.PeerOrganization
		want   float64
		rating model.Rating
	}{
		{
			"close peer",
			model.PeerOrganization{ID: "a", CategoryCodes: []string{"K31"}, SharedBoardMembers: 5, SharedFunders: 10, AnnualBudget: f64(1_000_000)},
			1.0, model.RatingHigh,
		},
		{
			"medium peer",
			// 0.25 + 0.4*0.25 + 0.3*0.30 + 0.5*0.20
			model.PeerOrganization{ID: "b", CategoryCodes: []string{"K31"}, SharedBoardMembers: 2, SharedFunders: 3, AnnualBudget: f64(500_000)},
			0.54, model.RatingMedium,
		},
		{
			"unknown peer",
			// 0.5*0.25 + 0 + 0 + 0.5*0.20
			model.PeerOrganization{ID: "c"},
			0.225, model.RatingLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := ScoreNetworking(profile, tt.peer)
			assert.InDelta(t, tt.want, qs.OverallScore, 1e-9)
			assert.Equal(t, tt.rating, qs.Rating)
		})
	}
}

func TestBudgetRatio(t *testing.T) {
	assert.Equal(t, 0.5, budgetRatio(nil, nil))
	assert.Equal(t, 0.5, budgetRatio(f64(100), nil))
	assert.Equal(t, 0.5, budgetRatio(f64(0), f64(100)))
	assert.Equal(t, 0.25, budgetRatio(f64(400), f64(100)))
	assert.Equal(t, 1.0, budgetRatio(f64(100), f64(100)))
}

func TestSaturate(t *testing.T) {
	assert.Equal(t, 0.0, saturate(-3, 5))
	assert.Equal(t, 0.6, saturate(3, 5))
	assert.Equal(t, 1.0, saturate(5, 5))
	assert.Equal(t, 1.0, saturate(9, 5))
}

func TestNetworkingRating(t *testing.T) {
	assert.Equal(t, model.RatingHigh, networkingRating(0.70))
	assert.Equal(t, model.RatingMedium, networkingRating(0.6999))
	assert.Equal(t, model.RatingMedium, networkingRating(0.50))
	assert.Equal(t, model.RatingLow, networkingRating(0.4999))
}
