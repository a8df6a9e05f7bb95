package opportunity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

func f64(v float64) *float64 { return &v }

func TestGrantSizeFit(t *testing.T) {
	tests := []struct {
		name   string
		avg    *float64
		budget *float64
		want   float64
	}{
		{"exactly ten percent", f64(100_000), f64(1_000_000), 1.0},
		{"exactly thirty percent", f64(300_000), f64(1_000_000), 1.0},
		{"inside band", f64(200_000), f64(1_000_000), 1.0},
		{"below band", f64(99_000), f64(1_000_000), 0.7},
		{"above band", f64(301_000), f64(1_000_000), 0.5},
		{"ten percent of odd budget", f64(73_333.3), f64(733_333), 1.0},
		{"unknown grant", nil, f64(1_000_000), 0.5},
		{"unknown budget", f64(100_000), nil, 0.5},
		{"zero budget", f64(100_000), f64(0), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grantSizeFit(tt.avg, tt.budget))
		})
	}
}

func TestScoreFunding_GrantSizeBoundary(t *testing.T) {
	qs := ScoreFunding(
		model.FundingProfile{ID: "p", AnnualBudget: f64(500_000)},
		model.Foundation{ID: "f", AvgGrantSize: f64(50_000)},
	)
	assert.Equal(t, 1.0, qs.ComponentScores[ComponentGrantSizeFit])
}

func TestScoreFunding(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	profile := model.FundingProfile{
		ID:            "p",
		CategoryCodes: []string{"K31", "P20"},
		Region:        "CA",
		AnnualBudget:  f64(1_000_000),
	}

	tests := []struct {
		name       string
		foundation model.Foundation
		want       float64
		rating     model.Rating
		components map[string]float64
	}{
		{
			name: "ideal funder",
			foundation: model.Foundation{
				ID: "f1", FundedCategories: []string{"k31", "P20", "B20"}, Region: "CA",
				AvgGrantSize: f64(150_000), SimilarRecipientCount: 12,
				AcceptingApplications: true, ApplicationDeadline: &deadline,
			},
			want:   1.0,
			rating: model.RatingExcellent,
			components: map[string]float64{
				ComponentMissionAlignment: 1.0, ComponentGeographicFit: 1.0, ComponentGrantSizeFit: 1.0,
				ComponentPastRecipients: 1.0, ComponentApplicationFeasibility: 1.0,
			},
		},
		{
			name: "partial fit",
			foundation: model.Foundation{
				ID: "f2", FundedCategories: []string{"K31"}, Region: "NY",
				AvgGrantSize: f64(50_000), SimilarRecipientCount: 3, AcceptingApplications: true,
			},
			// 0.5*0.30 + 0.5*0.20 + 0.7*0.25 + 0.3*0.15 + 0.8*0.10
			want:   0.55,
			rating: model.RatingFair,
		},
		{
			name:       "nothing known",
			foundation: model.Foundation{ID: "f3"},
			// 0.5*0.30 + 0.3*0.20 + 0.5*0.25 + 0 + 0.3*0.10
			want:   0.365,
			rating: model.RatingPoor,
		},
		{
			name: "nationwide funder",
			foundation: model.Foundation{
				ID: "f4", Nationwide: true, FundedCategories: []string{"K31", "P20"},
				AvgGrantSize: f64(250_000), SimilarRecipientCount: 5, AcceptingApplications: true,
			},
			// 0.30 + 0.20 + 0.25 + 0.5*0.15 + 0.8*0.10
			want:   0.905,
			rating: model.RatingExcellent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := ScoreFunding(profile, tt.foundation)
			assert.InDelta(t, tt.want, qs.OverallScore, 1e-9)
			assert.Equal(t, tt.rating, qs.Rating)
			for k, v := range tt.components {
				assert.InDelta(t, v, qs.ComponentScores[k], 1e-9, k)
			}
		})
	}
}

func TestMissionOverlap(t *testing.T) {
	assert.Equal(t, 0.5, missionOverlap(nil, []string{"A"}))
	assert.Equal(t, 0.5, missionOverlap([]string{"A"}, []string{" "}))
	assert.Equal(t, 0.0, missionOverlap([]string{"A"}, []string{"B"}))
	assert.Equal(t, 0.5, missionOverlap([]string{"A", "B"}, []string{"b", "C"}))
	assert.Equal(t, 1.0, missionOverlap([]string{"A", "a"}, []string{"A"}))
}

func TestGeographicFit(t *testing.T) {
	assert.Equal(t, 1.0, geographicFit("", "", true))
	assert.Equal(t, 1.0, geographicFit("ca", "CA", false))
	assert.Equal(t, 0.5, geographicFit("CA", "NY", false))
	assert.Equal(t, 0.3, geographicFit("CA", "", false))
	assert.Equal(t, 0.3, geographicFit("", "NY", false))
}

func TestFeasibility(t *testing.T) {
	d := time.Now()
	assert.Equal(t, 1.0, feasibility(model.Foundation{AcceptingApplications: true, ApplicationDeadline: &d}))
	assert.Equal(t, 0.8, feasibility(model.Foundation{AcceptingApplications: true}))
	assert.Equal(t, 0.3, feasibility(model.Foundation{ApplicationDeadline: &d}))
}

func TestScoreFunding_Advice(t *testing.T) {
	qs := ScoreFunding(
		model.FundingProfile{ID: "p", CategoryCodes: []string{"K31"}, AnnualBudget: f64(100_000)},
		model.Foundation{ID: "f", Name: "River Fund", FundedCategories: []string{"B20"}, AvgGrantSize: f64(90_000)},
	)
	assert.Contains(t, qs.Recommendations, "Mission overlap is weak; frame the request around shared categories")
	assert.Contains(t, qs.Recommendations, "River Fund is not accepting applications; build a relationship before the next cycle")
	assert.Contains(t, qs.MissingFields, "profile.region")
	assert.Contains(t, qs.MissingFields, "foundation.region")
}
