package quality

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

func f64(v float64) *float64 { return &v }
func intPtr(v int) *int      { return &v }

func fullForm990() *model.Form990Record {
	return &model.Form990Record{
		TaxYear:               intPtr(2023),
		TotalRevenue:          f64(1_200_000),
		TotalExpenses:         f64(1_100_000),
		TotalAssets:           f64(2_000_000),
		TotalLiabilities:      f64(500_000),
		NetAssets:             f64(1_500_000),
		Contributions:         f64(900_000),
		ProgramServiceRevenue: f64(200_000),
		InvestmentIncome:      f64(10_000),
		FundraisingExpenses:   f64(50_000),
		OfficerCompensation:   f64(150_000),
		GrantsPaid:            f64(0),
		EmployeeCount:         intPtr(14),
	}
}

func fullWeb() *model.WebIntelligence {
	return &model.WebIntelligence{
		WebsiteURL:           model.Known("https://example.org"),
		MissionStatement:     model.Known("Ending hunger in Alameda County"),
		Leadership:           model.Known([]string{"Carla Hayden"}),
		Programs:             model.Known([]string{"Food Pantry"}),
		ContactInfo:          model.Known([]string{"info@example.org"}),
		AnnualBudgetEstimate: model.Known(1_000_000.0),
		SocialMedia:          model.Known([]string{"@example"}),
		NewsMentions:         model.Known([]string{"Local paper feature"}),
		Events:               model.Known([]string{"Annual gala"}),
		FoundingYear:         model.Known(1987),
	}
}

func fullAI() *model.AIAnalysis {
	return &model.AIAnalysis{
		MissionAnalysis: "Clear, measurable mission.",
		Strengths:       []string{"Diverse funding"},
		Opportunities:   []string{"Regional expansion"},
		RiskFactors:     []string{"Key person dependency"},
		Recommendations: []string{"Build reserves"},
	}
}

func TestScoreBMFData_RequiredOnly(t *testing.T) {
	qs := ScoreBMFData(&model.BMFRecord{ID: "12-3456789", Name: "Food Bank", Region: "CA"})
	assert.InDelta(t, 0.8, qs.OverallScore, 1e-9)
	assert.Equal(t, model.RatingGood, qs.Rating)
	assert.Equal(t, []string{"category_code", "city", "address"}, qs.MissingFields)
	assert.Equal(t, 1.0, qs.ComponentScores["required_fields"])
	assert.Equal(t, 0.0, qs.ComponentScores["optional_fields"])
}

func TestScoreBMFData(t *testing.T) {
	tests := []struct {
		name   string
		in     *model.BMFRecord
		want   float64
		rating model.Rating
	}{
		{"nil", nil, 0, model.RatingPoor},
		{"complete", &model.BMFRecord{ID: "1", Name: "N", Region: "CA", CategoryCode: "K31", City: "Oakland", Address: "1 Main"}, 1.0, model.RatingExcellent},
		{"blank strings are missing", &model.BMFRecord{ID: " ", Name: "N", Region: "CA"}, 0.5333, model.RatingPoor},
		{"one optional", &model.BMFRecord{ID: "1", Name: "N", Region: "CA", City: "Oakland"}, 0.8667, model.RatingGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := ScoreBMFData(tt.in)
			assert.InDelta(t, tt.want, qs.OverallScore, 1e-9)
			assert.Equal(t, tt.rating, qs.Rating)
		})
	}
}

func TestScoreBMFData_Monotonic(t *testing.T) {
	setters := []func(*model.BMFRecord){
		func(b *model.BMFRecord) { b.ID = "1" },
		func(b *model.BMFRecord) { b.Name = "N" },
		func(b *model.BMFRecord) { b.Region = "CA" },
	}
	optional := []model.BMFRecord{{}, {City: "Oakland"}, {CategoryCode: "K31", City: "Oakland", Address: "1 Main"}}

	for _, base := range optional {
		for mask := 0; mask < 1<<len(setters); mask++ {
			rec := base
			for k, set := range setters {
				if mask&(1<<k) != 0 {
					set(&rec)
				}
			}
			before := ScoreBMFData(&rec).OverallScore
			for k, set := range setters {
				if mask&(1<<k) != 0 {
					continue
				}
				next := rec
				set(&next)
				assert.GreaterOrEqual(t, ScoreBMFData(&next).OverallScore, before)
			}
		}
	}
}

func TestScoreForm990_Empty(t *testing.T) {
	for _, in := range []*model.Form990Record{nil, {}} {
		qs := ScoreForm990(in)
		assert.Equal(t, model.RatingPoor, qs.Rating)
		assert.Less(t, qs.OverallScore, 0.5)
		assert.Len(t, qs.MissingFields, 13)
	}
}

func TestScoreForm990(t *testing.T) {
	full := ScoreForm990(fullForm990())
	assert.Equal(t, 1.0, full.OverallScore)
	assert.Equal(t, model.RatingExcellent, full.Rating)
	assert.Empty(t, full.MissingFields)
	assert.Empty(t, full.ValidationErrors)

	zeroRevenue := fullForm990()
	zeroRevenue.TotalRevenue = f64(0)
	qs := ScoreForm990(zeroRevenue)
	assert.InDelta(t, 0.8333, qs.OverallScore, 1e-9)
	assert.Equal(t, model.RatingGood, qs.Rating)
	assert.Contains(t, qs.MissingFields, "total_revenue")
	require.Len(t, qs.ValidationErrors, 1)
	assert.Contains(t, qs.ValidationErrors[0], "total_revenue must be greater than zero")

	criticalOnly := &model.Form990Record{TotalRevenue: f64(1), TotalExpenses: f64(1), TotalAssets: f64(1)}
	assert.InDelta(t, 0.5, ScoreForm990(criticalOnly).OverallScore, 1e-9)
}

func TestScoreForm990_NetAssetsConsistency(t *testing.T) {
	f := fullForm990()
	f.NetAssets = f64(100)
	qs := ScoreForm990(f)
	require.Len(t, qs.ValidationErrors, 1)
	assert.Contains(t, qs.ValidationErrors[0], "net_assets")
	assert.Equal(t, 1.0, qs.OverallScore)
}

func TestScoreWebIntelligence_BareValues(t *testing.T) {
	qs := ScoreWebIntelligence(fullWeb())
	assert.Equal(t, 1.0, qs.OverallScore)
	assert.Equal(t, model.RatingExcellent, qs.Rating)
	assert.Nil(t, qs.ConfidenceLevel)

	empty := ScoreWebIntelligence(nil)
	assert.Equal(t, 0.0, empty.OverallScore)
	assert.Equal(t, model.RatingPoor, empty.Rating)
	assert.Len(t, empty.MissingFields, 10)
}

func TestScoreWebIntelligence_ConfidenceGate(t *testing.T) {
	w := fullWeb()
	w.WebsiteURL = model.WithConfidence("https://example.org", 0.9)
	w.MissionStatement = model.WithConfidence("Ending hunger", 0.9)
	w.Leadership = model.WithConfidence([]string{"Carla Hayden"}, 0.5)

	qs := ScoreWebIntelligence(w)
	assert.InDelta(t, 0.85, qs.OverallScore, 1e-9)
	assert.Contains(t, qs.MissingFields, "leadership")
	require.NotNil(t, qs.ConfidenceLevel)
	assert.InDelta(t, 0.7667, *qs.ConfidenceLevel, 1e-9)
	assert.Equal(t, model.RatingGood, qs.Rating)
	require.Len(t, qs.ValidationErrors, 1)
	assert.Equal(t, "leadership confidence 0.50 below 0.60", qs.ValidationErrors[0])
}

func TestScoreWebIntelligence_ImportantFloor(t *testing.T) {
	w := fullWeb()
	w.Programs = model.WithConfidence([]string{"Food Pantry"}, 0.5)
	w.ContactInfo = model.WithConfidence([]string{"x@y.org"}, 0.49)

	qs := ScoreWebIntelligence(w)
	assert.NotContains(t, qs.MissingFields, "programs")
	assert.Contains(t, qs.MissingFields, "contact_info")
}

func TestScoreWebIntelligence_DualThreshold(t *testing.T) {
	w := fullWeb()
	w.WebsiteURL = model.WithConfidence("https://example.org", 0.65)
	w.MissionStatement = model.WithConfidence("Ending hunger", 0.65)
	w.Leadership = model.WithConfidence([]string{"Carla Hayden"}, 0.65)

	qs := ScoreWebIntelligence(w)
	assert.Equal(t, 1.0, qs.OverallScore)
	// Complete, but confidence only clears the FAIR floor.
	assert.Equal(t, model.RatingFair, qs.Rating)
}

func TestScoreWebIntelligence_FromJSON(t *testing.T) {
	data := []byte(`{
		"website_url": {"value": "https://example.org", "confidence": 0.95},
		"mission_statement": "Ending hunger",
		"leadership": {"value": ["Carla Hayden"], "confidence": 0.85},
		"programs": ["Food Pantry"],
		"contact_info": {"value": ["info@example.org"], "confidence": 0.8},
		"annual_budget_estimate": 1000000,
		"founding_year": {"value": 1987}
	}`)
	var w model.WebIntelligence
	require.NoError(t, json.Unmarshal(data, &w))

	qs := ScoreWebIntelligence(&w)
	// critical 3/3, important 3/3, optional 1/4
	assert.InDelta(t, 0.45+0.35+0.05, qs.OverallScore, 1e-9)
	require.NotNil(t, qs.ConfidenceLevel)
	assert.InDelta(t, 0.8667, *qs.ConfidenceLevel, 1e-9)
	assert.Equal(t, model.RatingGood, qs.Rating)
}

func TestScoreAIAnalysis(t *testing.T) {
	tests := []struct {
		name   string
		in     *model.AIAnalysis
		want   float64
		rating model.Rating
	}{
		{"nil", nil, 0, model.RatingPoor},
		{"complete", fullAI(), 1.0, model.RatingExcellent},
		{"three of five", &model.AIAnalysis{MissionAnalysis: "m", Strengths: []string{"s"}, RiskFactors: []string{"r"}}, 1.0, model.RatingExcellent},
		{"two of five", &model.AIAnalysis{MissionAnalysis: "m", Strengths: []string{"s"}}, 0.4, model.RatingPoor},
		{"blank entries ignored", &model.AIAnalysis{MissionAnalysis: " ", Strengths: []string{""}, Opportunities: []string{"o"}}, 0.2, model.RatingPoor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := ScoreAIAnalysis(tt.in)
			assert.InDelta(t, tt.want, qs.OverallScore, 1e-9)
			assert.Equal(t, tt.rating, qs.Rating)
		})
	}
}

func TestScoreProfile(t *testing.T) {
	bmf := &model.BMFRecord{ID: "1", Name: "N", Region: "CA", CategoryCode: "K31", City: "Oakland", Address: "1 Main"}

	tests := []struct {
		name   string
		src    model.ProfileSources
		want   float64
		rating model.Rating
	}{
		{"all sources complete", model.ProfileSources{BMF: bmf, Form990: fullForm990(), WebIntelligence: fullWeb(), AIAnalysis: fullAI()}, 1.0, model.RatingExcellent},
		{"registry and filing", model.ProfileSources{BMF: bmf, Form990: fullForm990()}, 0.55, model.RatingFair},
		{"no web", model.ProfileSources{BMF: bmf, Form990: fullForm990(), AIAnalysis: fullAI()}, 0.75, model.RatingGood},
		{"bmf required only", model.ProfileSources{BMF: &model.BMFRecord{ID: "1", Name: "N", Region: "CA"}}, 0.16, model.RatingPoor},
		{"nothing", model.ProfileSources{}, 0, model.RatingPoor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := ScoreProfile(tt.src)
			assert.InDelta(t, tt.want, qs.OverallScore, 1e-9)
			assert.Equal(t, tt.rating, qs.Rating)
			assert.Len(t, qs.ComponentScores, 4)
		})
	}
}

func TestScoreProfile_MissingSourcesAdvise(t *testing.T) {
	qs := ScoreProfile(model.ProfileSources{BMF: &model.BMFRecord{ID: "1", Name: "N", Region: "CA"}})
	assert.Contains(t, qs.MissingFields, "bmf.city")
	assert.Len(t, qs.Recommendations, 4)
	assert.Contains(t, qs.Recommendations[1], "Form 990")
	assert.Empty(t, qs.ValidationErrors)
}

func TestScoreProfile_CarriesWebConfidence(t *testing.T) {
	w := fullWeb()
	w.WebsiteURL = model.WithConfidence("https://example.org", 0.9)
	qs := ScoreProfile(model.ProfileSources{WebIntelligence: w})
	require.NotNil(t, qs.ConfidenceLevel)
	assert.InDelta(t, 0.9, *qs.ConfidenceLevel, 1e-9)
	assert.InDelta(t, 0.25, qs.OverallScore, 1e-9)
}

func TestRatings(t *testing.T) {
	assert.Equal(t, model.RatingExcellent, componentRating(0.90))
	assert.Equal(t, model.RatingGood, componentRating(0.75))
	assert.Equal(t, model.RatingFair, componentRating(0.60))
	assert.Equal(t, model.RatingPoor, componentRating(0.5999))

	assert.Equal(t, model.RatingExcellent, profileRating(0.85))
	assert.Equal(t, model.RatingGood, profileRating(0.70))
	assert.Equal(t, model.RatingFair, profileRating(0.50))
	assert.Equal(t, model.RatingPoor, profileRating(0.4999))

	low := 0.59
	assert.Equal(t, model.RatingPoor, webRating(1.0, &low))
	assert.Equal(t, model.RatingExcellent, webRating(0.95, nil))
}
