// Package quality scores how complete and trustworthy an organization's
// profile data is, per source and overall.
package quality

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// Source weights for the overall profile score (sum = 1).
const (
	WeightBMF             = 0.20
	WeightForm990         = 0.35
	WeightWebIntelligence = 0.25
	WeightAIAnalysis      = 0.20
)

// Component keys used in QualityScore.ComponentScores.
const (
	ComponentBMF             = "bmf"
	ComponentForm990         = "form_990"
	ComponentWebIntelligence = "web_intelligence"
	ComponentAIAnalysis      = "ai_analysis"
)

// Web intelligence confidence floors for a field to count as present.
const (
	webCriticalConfidence  = 0.60
	webImportantConfidence = 0.50
)

// aiPresenceThreshold is the share of AI components above which the AI score saturates.
const aiPresenceThreshold = 0.60

// ScoreProfile combines the four source scores with fixed weights. Missing
// sources score 0 and add a recommendation; they never fail.
func ScoreProfile(src model.ProfileSources) model.QualityScore {
	parts := []struct {
		key    string
		weight float64
		score  model.QualityScore
		absent string
	}{
		{ComponentBMF, WeightBMF, ScoreBMFData(src.BMF), "BMF registry data is unavailable; identity fields score 0"},
		{ComponentForm990, WeightForm990, ScoreForm990(src.Form990), "Form 990 filing data is unavailable; financial fields score 0"},
		{ComponentWebIntelligence, WeightWebIntelligence, ScoreWebIntelligence(src.WebIntelligence), "Web intelligence is unavailable; collect website data to improve the score"},
		{ComponentAIAnalysis, WeightAIAnalysis, ScoreAIAnalysis(src.AIAnalysis), "AI analysis is unavailable; generate one to complete the profile"},
	}
	present := []bool{src.BMF != nil, src.Form990 != nil, src.WebIntelligence != nil, src.AIAnalysis != nil}

	qs := model.NewQualityScore()
	var overall float64
	for i, p := range parts {
		qs.ComponentScores[p.key] = p.score.OverallScore
		overall += p.score.OverallScore * p.weight

		if !present[i] {
			qs.Recommendations = append(qs.Recommendations, p.absent)
			continue
		}
		for _, f := range p.score.MissingFields {
			qs.MissingFields = append(qs.MissingFields, p.key+"."+f)
		}
		qs.ValidationErrors = append(qs.ValidationErrors, p.score.ValidationErrors...)
		qs.Recommendations = append(qs.Recommendations, p.score.Recommendations...)
		if p.score.ConfidenceLevel != nil {
			c := *p.score.ConfidenceLevel
			qs.ConfidenceLevel = &c
		}
	}

	qs.OverallScore = round4(overall)
	qs.Rating = profileRating(qs.OverallScore)

	zap.L().Debug("quality: scored profile",
		zap.Float64("overall", qs.OverallScore),
		zap.String("rating", string(qs.Rating)),
		zap.Int("missing_fields", len(qs.MissingFields)),
	)
	return qs
}

// ScoreBMFData scores a business master file record: required fields carry
// 80% of the score and optional fields 20%.
func ScoreBMFData(bmf *model.BMFRecord) model.QualityScore {
	var b model.BMFRecord
	if bmf != nil {
		b = *bmf
	}
	required := fieldSet{
		{"id", hasText(b.ID)},
		{"name", hasText(b.Name)},
		{"region", hasText(b.Region)},
	}
	optional := fieldSet{
		{"category_code", hasText(b.CategoryCode)},
		{"city", hasText(b.City)},
		{"address", hasText(b.Address)},
	}

	qs := model.NewQualityScore()
	qs.ComponentScores["required_fields"] = required.ratio()
	qs.ComponentScores["optional_fields"] = optional.ratio()
	qs.OverallScore = round4(required.ratio()*0.80 + optional.ratio()*0.20)
	qs.Rating = componentRating(qs.OverallScore)
	qs.MissingFields = append(required.missing(), optional.missing()...)

	if m := required.missing(); len(m) > 0 {
		qs.Recommendations = append(qs.Recommendations, "Complete required BMF fields: "+strings.Join(m, ", "))
	}
	if m := optional.missing(); len(m) > 0 {
		qs.Recommendations = append(qs.Recommendations, "Add optional BMF details: "+strings.Join(m, ", "))
	}
	return qs
}

// ScoreForm990 scores a Form 990 filing. Critical amounts count only when
// positive; important and optional fields count when reported.
func ScoreForm990(f *model.Form990Record) model.QualityScore {
	var r model.Form990Record
	if f != nil {
		r = *f
	}
	critical := fieldSet{
		{"total_revenue", positive(r.TotalRevenue)},
		{"total_expenses", positive(r.TotalExpenses)},
		{"total_assets", positive(r.TotalAssets)},
	}
	important := fieldSet{
		{"total_liabilities", r.TotalLiabilities != nil},
		{"net_assets", r.NetAssets != nil},
		{"contributions", r.Contributions != nil},
		{"program_service_revenue", r.ProgramServiceRevenue != nil},
		{"tax_year", r.TaxYear != nil},
	}
	optional := fieldSet{
		{"investment_income", r.InvestmentIncome != nil},
		{"fundraising_expenses", r.FundraisingExpenses != nil},
		{"officer_compensation", r.OfficerCompensation != nil},
		{"grants_paid", r.GrantsPaid != nil},
		{"employee_count", r.EmployeeCount != nil},
	}

	qs := model.NewQualityScore()
	qs.ComponentScores["critical_fields"] = critical.ratio()
	qs.ComponentScores["important_fields"] = important.ratio()
	qs.ComponentScores["optional_fields"] = optional.ratio()
	qs.OverallScore = round4(critical.ratio()*0.50 + important.ratio()*0.35 + optional.ratio()*0.15)
	qs.Rating = componentRating(qs.OverallScore)
	qs.MissingFields = append(append(critical.missing(), important.missing()...), optional.missing()...)

	for _, c := range []struct {
		name string
		v    *float64
	}{{"total_revenue", r.TotalRevenue}, {"total_expenses", r.TotalExpenses}, {"total_assets", r.TotalAssets}} {
		if c.v != nil && *c.v <= 0 {
			qs.ValidationErrors = append(qs.ValidationErrors, fmt.Sprintf("%s must be greater than zero, got %v", c.name, *c.v))
		}
	}
	if r.TotalAssets != nil && r.TotalLiabilities != nil && r.NetAssets != nil {
		want := *r.TotalAssets - *r.TotalLiabilities
		if math.Abs(want-*r.NetAssets) > math.Max(1, 0.01*math.Abs(*r.TotalAssets)) {
			qs.ValidationErrors = append(qs.ValidationErrors,
				fmt.Sprintf("net_assets %v does not equal total_assets - total_liabilities (%v)", *r.NetAssets, want))
		}
	}

	if m := critical.missing(); len(m) > 0 {
		qs.Recommendations = append(qs.Recommendations, "Obtain critical filing amounts: "+strings.Join(m, ", "))
	}
	if m := important.missing(); len(m) > 0 {
		qs.Recommendations = append(qs.Recommendations, "Fill important filing fields: "+strings.Join(m, ", "))
	}
	return qs
}

// webField is one web intelligence field after confidence gating.
type webField struct {
	name    string
	present bool
	conf    *float64
	floor   float64
}

func newWebField[T any](name string, c model.Confident[T], floor float64) webField {
	wf := webField{name: name, floor: floor}
	if !c.Present() {
		return wf
	}
	wf.conf = c.Confidence
	wf.present = c.Confidence == nil || *c.Confidence >= floor
	return wf
}

// ScoreWebIntelligence scores web-derived data. Critical and important
// fields that carry a confidence must clear a floor to count. The rating
// needs both completeness and mean confidence to reach a tier.
func ScoreWebIntelligence(w *model.WebIntelligence) model.QualityScore {
	var wi model.WebIntelligence
	if w != nil {
		wi = *w
	}
	critical := []webField{
		newWebField("website_url", wi.WebsiteURL, webCriticalConfidence),
		newWebField("mission_statement", wi.MissionStatement, webCriticalConfidence),
		newWebField("leadership", wi.Leadership, webCriticalConfidence),
	}
	important := []webField{
		newWebField("programs", wi.Programs, webImportantConfidence),
		newWebField("contact_info", wi.ContactInfo, webImportantConfidence),
		newWebField("annual_budget_estimate", wi.AnnualBudgetEstimate, webImportantConfidence),
	}
	optional := []webField{
		newWebField("social_media", wi.SocialMedia, 0),
		newWebField("news_mentions", wi.NewsMentions, 0),
		newWebField("events", wi.Events, 0),
		newWebField("founding_year", wi.FoundingYear, 0),
	}

	qs := model.NewQualityScore()
	var confSum float64
	var confN int
	tiers := []struct {
		key    string
		fields []webField
	}{{"critical_fields", critical}, {"important_fields", important}, {"optional_fields", optional}}
	for _, tier := range tiers {
		fs := make(fieldSet, 0, len(tier.fields))
		for _, f := range tier.fields {
			fs = append(fs, field{f.name, f.present})
			if f.conf != nil {
				confSum += *f.conf
				confN++
				if !f.present {
					qs.ValidationErrors = append(qs.ValidationErrors,
						fmt.Sprintf("%s confidence %.2f below %.2f", f.name, *f.conf, f.floor))
				}
			}
		}
		qs.ComponentScores[tier.key] = fs.ratio()
		qs.MissingFields = append(qs.MissingFields, fs.missing()...)
	}

	completeness := qs.ComponentScores["critical_fields"]*0.45 +
		qs.ComponentScores["important_fields"]*0.35 +
		qs.ComponentScores["optional_fields"]*0.20
	qs.OverallScore = round4(completeness)

	if confN > 0 {
		mean := round4(confSum / float64(confN))
		qs.ConfidenceLevel = &mean
	}
	qs.Rating = webRating(qs.OverallScore, qs.ConfidenceLevel)

	if qs.ComponentScores["critical_fields"] < 1 {
		qs.Recommendations = append(qs.Recommendations, "Verify website, mission statement and leadership from the organization's site")
	}
	if qs.ConfidenceLevel != nil && *qs.ConfidenceLevel < webCriticalConfidence {
		qs.Recommendations = append(qs.Recommendations, "Re-collect web data; mean extraction confidence is low")
	}
	return qs
}

// ScoreAIAnalysis scores the five expected analysis components. At least 60%
// present yields 1.0; below that the score is the presence fraction.
func ScoreAIAnalysis(a *model.AIAnalysis) model.QualityScore {
	var ai model.AIAnalysis
	if a != nil {
		ai = *a
	}
	fs := fieldSet{
		{"mission_analysis", hasText(ai.MissionAnalysis)},
		{"strengths", hasAny(ai.Strengths)},
		{"opportunities", hasAny(ai.Opportunities)},
		{"risk_factors", hasAny(ai.RiskFactors)},
		{"recommendations", hasAny(ai.Recommendations)},
	}

	qs := model.NewQualityScore()
	frac := fs.ratio()
	qs.ComponentScores["components_present"] = frac
	if frac >= aiPresenceThreshold {
		qs.OverallScore = 1.0
	} else {
		qs.OverallScore = round4(frac)
	}
	qs.Rating = componentRating(qs.OverallScore)
	qs.MissingFields = fs.missing()
	if frac < aiPresenceThreshold {
		qs.Recommendations = append(qs.Recommendations, "Regenerate AI analysis; fewer than 3 of 5 sections are present")
	}
	return qs
}

// field is a named presence check.
type field struct {
	name    string
	present bool
}

type fieldSet []field

func (fs fieldSet) ratio() float64 {
	if len(fs) == 0 {
		return 0
	}
	n := 0
	for _, f := range fs {
		if f.present {
			n++
		}
	}
	return float64(n) / float64(len(fs))
}

func (fs fieldSet) missing() []string {
	out := []string{}
	for _, f := range fs {
		if !f.present {
			out = append(out, f.name)
		}
	}
	return out
}

func hasText(s string) bool { return strings.TrimSpace(s) != "" }

func hasAny(list []string) bool {
	for _, s := range list {
		if hasText(s) {
			return true
		}
	}
	return false
}

func positive(v *float64) bool { return v != nil && *v > 0 }

func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
