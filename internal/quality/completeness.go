package quality

import (
	"strings"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// Recommendation priorities, from most to least urgent.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH PRIORITY"
	PriorityMedium   = "MEDIUM PRIORITY"
	PriorityOptional = "OPTIONAL"
)

// CompletenessReport lists which data sources a profile has and what to collect next.
type CompletenessReport struct {
	PresentSources      []string `json:"present_sources"`
	MissingSources      []string `json:"missing_sources"`
	OverallCompleteness float64  `json:"overall_completeness"`
	Recommendations     []string `json:"recommendations"`
}

// ValidateCompleteness reports source presence weighted like ScoreProfile.
// A source is present when it is non-nil and has at least one populated field.
func ValidateCompleteness(src model.ProfileSources) CompletenessReport {
	checks := []struct {
		key      string
		weight   float64
		present  bool
		priority string
		advice   string
	}{
		{ComponentBMF, WeightBMF, bmfPresent(src.BMF), PriorityCritical,
			"BMF registry data is missing; the organization's identity cannot be confirmed"},
		{ComponentForm990, WeightForm990, form990Present(src.Form990), PriorityHigh,
			"Form 990 filing data is missing; financial capacity cannot be assessed"},
		{ComponentWebIntelligence, WeightWebIntelligence, webPresent(src.WebIntelligence), PriorityMedium,
			"Web intelligence is missing; collect mission, leadership and programs from the website"},
		{ComponentAIAnalysis, WeightAIAnalysis, aiPresent(src.AIAnalysis), PriorityOptional,
			"AI analysis is missing; generate a strategic analysis once other sources are in"},
	}

	r := CompletenessReport{
		PresentSources:  []string{},
		MissingSources:  []string{},
		Recommendations: []string{},
	}
	var total float64
	for _, c := range checks {
		if c.present {
			r.PresentSources = append(r.PresentSources, c.key)
			total += c.weight
			continue
		}
		r.MissingSources = append(r.MissingSources, c.key)
		r.Recommendations = append(r.Recommendations, c.priority+": "+c.advice)
	}
	r.OverallCompleteness = round4(total)
	return r
}

func bmfPresent(b *model.BMFRecord) bool {
	return b != nil && hasText(strings.Join([]string{b.ID, b.Name, b.Region, b.CategoryCode, b.City, b.Address}, ""))
}

func form990Present(f *model.Form990Record) bool {
	if f == nil {
		return false
	}
	if f.TaxYear != nil || f.EmployeeCount != nil {
		return true
	}
	for _, v := range []*float64{
		f.TotalRevenue, f.TotalExpenses, f.TotalAssets, f.TotalLiabilities, f.NetAssets,
		f.Contributions, f.ProgramServiceRevenue, f.InvestmentIncome, f.FundraisingExpenses,
		f.OfficerCompensation, f.GrantsPaid,
	} {
		if v != nil {
			return true
		}
	}
	return false
}

func webPresent(w *model.WebIntelligence) bool {
	if w == nil {
		return false
	}
	return w.WebsiteURL.Present() || w.MissionStatement.Present() || w.Leadership.Present() ||
		w.Programs.Present() || w.ContactInfo.Present() || w.AnnualBudgetEstimate.Present() ||
		w.SocialMedia.Present() || w.NewsMentions.Present() || w.Events.Present() || w.FoundingYear.Present()
}

func aiPresent(a *model.AIAnalysis) bool {
	return a != nil && (hasText(a.MissionAnalysis) || hasAny(a.Strengths) || hasAny(a.Opportunities) ||
		hasAny(a.RiskFactors) || hasAny(a.Recommendations))
}
