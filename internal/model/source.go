package model

// BMFRecord is an organization's entry in the public business master file.
type BMFRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Region       string `json:"region"`
	CategoryCode string `json:"category_code,omitempty"`
	City         string `json:"city,omitempty"`
	Address      string `json:"address,omitempty"`
}

// Form990Record holds the financial fields of an annual Form 990-family filing.
// Nil means the field was not reported.
type Form990Record struct {
	TaxYear               *int     `json:"tax_year,omitempty"`
	TotalRevenue          *float64 `json:"total_revenue,omitempty"`
	TotalExpenses         *float64 `json:"total_expenses,omitempty"`
	TotalAssets           *float64 `json:"total_assets,omitempty"`
	TotalLiabilities      *float64 `json:"total_liabilities,omitempty"`
	NetAssets             *float64 `json:"net_assets,omitempty"`
	Contributions         *float64 `json:"contributions,omitempty"`
	ProgramServiceRevenue *float64 `json:"program_service_revenue,omitempty"`
	InvestmentIncome      *float64 `json:"investment_income,omitempty"`
	FundraisingExpenses   *float64 `json:"fundraising_expenses,omitempty"`
	OfficerCompensation   *float64 `json:"officer_compensation,omitempty"`
	GrantsPaid            *float64 `json:"grants_paid,omitempty"`
	EmployeeCount         *int     `json:"employee_count,omitempty"`
}

// WebIntelligence is what was learned about an organization from its web presence.
type WebIntelligence struct {
	WebsiteURL           Confident[string]   `json:"website_url"`
	MissionStatement     Confident[string]   `json:"mission_statement"`
	Leadership           Confident[[]string] `json:"leadership"`
	Programs             Confident[[]string] `json:"programs"`
	ContactInfo          Confident[[]string] `json:"contact_info"`
	AnnualBudgetEstimate Confident[float64]  `json:"annual_budget_estimate"`
	SocialMedia          Confident[[]string] `json:"social_media"`
	NewsMentions         Confident[[]string] `json:"news_mentions"`
	Events               Confident[[]string] `json:"events"`
	FoundingYear         Confident[int]      `json:"founding_year"`
}

// AIAnalysis is a previously generated strategic analysis of an organization.
type AIAnalysis struct {
	MissionAnalysis string   `json:"mission_analysis,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Opportunities   []string `json:"opportunities,omitempty"`
	RiskFactors     []string `json:"risk_factors,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ProfileSources bundles the data sources available for one organization profile.
type ProfileSources struct {
	BMF             *BMFRecord       `json:"bmf,omitempty"`
	Form990         *Form990Record   `json:"form_990,omitempty"`
	WebIntelligence *WebIntelligence `json:"web_intelligence,omitempty"`
	AIAnalysis      *AIAnalysis      `json:"ai_analysis,omitempty"`
}
