package model

import "time"

// FundingProfile describes the organization seeking funding or partners.
type FundingProfile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	CategoryCodes []string `json:"category_codes,omitempty"`
	Region        string   `json:"region,omitempty"`
	AnnualBudget  *float64 `json:"annual_budget,omitempty"`
}

// Foundation is a candidate funder.
type Foundation struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name,omitempty"`
	FundedCategories      []string   `json:"funded_categories,omitempty"`
	Region                string     `json:"region,omitempty"`
	Nationwide            bool       `json:"nationwide,omitempty"`
	AvgGrantSize          *float64   `json:"avg_grant_size,omitempty"`
	SimilarRecipientCount int        `json:"similar_recipient_count,omitempty"`
	AcceptingApplications bool       `json:"accepting_applications,omitempty"`
	ApplicationDeadline   *time.Time `json:"application_deadline,omitempty"`
}

// PeerOrganization is a candidate networking partner.
type PeerOrganization struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name,omitempty"`
	CategoryCodes      []string `json:"category_codes,omitempty"`
	SharedBoardMembers int      `json:"shared_board_members,omitempty"`
	SharedFunders      int      `json:"shared_funders,omitempty"`
	AnnualBudget       *float64 `json:"annual_budget,omitempty"`
}

// RegistryCandidate is a grantmaker found by bulk discovery in the public registry.
type RegistryCandidate struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name,omitempty"`
	CategoryCode       string   `json:"category_code,omitempty"`
	Region             string   `json:"region,omitempty"`
	TotalAssets        *float64 `json:"total_assets,omitempty"`
	GrantsPaid         *float64 `json:"grants_paid,omitempty"`
	IsGrantmaker       bool     `json:"is_grantmaker,omitempty"`
	AcceptsUnsolicited bool     `json:"accepts_unsolicited,omitempty"`
	LastFilingYear     int      `json:"last_filing_year,omitempty"`
}
