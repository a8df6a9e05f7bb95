package model

import "encoding/json"

// BoardMemberRecord is one entry of a board-member roster.
type BoardMemberRecord struct {
	Name         string   `json:"name"`
	Title        string   `json:"title,omitempty"`
	Background   string   `json:"background,omitempty"`
	Compensation *float64 `json:"compensation,omitempty"`
	Committees   []string `json:"committees,omitempty"`
}

// ScrapedLeader is a leadership entry extracted from an organization's website.
type ScrapedLeader struct {
	Name         string  `json:"name"`
	Title        string  `json:"title,omitempty"`
	Biography    string  `json:"biography,omitempty"`
	QualityScore float64 `json:"quality_score"`
}

// ScrapedProgram is a program entry extracted from an organization's website.
type ScrapedProgram struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	QualityScore float64 `json:"quality_score"`
}

// ScrapedContact is a contact entry extracted from an organization's website.
type ScrapedContact struct {
	Type         string  `json:"type"`
	Value        string  `json:"value"`
	Label        string  `json:"label,omitempty"`
	QualityScore float64 `json:"quality_score"`
}

// WebScrapingResult bundles everything the scraping layer extracted for one organization.
type WebScrapingResult struct {
	Leadership  []ScrapedLeader  `json:"leadership,omitempty"`
	Programs    []ScrapedProgram `json:"programs,omitempty"`
	ContactInfo []ScrapedContact `json:"contact_info,omitempty"`
}

// TransformInput is the raw input for one transformation run.
// Verification is carried through untouched.
type TransformInput struct {
	BoardMembers []BoardMemberRecord `json:"board_members,omitempty"`
	WebScraping  *WebScrapingResult  `json:"web_scraping,omitempty"`
	Verification json.RawMessage     `json:"verification,omitempty"`
}

// RecordCount returns the number of source records in the input.
func (in TransformInput) RecordCount() int {
	n := len(in.BoardMembers)
	if in.WebScraping != nil {
		n += len(in.WebScraping.Leadership) + len(in.WebScraping.Programs) + len(in.WebScraping.ContactInfo)
	}
	return n
}
