package model

// ParsedName is a personal name split into its structured parts.
type ParsedName struct {
	FullName       string `json:"full_name"`
	First          string `json:"first,omitempty"`
	Middle         string `json:"middle,omitempty"`
	Last           string `json:"last,omitempty"`
	Prefix         string `json:"prefix,omitempty"`
	Suffix         string `json:"suffix,omitempty"`
	NormalizedName string `json:"normalized_name"`
}

// Provenance tags attached to entities built from a source record.
const (
	SourceBoardMembers = "board_members"
	SourceWebScraping  = "web_scraping"
)

// FlagLowQualityScraping marks people built from scraped records with a quality below 50.
const FlagLowQualityScraping = "low_quality_scraping"

// Person is a resolved individual associated with an organization.
type Person struct {
	Name            ParsedName `json:"parsed_name"`
	PrimaryTitle    string     `json:"primary_title,omitempty"`
	AllTitles       []string   `json:"all_titles"`
	Biography       string     `json:"biography,omitempty"`
	ConfidenceScore float64    `json:"confidence_score"`
	DataSources     []string   `json:"data_sources"`
	QualityFlags    []string   `json:"quality_flags"`
	MatchKey        string     `json:"match_key"`
}

// OrganizationRole ties a person to a position at an organization.
type OrganizationRole struct {
	PersonMatchKey  string   `json:"person_match_key"`
	OrganizationID  string   `json:"organization_id"`
	PositionTitle   string   `json:"position_title"`
	IsCurrent       bool     `json:"is_current"`
	IsBoardMember   bool     `json:"is_board_member"`
	IsExecutive     bool     `json:"is_executive"`
	Compensation    *float64 `json:"compensation,omitempty"`
	DataSource      string   `json:"data_source"`
	ConfidenceScore float64  `json:"confidence_score"`
	Committees      []string `json:"committees"`
}

// ProgramType classifies a program into a fixed taxonomy.
type ProgramType string

const (
	ProgramAdvocacy      ProgramType = "advocacy"
	ProgramResearch      ProgramType = "research"
	ProgramEducation     ProgramType = "education"
	ProgramGrantmaking   ProgramType = "grantmaking"
	ProgramDirectService ProgramType = "direct_service"
	ProgramOther         ProgramType = "other"
)

// Program is an activity an organization runs.
type Program struct {
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	ProgramType     ProgramType `json:"program_type"`
	Keywords        []string    `json:"keywords"`
	DataSource      string      `json:"data_source"`
	ConfidenceScore float64     `json:"confidence_score"`
	MatchKey        string      `json:"match_key"`
}

// ContactType is the normalized kind of a contact entry.
type ContactType string

const (
	ContactEmail   ContactType = "email"
	ContactPhone   ContactType = "phone"
	ContactAddress ContactType = "address"
	ContactWebsite ContactType = "website"
	ContactSocial  ContactType = "social"
	ContactOther   ContactType = "other"
)

// ValidationStatus describes whether a contact value passed format checks.
type ValidationStatus string

const (
	ValidationValid      ValidationStatus = "valid"
	ValidationInvalid    ValidationStatus = "invalid"
	ValidationUnverified ValidationStatus = "unverified"
)

// Contact is a way to reach an organization.
type Contact struct {
	ContactType      ContactType      `json:"contact_type"`
	Value            string           `json:"value"`
	Label            string           `json:"label,omitempty"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	DataSource       string           `json:"data_source"`
	ConfidenceScore  float64          `json:"confidence_score"`
}

// ConnectionType describes how two people are linked.
type ConnectionType string

const (
	ConnectionBoardColleague      ConnectionType = "board_colleague"
	ConnectionLeadershipColleague ConnectionType = "leadership_colleague"
)

// Connection links two people who serve at the same organization.
type Connection struct {
	PersonMatchKey    string         `json:"person_match_key"`
	ConnectedMatchKey string         `json:"connected_match_key"`
	OrganizationID    string         `json:"organization_id"`
	ConnectionType    ConnectionType `json:"connection_type"`
	Strength          float64        `json:"strength"`
}
