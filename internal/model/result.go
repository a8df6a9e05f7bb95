package model

// Severity grades a ValidationError.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ValidationError records a problem found while building entities from a record.
type ValidationError struct {
	Field     string   `json:"field"`
	ErrorType string   `json:"error_type"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}

// MatchType describes how a duplicate was detected.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
)

// DuplicationMatch reports that the record at DuplicateIndex duplicates the
// record at PrimaryIndex.
type DuplicationMatch struct {
	PrimaryIndex      int       `json:"primary_index"`
	DuplicateIndex    int       `json:"duplicate_index"`
	MatchType         MatchType `json:"match_type"`
	Confidence        float64   `json:"confidence"`
	ConflictingFields []string  `json:"conflicting_fields,omitempty"`
}

// TransformationStats summarizes a transformation run.
type TransformationStats struct {
	PeopleCreated         int     `json:"people_created"`
	RolesCreated          int     `json:"roles_created"`
	ProgramsCreated       int     `json:"programs_created"`
	ContactsCreated       int     `json:"contacts_created"`
	ConnectionsCreated    int     `json:"connections_created"`
	TotalRecordsProcessed int     `json:"total_records_processed"`
	ValidationErrorCount  int     `json:"validation_error_count"`
	DuplicateCount        int     `json:"duplicate_count"`
	MergedCount           int     `json:"merged_count"`
	ElapsedMillis         int64   `json:"elapsed_ms"`
	DataQualityScore      float64 `json:"data_quality_score"`
}

// TransformationResult is the outcome of transforming one organization's raw records.
type TransformationResult struct {
	Success          bool                `json:"success"`
	ID               string              `json:"id"`
	ProfileID        string              `json:"profile_id"`
	OrganizationID   string              `json:"organization_id"`
	People           []Person            `json:"people"`
	Roles            []OrganizationRole  `json:"roles"`
	Programs         []Program           `json:"programs"`
	Contacts         []Contact           `json:"contacts"`
	Connections      []Connection        `json:"connections"`
	ValidationErrors []ValidationError   `json:"validation_errors"`
	DuplicateMatches []DuplicationMatch  `json:"duplicate_matches"`
	Stats            TransformationStats `json:"statistics"`
	SourceDataHash   string              `json:"source_data_hash"`
}

// ErrorCount returns the number of validation errors at or above SeverityError.
func (r *TransformationResult) ErrorCount() int {
	n := 0
	for _, ve := range r.ValidationErrors {
		if ve.Severity != SeverityWarning {
			n++
		}
	}
	return n
}
