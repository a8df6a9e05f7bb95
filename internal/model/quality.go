package model

// Rating is an ordinal category assigned to a score.
type Rating string

// Quality and funding ratings.
const (
	RatingExcellent Rating = "EXCELLENT"
	RatingGood      Rating = "GOOD"
	RatingFair      Rating = "FAIR"
	RatingPoor      Rating = "POOR"
)

// Networking ratings use their own three-tier scale.
const (
	RatingHigh   Rating = "HIGH"
	RatingMedium Rating = "MEDIUM"
	RatingLow    Rating = "LOW"
)

// QualityScore is the result of scoring a profile, a data source or an opportunity.
type QualityScore struct {
	OverallScore     float64            `json:"overall_score"`
	Rating           Rating             `json:"rating"`
	ComponentScores  map[string]float64 `json:"component_scores"`
	MissingFields    []string           `json:"missing_fields"`
	ValidationErrors []string           `json:"validation_errors"`
	ConfidenceLevel  *float64           `json:"confidence_level,omitempty"`
	Recommendations  []string           `json:"recommendations"`
}

// NewQualityScore returns a QualityScore with non-nil collections.
func NewQualityScore() QualityScore {
	return QualityScore{
		ComponentScores:  make(map[string]float64),
		MissingFields:    []string{},
		ValidationErrors: []string{},
		Recommendations:  []string{},
	}
}
