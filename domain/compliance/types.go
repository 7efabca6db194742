package compliance

// Severity grades how serious a best-practice violation is.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// CheckType selects how a rule evaluates its resolved value.
type CheckType string

const (
	CheckRange     CheckType = "range"
	CheckThreshold CheckType = "threshold"
)

// Comparison is the direction of a threshold check.
type Comparison string

const (
	// ComparisonLess means the value should stay below the threshold:
	// value >= threshold is a violation.
	ComparisonLess Comparison = "less"
	// ComparisonGreater means the value should stay above the threshold:
	// value <= threshold is a violation.
	ComparisonGreater Comparison = "greater"
)

// BestPracticeRule is one declarative entry in the static rule table.
// Rules are configuration data: loaded once, never mutated at runtime.
// Range rules use MinValue/MaxValue as hard bounds and OptimalMin/OptimalMax
// as a narrower advisory band; threshold rules use Threshold + Comparison.
// Optional bounds are pointers so "no bound" is distinguishable from zero.
type BestPracticeRule struct {
	ID             string     `json:"id"`
	Category       string     `json:"category"`
	CheckType      CheckType  `json:"check_type"`
	MinValue       *float64   `json:"min_value,omitempty"`
	MaxValue       *float64   `json:"max_value,omitempty"`
	OptimalMin     *float64   `json:"optimal_min,omitempty"`
	OptimalMax     *float64   `json:"optimal_max,omitempty"`
	Threshold      *float64   `json:"threshold,omitempty"`
	Comparison     Comparison `json:"comparison,omitempty"`
	Unit           string     `json:"unit,omitempty"`
	Severity       Severity   `json:"severity"`
	WarningMessage string     `json:"warning_message"`
	Recommendation string     `json:"recommendation"`
	Reference      string     `json:"reference,omitempty"`
}

// ExperimentData is the summary-statistics record assembled from backend
// results and user-entered metadata. Every field is optional; a rule whose
// field is absent is skipped, never violated.
type ExperimentData struct {
	AntibodyConcentration *float64 `json:"antibody_concentration_ug_ml,omitempty"`
	DilutionFactor        *float64 `json:"dilution_factor,omitempty"`
	IncubationTimeMin     *float64 `json:"incubation_time_min,omitempty"`
	TemperatureC          *float64 `json:"temperature_c,omitempty"`
	PH                    *float64 `json:"ph,omitempty"`
	MedianSizeNm          *float64 `json:"median_size_nm,omitempty"`
	D10Nm                 *float64 `json:"d10_nm,omitempty"`
	D50Nm                 *float64 `json:"d50_nm,omitempty"`
	D90Nm                 *float64 `json:"d90_nm,omitempty"`
	SizeCVPercent         *float64 `json:"size_cv_percent,omitempty"`
	TotalEvents           *float64 `json:"total_events,omitempty"`
	ValidEventsPercent    *float64 `json:"valid_events_percent,omitempty"`
	AnomalyPercent        *float64 `json:"anomaly_percent,omitempty"`
	FCSMedianNm           *float64 `json:"fcs_median_nm,omitempty"`
	NTAMedianNm           *float64 `json:"nta_median_nm,omitempty"`
}

// BestPracticeViolation is produced only when a rule's check fails.
// Informational passes produce nothing.
type BestPracticeViolation struct {
	Rule           BestPracticeRule `json:"rule"`
	ActualValue    float64          `json:"actual_value"`
	Severity       Severity         `json:"severity"`
	Message        string           `json:"message"`
	Recommendation string           `json:"recommendation"`
}

// BestPracticesCheckResult is one evaluation of the full rule table against
// an experiment record. Derived per call; never mutated in place.
// Score counts skipped rules as passed (the historical contract); Evaluated
// and Skipped are reported alongside so incomplete data is visible rather
// than silently inflating the score.
type BestPracticesCheckResult struct {
	Score           int                     `json:"score"` // 0-100
	TotalRules      int                     `json:"total_rules"`
	Passed          int                     `json:"passed"`
	Warnings        int                     `json:"warnings"`
	Errors          int                     `json:"errors"`
	Evaluated       int                     `json:"evaluated"`
	Skipped         int                     `json:"skipped"`
	Violations      []BestPracticeViolation `json:"violations"`
	Recommendations []string                `json:"recommendations"`
}
