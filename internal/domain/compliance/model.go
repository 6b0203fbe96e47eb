package compliance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WoundCategory is the normalized wound etiology used to select which
// standard-of-care rules apply.
type WoundCategory string

const (
	CategoryDFU   WoundCategory = "DFU"
	CategoryVLU   WoundCategory = "VLU"
	CategoryPU    WoundCategory = "PU"
	CategoryOther WoundCategory = "OTHER"
)

// Status is the three-state traffic-light compliance summary.
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// GapCategory identifies a compliance requirement. It is a closed set so
// that alert severity and deadlines derive from the category itself rather
// than from string sniffing on gap text.
type GapCategory string

const (
	GapDuration          GapCategory = "conservative_care_duration"
	GapWeeklyAssessments GapCategory = "weekly_assessments"
	GapOffloading        GapCategory = "dfu_offloading"
	GapCompression       GapCategory = "vlu_compression"
	GapBaseline          GapCategory = "baseline_documentation"
	GapFourWeekResponse  GapCategory = "four_week_response"
	GapFourWeekThreshold GapCategory = "four_week_threshold"
	GapInfectionControl  GapCategory = "infection_control"
	GapPatientEducation  GapCategory = "patient_education"
	GapDocumentation     GapCategory = "general_documentation"
)

// Severity ranks an alert for display. Critical sorts first.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityModerate: 2,
	SeverityLow:      3,
}

// gapSeverity assigns alert severity per requirement category. Wound-type
// standard-of-care failures and missing documentation past their windows
// are critical; weekly coverage and a failed response threshold are high;
// everything else is moderate.
var gapSeverity = map[GapCategory]Severity{
	GapDuration:          SeverityModerate,
	GapWeeklyAssessments: SeverityHigh,
	GapOffloading:        SeverityCritical,
	GapCompression:       SeverityCritical,
	GapBaseline:          SeverityCritical,
	GapFourWeekResponse:  SeverityCritical,
	GapFourWeekThreshold: SeverityHigh,
	GapInfectionControl:  SeverityModerate,
	GapPatientEducation:  SeverityModerate,
	GapDocumentation:     SeverityModerate,
}

// Requirement is one evaluated requirement gate. Hard gates determine the
// compliance boolean; informational requirements only feed the score.
type Requirement struct {
	Key        GapCategory `json:"key"`
	Label      string      `json:"label"`
	Hard       bool        `json:"hard"`
	Applicable bool        `json:"applicable"`
	Met        bool        `json:"met"`
	Detail     string      `json:"detail,omitempty"`
}

// ISOWeek identifies one ISO 8601 week (Monday-start, year assigned by the
// week containing that year's first Thursday).
type ISOWeek struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

func (w ISOWeek) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// Before reports whether w falls before o in calendar order.
func (w ISOWeek) Before(o ISOWeek) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.Week < o.Week
}

// ISOWeekOf returns the ISO week containing t.
func ISOWeekOf(t time.Time) ISOWeek {
	y, wk := t.ISOWeek()
	return ISOWeek{Year: y, Week: wk}
}

// AreaMeasurement is one dated, resolved wound-area reading. A zero area
// is a real reading; absence is expressed by a nil *AreaMeasurement.
type AreaMeasurement struct {
	EncounterID uuid.UUID `json:"encounter_id"`
	Date        time.Time `json:"date"`
	Area        float64   `json:"area"`
}

// TimelineSummary is the Timeline Aggregator output consumed by the
// assessor.
type TimelineSummary struct {
	ElapsedDays        int
	ExpectedWeeks      []ISOWeek
	MissingWeeks       []ISOWeek
	WeeklyCoverage     map[ISOWeek]bool
	Baseline           *AreaMeasurement
	Evaluation         *AreaMeasurement
	// EvaluationDeferred is set while the day 21-35 evaluation window has
	// not yet fully elapsed and no in-window measurement exists; the
	// response assessment is deferred, not failed.
	EvaluationDeferred bool
	WindowElapsed      bool
	HasMeasurements    bool
}

// TimelineReport is the JSON-safe timeline block embedded in a
// ComplianceResult.
type TimelineReport struct {
	ElapsedDays          int             `json:"elapsed_days"`
	ExpectedWeeks        []string        `json:"expected_weeks"`
	MissingWeeks         []string        `json:"missing_weeks"`
	WeeklyCoverage       map[string]bool `json:"weekly_coverage"`
	BaselineDocumented   bool            `json:"baseline_documented"`
	EvaluationDocumented bool            `json:"evaluation_documented"`
	EvaluationDeferred   bool            `json:"evaluation_deferred"`
}

// Metrics carries the raw sub-metrics behind the requirement gates.
// AreaReductionPct is nil until both a baseline and an evaluation
// measurement exist (and the baseline area is non-zero); a nil value is
// "insufficient data", never a misleading 0%.
type Metrics struct {
	ConservativeCareDays   int      `json:"conservative_care_days"`
	WeeklyCoveragePct      float64  `json:"weekly_coverage_pct"`
	AreaReductionPct       *float64 `json:"area_reduction_pct,omitempty"`
	MeetsResponseThreshold *bool    `json:"meets_response_threshold,omitempty"`
	MeetsProgressThreshold *bool    `json:"meets_progress_threshold,omitempty"`
	DaysToDeadline         int      `json:"days_to_deadline"`
	InsufficientData       bool     `json:"insufficient_data"`
}

// Alert is a display-ready notification derived from a gap.
type Alert struct {
	Severity Severity    `json:"severity"`
	Category GapCategory `json:"category"`
	Message  string      `json:"message"`
	DueDate  *time.Time  `json:"due_date,omitempty"`
}

// ComplianceResult is the engine output. It contains only primitive and
// nested-value fields (no references back into the input), is
// JSON-serializable, and is recomputed fresh on every assessment.
// Recommendations are positionally paired with Gaps: Recommendations[i]
// addresses Gaps[i].
type ComplianceResult struct {
	EpisodeID          uuid.UUID      `json:"episode_id"`
	WoundCategory      WoundCategory  `json:"wound_category"`
	Compliant          bool           `json:"compliant"`
	Status             Status         `json:"status"`
	Score              float64        `json:"score"`
	InformationalScore float64        `json:"informational_score"`
	Requirements       []Requirement  `json:"requirements"`
	Gaps               []string       `json:"gaps"`
	Recommendations    []string       `json:"recommendations"`
	Alerts             []Alert        `json:"alerts"`
	Metrics            Metrics        `json:"metrics"`
	Timeline           TimelineReport `json:"timeline"`
	Notes              []string       `json:"notes,omitempty"`
	AssessedAt         time.Time      `json:"assessed_at"`
}

// ValidationError reports structurally invalid engine input. It is the
// only error the engine returns; incomplete clinical data never raises it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
