package compliance

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/woundcare/woundcare/internal/domain/encounter"
	"github.com/woundcare/woundcare/internal/domain/episode"
)

// Policy thresholds. The 50% figure gates LCD L33831 response-to-therapy
// at the 4-week evaluation; the 20% figure is the looser general
// progress-tracking threshold surfaced in metrics. They are two distinct
// policies and must not be conflated.
const (
	ResponseReductionThresholdPct = 50.0
	ProgressReductionThresholdPct = 20.0
	InformationalPassPct          = 60.0
)

// Assess runs one LCD compliance assessment for an episode against its
// encounters at the given assessment time. It is pure and deterministic:
// identical input yields an identical result, and the clock is always the
// explicit now parameter.
//
// Incomplete clinical data never fails the call; every missing input
// degrades to a documented default in the result. The only error is a
// *ValidationError for structurally invalid input.
func Assess(ep *episode.Episode, encounters []*encounter.Encounter, now time.Time) (*ComplianceResult, error) {
	if ep == nil {
		return nil, &ValidationError{Field: "episode", Reason: "episode is required"}
	}
	if ep.EpisodeStartDate.IsZero() {
		return nil, &ValidationError{Field: "episode_start_date", Reason: "start date is missing or unparsable"}
	}
	if now.IsZero() {
		return nil, &ValidationError{Field: "now", Reason: "assessment time is required"}
	}

	var notes []string
	if before := countBeforeStart(ep.EpisodeStartDate, encounters); before > 0 {
		notes = append(notes, fmt.Sprintf(
			"data quality: %d encounter(s) dated before the episode start date", before))
	}

	category := Classify(ep.WoundType, ep.PrimaryDiagnosis)
	if category == CategoryOther {
		notes = append(notes, fmt.Sprintf(
			"wound type %q matched no category; wound-type-specific requirements skipped", ep.WoundType))
	}

	tl := BuildTimeline(ep.EpisodeStartDate, encounters, now)
	reqs := evaluateRequirements(category, tl, encounters)

	hardApplicable, hardPassed := 0, 0
	allHardPass := true
	var criticalFailure bool
	infoApplicable, infoPassed := 0, 0
	for _, r := range reqs {
		if !r.Applicable {
			continue
		}
		if r.Hard {
			hardApplicable++
			if r.Met {
				hardPassed++
			} else {
				allHardPass = false
				switch r.Key {
				case GapDuration, GapOffloading, GapCompression:
					criticalFailure = true
				}
			}
		} else {
			infoApplicable++
			if r.Met {
				infoPassed++
			}
		}
	}

	infoScore := 0.0
	if infoApplicable > 0 {
		infoScore = float64(infoPassed) / float64(infoApplicable) * 100
	}

	// Any hard-gate failure keeps the score below 80 no matter how good
	// the informational signals are; the scale is deliberately asymmetric.
	var score float64
	if allHardPass {
		score = 80 + 0.2*infoScore
	} else if hardApplicable > 0 {
		score = 80 * float64(hardPassed) / float64(hardApplicable)
	}
	score = round1(score)
	infoScore = round1(infoScore)

	compliant := allHardPass && infoScore >= InformationalPassPct

	status := StatusYellow
	switch {
	case compliant:
		status = StatusGreen
	case criticalFailure || score < 50:
		status = StatusRed
	}

	gaps, recs, gapCats := buildGaps(reqs, tl)

	result := &ComplianceResult{
		EpisodeID:          ep.ID,
		WoundCategory:      category,
		Compliant:          compliant,
		Status:             status,
		Score:              score,
		InformationalScore: infoScore,
		Requirements:       reqs,
		Gaps:               gaps,
		Recommendations:    recs,
		Alerts:             buildAlerts(gaps, gapCats, ep.EpisodeStartDate),
		Metrics:            buildMetrics(tl),
		Timeline:           buildTimelineReport(tl),
		Notes:              notes,
		AssessedAt:         now,
	}
	return result, nil
}

func countBeforeStart(start time.Time, encounters []*encounter.Encounter) int {
	n := 0
	for _, e := range encounters {
		if e.Date.Before(start) {
			n++
		}
	}
	return n
}

// evaluateRequirements produces the full requirement breakdown in policy
// order: hard gates first, then informational signals.
func evaluateRequirements(category WoundCategory, tl TimelineSummary, encounters []*encounter.Encounter) []Requirement {
	reduction, hasReduction := areaReduction(tl)

	reqs := []Requirement{
		{
			Key:        GapDuration,
			Label:      "Conservative care duration",
			Hard:       true,
			Applicable: true,
			Met:        tl.ElapsedDays >= MinConservativeCareDays,
			Detail:     fmt.Sprintf("%d of %d days elapsed", tl.ElapsedDays, MinConservativeCareDays),
		},
		{
			Key:        GapWeeklyAssessments,
			Label:      "Weekly wound assessments",
			Hard:       true,
			Applicable: true,
			Met:        len(tl.MissingWeeks) == 0,
			Detail:     fmt.Sprintf("%d of %d weeks covered", len(tl.ExpectedWeeks)-len(tl.MissingWeeks), len(tl.ExpectedWeeks)),
		},
		{
			Key:        GapOffloading,
			Label:      "DFU offloading",
			Hard:       true,
			Applicable: category == CategoryDFU,
			Met:        hasOffloading(encounters),
		},
		{
			Key:        GapCompression,
			Label:      "VLU compression therapy",
			Hard:       true,
			Applicable: category == CategoryVLU,
			Met:        hasCompression(encounters),
		},
		{
			Key:        GapBaseline,
			Label:      "Baseline measurement documented",
			Hard:       true,
			Applicable: tl.ElapsedDays >= BaselineWindowDays,
			Met:        tl.Baseline != nil,
		},
		{
			Key:        GapFourWeekResponse,
			Label:      "4-week response measurement documented",
			Hard:       true,
			Applicable: tl.WindowElapsed,
			Met:        tl.Evaluation != nil,
		},
		{
			Key:        GapFourWeekThreshold,
			Label:      "4-week response to therapy (50% area reduction)",
			Hard:       true,
			Applicable: tl.WindowElapsed && hasReduction,
			Met:        hasReduction && reduction >= ResponseReductionThresholdPct,
			Detail:     reductionDetail(reduction, hasReduction),
		},
		{
			Key:        GapInfectionControl,
			Label:      "Infection control",
			Hard:       false,
			Applicable: true,
			Met:        hasInfectionControl(encounters),
		},
		{
			Key:        GapPatientEducation,
			Label:      "Patient education",
			Hard:       false,
			Applicable: true,
			Met:        hasEducation(encounters),
		},
		{
			Key:        GapDocumentation,
			Label:      "General documentation",
			Hard:       false,
			Applicable: true,
			Met:        len(encounters) > 0,
			Detail:     fmt.Sprintf("%d encounter(s) documented", len(encounters)),
		},
	}
	return reqs
}

func reductionDetail(reduction float64, hasReduction bool) string {
	if !hasReduction {
		return "insufficient data"
	}
	return fmt.Sprintf("%.1f%% reduction from baseline", reduction)
}

// areaReduction computes the percentage reduction from baseline to the
// 4-week evaluation measurement. It is undefined (ok=false) until both
// measurements exist and the baseline area is non-zero.
func areaReduction(tl TimelineSummary) (float64, bool) {
	if tl.Baseline == nil || tl.Evaluation == nil || tl.Baseline.Area <= 0 {
		return 0, false
	}
	return (tl.Baseline.Area - tl.Evaluation.Area) / tl.Baseline.Area * 100, true
}

// --- intervention matching ---

// matchIntervention matches on the closed intervention tag set first. The
// keyword fallback is a compatibility shim for legacy free-text tags from
// scanned records and should not gain new keywords for structured data.
func matchIntervention(iv encounter.Intervention, types []encounter.InterventionType, keywords []string) bool {
	for _, t := range types {
		if iv.Type == t {
			return true
		}
	}
	text := strings.ToLower(string(iv.Type))
	if iv.Name != nil {
		text += " " + strings.ToLower(*iv.Name)
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func anyIntervention(encounters []*encounter.Encounter, types []encounter.InterventionType, keywords []string) bool {
	for _, e := range encounters {
		for _, iv := range e.ConservativeCare {
			if matchIntervention(iv, types, keywords) {
				return true
			}
		}
	}
	return false
}

func hasOffloading(encounters []*encounter.Encounter) bool {
	return anyIntervention(encounters,
		[]encounter.InterventionType{encounter.InterventionOffloading},
		[]string{"offloading"})
}

func hasCompression(encounters []*encounter.Encounter) bool {
	return anyIntervention(encounters,
		[]encounter.InterventionType{encounter.InterventionCompressionTherapy},
		[]string{"compression"})
}

func hasInfectionControl(encounters []*encounter.Encounter) bool {
	return anyIntervention(encounters,
		[]encounter.InterventionType{encounter.InterventionInfectionManagement, encounter.InterventionDebridement},
		[]string{"infection", "debridement"})
}

func hasEducation(encounters []*encounter.Encounter) bool {
	return anyIntervention(encounters,
		[]encounter.InterventionType{encounter.InterventionEducation, encounter.InterventionNutritionCounseling},
		[]string{"education", "nutrition"})
}

// --- gaps, recommendations, alerts ---

// buildGaps walks failed requirements in evaluation order and emits one
// gap string plus one positionally paired recommendation each. The
// parallel category slice keeps alert derivation free of text sniffing.
func buildGaps(reqs []Requirement, tl TimelineSummary) (gaps, recs []string, cats []GapCategory) {
	for _, r := range reqs {
		if !r.Applicable || r.Met {
			continue
		}
		gap, rec := gapText(r, tl)
		gaps = append(gaps, gap)
		recs = append(recs, rec)
		cats = append(cats, r.Key)
	}
	return gaps, recs, cats
}

func gapText(r Requirement, tl TimelineSummary) (gap, rec string) {
	switch r.Key {
	case GapDuration:
		return fmt.Sprintf("Conservative care duration not yet met: %d of %d days documented",
				tl.ElapsedDays, MinConservativeCareDays),
			"Continue and document conservative care through day 30 before advanced therapies"
	case GapWeeklyAssessments:
		return fmt.Sprintf("Missing weekly wound assessments for %d week(s): %s",
				len(tl.MissingWeeks), joinWeeks(tl.MissingWeeks)),
			"Document at least one wound measurement in every week of the episode"
	case GapOffloading:
		return "CRITICAL: No offloading intervention documented for diabetic foot ulcer",
			"Initiate and document an offloading modality (total contact cast, removable walker, or offloading shoe)"
	case GapCompression:
		return "CRITICAL: No compression therapy documented for venous leg ulcer",
			"Initiate and document compression therapy appropriate to arterial status"
	case GapBaseline:
		return "CRITICAL: Missing baseline wound measurement within 7 days of episode start",
			"Record a complete wound measurement to anchor response-to-therapy calculations"
	case GapFourWeekResponse:
		return "CRITICAL: Missing 4-week response measurement (day 21-35 window has elapsed)",
			"Record a wound measurement to evaluate response to conservative care"
	case GapFourWeekThreshold:
		return fmt.Sprintf("Wound area reduction below the %.0f%% response threshold at 4-week evaluation (%s)",
				ResponseReductionThresholdPct, r.Detail),
			"Re-evaluate the treatment plan; response-to-therapy criteria for advanced therapies are not met"
	case GapInfectionControl:
		return "No infection control intervention (infection management or debridement) documented",
			"Document infection surveillance and any debridement performed"
	case GapPatientEducation:
		return "No patient education or nutrition counseling documented",
			"Document patient education on wound care, offloading, or nutrition"
	case GapDocumentation:
		return "No encounters documented for this episode",
			"Document an initial wound assessment encounter"
	}
	return r.Label + " not met", "Review documentation for " + r.Label
}

func joinWeeks(weeks []ISOWeek) string {
	parts := make([]string, len(weeks))
	for i, w := range weeks {
		parts[i] = w.String()
	}
	return strings.Join(parts, ", ")
}

// buildAlerts derives one alert per gap with severity and due date taken
// from the gap category, then sorts by severity rank. The sort is stable:
// ties keep original gap order.
func buildAlerts(gaps []string, cats []GapCategory, start time.Time) []Alert {
	alerts := make([]Alert, 0, len(gaps))
	for i, gap := range gaps {
		alerts = append(alerts, Alert{
			Severity: gapSeverity[cats[i]],
			Category: cats[i],
			Message:  gap,
			DueDate:  gapDueDate(cats[i], start),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank[alerts[i].Severity] < severityRank[alerts[j].Severity]
	})
	return alerts
}

// gapDueDate returns the calendar deadline for categories that have one.
func gapDueDate(cat GapCategory, start time.Time) *time.Time {
	var due time.Time
	switch cat {
	case GapDuration:
		due = start.AddDate(0, 0, MinConservativeCareDays)
	case GapBaseline:
		due = start.AddDate(0, 0, BaselineWindowDays)
	case GapFourWeekResponse, GapFourWeekThreshold:
		due = start.AddDate(0, 0, EvaluationWindowEndDay)
	default:
		return nil
	}
	return &due
}

func buildMetrics(tl TimelineSummary) Metrics {
	m := Metrics{
		ConservativeCareDays: tl.ElapsedDays,
		DaysToDeadline:       maxInt(0, MinConservativeCareDays-tl.ElapsedDays),
		InsufficientData:     !tl.HasMeasurements,
	}
	if n := len(tl.ExpectedWeeks); n > 0 {
		m.WeeklyCoveragePct = round1(float64(n-len(tl.MissingWeeks)) / float64(n) * 100)
	}
	if reduction, ok := areaReduction(tl); ok {
		r := round1(reduction)
		m.AreaReductionPct = &r
		meetsResponse := reduction >= ResponseReductionThresholdPct
		meetsProgress := reduction >= ProgressReductionThresholdPct
		m.MeetsResponseThreshold = &meetsResponse
		m.MeetsProgressThreshold = &meetsProgress
	}
	return m
}

func buildTimelineReport(tl TimelineSummary) TimelineReport {
	rep := TimelineReport{
		ElapsedDays:          tl.ElapsedDays,
		ExpectedWeeks:        weekStrings(tl.ExpectedWeeks),
		MissingWeeks:         weekStrings(tl.MissingWeeks),
		WeeklyCoverage:       make(map[string]bool, len(tl.WeeklyCoverage)),
		BaselineDocumented:   tl.Baseline != nil,
		EvaluationDocumented: tl.Evaluation != nil,
		EvaluationDeferred:   tl.EvaluationDeferred,
	}
	for wk, ok := range tl.WeeklyCoverage {
		rep.WeeklyCoverage[wk.String()] = ok
	}
	return rep
}

func weekStrings(weeks []ISOWeek) []string {
	out := make([]string, len(weeks))
	for i, w := range weeks {
		out[i] = w.String()
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
