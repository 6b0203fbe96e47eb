package compliance

import (
	"math"
	"sort"
	"time"

	"github.com/woundcare/woundcare/internal/domain/encounter"
)

// Calendar constants for LCD L33831 deadline arithmetic, in days from the
// episode start date.
const (
	BaselineWindowDays       = 7
	EvaluationWindowStartDay = 21
	EvaluationTargetDay      = 28
	EvaluationWindowEndDay   = 35
	MinConservativeCareDays  = 30
)

// BuildTimeline buckets an episode's encounters into ISO calendar weeks
// and locates the baseline and 4-week evaluation measurements. The
// assessment time is an explicit parameter; the aggregator never reads a
// clock. Encounters may arrive in any order.
func BuildTimeline(start time.Time, encounters []*encounter.Encounter, now time.Time) TimelineSummary {
	sorted := make([]*encounter.Encounter, len(encounters))
	copy(sorted, encounters)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	tl := TimelineSummary{
		ElapsedDays:    elapsedDays(start, now),
		WeeklyCoverage: make(map[ISOWeek]bool),
	}

	// Weeks that carry at least one measurement-bearing encounter.
	covered := make(map[ISOWeek]bool)
	for _, e := range sorted {
		if _, ok := e.Area(); ok {
			covered[ISOWeekOf(e.Date)] = true
			tl.HasMeasurements = true
		}
	}

	// Expected weeks: walk from the start date to now in 7-day strides.
	// Every expected week needs a covering measurement; there is no
	// partial-credit tolerance.
	if !now.Before(start) {
		for d := start; !d.After(now); d = d.AddDate(0, 0, 7) {
			wk := ISOWeekOf(d)
			tl.ExpectedWeeks = append(tl.ExpectedWeeks, wk)
			tl.WeeklyCoverage[wk] = covered[wk]
			if !covered[wk] {
				tl.MissingWeeks = append(tl.MissingWeeks, wk)
			}
		}
	}

	tl.Baseline = findBaseline(start, sorted)
	tl.WindowElapsed = now.After(start.AddDate(0, 0, EvaluationWindowEndDay))
	tl.Evaluation = findEvaluation(start, sorted, now, tl.WindowElapsed)
	tl.EvaluationDeferred = tl.Evaluation == nil && !tl.WindowElapsed

	return tl
}

// elapsedDays returns whole days between start and now, ceiling-rounded.
// A clock earlier than the start date clamps to zero; the assessor
// surfaces that as a data-quality note.
func elapsedDays(start, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	return int(math.Ceil(now.Sub(start).Hours() / 24))
}

// findBaseline returns the earliest measurement-bearing encounter within
// BaselineWindowDays of the start date.
func findBaseline(start time.Time, sorted []*encounter.Encounter) *AreaMeasurement {
	windowEnd := start.AddDate(0, 0, BaselineWindowDays)
	for _, e := range sorted {
		if e.Date.Before(start) || e.Date.After(windowEnd) {
			continue
		}
		if area, ok := e.Area(); ok {
			return &AreaMeasurement{EncounterID: e.ID, Date: e.Date, Area: area}
		}
	}
	return nil
}

// findEvaluation locates the measurement for the Medicare 4-week response
// check: the closest-to-day-28 measurement inside the day 21-35 window.
// When the window holds no measurement and has fully elapsed, the latest
// available measurement stands in; while the window is still open the
// evaluation is deferred instead.
func findEvaluation(start time.Time, sorted []*encounter.Encounter, now time.Time, windowElapsed bool) *AreaMeasurement {
	windowStart := start.AddDate(0, 0, EvaluationWindowStartDay)
	target := start.AddDate(0, 0, EvaluationTargetDay)
	windowEnd := start.AddDate(0, 0, EvaluationWindowEndDay)

	var best *AreaMeasurement
	var bestDist time.Duration
	for _, e := range sorted {
		if e.Date.Before(windowStart) || e.Date.After(windowEnd) {
			continue
		}
		area, ok := e.Area()
		if !ok {
			continue
		}
		dist := e.Date.Sub(target)
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist {
			best = &AreaMeasurement{EncounterID: e.ID, Date: e.Date, Area: area}
			bestDist = dist
		}
	}
	if best != nil {
		return best
	}

	if !windowElapsed {
		return nil
	}
	// Window fully elapsed with no in-window reading: fall back to the
	// latest measurement taken before the assessment time.
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if e.Date.After(now) {
			continue
		}
		if area, ok := e.Area(); ok {
			return &AreaMeasurement{EncounterID: e.ID, Date: e.Date, Area: area}
		}
	}
	return nil
}
