package compliance

import "strings"

// Keyword sets for wound-type normalization. Matching is case-insensitive
// substring search over the recorded wound type and primary diagnosis.
var (
	dfuKeywords = []string{"dfu", "diabetic"}
	vluKeywords = []string{"vlu", "venous", "stasis"}
	puKeywords  = []string{"pu", "pressure", "decubitus"}
)

// Classify normalizes a clinician-entered wound type (and optional primary
// diagnosis text) to a WoundCategory. It is a total function: unmatched
// text falls back to CategoryOther, which makes the assessor skip all
// wound-type-specific standard-of-care gates.
//
// When the text matches several keyword sets, DFU takes precedence over
// VLU, which takes precedence over PU. Diabetic foot pathology is treated
// as the more restrictive classification in ambiguous documentation; this
// is a policy default, not an evidence-based ordering.
func Classify(woundType string, primaryDiagnosis *string) WoundCategory {
	text := strings.ToLower(woundType)
	if primaryDiagnosis != nil {
		text += " " + strings.ToLower(*primaryDiagnosis)
	}

	switch {
	case containsAny(text, dfuKeywords):
		return CategoryDFU
	case containsAny(text, vluKeywords):
		return CategoryVLU
	case containsAny(text, puKeywords):
		return CategoryPU
	default:
		return CategoryOther
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
