package encounter

import (
	"time"

	"github.com/google/uuid"
)

// InterventionType is the closed set of conservative-care intervention tags
// assigned at data entry. Legacy records ingested from scanned documents may
// carry free-text types outside this set; the compliance engine keeps a
// keyword matcher as a compatibility shim for those.
type InterventionType string

const (
	InterventionOffloading          InterventionType = "offloading"
	InterventionCompressionTherapy  InterventionType = "compression_therapy"
	InterventionInfectionManagement InterventionType = "infection_management"
	InterventionDebridement         InterventionType = "debridement"
	InterventionEducation           InterventionType = "education"
	InterventionNutritionCounseling InterventionType = "nutrition_counseling"
	InterventionDressingChange      InterventionType = "dressing_change"
	InterventionMoistureManagement  InterventionType = "moisture_management"
)

// Measurement holds one wound measurement. Every field is a pointer: nil
// means not documented, while an explicit zero is a valid reading. The two
// must never collapse into each other.
type Measurement struct {
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
	Area   *float64 `json:"area,omitempty"`
	Unit   string   `json:"unit,omitempty"`
}

// Intervention is one conservative-care intervention documented at a visit.
type Intervention struct {
	Type          InterventionType `json:"type"`
	Name          *string          `json:"name,omitempty"`
	Effectiveness *string          `json:"effectiveness,omitempty"`
	Note          *string          `json:"note,omitempty"`
}

// WoundDetails is the structured wound payload for a visit, stored as JSONB.
type WoundDetails struct {
	Measurement    *Measurement `json:"measurement,omitempty"`
	TissueType     *string      `json:"tissue_type,omitempty"`
	ExudateAmount  *string      `json:"exudate_amount,omitempty"`
	InfectionSigns []string     `json:"infection_signs,omitempty"`
	PeriwoundSkin  *string      `json:"periwound_skin,omitempty"`
}

// Encounter maps to the wound_encounter table. Encounters are immutable
// clinical documentation once the visit is signed; the compliance engine
// only ever reads them, sorted ascending by date.
type Encounter struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	EpisodeID        uuid.UUID      `db:"episode_id" json:"episode_id"`
	PatientID        uuid.UUID      `db:"patient_id" json:"patient_id"`
	Date             time.Time      `db:"encounter_date" json:"date"`
	ProviderName     *string        `db:"provider_name" json:"provider_name,omitempty"`
	WoundDetails     *WoundDetails  `db:"wound_details" json:"wound_details,omitempty"`
	ConservativeCare []Intervention `db:"conservative_care" json:"conservative_care,omitempty"`
	DiabeticStatus   *string        `db:"diabetic_status" json:"diabetic_status,omitempty"`
	InfectionStatus  *string        `db:"infection_status" json:"infection_status,omitempty"`
	Comorbidities    []string       `db:"comorbidities" json:"comorbidities,omitempty"`
	Note             *string        `db:"note" json:"note,omitempty"`
	SourceDocumentID *uuid.UUID     `db:"source_document_id" json:"source_document_id,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Area resolves the wound area for this encounter. The explicit area field
// wins; otherwise length x width when both are documented. Depth is tracked
// separately and never folded into area. The boolean reports presence: a
// zero area with ok=true is a real measurement, not missing data.
func (e *Encounter) Area() (float64, bool) {
	if e.WoundDetails == nil || e.WoundDetails.Measurement == nil {
		return 0, false
	}
	m := e.WoundDetails.Measurement
	if m.Area != nil {
		return *m.Area, true
	}
	if m.Length != nil && m.Width != nil {
		return *m.Length * *m.Width, true
	}
	return 0, false
}
