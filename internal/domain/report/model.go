package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/woundcare/woundcare/internal/domain/compliance"
	"github.com/woundcare/woundcare/internal/domain/encounter"
	"github.com/woundcare/woundcare/internal/domain/episode"
	"github.com/woundcare/woundcare/internal/domain/patient"
	"github.com/woundcare/woundcare/internal/domain/product"
)

// EpisodeReport is the full episode summary for export. Compliance embeds
// the engine output verbatim; the report layer never re-derives scores,
// gaps, or metrics from the raw encounters.
type EpisodeReport struct {
	GeneratedAt         time.Time                    `json:"generated_at"`
	Patient             *patient.Patient             `json:"patient"`
	Episode             *episode.Episode             `json:"episode"`
	Encounters          []*encounter.Encounter       `json:"encounters"`
	ProductApplications []*product.Application       `json:"product_applications,omitempty"`
	Compliance          *compliance.ComplianceResult `json:"compliance"`
}

// EncounterRow is one line of the CSV encounter log.
type EncounterRow struct {
	Date            time.Time
	EncounterID     uuid.UUID
	Provider        string
	Length          *float64
	Width           *float64
	Depth           *float64
	Area            *float64
	Unit            string
	Interventions   []string
	InfectionStatus string
	Note            string
}
