package episode

import (
	"time"

	"github.com/google/uuid"
)

// Episode statuses.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
	StatusChronic  = "chronic"
)

// Episode maps to the wound_episode table. One episode is one continuous
// treatment course for one wound on one patient. EpisodeStartDate anchors
// all compliance deadline arithmetic and is immutable once set.
type Episode struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	EpisodeStartDate time.Time  `db:"episode_start_date" json:"episode_start_date"`
	WoundType        string     `db:"wound_type" json:"wound_type"`
	PrimaryDiagnosis *string    `db:"primary_diagnosis" json:"primary_diagnosis,omitempty"`
	WoundLocation    *string    `db:"wound_location" json:"wound_location,omitempty"`
	Laterality       *string    `db:"laterality" json:"laterality,omitempty"`
	Status           string     `db:"status" json:"status"`
	ResolvedDate     *time.Time `db:"resolved_date" json:"resolved_date,omitempty"`
	Note             *string    `db:"note" json:"note,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
