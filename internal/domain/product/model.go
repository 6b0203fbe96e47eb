package product

import (
	"time"

	"github.com/google/uuid"
)

// Application maps to the product_application table: one application of a
// skin substitute / cellular tissue product (CTP) during an encounter.
type Application struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	EpisodeID         uuid.UUID  `db:"episode_id" json:"episode_id"`
	EncounterID       *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	ProductName       string     `db:"product_name" json:"product_name"`
	HCPCSCode         *string    `db:"hcpcs_code" json:"hcpcs_code,omitempty"`
	LotNumber         *string    `db:"lot_number" json:"lot_number,omitempty"`
	SerialNumber      *string    `db:"serial_number" json:"serial_number,omitempty"`
	AppliedDate       time.Time  `db:"applied_date" json:"applied_date"`
	ApplicationNumber int        `db:"application_number" json:"application_number"`
	SizeAppliedSqCm   *float64   `db:"size_applied_sq_cm" json:"size_applied_sq_cm,omitempty"`
	SizeWastedSqCm    *float64   `db:"size_wasted_sq_cm" json:"size_wasted_sq_cm,omitempty"`
	WastageReason     *string    `db:"wastage_reason" json:"wastage_reason,omitempty"`
	AppliedBy         *string    `db:"applied_by" json:"applied_by,omitempty"`
	Note              *string    `db:"note" json:"note,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
