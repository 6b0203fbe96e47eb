package document

import (
	"time"

	"github.com/google/uuid"
)

// Extraction lifecycle for an uploaded source document. The OCR/AI
// pipeline runs outside this service; these records track its inputs
// and outputs.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusExtracted  = "extracted"
	StatusFailed     = "failed"
)

type SourceDocument struct {
	ID                 uuid.UUID              `json:"id"`
	PatientID          uuid.UUID              `json:"patient_id"`
	EpisodeID          *uuid.UUID             `json:"episode_id,omitempty"`
	Filename           string                 `json:"filename"`
	ContentType        string                 `json:"content_type,omitempty"`
	SizeBytes          int64                  `json:"size_bytes,omitempty"`
	Status             string                 `json:"status"`
	ExtractedFields    map[string]interface{} `json:"extracted_fields,omitempty"`
	FailureReason      *string                `json:"failure_reason,omitempty"`
	CreatedEncounterID *uuid.UUID             `json:"created_encounter_id,omitempty"`
	UploadedBy         *string                `json:"uploaded_by,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}
