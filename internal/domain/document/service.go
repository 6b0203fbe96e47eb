package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validStatuses = map[string]bool{
	StatusUploaded: true, StatusProcessing: true, StatusExtracted: true, StatusFailed: true,
}

// Extraction is one-way: a document never returns to uploaded, and a
// terminal extracted/failed state only flips between the two on a
// manual re-run.
var validTransitions = map[string]map[string]bool{
	StatusUploaded:   {StatusProcessing: true, StatusFailed: true},
	StatusProcessing: {StatusExtracted: true, StatusFailed: true},
	StatusFailed:     {StatusProcessing: true},
	StatusExtracted:  {},
}

func (s *Service) CreateDocument(ctx context.Context, d *SourceDocument) error {
	if d.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if d.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if d.Status == "" {
		d.Status = StatusUploaded
	}
	if d.Status != StatusUploaded {
		return fmt.Errorf("new documents must start as %s", StatusUploaded)
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*SourceDocument, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus advances the extraction lifecycle. Extracted fields and
// the created-encounter link may only be recorded on the transition
// into extracted; a failure reason is required on failed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, fields map[string]interface{}, encounterID *uuid.UUID, failureReason *string) (*SourceDocument, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("document not found: %w", err)
	}
	if status != d.Status && !validTransitions[d.Status][status] {
		return nil, fmt.Errorf("invalid status transition: %s -> %s", d.Status, status)
	}
	switch status {
	case StatusExtracted:
		d.ExtractedFields = fields
		d.CreatedEncounterID = encounterID
		d.FailureReason = nil
	case StatusFailed:
		if failureReason == nil || *failureReason == "" {
			return nil, fmt.Errorf("failure_reason is required for failed documents")
		}
		d.FailureReason = failureReason
	}
	d.Status = status
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListDocuments(ctx context.Context, limit, offset int) ([]*SourceDocument, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListDocumentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*SourceDocument, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListDocumentsByStatus(ctx context.Context, status string, limit, offset int) ([]*SourceDocument, int, error) {
	if !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}
