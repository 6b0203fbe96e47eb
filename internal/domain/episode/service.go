package episode

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validStatuses = map[string]bool{
	StatusActive: true, StatusResolved: true, StatusChronic: true,
}

// Allowed lifecycle transitions. Resolved episodes can be reopened as
// chronic when the wound recurs at the same site.
var validTransitions = map[string]map[string]bool{
	StatusActive:   {StatusResolved: true, StatusChronic: true},
	StatusChronic:  {StatusResolved: true, StatusActive: true},
	StatusResolved: {StatusChronic: true},
}

func (s *Service) CreateEpisode(ctx context.Context, e *Episode) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if e.WoundType == "" {
		return fmt.Errorf("wound_type is required")
	}
	if e.EpisodeStartDate.IsZero() {
		return fmt.Errorf("episode_start_date is required")
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if !validStatuses[e.Status] {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) GetEpisode(ctx context.Context, id uuid.UUID) (*Episode, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateEpisode(ctx context.Context, e *Episode) error {
	current, err := s.repo.GetByID(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("episode not found: %w", err)
	}
	if e.Status == "" {
		e.Status = current.Status
	}
	if !validStatuses[e.Status] {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	if e.Status != current.Status && !validTransitions[current.Status][e.Status] {
		return fmt.Errorf("invalid status transition: %s -> %s", current.Status, e.Status)
	}
	if e.Status == StatusResolved && e.ResolvedDate == nil {
		now := time.Now().UTC()
		e.ResolvedDate = &now
	}
	if e.WoundType == "" {
		e.WoundType = current.WoundType
	}
	return s.repo.Update(ctx, e)
}

func (s *Service) DeleteEpisode(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListEpisodes(ctx context.Context, limit, offset int) ([]*Episode, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListEpisodesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Episode, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
