package product

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

func (s *Service) CreateApplication(ctx context.Context, a *Application) error {
	if a.EpisodeID == uuid.Nil {
		return fmt.Errorf("episode_id is required")
	}
	if a.ProductName == "" {
		return fmt.Errorf("product_name is required")
	}
	if a.AppliedDate.IsZero() {
		return fmt.Errorf("applied_date is required")
	}
	if a.SizeAppliedSqCm != nil && *a.SizeAppliedSqCm < 0 {
		return fmt.Errorf("size_applied_sq_cm must not be negative")
	}
	if a.SizeWastedSqCm != nil && *a.SizeWastedSqCm < 0 {
		return fmt.Errorf("size_wasted_sq_cm must not be negative")
	}
	if a.SizeWastedSqCm != nil && *a.SizeWastedSqCm > 0 && a.WastageReason == nil {
		return fmt.Errorf("wastage_reason is required when wastage is recorded")
	}
	if a.ApplicationNumber == 0 {
		n, err := s.repo.CountByEpisode(ctx, a.EpisodeID)
		if err != nil {
			return fmt.Errorf("count applications: %w", err)
		}
		a.ApplicationNumber = n + 1
	}
	if a.ApplicationNumber < 1 {
		return fmt.Errorf("application_number must be positive")
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateApplication(ctx context.Context, a *Application) error {
	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("product application not found: %w", err)
	}
	if a.ProductName == "" {
		a.ProductName = current.ProductName
	}
	if a.AppliedDate.IsZero() {
		a.AppliedDate = current.AppliedDate
	}
	if a.ApplicationNumber == 0 {
		a.ApplicationNumber = current.ApplicationNumber
	}
	if a.SizeAppliedSqCm != nil && *a.SizeAppliedSqCm < 0 {
		return fmt.Errorf("size_applied_sq_cm must not be negative")
	}
	if a.SizeWastedSqCm != nil && *a.SizeWastedSqCm < 0 {
		return fmt.Errorf("size_wasted_sq_cm must not be negative")
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListApplications(ctx context.Context, limit, offset int) ([]*Application, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListApplicationsByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*Application, error) {
	return s.repo.ListByEpisode(ctx, episodeID)
}
