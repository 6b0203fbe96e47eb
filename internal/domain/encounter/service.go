package encounter

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

var validInterventionTypes = map[InterventionType]bool{
	InterventionOffloading:          true,
	InterventionCompressionTherapy:  true,
	InterventionInfectionManagement: true,
	InterventionDebridement:         true,
	InterventionEducation:           true,
	InterventionNutritionCounseling: true,
	InterventionDressingChange:      true,
	InterventionMoistureManagement:  true,
}

// IsKnownInterventionType reports whether t belongs to the closed tag set.
// Unknown tags are accepted on write (legacy document ingestion produces
// them) but are matched only by the compliance engine's keyword shim.
func IsKnownInterventionType(t InterventionType) bool {
	return validInterventionTypes[t]
}

func (s *Service) CreateEncounter(ctx context.Context, e *Encounter) error {
	if e.EpisodeID == uuid.Nil {
		return fmt.Errorf("episode_id is required")
	}
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if err := validateMeasurement(e); err != nil {
		return err
	}
	for i := range e.ConservativeCare {
		if e.ConservativeCare[i].Type == "" {
			return fmt.Errorf("conservative_care[%d].type is required", i)
		}
	}
	return s.repo.Create(ctx, e)
}

func validateMeasurement(e *Encounter) error {
	if e.WoundDetails == nil || e.WoundDetails.Measurement == nil {
		return nil
	}
	m := e.WoundDetails.Measurement
	for name, v := range map[string]*float64{
		"length": m.Length, "width": m.Width, "depth": m.Depth, "area": m.Area,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("measurement %s must not be negative", name)
		}
	}
	return nil
}

func (s *Service) GetEncounter(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateEncounter(ctx context.Context, e *Encounter) error {
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if err := validateMeasurement(e); err != nil {
		return err
	}
	return s.repo.Update(ctx, e)
}

func (s *Service) DeleteEncounter(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListEncounters(ctx context.Context, limit, offset int) ([]*Encounter, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListEncountersByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*Encounter, error) {
	return s.repo.ListByEpisode(ctx, episodeID)
}

func (s *Service) ListEncountersByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Encounter, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
