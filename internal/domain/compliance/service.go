package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/woundcare/woundcare/internal/domain/encounter"
	"github.com/woundcare/woundcare/internal/domain/episode"
)

// EpisodeSource is the subset of the episode repository the service needs.
type EpisodeSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*episode.Episode, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*episode.Episode, int, error)
}

// EncounterSource is the subset of the encounter repository the service
// needs. ListByEpisode returns encounters sorted ascending by date.
type EncounterSource interface {
	ListByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*encounter.Encounter, error)
}

// Service loads an episode's clinical timeline and runs the assessment
// engine over it. The engine itself stays pure; the service owns the
// clock so that batch re-assessment and tests can pin the assessment
// time.
type Service struct {
	episodes   EpisodeSource
	encounters EncounterSource
	clock      func() time.Time
}

func NewService(episodes EpisodeSource, encounters EncounterSource) *Service {
	return &Service{
		episodes:   episodes,
		encounters: encounters,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the assessment clock.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// AssessEpisode computes a fresh ComplianceResult for one episode.
func (s *Service) AssessEpisode(ctx context.Context, episodeID uuid.UUID) (*ComplianceResult, error) {
	ep, err := s.episodes.GetByID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("episode not found: %w", err)
	}
	encs, err := s.encounters.ListByEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("load encounters: %w", err)
	}
	return Assess(ep, encs, s.clock())
}

// PatientSummary aggregates per-episode assessments for one patient's
// open (active or chronic) episodes.
type PatientSummary struct {
	PatientID uuid.UUID           `json:"patient_id"`
	Episodes  []*ComplianceResult `json:"episodes"`
	Counts    map[Status]int      `json:"counts"`
}

// AssessPatient assesses every open episode for a patient. Episodes with
// structurally invalid data are skipped and reported via the summary
// counts only for the episodes actually assessed.
func (s *Service) AssessPatient(ctx context.Context, patientID uuid.UUID) (*PatientSummary, error) {
	episodes, _, err := s.episodes.ListByPatient(ctx, patientID, 100, 0)
	if err != nil {
		return nil, fmt.Errorf("load episodes: %w", err)
	}

	summary := &PatientSummary{
		PatientID: patientID,
		Episodes:  []*ComplianceResult{},
		Counts:    map[Status]int{StatusGreen: 0, StatusYellow: 0, StatusRed: 0},
	}
	now := s.clock()
	for _, ep := range episodes {
		if ep.Status == episode.StatusResolved {
			continue
		}
		encs, err := s.encounters.ListByEpisode(ctx, ep.ID)
		if err != nil {
			return nil, fmt.Errorf("load encounters for episode %s: %w", ep.ID, err)
		}
		result, err := Assess(ep, encs, now)
		if err != nil {
			// Structurally invalid episodes must not sink the whole
			// summary; the caller sees them through the episode API.
			continue
		}
		summary.Episodes = append(summary.Episodes, result)
		summary.Counts[result.Status]++
	}
	return summary, nil
}
