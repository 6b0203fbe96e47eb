package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/woundcare/woundcare/internal/domain/compliance"
	"github.com/woundcare/woundcare/internal/domain/encounter"
	"github.com/woundcare/woundcare/internal/domain/episode"
	"github.com/woundcare/woundcare/internal/domain/patient"
	"github.com/woundcare/woundcare/internal/domain/product"
)

type PatientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type EpisodeSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*episode.Episode, error)
}

type EncounterSource interface {
	ListByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*encounter.Encounter, error)
}

type ApplicationSource interface {
	ListByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*product.Application, error)
}

// Assessor produces the compliance assessment embedded in reports.
// Satisfied by the compliance service.
type Assessor interface {
	AssessEpisode(ctx context.Context, episodeID uuid.UUID) (*compliance.ComplianceResult, error)
}

type Service struct {
	patients     PatientSource
	episodes     EpisodeSource
	encounters   EncounterSource
	applications ApplicationSource
	assessor     Assessor
	clock        func() time.Time
}

func NewService(patients PatientSource, episodes EpisodeSource, encounters EncounterSource, applications ApplicationSource, assessor Assessor) *Service {
	return &Service{
		patients:     patients,
		episodes:     episodes,
		encounters:   encounters,
		applications: applications,
		assessor:     assessor,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the report timestamp clock.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// BuildEpisodeReport assembles the episode summary. The compliance section
// comes from the assessor unmodified.
func (s *Service) BuildEpisodeReport(ctx context.Context, episodeID uuid.UUID) (*EpisodeReport, error) {
	ep, err := s.episodes.GetByID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("episode not found: %w", err)
	}
	pt, err := s.patients.GetByID(ctx, ep.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}
	encs, err := s.encounters.ListByEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("load encounters: %w", err)
	}
	apps, err := s.applications.ListByEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("load product applications: %w", err)
	}
	result, err := s.assessor.AssessEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("assess episode: %w", err)
	}
	return &EpisodeReport{
		GeneratedAt:         s.clock(),
		Patient:             pt,
		Episode:             ep,
		Encounters:          encs,
		ProductApplications: apps,
		Compliance:          result,
	}, nil
}

var csvHeader = []string{
	"date", "encounter_id", "provider", "length", "width", "depth", "area",
	"unit", "interventions", "infection_status", "note",
}

// WriteEncounterCSV streams the episode's encounter log as CSV, one row
// per visit in chronological order.
func (s *Service) WriteEncounterCSV(ctx context.Context, episodeID uuid.UUID, w io.Writer) error {
	if _, err := s.episodes.GetByID(ctx, episodeID); err != nil {
		return fmt.Errorf("episode not found: %w", err)
	}
	encs, err := s.encounters.ListByEpisode(ctx, episodeID)
	if err != nil {
		return fmt.Errorf("load encounters: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range encs {
		if err := cw.Write(encounterRecord(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encounterRecord(e *encounter.Encounter) []string {
	row := EncounterRow{
		Date:        e.Date,
		EncounterID: e.ID,
	}
	if e.ProviderName != nil {
		row.Provider = *e.ProviderName
	}
	if e.WoundDetails != nil && e.WoundDetails.Measurement != nil {
		m := e.WoundDetails.Measurement
		row.Length, row.Width, row.Depth, row.Area = m.Length, m.Width, m.Depth, m.Area
		row.Unit = m.Unit
	}
	for _, iv := range e.ConservativeCare {
		row.Interventions = append(row.Interventions, string(iv.Type))
	}
	if e.InfectionStatus != nil {
		row.InfectionStatus = *e.InfectionStatus
	}
	if e.Note != nil {
		row.Note = *e.Note
	}

	return []string{
		row.Date.UTC().Format("2006-01-02"),
		row.EncounterID.String(),
		row.Provider,
		formatFloat(row.Length),
		formatFloat(row.Width),
		formatFloat(row.Depth),
		formatFloat(row.Area),
		row.Unit,
		strings.Join(row.Interventions, ";"),
		row.InfectionStatus,
		row.Note,
	}
}

// formatFloat renders a measurement or empty string when not documented.
// Zero readings stay "0", never blank.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
