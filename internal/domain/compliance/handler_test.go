package compliance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/woundcare/woundcare/internal/domain/encounter"
	"github.com/woundcare/woundcare/internal/domain/episode"
)

func newTestHandler() (*Handler, *mockEpisodeSource, *mockEncounterSource, *echo.Echo) {
	svc, episodes, encounters := newTestService()
	return NewHandler(svc), episodes, encounters, echo.New()
}

func TestHandler_AssessEpisode(t *testing.T) {
	h, episodes, encounters, e := newTestHandler()
	ep := episodes.add(testEpisode("DFU"))
	encounters.add(ep.ID, withCare(measuredEnc(day(0), 12.0), encounter.InterventionOffloading))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(ep.ID.String())
	if err := h.AssessEpisode(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var result ComplianceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.EpisodeID != ep.ID {
		t.Errorf("expected episode %s, got %s", ep.ID, result.EpisodeID)
	}
	if result.WoundCategory != CategoryDFU {
		t.Errorf("expected DFU, got %s", result.WoundCategory)
	}
}

func TestHandler_AssessEpisode_InvalidID(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	err := h.AssessEpisode(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_AssessEpisode_NotFound(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	err := h.AssessEpisode(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_AssessEpisode_InvalidData(t *testing.T) {
	h, episodes, _, e := newTestHandler()
	// Zero start date makes the assessment input structurally invalid.
	ep := episodes.add(&episode.Episode{PatientID: uuid.New(), WoundType: "DFU", Status: episode.StatusActive})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(ep.ID.String())
	err := h.AssessEpisode(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for invalid episode data, got %v", err)
	}
}

func TestHandler_AssessPatient(t *testing.T) {
	h, episodes, encounters, e := newTestHandler()
	patientID := uuid.New()
	ep := episodes.add(&episode.Episode{
		PatientID:        patientID,
		EpisodeStartDate: anchor,
		WoundType:        "VLU",
		Status:           episode.StatusActive,
	})
	encounters.add(ep.ID, measuredEnc(day(0), 15.0))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues(patientID.String())
	if err := h.AssessPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var summary PatientSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(summary.Episodes) != 1 {
		t.Errorf("expected 1 episode in summary, got %d", len(summary.Episodes))
	}
}

func TestHandler_AssessPatient_InvalidID(t *testing.T) {
	h, _, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("bogus")
	err := h.AssessPatient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
