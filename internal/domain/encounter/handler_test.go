package encounter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_CreateEncounter(t *testing.T) {
	h, e := newTestHandler()
	body := `{
		"episode_id":"` + uuid.New().String() + `",
		"patient_id":"` + uuid.New().String() + `",
		"date":"2024-01-08T00:00:00Z",
		"wound_details":{"measurement":{"length":4,"width":3,"unit":"cm"}},
		"conservative_care":[{"type":"offloading"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateEncounter(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var got Encounter
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if area, ok := got.Area(); !ok || area != 12 {
		t.Errorf("expected computed area 12, got (%.1f, %v)", area, ok)
	}
}

func TestHandler_CreateEncounter_NegativeMeasurement(t *testing.T) {
	h, e := newTestHandler()
	body := `{
		"episode_id":"` + uuid.New().String() + `",
		"patient_id":"` + uuid.New().String() + `",
		"date":"2024-01-08T00:00:00Z",
		"wound_details":{"measurement":{"length":-2}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.CreateEncounter(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetEncounter(t *testing.T) {
	h, e := newTestHandler()
	enc := newEnc()
	h.svc.CreateEncounter(context.Background(), enc)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(enc.ID.String())
	if err := h.GetEncounter(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetEncounter_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	err := h.GetEncounter(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_ListEncountersByEpisode(t *testing.T) {
	h, e := newTestHandler()
	enc := newEnc()
	h.svc.CreateEncounter(context.Background(), enc)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("episodeId")
	c.SetParamValues(enc.EpisodeID.String())
	if err := h.ListEncountersByEpisode(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var items []*Encounter
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 encounter, got %d", len(items))
	}
}

func TestHandler_DeleteEncounter(t *testing.T) {
	h, e := newTestHandler()
	enc := newEnc()
	h.svc.CreateEncounter(context.Background(), enc)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(enc.ID.String())
	if err := h.DeleteEncounter(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
