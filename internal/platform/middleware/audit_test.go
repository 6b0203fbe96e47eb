package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/woundcare/woundcare/internal/platform/auth"
)

// mockRecorder collects audit entries for assertions.
type mockRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error // if set, RecordAccess returns this error
}

func (m *mockRecorder) RecordAccess(entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockRecorder) last() AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// newTestContext creates an echo context with optional auth context values set.
func newTestContext(method, path string, opts ...func(*http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func withAuth(userID string, roles []string) func(*http.Request) {
	return func(req *http.Request) {
		ctx := req.Context()
		ctx = context.WithValue(ctx, auth.UserIDKey, userID)
		ctx = context.WithValue(ctx, auth.UserRolesKey, roles)
		*req = *req.WithContext(ctx)
	}
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// --- Tests ---

func TestAudit_PatientRead(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	recorder := &mockRecorder{}
	patientID := uuid.NewString()

	c, _ := newTestContext(http.MethodGet, "/api/v1/patients/"+patientID,
		withAuth("user-42", []string{"physician"}))

	h := Audit(logger, recorder)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorder.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", recorder.count())
	}
	entry := recorder.last()
	if entry.UserID != "user-42" {
		t.Errorf("expected user-42, got %q", entry.UserID)
	}
	if entry.ResourceType != "patients" {
		t.Errorf("expected resource type patients, got %q", entry.ResourceType)
	}
	if entry.PatientID != patientID {
		t.Errorf("expected patient ID %s, got %q", patientID, entry.PatientID)
	}
	if entry.Action != "read" {
		t.Errorf("expected action read, got %q", entry.Action)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", entry.StatusCode)
	}
}

func TestAudit_EncounterCreate(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	recorder := &mockRecorder{}

	c, _ := newTestContext(http.MethodPost, "/api/v1/encounters",
		withAuth("user-1", []string{"nurse"}))

	h := Audit(logger, recorder)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := recorder.last()
	if entry.ResourceType != "encounters" {
		t.Errorf("expected resource type encounters, got %q", entry.ResourceType)
	}
	if entry.Action != "create" {
		t.Errorf("expected action create, got %q", entry.Action)
	}
}

func TestAudit_SkipsNonAuditablePaths(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	recorder := &mockRecorder{}

	c, _ := newTestContext(http.MethodGet, "/health")

	h := Audit(logger, recorder)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorder.count() != 0 {
		t.Errorf("expected no audit entries for /health, got %d", recorder.count())
	}
}

func TestAudit_DeleteAction(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	recorder := &mockRecorder{}
	id := uuid.NewString()

	c, _ := newTestContext(http.MethodDelete, "/api/v1/episodes/"+id,
		withAuth("user-1", []string{"admin"}))

	h := Audit(logger, recorder)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := recorder.last()
	if entry.Action != "delete" {
		t.Errorf("expected action delete, got %q", entry.Action)
	}
	if entry.ResourceType != "episodes" {
		t.Errorf("expected resource type episodes, got %q", entry.ResourceType)
	}
}

func TestAudit_RecorderError_DoesNotBreakRequest(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	recorder := &mockRecorder{err: errors.New("store unavailable")}

	c, rec := newTestContext(http.MethodGet, "/api/v1/patients",
		withAuth("user-1", []string{"physician"}))

	h := Audit(logger, recorder)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 despite recorder failure, got %d", rec.Code)
	}
}

func TestAudit_NoRecorder_LogOnly(t *testing.T) {
	logger := zerolog.New(os.Stderr)

	c, rec := newTestContext(http.MethodGet, "/api/v1/patients",
		withAuth("user-1", []string{"physician"}))

	h := Audit(logger)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAudit_PatientIDFromQuery(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	recorder := &mockRecorder{}

	c, _ := newTestContext(http.MethodGet, "/api/v1/episodes?patient_id=patient-7",
		withAuth("user-1", []string{"biller"}))

	h := Audit(logger, recorder)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := recorder.last()
	if entry.PatientID != "patient-7" {
		t.Errorf("expected patient-7 from query param, got %q", entry.PatientID)
	}
}

func TestAudit_CapturesIPAndUserAgent(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	recorder := &mockRecorder{}

	c, _ := newTestContext(http.MethodGet, "/api/v1/patients", func(req *http.Request) {
		req.Header.Set("User-Agent", "woundcare-cli/1.0")
	})

	h := Audit(logger, recorder)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := recorder.last()
	if entry.UserAgent != "woundcare-cli/1.0" {
		t.Errorf("expected user agent to be captured, got %q", entry.UserAgent)
	}
	if entry.IPAddress == "" {
		t.Error("expected remote IP to be captured")
	}
}

func TestIsAuditablePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/v1/patients", true},
		{"/api/v1/episodes/abc/compliance", true},
		{"/health", false},
		{"/", false},
		{"/api/v2/patients", false},
	}
	for _, tt := range tests {
		if got := isAuditablePath(tt.path); got != tt.want {
			t.Errorf("isAuditablePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestHttpMethodToAction(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{http.MethodGet, "read"},
		{http.MethodHead, "read"},
		{http.MethodPost, "create"},
		{http.MethodPut, "update"},
		{http.MethodPatch, "update"},
		{http.MethodDelete, "delete"},
		{"OPTIONS", "read"},
	}
	for _, tt := range tests {
		if got := httpMethodToAction(tt.method); got != tt.want {
			t.Errorf("httpMethodToAction(%q) = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestExtractResourceType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/patients", "patients"},
		{"/api/v1/patients/123", "patients"},
		{"/api/v1/product-applications", "product-applications"},
		{"/api/v1/", "unknown"},
		{"/health", "unknown"},
	}
	for _, tt := range tests {
		if got := extractResourceType(tt.path); got != tt.want {
			t.Errorf("extractResourceType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExtractPatientID(t *testing.T) {
	id := uuid.NewString()

	c, _ := newTestContext(http.MethodGet, "/api/v1/patients/"+id)
	if got := extractPatientID(c); got != id {
		t.Errorf("expected %s, got %q", id, got)
	}

	c, _ = newTestContext(http.MethodGet, "/api/v1/patients/not-a-uuid")
	if got := extractPatientID(c); got != "" {
		t.Errorf("expected empty for non-UUID path segment, got %q", got)
	}

	c, _ = newTestContext(http.MethodGet, "/api/v1/encounters")
	if got := extractPatientID(c); got != "" {
		t.Errorf("expected empty for path without patient, got %q", got)
	}
}

func TestIsUUIDLike(t *testing.T) {
	if !isUUIDLike(uuid.NewString()) {
		t.Error("expected UUID to be recognized")
	}
	if isUUIDLike("abc") {
		t.Error("expected non-UUID to be rejected")
	}
	if isUUIDLike("") {
		t.Error("expected empty string to be rejected")
	}
}

func TestAuditRecorderFunc(t *testing.T) {
	called := false
	f := AuditRecorderFunc(func(entry AuditEntry) error {
		called = true
		return nil
	})
	if err := f.RecordAccess(AuditEntry{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected adapter to invoke the function")
	}
}
