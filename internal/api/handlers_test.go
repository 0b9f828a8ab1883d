package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/habla-dev/habla/internal/metrics"
	"github.com/habla-dev/habla/internal/translate"
	"github.com/habla-dev/habla/pkg/logger"
)

type stubTranslator struct {
	result *translate.Result
	err    error
	gotReq translate.Request
}

func (s *stubTranslator) Translate(ctx context.Context, req translate.Request) (*translate.Result, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestHandler(t *testing.T, tr Translator) *Handler {
	t.Helper()
	tracker, err := metrics.NewTracker(10, logger.NewNop())
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	return NewHandler(tr, tracker, nil, nil, logger.NewNop())
}

func TestTranslateSuccess(t *testing.T) {
	tr := &stubTranslator{result: &translate.Result{Text: "Hello", Source: translate.SourceModel}}
	handler := newTestHandler(t, tr)

	req := httptest.NewRequest(http.MethodPost, "/translate",
		strings.NewReader(`{"text":"hola","direction":"es-en"}`))
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp translateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.OK || resp.Translated != "Hello" || resp.Original != "hola" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Source != "model" {
		t.Errorf("source = %q, want model", resp.Source)
	}
	if tr.gotReq.Direction != translate.EsToEn {
		t.Errorf("direction passed to translator = %v, want EsToEn", tr.gotReq.Direction)
	}
}

func TestTranslateInvalidDirection(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{})

	req := httptest.NewRequest(http.MethodPost, "/translate",
		strings.NewReader(`{"text":"hola","direction":"fr-en"}`))
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp translateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OK || resp.Error == "" {
		t.Errorf("expected error envelope, got %+v", resp)
	}
}

func TestTranslateBadJSON(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{})

	req := httptest.NewRequest(http.MethodPost, "/translate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTranslateBackendFailure(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{err: errors.New("runner exploded")})

	req := httptest.NewRequest(http.MethodPost, "/translate",
		strings.NewReader(`{"text":"hola","direction":"es-en"}`))
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestTranslateMissingModel(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{err: &translate.ModelNotFoundError{Path: "/no/such/model.gguf"}})

	req := httptest.NewRequest(http.MethodPost, "/translate",
		strings.NewReader(`{"text":"hola","direction":"es-en"}`))
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGetStatsReturnsSnapshot(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.GetStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snapshot metrics.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snapshot.MemoryMB <= 0 {
		t.Errorf("expected positive memory, got %v", snapshot.MemoryMB)
	}
	if len(snapshot.History) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(snapshot.History))
	}
}

func TestResetStats(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{})

	// Record one sample first
	handler.GetStats(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stats", nil))

	rec := httptest.NewRecorder()
	handler.ResetStats(rec, httptest.NewRequest(http.MethodPost, "/reset-stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if got := handler.tracker.History(); len(got) != 0 {
		t.Errorf("expected empty history after reset, got %d samples", len(got))
	}
}

func TestGetHistoryWithoutStorage(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{})

	rec := httptest.NewRecorder()
	handler.GetHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRouterServesAPIRoutes(t *testing.T) {
	handler := newTestHandler(t, &stubTranslator{result: &translate.Result{Text: "Hello", Source: translate.SourceDictionary}})
	router := NewRouter(handler, t.TempDir(), nil, logger.NewNop())

	srv := httptest.NewServer(router.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/translate", "application/json",
		strings.NewReader(`{"text":"hola","direction":"es-en"}`))
	if err != nil {
		t.Fatalf("POST /translate failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("POST /translate status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q, want *", got)
	}

	statsResp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatalf("GET /stats failed: %v", err)
	}
	statsResp.Body.Close()
	if statsResp.StatusCode != http.StatusOK {
		t.Errorf("GET /stats status = %d, want 200", statsResp.StatusCode)
	}
}
