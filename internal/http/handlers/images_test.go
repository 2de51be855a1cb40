package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
	"imageforge/internal/infra"
	"imageforge/internal/providers/image"
	"imageforge/internal/storage"
	"imageforge/internal/style"
)

type stubGenerator struct {
	result  *image.GenerationResult
	err     error
	lastReq image.GenerationRequest
}

func (s *stubGenerator) Generate(ctx context.Context, req image.GenerationRequest) (*image.GenerationResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type recordingHistory struct {
	records []*domain.HistoryRecord
	err     error
}

func (h *recordingHistory) Record(ctx context.Context, rec *domain.HistoryRecord) error {
	h.records = append(h.records, rec)
	return h.err
}

func (h *recordingHistory) GetByID(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	return nil, domain.ErrNotFound
}

func newTestApp(t *testing.T, gen image.Generator, history domain.HistoryRepository) *App {
	t.Helper()
	store, err := storage.NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := infra.Logger(zerolog.New(io.Discard))
	return NewApp(gen, style.NewRegistry(), store, history, logger)
}

func TestGenerateImage(t *testing.T) {
	gen := &stubGenerator{result: &image.GenerationResult{
		ArtifactPath: "/data/outputs/rh_1_42.png",
		Seed:         42,
		Origin:       image.OriginRemote,
		JobID:        "task-1",
	}}
	history := &recordingHistory{}
	app := newTestApp(t, gen, history)

	body := `{"prompt":"熊猫坐在竹林中","style":"水彩","quality":"hd","seed":42}`
	req := httptest.NewRequest(http.MethodPost, "/v1/images/generations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp generateImageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Artifact != "rh_1_42.png" || resp.Seed != 42 || resp.Origin != "remote" || resp.JobID != "task-1" {
		t.Fatalf("response %+v", resp)
	}
	if gen.lastReq.Quality != style.QualityHD {
		t.Fatalf("quality = %s", gen.lastReq.Quality)
	}
	if gen.lastReq.Seed == nil || *gen.lastReq.Seed != 42 {
		t.Fatalf("seed not forwarded")
	}
	if len(history.records) != 1 || history.records[0].Seed != 42 {
		t.Fatalf("history records %+v", history.records)
	}
}

func TestGenerateImageValidationError(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: prompt is required", image.ErrValidation)}
	app := newTestApp(t, gen, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/images/generations", strings.NewReader(`{"prompt":""}`))
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestGenerateImageInternalError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("store exploded")}
	app := newTestApp(t, gen, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/images/generations", strings.NewReader(`{"prompt":"山"}`))
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestGenerateImageMalformedBody(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/images/generations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestGenerateImageHistoryFailureDoesNotFailRequest(t *testing.T) {
	gen := &stubGenerator{result: &image.GenerationResult{ArtifactPath: "mock_1_1.png", Seed: 1, Origin: image.OriginLocalFallback}}
	history := &recordingHistory{err: errors.New("db down")}
	app := newTestApp(t, gen, history)

	req := httptest.NewRequest(http.MethodPost, "/v1/images/generations", strings.NewReader(`{"prompt":"山"}`))
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestListStyles(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/styles", nil)
	rec := httptest.NewRecorder()
	app.ListStyles(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp["styles"]) == 0 {
		t.Fatalf("no styles returned")
	}
}
