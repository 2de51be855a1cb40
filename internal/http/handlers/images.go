package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"imageforge/internal/domain"
	"imageforge/internal/middleware"
	"imageforge/internal/providers/image"
	"imageforge/internal/style"
)

type generateImageRequest struct {
	Prompt         string  `json:"prompt"`
	Style          string  `json:"style,omitempty"`
	Quality        string  `json:"quality,omitempty"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	ExtraDetail    string  `json:"extra_detail,omitempty"`
	Locale         string  `json:"locale,omitempty"`
	Seed           *uint32 `json:"seed,omitempty"`
	Mode           string  `json:"mode,omitempty"`
	ReferenceImage string  `json:"reference_image,omitempty"`
	UseMock        bool    `json:"use_mock,omitempty"`
}

type generateImageResponse struct {
	Artifact string `json:"artifact"`
	Seed     uint32 `json:"seed"`
	Origin   string `json:"origin"`
	JobID    string `json:"job_id,omitempty"`
}

// GenerateImage handles POST /v1/images/generations. The call blocks until
// the generation core returns; the poll loop is bounded, so the worst case
// is the configured attempt budget.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var body generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req := image.GenerationRequest{
		BasePrompt:         body.Prompt,
		StyleKey:           body.Style,
		Quality:            style.ParseQuality(body.Quality),
		NegativePrompt:     body.NegativePrompt,
		ExtraDetail:        body.ExtraDetail,
		Locale:             body.Locale,
		Seed:               body.Seed,
		Mode:               image.NormalizeMode(body.Mode),
		ReferenceImagePath: body.ReferenceImage,
		UseMock:            body.UseMock,
		RequestID:          middleware.RequestIDFromContext(r.Context()),
	}

	result, err := a.Generator.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, image.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.Logger.Error().Err(err).Str("request_id", req.RequestID).Msg("handlers: generation failed")
		writeError(w, http.StatusInternalServerError, "image generation failed")
		return
	}

	a.recordHistory(r, req, result)

	writeJSON(w, http.StatusOK, generateImageResponse{
		Artifact: filepath.Base(result.ArtifactPath),
		Seed:     result.Seed,
		Origin:   string(result.Origin),
		JobID:    result.JobID,
	})
}

// DownloadImage handles GET /v1/images/{name}, serving a generated artifact.
func (a *App) DownloadImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := a.Store.Open(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}
	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	_, _ = w.Write(data)
}

// ListStyles handles GET /v1/styles.
func (a *App) ListStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"styles": a.Styles.Keys()})
}

// recordHistory persists the finished generation when a repository is
// configured. Persistence is best-effort and never fails the request.
func (a *App) recordHistory(r *http.Request, req image.GenerationRequest, result *image.GenerationResult) {
	if a.History == nil {
		return
	}
	rec := &domain.HistoryRecord{
		ID:           uuid.NewString(),
		RequestID:    req.RequestID,
		Prompt:       req.BasePrompt,
		StyleKey:     req.StyleKey,
		Quality:      string(req.Quality),
		Mode:         string(req.Mode),
		Origin:       string(result.Origin),
		Seed:         result.Seed,
		JobID:        result.JobID,
		ArtifactPath: result.ArtifactPath,
		CreatedAt:    time.Now(),
	}
	if err := a.History.Record(r.Context(), rec); err != nil {
		a.Logger.Warn().Err(err).Str("request_id", req.RequestID).Msg("handlers: history record failed")
	}
}
