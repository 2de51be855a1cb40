package handlers

import (
	"encoding/json"
	"net/http"

	"imageforge/internal/domain"
	"imageforge/internal/infra"
	"imageforge/internal/providers/image"
	"imageforge/internal/storage"
	"imageforge/internal/style"
)

// App bundles the dependencies shared by HTTP handlers. The HTTP surface is
// a thin caller: it forwards parameters to the generation core and renders
// whatever artifact path or error comes back.
type App struct {
	Generator image.Generator
	Styles    *style.Registry
	Store     *storage.ArtifactStore
	// History is optional; a nil repository disables persistence.
	History domain.HistoryRepository
	Logger  infra.Logger
}

// NewApp builds the handler container.
func NewApp(generator image.Generator, styles *style.Registry, store *storage.ArtifactStore, history domain.HistoryRepository, logger infra.Logger) *App {
	return &App{
		Generator: generator,
		Styles:    styles,
		Store:     store,
		History:   history,
		Logger:    logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
