package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"imageforge/internal/http/handlers"
	"imageforge/internal/middleware"
)

// NewRouter assembles the HTTP surface of the service.
func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer, middleware.Logger(app.Logger))

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/styles", app.ListStyles)

	r.Route("/v1/images", func(r chi.Router) {
		r.Post("/generations", app.GenerateImage)
		r.Get("/{name}", app.DownloadImage)
	})

	return r
}
