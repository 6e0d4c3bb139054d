package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"deckgen/internal/http/handlers"
	ratelimit "deckgen/internal/middleware"
)

// NewRouter assembles the API surface. Submission endpoints are rate limited
// per client; polling endpoints are not, since clients poll in a loop.
func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Get("/api/health", app.Health)
	r.Get("/api/config", app.Config)

	r.Group(func(r chi.Router) {
		r.Use(ratelimit.PerClient(10, time.Minute))
		r.Post("/api/generate", app.Generate)
		r.Post("/api/upload", app.Upload)
	})

	r.Get("/api/status/{id}", app.Status)
	r.Get("/api/preview/{id}", app.Preview)
	r.Get("/api/download/{id}", app.Download)
	r.Post("/api/cancel/{id}", app.Cancel)
	r.Get("/api/jobs", app.Jobs)
	r.Get("/api/history", app.History)

	return r
}
