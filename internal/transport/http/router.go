// Package httptransport assembles the HTTP surface. Routing and JSON
// plumbing only; the workflow semantics live in the service layer.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	requesthandler "irdesk/internal/request/handler"
	"irdesk/pkg/platform/middleware/auth"
	"irdesk/pkg/platform/middleware/metadata"
)

// NewRouter wires all endpoints. Every workflow route sits behind the
// authorization gate; metrics and health stay open for the platform.
func NewRouter(requests *requesthandler.Handler, verifier *auth.Verifier, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(metadata.Capture)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(verifier, logger))
		requests.Register(r)
	})

	return r
}
