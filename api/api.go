// Package api wires the form routes into composed pipeline handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/artpar/formdesk/adapters/metrics"
	"github.com/artpar/formdesk/app"
	"github.com/artpar/formdesk/pipeline"
)

// Handler provides the JSON API endpoints.
type Handler struct {
	forms       *app.FormService
	pipe        *pipeline.Pipeline
	metrics     *metrics.Collector
	metricsPath string
	logger      zerolog.Logger
}

// Deps contains dependencies for the API handler.
type Deps struct {
	Forms       *app.FormService
	Pipeline    *pipeline.Pipeline
	Metrics     *metrics.Collector // optional; nil disables /metrics
	MetricsPath string             // defaults to /metrics
	Logger      zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	if deps.MetricsPath == "" {
		deps.MetricsPath = "/metrics"
	}
	return &Handler{
		forms:       deps.Forms,
		pipe:        deps.Pipeline,
		metrics:     deps.Metrics,
		metricsPath: deps.MetricsPath,
		logger:      deps.Logger,
	}
}

// Router returns the API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
		r.Handle(h.metricsPath, promhttp.Handler())
	}

	r.Get("/healthz", h.Health)

	r.Route("/api/forms", func(r chi.Router) {
		r.Post("/", h.pipe.Handle(createFormSchema, h.forms.Create))
		r.Get("/", h.pipe.Handle(listFormsSchema, h.forms.List))
		r.Get("/{id}", h.pipe.Handle(formIDSchema, h.forms.Get))
		r.Put("/{id}", h.pipe.Handle(updateFormSchema, h.forms.Update))
		r.Delete("/{id}", h.pipe.Handle(formIDSchema, h.forms.Delete))
		r.Post("/{id}/status", h.pipe.Handle(transitionFormSchema, h.forms.Transition))
	})

	return r
}

// Health reports liveness. It sits outside the pipeline on purpose: no
// schema, no classification, just a fixed payload.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
