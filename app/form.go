// Package app contains the business-logic services. Controllers here run
// against validated requests and return pipeline outcomes; they never panic
// for expected conditions.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/formdesk/domain/form"
	"github.com/artpar/formdesk/pipeline"
	"github.com/artpar/formdesk/ports"
)

// FormService implements the business logic behind the form routes.
type FormService struct {
	store  ports.FormStore
	clock  ports.Clock
	ids    ports.IDGenerator
	logger zerolog.Logger
}

// NewFormService creates a form service.
func NewFormService(store ports.FormStore, clock ports.Clock, ids ports.IDGenerator, logger zerolog.Logger) *FormService {
	return &FormService{
		store:  store,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

// FormView is the JSON-facing projection of a form.
type FormView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Applicant string    `json:"applicant"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Category  string    `json:"category"`
	Priority  int       `json:"priority"`
	Details   string    `json:"details,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListView is the paged listing payload.
type ListView struct {
	Items   []FormView `json:"items"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
}

func viewOf(f form.Form) FormView {
	return FormView{
		ID:        f.ID,
		Title:     f.Title,
		Applicant: f.Applicant,
		Email:     f.Email,
		Phone:     f.Phone,
		Category:  string(f.Category),
		Priority:  f.Priority,
		Details:   f.Details,
		Status:    string(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

const defaultPriority = 3

// Create stores a new form in draft status.
func (s *FormService) Create(ctx context.Context, req *pipeline.Request) pipeline.Outcome {
	now := s.clock.Now()
	f := form.Form{
		ID:        s.ids.New(),
		Title:     strField(req.Body, "title"),
		Applicant: strField(req.Body, "applicant"),
		Email:     strField(req.Body, "email"),
		Phone:     strField(req.Body, "phone"),
		Category:  form.Category(strField(req.Body, "category")),
		Priority:  intField(req.Body, "priority", defaultPriority),
		Details:   strField(req.Body, "details"),
		Status:    form.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, f); err != nil {
		return pipeline.Exception("could not store form", pipeline.WithCause(err))
	}

	s.logger.Info().Str("form_id", f.ID).Str("category", string(f.Category)).Msg("form created")
	return pipeline.Success(viewOf(f),
		pipeline.WithMessage("form created"),
		pipeline.WithStatus(http.StatusCreated))
}

// Get returns a single form by ID.
func (s *FormService) Get(ctx context.Context, req *pipeline.Request) pipeline.Outcome {
	id := strField(req.Params, "id")

	f, err := s.store.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return pipeline.Failure("form not found", pipeline.WithStatus(http.StatusNotFound))
	}
	if err != nil {
		return pipeline.Exception("could not load form", pipeline.WithCause(err))
	}
	return pipeline.Success(viewOf(f))
}

// List returns a page of forms, optionally filtered by status.
func (s *FormService) List(ctx context.Context, req *pipeline.Request) pipeline.Outcome {
	page := intField(req.Query, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := intField(req.Query, "per_page", 20)
	if perPage < 1 {
		perPage = 20
	}
	status := form.Status(strField(req.Query, "status"))

	filter := ports.FormFilter{
		Status: status,
		Offset: (page - 1) * perPage,
		Limit:  perPage,
	}

	forms, err := s.store.List(ctx, filter)
	if err != nil {
		return pipeline.Exception("could not list forms", pipeline.WithCause(err))
	}
	total, err := s.store.Count(ctx, status)
	if err != nil {
		return pipeline.Exception("could not count forms", pipeline.WithCause(err))
	}

	items := make([]FormView, 0, len(forms))
	for _, f := range forms {
		items = append(items, viewOf(f))
	}
	return pipeline.Success(ListView{Items: items, Total: total, Page: page, PerPage: perPage})
}

// Update applies a partial update to a form. Only the fields present in the
// body are overwritten; status changes go through Transition instead.
func (s *FormService) Update(ctx context.Context, req *pipeline.Request) pipeline.Outcome {
	id := strField(req.Params, "id")

	f, err := s.store.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return pipeline.Failure("form not found", pipeline.WithStatus(http.StatusNotFound))
	}
	if err != nil {
		return pipeline.Exception("could not load form", pipeline.WithCause(err))
	}

	if v, ok := req.Body["title"]; ok {
		f.Title = asString(v)
	}
	if v, ok := req.Body["applicant"]; ok {
		f.Applicant = asString(v)
	}
	if v, ok := req.Body["email"]; ok {
		f.Email = asString(v)
	}
	if v, ok := req.Body["phone"]; ok {
		f.Phone = asString(v)
	}
	if v, ok := req.Body["category"]; ok {
		f.Category = form.Category(asString(v))
	}
	if v, ok := req.Body["priority"]; ok {
		f.Priority = asInt(v, f.Priority)
	}
	if v, ok := req.Body["details"]; ok {
		f.Details = asString(v)
	}
	f.UpdatedAt = s.clock.Now()

	if err := s.store.Update(ctx, f); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return pipeline.Failure("form not found", pipeline.WithStatus(http.StatusNotFound))
		}
		return pipeline.Exception("could not update form", pipeline.WithCause(err))
	}

	return pipeline.Success(viewOf(f), pipeline.WithMessage("form updated"))
}

// Delete removes a form.
func (s *FormService) Delete(ctx context.Context, req *pipeline.Request) pipeline.Outcome {
	id := strField(req.Params, "id")

	err := s.store.Delete(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return pipeline.Failure("form not found", pipeline.WithStatus(http.StatusNotFound))
	}
	if err != nil {
		return pipeline.Exception("could not delete form", pipeline.WithCause(err))
	}

	return pipeline.SuccessMessage("form deleted")
}

// Transition moves a form along its status lifecycle. Disallowed moves are
// anticipated rejections, surfaced as a 409.
func (s *FormService) Transition(ctx context.Context, req *pipeline.Request) pipeline.Outcome {
	id := strField(req.Params, "id")
	to := form.Status(strField(req.Body, "status"))

	f, err := s.store.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return pipeline.Failure("form not found", pipeline.WithStatus(http.StatusNotFound))
	}
	if err != nil {
		return pipeline.Exception("could not load form", pipeline.WithCause(err))
	}

	if !form.CanTransition(f.Status, to) {
		return pipeline.Failure(
			fmt.Sprintf("cannot transition form from %s to %s", f.Status, to),
			pipeline.WithStatus(http.StatusConflict))
	}

	f.Status = to
	f.UpdatedAt = s.clock.Now()
	if err := s.store.Update(ctx, f); err != nil {
		return pipeline.Exception("could not update form", pipeline.WithCause(err))
	}

	s.logger.Info().Str("form_id", f.ID).Str("status", string(to)).Msg("form transitioned")
	return pipeline.Success(viewOf(f), pipeline.WithMessage("form "+string(to)))
}

// strField reads a string field from a validated facet map.
func strField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	return asString(m[key])
}

// intField reads a numeric field from a validated facet map, falling back to
// def when absent.
func intField(m map[string]any, key string, def int) int {
	if m == nil {
		return def
	}
	v, ok := m[key]
	if !ok {
		return def
	}
	return asInt(v, def)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt converts the numeric representations a parsed facet may hold.
// goskema number schemas yield json.Number.
func asInt(v any, def int) int {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return def
		}
		return int(i)
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return def
}
