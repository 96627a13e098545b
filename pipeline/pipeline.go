package pipeline

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Controller runs a route's business logic against a validated request and
// returns exactly one Outcome. Controllers return Failure/Exception for
// expected and wrapped faults; only programming errors may panic, and those
// are contained by the fault barrier.
type Controller func(ctx context.Context, req *Request) Outcome

// Instrumentor observes pipeline events. Implemented by adapters/metrics.
type Instrumentor interface {
	ValidationFailure(facet string)
	PanicRecovered()
}

// Pipeline composes route handlers out of three ordered stages: facet
// validation, controller execution, and a last-resort fault barrier.
type Pipeline struct {
	responder Responder
	logger    zerolog.Logger
	inst      Instrumentor
}

// Deps contains dependencies for the pipeline.
type Deps struct {
	Responder    Responder // defaults to JSONResponder
	Logger       zerolog.Logger
	Instrumentor Instrumentor // optional
}

// New creates a pipeline.
func New(deps Deps) *Pipeline {
	if deps.Responder == nil {
		deps.Responder = JSONResponder{}
	}
	return &Pipeline{
		responder: deps.Responder,
		logger:    deps.Logger,
		inst:      deps.Instrumentor,
	}
}

// Handle binds a facet schema and a controller into one route handler.
// Every request terminates in exactly one response: a 422 on the first
// failing facet, a 500 when the route carries no schema, the controller's
// classified outcome, or a generic 500 from the fault barrier.
func (p *Pipeline) Handle(s *Schema, ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s == nil {
			// Setup defect, not a client error: the route was registered
			// without a schema.
			p.logger.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("no validation schema found for route")
			p.responder.RespondError(w, http.StatusInternalServerError,
				"no validation schema found for route", Payload{})
			return
		}

		req, err := newRequest(r)
		if err != nil {
			p.responder.RespondError(w, http.StatusBadRequest,
				"unable to read request body", Payload{})
			return
		}

		if ferr := s.validate(r.Context(), req); ferr != nil {
			if p.inst != nil {
				p.inst.ValidationFailure(string(ferr.Facet))
			}
			p.responder.RespondError(w, http.StatusUnprocessableEntity, ferr.Error(), Payload{})
			return
		}

		p.execute(w, r, req, ctrl)
	}
}

// execute runs the controller under the fault barrier and maps its outcome
// onto the responder. The barrier wraps this stage only; validation failures
// are resolved before it.
func (p *Pipeline) execute(w http.ResponseWriter, r *http.Request, req *Request, ctrl Controller) {
	var sent bool
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		p.logger.Error().
			Interface("panic", v).
			Bytes("stack", debug.Stack()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("panic recovered in controller")
		if p.inst != nil {
			p.inst.PanicRecovered()
		}
		if !sent {
			p.responder.RespondError(w, http.StatusInternalServerError,
				"internal server error", Payload{})
		}
	}()

	out := ctrl(r.Context(), req)

	value, present := out.Payload()
	payload := Payload{Value: value, Present: present}

	if out.IsUnsuccessful() {
		if out.IsException() && out.Cause() != nil {
			// The cause is diagnostics only; it never reaches the client.
			p.logger.Error().
				Err(out.Cause()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg(out.Message())
		}
		sent = true
		p.responder.RespondError(w, out.Status(), out.Message(), payload)
		return
	}

	sent = true
	p.responder.RespondSuccess(w, out.Status(), out.Message(), payload)
}
