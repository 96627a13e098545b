package pipeline

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

// Request carries the three independently validated facets of an inbound
// request. After successful validation each slot holds the parsed, coerced
// value; controllers must never re-parse.
type Request struct {
	Params map[string]any
	Query  map[string]any
	Body   map[string]any

	rawBody []byte
	raw     *http.Request
}

// newRequest extracts the raw facet values from an HTTP request. Path
// parameters come from the chi route context, query parameters take the
// first value per key, and the body is buffered so the schema can parse it
// from the wire bytes.
func newRequest(r *http.Request) (*Request, error) {
	req := &Request{
		Params: make(map[string]any),
		Query:  make(map[string]any),
		raw:    r,
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			req.Params[key] = rctx.URLParams.Values[i]
		}
	}

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			req.Query[key] = values[0]
		}
	}

	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		req.rawBody = body
		// Best-effort decode for routes without a body schema; the schema
		// path re-parses from rawBody with full error reporting.
		if len(body) > 0 {
			var m map[string]any
			if err := json.Unmarshal(body, &m); err == nil {
				req.Body = m
			}
		}
	}

	return req, nil
}

// Context returns the transport request's context. Cancellation from the
// transport propagates to validation and controllers through it.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// HTTP returns the underlying transport request.
func (r *Request) HTTP() *http.Request {
	return r.raw
}
