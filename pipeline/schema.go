package pipeline

import (
	"context"
	"fmt"
	"strings"

	goskema "github.com/reoring/goskema"
)

// Facet identifies one of the three independently validated request parts.
type Facet string

const (
	FacetParams Facet = "Params"
	FacetQuery  Facet = "Query"
	FacetBody   Facet = "Body"
)

// Schema declares, per route, the accepted shape of each request facet.
// A nil facet schema means no constraint: that facet passes through
// unchanged. Schemas are built once at route setup and shared read-only
// across requests.
type Schema struct {
	Params goskema.Schema[map[string]any]
	Query  goskema.Schema[map[string]any]
	Body   goskema.Schema[map[string]any]
}

// FacetError reports the first facet that failed validation.
type FacetError struct {
	Facet  Facet
	Issues goskema.Issues
}

// Error formats the single human-readable message surfaced to the client:
// "request validation failed in [<Facet>]: <field detail>".
func (e *FacetError) Error() string {
	return fmt.Sprintf("request validation failed in [%s]: %s", e.Facet, issueDetail(e.Issues))
}

func issueDetail(issues goskema.Issues) string {
	if len(issues) == 0 {
		return "invalid value"
	}
	parts := make([]string, 0, len(issues))
	for _, iss := range issues {
		field := strings.TrimPrefix(iss.Path, "/")
		if field == "" {
			parts = append(parts, iss.Message)
			continue
		}
		parts = append(parts, field+": "+iss.Message)
	}
	return strings.Join(parts, "; ")
}

// validate parses the facets in fixed order: params, then query, then body.
// It stops at the first failing facet; only that facet's error is surfaced.
// On success each validated facet slot is overwritten with the coerced value.
func (s *Schema) validate(ctx context.Context, req *Request) *FacetError {
	if s.Params != nil {
		parsed, err := s.Params.Parse(ctx, req.Params)
		if err != nil {
			return newFacetError(FacetParams, err)
		}
		req.Params = parsed
	}

	if s.Query != nil {
		parsed, err := s.Query.Parse(ctx, req.Query)
		if err != nil {
			return newFacetError(FacetQuery, err)
		}
		req.Query = parsed
	}

	if s.Body != nil {
		// Parse from the wire bytes so malformed JSON and duplicate keys
		// surface as body-facet issues.
		parsed, err := goskema.ParseFrom(ctx, s.Body, goskema.JSONBytes(req.rawBody))
		if err != nil {
			return newFacetError(FacetBody, err)
		}
		req.Body = parsed
	}

	return nil
}

func newFacetError(facet Facet, err error) *FacetError {
	if issues, ok := goskema.AsIssues(err); ok {
		return &FacetError{Facet: facet, Issues: issues}
	}
	return &FacetError{Facet: facet, Issues: goskema.Issues{{
		Path:    "/",
		Code:    goskema.CodeParseError,
		Message: err.Error(),
	}}}
}
