package api

import (
	"context"
	"encoding/json"
	"net/mail"
	"regexp"

	goskema "github.com/reoring/goskema"
	g "github.com/reoring/goskema/dsl"

	"github.com/artpar/formdesk/domain/form"
	"github.com/artpar/formdesk/pipeline"
)

// Facet schemas are built once here and shared read-only across requests.
var (
	createFormSchema = &pipeline.Schema{
		Body: g.Object().
			Field("title", g.StringOf[string]()).
			Field("applicant", g.StringOf[string]()).
			Field("email", g.StringOf[string]()).
			Field("phone", g.StringOf[string]()).
			Field("category", g.StringOf[string]()).
			Field("priority", g.SchemaOf[json.Number](g.NumberJSON().CoerceFromString())).
			Field("details", g.StringOf[string]()).
			Require("title", "applicant", "email", "category").
			UnknownStrict().
			Refine("email", emailRule).
			Refine("category", categoryRule).
			Refine("priority", priorityRule).
			MustBuild(),
	}

	listFormsSchema = &pipeline.Schema{
		Query: g.Object().
			Field("page", g.SchemaOf[json.Number](g.NumberJSON().CoerceFromString())).
			Field("per_page", g.SchemaOf[json.Number](g.NumberJSON().CoerceFromString())).
			Field("status", g.StringOf[string]()).
			UnknownStrip().
			Refine("status", statusRule).
			Refine("page", positiveRule("page")).
			Refine("per_page", positiveRule("per_page")).
			MustBuild(),
	}

	formIDSchema = &pipeline.Schema{
		Params: idParams(),
	}

	updateFormSchema = &pipeline.Schema{
		Params: idParams(),
		Body: g.Object().
			Field("title", g.StringOf[string]()).
			Field("applicant", g.StringOf[string]()).
			Field("email", g.StringOf[string]()).
			Field("phone", g.StringOf[string]()).
			Field("category", g.StringOf[string]()).
			Field("priority", g.SchemaOf[json.Number](g.NumberJSON().CoerceFromString())).
			Field("details", g.StringOf[string]()).
			UnknownStrict().
			Refine("email", emailRule).
			Refine("category", categoryRule).
			Refine("priority", priorityRule).
			MustBuild(),
	}

	transitionFormSchema = &pipeline.Schema{
		Params: idParams(),
		Body: g.Object().
			Field("status", g.StringOf[string]()).
			Require("status").
			UnknownStrict().
			Refine("status", statusRule).
			MustBuild(),
	}
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func idParams() goskema.Schema[map[string]any] {
	return g.Object().
		Field("id", g.StringOf[string]()).
		Require("id").
		UnknownStrip().
		Refine("id", func(ctx context.Context, m map[string]any) error {
			id, _ := m["id"].(string)
			if !uuidPattern.MatchString(id) {
				return goskema.Issues{{
					Path:    "/id",
					Code:    goskema.CodeInvalidFormat,
					Message: "must be a UUID",
				}}
			}
			return nil
		}).
		MustBuild()
}

func emailRule(ctx context.Context, m map[string]any) error {
	v, ok := m["email"].(string)
	if !ok {
		return nil
	}
	if _, err := mail.ParseAddress(v); err != nil {
		return goskema.Issues{{
			Path:    "/email",
			Code:    goskema.CodeInvalidFormat,
			Message: "invalid email address",
		}}
	}
	return nil
}

func categoryRule(ctx context.Context, m map[string]any) error {
	v, ok := m["category"].(string)
	if !ok {
		return nil
	}
	if !form.ValidCategory(form.Category(v)) {
		return goskema.Issues{{
			Path:    "/category",
			Code:    goskema.CodeInvalidEnum,
			Message: "must be one of: sales, support, partnership, other",
		}}
	}
	return nil
}

func statusRule(ctx context.Context, m map[string]any) error {
	v, ok := m["status"].(string)
	if !ok {
		return nil
	}
	if !form.ValidStatus(form.Status(v)) {
		return goskema.Issues{{
			Path:    "/status",
			Code:    goskema.CodeInvalidEnum,
			Message: "must be one of: draft, submitted, approved, rejected",
		}}
	}
	return nil
}

func priorityRule(ctx context.Context, m map[string]any) error {
	v, ok := m["priority"].(json.Number)
	if !ok {
		return nil
	}
	n, err := v.Int64()
	if err != nil || n < 1 || n > 5 {
		return goskema.Issues{{
			Path:    "/priority",
			Code:    goskema.CodeDomainRange,
			Message: "must be an integer between 1 and 5",
		}}
	}
	return nil
}

func positiveRule(field string) func(context.Context, map[string]any) error {
	return func(ctx context.Context, m map[string]any) error {
		v, ok := m[field].(json.Number)
		if !ok {
			return nil
		}
		n, err := v.Int64()
		if err != nil || n < 1 {
			return goskema.Issues{{
				Path:    "/" + field,
				Code:    goskema.CodeDomainRange,
				Message: "must be a positive integer",
			}}
		}
		return nil
	}
}
