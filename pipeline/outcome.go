// Package pipeline implements the request validation and response pipeline
// every route is composed from: per-route facet schemas, a three-valued
// controller outcome, and a handler composer that guarantees exactly one
// uniformly shaped JSON response per request.
package pipeline

import "net/http"

// kind discriminates the three outcome variants. It stays unexported so the
// only way to inspect an Outcome is through the predicates below.
type kind uint8

const (
	kindSuccess kind = iota
	kindFailure
	kindException
)

const defaultSuccessMessage = "request completed successfully"

// Outcome is the sole return value of a controller. Exactly one variant is
// active: Success carries an optional payload, Failure is an anticipated
// business-rule rejection, Exception is an unanticipated fault the controller
// converted into data. Controllers never panic for expected conditions.
type Outcome struct {
	kind       kind
	status     int
	message    string
	payload    any
	hasPayload bool
	cause      error
}

// Option adjusts an Outcome at construction time.
type Option func(*Outcome)

// WithStatus overrides the variant's default HTTP status code.
func WithStatus(status int) Option {
	return func(o *Outcome) {
		if status != 0 {
			o.status = status
		}
	}
}

// WithMessage overrides the variant's default message.
func WithMessage(message string) Option {
	return func(o *Outcome) {
		if message != "" {
			o.message = message
		}
	}
}

// WithPayload attaches a payload. Presence is what matters: a nil, zero or
// empty payload attached here still serializes under the data key.
func WithPayload(payload any) Option {
	return func(o *Outcome) {
		o.payload = payload
		o.hasPayload = true
	}
}

// WithCause attaches the underlying fault to an Exception. The cause is kept
// for logging only and is never serialized to the client.
func WithCause(err error) Option {
	return func(o *Outcome) {
		o.cause = err
	}
}

// Success builds a successful outcome carrying payload. Defaults: 200 and a
// generic confirmation message.
func Success(payload any, opts ...Option) Outcome {
	o := Outcome{
		kind:       kindSuccess,
		status:     http.StatusOK,
		message:    defaultSuccessMessage,
		payload:    payload,
		hasPayload: true,
	}
	return o.apply(opts)
}

// SuccessMessage builds a successful outcome with no payload; the response
// omits the data key entirely.
func SuccessMessage(message string, opts ...Option) Outcome {
	o := Outcome{
		kind:    kindSuccess,
		status:  http.StatusOK,
		message: defaultSuccessMessage,
	}
	if message != "" {
		o.message = message
	}
	return o.apply(opts)
}

// Failure builds an anticipated business-rule rejection. Default status 400.
func Failure(message string, opts ...Option) Outcome {
	o := Outcome{
		kind:    kindFailure,
		status:  http.StatusBadRequest,
		message: message,
	}
	return o.apply(opts)
}

// Exception builds an unanticipated-fault outcome. Default status 500; no
// cause is attached unless one is passed via WithCause.
func Exception(message string, opts ...Option) Outcome {
	o := Outcome{
		kind:    kindException,
		status:  http.StatusInternalServerError,
		message: message,
	}
	return o.apply(opts)
}

func (o Outcome) apply(opts []Option) Outcome {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// IsSuccess reports whether the outcome is the Success variant.
func (o Outcome) IsSuccess() bool { return o.kind == kindSuccess }

// IsFailure reports whether the outcome is the Failure variant.
func (o Outcome) IsFailure() bool { return o.kind == kindFailure }

// IsException reports whether the outcome is the Exception variant.
func (o Outcome) IsException() bool { return o.kind == kindException }

// IsUnsuccessful reports whether the outcome is Failure or Exception.
func (o Outcome) IsUnsuccessful() bool { return o.kind != kindSuccess }

// Status returns the HTTP status code chosen for this outcome.
func (o Outcome) Status() int { return o.status }

// Message returns the human-readable message.
func (o Outcome) Message() string { return o.message }

// Payload returns the payload and whether one is present. Presence, not
// truthiness: an attached nil or empty payload reports present.
func (o Outcome) Payload() (any, bool) { return o.payload, o.hasPayload }

// Cause returns the underlying fault attached to an Exception, if any.
func (o Outcome) Cause() error { return o.cause }
