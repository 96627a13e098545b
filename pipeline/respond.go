package pipeline

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// Payload wraps an optional response payload. The zero value means absent:
// the data key is omitted from the envelope. A present payload serializes
// even when its value is nil, zero or empty.
type Payload struct {
	Value   any
	Present bool
}

// Responder turns a classified outcome into a concrete HTTP response.
// Calling either method exactly once fully resolves the request.
type Responder interface {
	RespondSuccess(w http.ResponseWriter, status int, message string, payload Payload)
	RespondError(w http.ResponseWriter, status int, message string, payload Payload)
}

// JSONResponder writes the uniform envelope
// {"success": bool, "message": string, "data"?: payload}.
type JSONResponder struct{}

func (JSONResponder) RespondSuccess(w http.ResponseWriter, status int, message string, payload Payload) {
	writeEnvelope(w, status, true, message, payload)
}

func (JSONResponder) RespondError(w http.ResponseWriter, status int, message string, payload Payload) {
	writeEnvelope(w, status, false, message, payload)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type envelopeWithData struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, payload Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload.Present {
		json.NewEncoder(w).Encode(envelopeWithData{Success: success, Message: message, Data: payload.Value})
		return
	}
	json.NewEncoder(w).Encode(envelope{Success: success, Message: message})
}
