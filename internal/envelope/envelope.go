// Package envelope shapes every backend outcome into the single response
// contract: either the success payload, or {"error": msg, "code": code}.
package envelope

import (
	"encoding/json"
	"errors"

	"github.com/dusk-indust/syntax-highlighter/internal/highlight"
	"github.com/dusk-indust/syntax-highlighter/internal/isolate"
)

// Codes attached to failures that do not come from a backend.
const (
	CodePanic          = "panic"
	CodeTimeout        = "timeout"
	CodeNotFound       = "resource_not_found"
	CodeInvalidRequest = "invalid_request"
)

const (
	activityHighlight = "highlighting code"
	activitySymbols   = "extracting symbols"
)

// Envelope is a normalized response. Exactly one of Payload and Err is set.
type Envelope struct {
	Payload any
	Err     string
	Code    string
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// DocumentPayload carries a base64 SCIP document under the "scip" key.
type DocumentPayload struct {
	Scip      string `json:"scip"`
	Plaintext bool   `json:"plaintext"`
}

// DataPayload carries highlighted output under the "data" key.
type DataPayload struct {
	Data      string `json:"data"`
	Plaintext bool   `json:"plaintext"`
}

// OK wraps a success payload.
func OK(payload any) Envelope {
	return Envelope{Payload: payload}
}

// Fail builds an error envelope. An empty code is omitted from the body.
func Fail(msg, code string) Envelope {
	return Envelope{Err: msg, Code: code}
}

// NotFound is the body returned for unrouted requests.
func NotFound() Envelope {
	return Fail("resource not found", CodeNotFound)
}

// InvalidRequest reports a request body that could not be decoded.
func InvalidRequest(err error) Envelope {
	return Fail(err.Error(), CodeInvalidRequest)
}

// IsError reports whether e describes a failure.
func (e Envelope) IsError() bool {
	return e.Err != "" || e.Payload == nil
}

// MarshalJSON writes the payload on success and the error body otherwise.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.IsError() {
		return json.Marshal(errorBody{Error: e.Err, Code: e.Code})
	}
	return json.Marshal(e.Payload)
}

// FromLegacy normalizes the outcome of the HTML highlighter.
func FromLegacy(res *highlight.LegacyResult, err error) Envelope {
	if err != nil {
		return fromHighlightError(err)
	}
	return OK(DataPayload{Data: res.Data, Plaintext: res.Plaintext})
}

// FromLsif normalizes a structured highlight requested in the older shape.
func FromLsif(res *highlight.DocumentResult, err error) Envelope {
	if err != nil {
		return fromHighlightError(err)
	}
	return OK(DataPayload{Data: res.Encoded, Plaintext: res.Plaintext})
}

// FromScip normalizes a structured highlight.
func FromScip(res *highlight.DocumentResult, err error) Envelope {
	if err != nil {
		return fromHighlightError(err)
	}
	return OK(DocumentPayload{Scip: res.Encoded, Plaintext: res.Plaintext})
}

// FromSymbols normalizes an encoded symbol document.
func FromSymbols(encoded string, err error) Envelope {
	if err != nil {
		if env, ok := fromFault(err, activitySymbols); ok {
			return env
		}
		return Fail(err.Error(), "")
	}
	return OK(DocumentPayload{Scip: encoded, Plaintext: false})
}

// FromResolve reports a failure to determine a grammar from a file name.
func FromResolve(err error) Envelope {
	return Fail(err.Error(), "")
}

func fromHighlightError(err error) Envelope {
	if env, ok := fromFault(err, activityHighlight); ok {
		return env
	}
	var herr *highlight.Error
	if errors.As(err, &herr) {
		return Fail(herr.Message, herr.Code)
	}
	return Fail(err.Error(), "")
}

func fromFault(err error, activity string) (Envelope, bool) {
	switch {
	case errors.Is(err, isolate.ErrPanic):
		return Fail("panic while "+activity, CodePanic), true
	case errors.Is(err, isolate.ErrTimeout):
		return Fail("timed out while "+activity, CodeTimeout), true
	}
	return Envelope{}, false
}
