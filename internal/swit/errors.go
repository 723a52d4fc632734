package swit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoCredentialSource is returned when no token provider is configured and
// the static token environment variable is unset.
var ErrNoCredentialSource = errors.New("no OAuth manager provided and SWIT_API_TOKEN environment variable is not set")

// InvalidArgumentsError names the request field that failed validation.
type InvalidArgumentsError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Reason
	}
	return fmt.Sprintf("invalid arguments: %s %s", e.Field, e.Reason)
}

// APIError is a non-2xx response from the Swit API. Payload holds the
// response body exactly as received (as a JSON string when it was not JSON).
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Payload    json.RawMessage
}

func (e *APIError) Error() string {
	var compact bytes.Buffer
	if err := json.Compact(&compact, e.Payload); err != nil {
		return "Swit API Error: " + string(e.Payload)
	}
	return "Swit API Error: " + compact.String()
}

// errorEnvelope is the documented {"error": {code, message}} failure body.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		raw, _ := json.Marshal(string(body))
		e.Payload = raw
		return e
	}

	e.Payload = json.RawMessage(trimmed)
	var env errorEnvelope
	if err := json.Unmarshal(trimmed, &env); err == nil {
		e.Code = env.Error.Code
		e.Message = env.Error.Message
	}
	return e
}
