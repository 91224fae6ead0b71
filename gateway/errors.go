package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a gateway failure for programmatic handling.
type Kind string

const (
	KindMalformedToken Kind = "malformed-token"
	KindExpiredToken   Kind = "expired-token"
	KindNetwork        Kind = "network"
	KindUnauthorized   Kind = "unauthorized"
	KindServer         Kind = "server"
	KindTransient      Kind = "transient-retryable"
	KindValidation     Kind = "validation"
	KindUnknown        Kind = "unknown"
)

// User-facing failure summaries. Only the message is rewritten; status and
// body always carry the original response.
const (
	msgNetwork = "Network error. Please check your connection."
	msgServer  = "Server error. Please try again later."
	msgExpired = "Session expired. Please log in again."
)

// Error is the one failure type the gateway surfaces. Message is the
// user-facing summary; Status and Body preserve the original response for
// programmatic inspection.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Body    []byte
	// Retried marks a transient failure that already consumed its one retry.
	Retried bool

	cause error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError unwraps err into the gateway's failure type.
func AsError(err error) (*Error, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr, true
	}
	return nil, false
}

// apiMessage pulls the human-readable message out of an API error payload,
// which arrives as {"error": "..."} or {"message": "..."}.
func apiMessage(body []byte) (string, bool) {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	if payload.Error != "" {
		return payload.Error, true
	}
	if payload.Message != "" {
		return payload.Message, true
	}
	return "", false
}
