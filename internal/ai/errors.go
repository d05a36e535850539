// ABOUTME: Error classification for generative API calls.
// ABOUTME: Only credential failures are permanent; every other kind is retried.

package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindAuth              Kind = "auth"
	KindRateLimit         Kind = "rate_limit"
	KindBadRequest        Kind = "bad_request"
	KindHTTP              Kind = "http"
	KindMalformedResponse Kind = "malformed_response"
	KindTransport         Kind = "transport"
)

// Error describes one failed generation attempt.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) IsAuth() bool {
	return e.Kind == KindAuth
}

func (e *Error) Retryable() bool {
	return e.Kind != KindAuth
}

func classifyStatus(status int, body []byte) *Error {
	msg := errorMessage(body)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindAuth, Status: status, Message: msg}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, Status: status, Message: msg}
	case http.StatusBadRequest:
		return &Error{Kind: KindBadRequest, Status: status, Message: msg}
	default:
		return &Error{Kind: KindHTTP, Status: status, Message: msg}
	}
}

// errorMessage pulls error.message out of a JSON error body, falling back to
// the raw body.
func errorMessage(body []byte) string {
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}
