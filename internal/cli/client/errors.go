package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthError is returned for failed API calls: rejected credentials, server
// errors and transport failures alike.
type AuthError struct {
	Status int    // HTTP status, 0 for transport failures
	Detail string // Human-readable detail supplied by the server, if any
	Err    error  // Underlying transport or decoding error, if any
}

func (e *AuthError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
	case e.Err != nil && e.Status == 0:
		return fmt.Sprintf("api request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("api error (status %d): %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Detail returns the server-supplied detail message carried by err, if any.
func Detail(err error) (string, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Detail != "" {
		return authErr.Detail, true
	}
	return "", false
}

// IsUnauthorized reports whether err is a 401 or 403 from the API
func IsUnauthorized(err error) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Status == http.StatusUnauthorized || authErr.Status == http.StatusForbidden
}

// parseDetail extracts FastAPI's "detail" field. It is either a string or a
// list of validation errors with a "msg" each.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
