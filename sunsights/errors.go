package sunsights

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResponse marks a 2xx response whose body is missing fields the
// operation requires (e.g. login without a token). Treated as a hard failure.
var ErrInvalidResponse = errors.New("invalid response format from server")

// ErrNotAuthenticated is returned when an operation needs a session and the
// token store is empty.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSessionExpired is returned when the persisted token's exp claim has
// already passed; the token is cleared before this is returned.
var ErrSessionExpired = errors.New("session expired")

// APIError is an HTTP-level failure: the server responded with a non-2xx
// status. ErrorField and MessageField carry the backend's structured error
// body when present.
type APIError struct {
	StatusCode   int
	ErrorField   string `json:"error"`
	MessageField string `json:"message"`
	RequestID    string `json:"-"`

	// Body is the raw response body, kept so callers can decode
	// operation-specific fields (e.g. a bulk upload's invalid_examples).
	Body []byte `json:"-"`
}

func (e *APIError) Error() string {
	msg := e.ErrorField
	if msg == "" {
		msg = e.MessageField
	}
	if msg == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, msg)
}

// NoValidCommentsError is the specific bulk-upload rejection for files whose
// rows could not be analyzed at all. InvalidExamples holds the backend's
// sample of unanalyzable rows.
type NoValidCommentsError struct {
	Details         string
	InvalidExamples []string
}

func (e *NoValidCommentsError) Error() string {
	return "no valid comments for sentiment analysis found in the file"
}

// noValidCommentsMarker matches the backend's 400 body for this case.
const noValidCommentsMarker = "no valid comments"

// UserMessage reduces any operation error to a single human-readable line:
// backend error field, then backend message field, then fallback. Network
// failures (no response at all) get a fixed connectivity message.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var nvc *NoValidCommentsError
	if errors.As(err, &nvc) {
		return nvc.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if s := strings.TrimSpace(apiErr.ErrorField); s != "" {
			return s
		}
		if s := strings.TrimSpace(apiErr.MessageField); s != "" {
			return s
		}
		return fallback
	}
	if IsNetworkError(err) {
		return "Unable to reach the server. Please check your connection."
	}
	if errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) {
		return err.Error()
	}
	return fallback
}

// networkError wraps a transport-level failure where no HTTP response was
// received.
type networkError struct {
	err error
}

func (e *networkError) Error() string { return "request failed: " + e.err.Error() }
func (e *networkError) Unwrap() error { return e.err }

// IsNetworkError reports whether err is a transport failure rather than an
// HTTP status or shape error.
func IsNetworkError(err error) bool {
	var ne *networkError
	return errors.As(err, &ne)
}
