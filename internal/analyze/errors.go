package analyze

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies analysis failures for user-facing messaging
type Kind int

const (
	// KindConfiguration: missing/invalid credential, detected before any network call
	KindConfiguration Kind = iota
	// KindRateLimited: too many requests, wait and retry
	KindRateLimited
	// KindUnauthorized: credential rejected by the service
	KindUnauthorized
	// KindNotFound: endpoint or model not found, credential likely wrong
	KindNotFound
	// KindService: any other non-success response
	KindService
)

// Error is a typed analysis failure carrying a user-readable message
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status when applicable
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the failure kind from an error chain
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// IsRateLimited reports whether the error is a rate-limit failure
func IsRateLimited(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindRateLimited
}

// ValidateCredential fails fast on a missing or implausibly short API key,
// before any network call is attempted.
func ValidateCredential(key string) error {
	if len(strings.TrimSpace(key)) < 10 {
		return &Error{
			Kind:    KindConfiguration,
			Message: "missing or invalid API credential: set the provider's API key environment variable before scanning",
		}
	}
	return nil
}

// errFromStatus maps a non-success HTTP status to a typed failure
func errFromStatus(status int, statusText string) *Error {
	switch status {
	case http.StatusTooManyRequests:
		return &Error{
			Kind:    KindRateLimited,
			Status:  status,
			Message: "too many requests: wait a minute and try again",
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{
			Kind:    KindUnauthorized,
			Status:  status,
			Message: "request rejected: check your API credential",
		}
	case http.StatusNotFound:
		return &Error{
			Kind:    KindNotFound,
			Status:  status,
			Message: "model endpoint not found: check your API credential and model name",
		}
	default:
		return &Error{
			Kind:    KindService,
			Status:  status,
			Message: "analysis API error: " + statusText,
		}
	}
}
