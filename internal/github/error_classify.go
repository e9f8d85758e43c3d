package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type statusError struct {
	StatusCode int
	Err        error
}

func (e *statusError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("http status %d: %v", e.StatusCode, e.Err)
}

func (e *statusError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusCode extracts the wrapped HTTP status code when available.
// For an EndpointsError this is the status of the first attempt that returned one.
func StatusCode(err error) (int, bool) {
	var stErr *statusError
	if errors.As(err, &stErr) {
		return stErr.StatusCode, true
	}
	return 0, false
}

// IsUpstreamUnavailable reports whether every base URL failed.
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsNotFound reports whether the last tried base URL answered 404.
func IsNotFound(err error) bool {
	var endpointsErr *EndpointsError
	if errors.As(err, &endpointsErr) {
		status, ok := StatusCode(endpointsErr.Last())
		return ok && status == http.StatusNotFound
	}
	status, ok := StatusCode(err)
	return ok && status == http.StatusNotFound
}

// IsRateLimitError reports whether an error is a GitHub rate limit failure.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var stErr *statusError
	if errors.As(err, &stErr) {
		if stErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		if stErr.StatusCode == http.StatusForbidden && looksLikeRateLimitError(stErr.Err) {
			return true
		}
	}

	return looksLikeRateLimitError(err)
}

func looksLikeRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	text := strings.ToLower(err.Error())
	return strings.Contains(text, "rate limit")
}
