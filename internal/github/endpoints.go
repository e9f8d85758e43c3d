package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goGithub "github.com/google/go-github/v72/github"
)

type endpointFetcher struct {
	clients []*restClient
	timeout time.Duration
}

// AttemptResult is the outcome of one GET against one base URL.
type AttemptResult struct {
	BaseURL string
	Payload json.RawMessage
	Err     error
}

// EndpointsError reports a path that failed on every base URL.
type EndpointsError struct {
	Path     string
	Attempts []AttemptResult
}

func (e *EndpointsError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", attempt.BaseURL, attempt.Err))
	}
	return fmt.Sprintf("%v for %s: %s", ErrUpstreamUnavailable, e.Path, strings.Join(parts, "; "))
}

// Unwrap exposes ErrUpstreamUnavailable and every attempt error.
func (e *EndpointsError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, len(e.Attempts)+1)
	errs = append(errs, ErrUpstreamUnavailable)
	for _, attempt := range e.Attempts {
		errs = append(errs, attempt.Err)
	}
	return errs
}

// Last returns the failure of the lowest-priority base URL.
func (e *EndpointsError) Last() error {
	if e == nil || len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

func (f *endpointFetcher) FetchJSON(ctx context.Context, path string) (json.RawMessage, error) {
	failed := make([]AttemptResult, 0, len(f.clients))
	for _, client := range f.clients {
		result := f.attempt(ctx, client, path)
		if result.Err == nil {
			return result.Payload, nil
		}
		failed = append(failed, result)
	}
	return nil, &EndpointsError{Path: path, Attempts: failed}
}

// attempt ignores rate-limit state go-github remembers from earlier calls,
// so every base URL is requested once per FetchJSON.
func (f *endpointFetcher) attempt(ctx context.Context, client *restClient, path string) AttemptResult {
	attemptCtx, cancel := context.WithTimeout(context.WithValue(ctx, goGithub.BypassRateLimitCheck, true), f.timeout)
	defer cancel()

	payload, err := client.getJSON(attemptCtx, path)
	return AttemptResult{
		BaseURL: client.baseURL,
		Payload: payload,
		Err:     err,
	}
}
