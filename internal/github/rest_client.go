package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	goGithub "github.com/google/go-github/v72/github"
)

// restClient talks to one GitHub API base URL.
type restClient struct {
	baseURL string
	client  *goGithub.Client
}

func newRESTClient(baseURL string, cfg Config) (*restClient, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(trimmed + "/")
	if err != nil {
		return nil, fmt.Errorf("parse REST base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return nil, fmt.Errorf("parse REST base URL %q: want absolute http(s) URL", baseURL)
	}

	client := goGithub.NewClient(httpClient)
	client.BaseURL = parsed
	client.UserAgent = cfg.UserAgent

	return &restClient{baseURL: trimmed, client: client}, nil
}

// getJSON issues one GET for path relative to the base URL and returns the raw body.
func (c *restClient) getJSON(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := c.client.NewRequest(http.MethodGet, strings.TrimPrefix(path, "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}

	var payload json.RawMessage
	if _, err := c.client.Do(ctx, req, &payload); err != nil {
		var accepted *goGithub.AcceptedError
		if errors.As(err, &accepted) && json.Valid(accepted.Raw) {
			return json.RawMessage(accepted.Raw), nil
		}
		return nil, wrapRESTError("get "+path, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("get %s: empty response body", path)
	}

	return payload, nil
}

func wrapRESTError(op string, err error) error {
	if err == nil {
		return nil
	}

	if resp := errorResponse(err); resp != nil {
		return fmt.Errorf("%s: %w", op, &statusError{
			StatusCode: resp.StatusCode,
			Err:        err,
		})
	}

	return fmt.Errorf("%s: %w", op, err)
}

func errorResponse(err error) *http.Response {
	var respErr *goGithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response
	}
	var rateErr *goGithub.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response
	}
	var abuseErr *goGithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response
	}
	return nil
}
