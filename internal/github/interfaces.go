package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultAttemptTimeout bounds a single request against one base URL.
	DefaultAttemptTimeout = 10 * time.Second
	// DefaultUserAgent identifies the service to the upstream API.
	DefaultUserAgent = "GitHub-Downloads-Badge/1.0"
	// ReleasesPerPage is the page size used when listing all releases.
	ReleasesPerPage = 100
)

// DefaultEndpoints lists the GitHub API base URLs in priority order.
var DefaultEndpoints = []string{
	"https://api.github.com",
	"https://githubapi.spiritlhl.workers.dev",
	"https://githubapi.spiritlhl.top",
}

// ErrUpstreamUnavailable indicates every configured base URL failed for one request.
var ErrUpstreamUnavailable = errors.New("all github api endpoints failed")

// JSONFetcher performs one logical GET against the upstream API.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, path string) (json.RawMessage, error)
}

// Aggregator sums release asset downloads for a ReleaseRef.
type Aggregator interface {
	Aggregate(ctx context.Context, ref ReleaseRef) (Summary, error)
}

// Config configures the upstream endpoint fetcher.
type Config struct {
	Endpoints      []string
	HTTPClient     *http.Client
	AttemptTimeout time.Duration
	UserAgent      string
}

// WithDefaults fills missing optional values with package defaults.
func (c Config) WithDefaults() Config {
	if len(c.Endpoints) == 0 {
		c.Endpoints = append([]string(nil), DefaultEndpoints...)
	}
	if c.AttemptTimeout == 0 {
		c.AttemptTimeout = DefaultAttemptTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// NewEndpointFetcher constructs a fetcher that tries each configured base URL in order.
func NewEndpointFetcher(cfg Config) (JSONFetcher, error) {
	cfg = cfg.WithDefaults()
	if cfg.AttemptTimeout < 0 {
		return nil, fmt.Errorf("invalid AttemptTimeout %s", cfg.AttemptTimeout)
	}

	clients := make([]*restClient, 0, len(cfg.Endpoints))
	for _, endpoint := range cfg.Endpoints {
		client, err := newRESTClient(endpoint, cfg)
		if err != nil {
			return nil, fmt.Errorf("create REST client for %q: %w", endpoint, err)
		}
		clients = append(clients, client)
	}

	return &endpointFetcher{
		clients: clients,
		timeout: cfg.AttemptTimeout,
	}, nil
}

// NewAggregator constructs a release aggregator on top of fetcher.
func NewAggregator(fetcher JSONFetcher) Aggregator {
	return &aggregator{fetcher: fetcher}
}

func releasesPath(ref ReleaseRef) string {
	owner := url.PathEscape(ref.Owner)
	repo := url.PathEscape(ref.Repo)
	switch {
	case ref.IsLatest():
		return fmt.Sprintf("/repos/%s/%s/releases/latest", owner, repo)
	case ref.HasTag():
		return fmt.Sprintf("/repos/%s/%s/releases/tags/%s", owner, repo, url.PathEscape(ref.Tag))
	default:
		return fmt.Sprintf("/repos/%s/%s/releases?per_page=%d", owner, repo, ReleasesPerPage)
	}
}

func releasesPagePath(ref ReleaseRef, page int) string {
	return fmt.Sprintf("%s&page=%d", releasesPath(ReleaseRef{Owner: ref.Owner, Repo: ref.Repo}), page)
}
