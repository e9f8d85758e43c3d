package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
)

const (
	primaryBase = "https://primary.test"
	mirrorBase  = "https://mirror-one.test"
	backupBase  = "https://mirror-two.test"
)

var testEndpoints = []string{primaryBase, mirrorBase, backupBase}

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestHTTPClient(fn roundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonHTTPResponse(statusCode int, payload any) (*http.Response, error) {
	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: statusCode,
		Header: http.Header{
			"Content-Type": []string{"application/json"},
		},
		Body: io.NopCloser(buf),
	}, nil
}

func textHTTPResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func mustJSONResponse(t *testing.T, statusCode int, payload any) *http.Response {
	t.Helper()
	resp, err := jsonHTTPResponse(statusCode, payload)
	if err != nil {
		t.Fatalf("build json response: %v", err)
	}
	return resp
}

func notFoundResponse(path string) *http.Response {
	return textHTTPResponse(http.StatusNotFound, fmt.Sprintf(`{"message":"not found: %s"}`, path))
}

func serverErrorResponse() *http.Response {
	return textHTTPResponse(http.StatusBadGateway, `{"message":"bad gateway"}`)
}

// requestLog records the URLs a fake transport served, in order.
type requestLog struct {
	mu   sync.Mutex
	urls []string
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, r.URL.String())
}

func (l *requestLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.urls...)
}

func newTestFetcher(t *testing.T, fn roundTripFunc) JSONFetcher {
	t.Helper()
	fetcher, err := NewEndpointFetcher(Config{
		Endpoints:  testEndpoints,
		HTTPClient: newTestHTTPClient(fn),
	})
	if err != nil {
		t.Fatalf("NewEndpointFetcher error = %v, want nil", err)
	}
	return fetcher
}

func releaseJSON(tag string, counts ...any) map[string]any {
	assets := make([]map[string]any, 0, len(counts))
	for i, count := range counts {
		assets = append(assets, map[string]any{
			"name":           fmt.Sprintf("asset-%d.tar.gz", i),
			"download_count": count,
		})
	}
	return map[string]any{
		"tag_name": tag,
		"assets":   assets,
	}
}

func releasePageJSON(size int, countPerRelease int) []map[string]any {
	page := make([]map[string]any, 0, size)
	for i := 0; i < size; i++ {
		page = append(page, releaseJSON(fmt.Sprintf("v0.%d", i), countPerRelease))
	}
	return page
}

// stubFetcher serves canned payloads keyed by upstream path.
type stubFetcher struct {
	payloads map[string]any
	errs     map[string]error
	log      []string
}

func (s *stubFetcher) FetchJSON(_ context.Context, path string) (json.RawMessage, error) {
	s.log = append(s.log, path)
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	payload, ok := s.payloads[path]
	if !ok {
		return nil, fmt.Errorf("unexpected path %s", path)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
