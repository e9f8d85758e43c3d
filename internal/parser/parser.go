package parser

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/johnqtcg/downloads-badge/internal/badge"
	gh "github.com/johnqtcg/downloads-badge/internal/github"
)

// ExamplePath serves the preview badge used by the configuration page.
const ExamplePath = "/example.svg"

// ErrInvalidPath indicates a request path is not /{owner}/{repo}[/{tag}].
var ErrInvalidPath = errors.New("invalid badge path")

// Kind identifies which response a request path selects.
type Kind int

const (
	// KindHome selects the configuration page.
	KindHome Kind = iota
	// KindExample selects the preview badge.
	KindExample
	// KindBadge selects a download count badge.
	KindBadge
)

// Params holds the optional query parameters shared by every badge.
// Color and Label are nil when absent or empty.
type Params struct {
	Color *string
	Label *string
	Style badge.Style
}

// BadgeRequest is a parsed incoming request.
type BadgeRequest struct {
	Kind   Kind
	Ref    gh.ReleaseRef
	Params Params
}

// PathParser parses an escaped request path and query into a BadgeRequest.
type PathParser interface {
	Parse(escapedPath string, query url.Values) (BadgeRequest, error)
}

// New creates the default path parser implementation.
func New() PathParser {
	return &defaultParser{}
}

type defaultParser struct{}

func (p *defaultParser) Parse(escapedPath string, query url.Values) (BadgeRequest, error) {
	_ = p

	params := parseParams(query)
	if escapedPath == ExamplePath {
		return BadgeRequest{Kind: KindExample, Params: params}, nil
	}

	segments, err := splitPathSegments(escapedPath)
	if err != nil {
		return BadgeRequest{}, fmt.Errorf("parse path %q: %w", escapedPath, err)
	}

	switch len(segments) {
	case 0:
		return BadgeRequest{Kind: KindHome, Params: params}, nil
	case 2, 3:
		ref := gh.ReleaseRef{Owner: segments[0], Repo: segments[1]}
		if len(segments) == 3 {
			ref.Tag = segments[2]
		}
		return BadgeRequest{Kind: KindBadge, Ref: ref, Params: params}, nil
	default:
		return BadgeRequest{}, fmt.Errorf("validate path segments: %w", invalid(fmt.Sprintf("got %d segments, want 2 or 3", len(segments))))
	}
}

// splitPathSegments returns the unescaped non-empty segments of an escaped path.
func splitPathSegments(escapedPath string) ([]string, error) {
	var segments []string
	for _, raw := range strings.Split(escapedPath, "/") {
		if raw == "" {
			continue
		}
		segment, err := url.PathUnescape(raw)
		if err != nil {
			return nil, invalid(fmt.Sprintf("segment %q: %v", raw, err))
		}
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

func parseParams(query url.Values) Params {
	return Params{
		Color: optional(query, "color"),
		Label: optional(query, "label"),
		Style: badge.ParseStyle(query.Get("style")),
	}
}

func optional(query url.Values, key string) *string {
	value := query.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPath, reason)
}
