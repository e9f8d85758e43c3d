package main

import (
	"context"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/johnqtcg/downloads-badge/internal/badge"
	gh "github.com/johnqtcg/downloads-badge/internal/github"
	"github.com/johnqtcg/downloads-badge/internal/parser"
)

const (
	defaultLabel  = "Downloads"
	exampleValue  = "1.2K"
	invalidValue  = "invalid path"
	errorValue    = "error"
	svgType       = "image/svg+xml"
	htmlType      = "text/html; charset=utf-8"
	successCache  = "public, max-age=3600"
	errorCache    = "public, max-age=300"
	previewCache  = "no-cache"
	allowedMethod = "GET"
)

type webDeps struct {
	parser     parser.PathParser
	aggregator gh.Aggregator
	tmpl       *template.Template
}

type webHandler struct {
	parser     parser.PathParser
	aggregator gh.Aggregator
	tmpl       *template.Template
}

func newWebHandler(deps webDeps) http.Handler {
	tmpl := deps.tmpl
	if tmpl == nil {
		tmpl = template.Must(template.New("index").Parse(defaultIndexTemplate))
	}

	pathParser := deps.parser
	if pathParser == nil {
		pathParser = parser.New()
	}

	handler := &webHandler{
		parser:     pathParser,
		aggregator: deps.aggregator,
		tmpl:       tmpl,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.handleRequest)
	return mux
}

func (h *webHandler) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := h.parser.Parse(r.URL.EscapedPath(), r.URL.Query())
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("invalid badge path")
		writeBadge(w, badge.Spec{Label: defaultLabel, Value: invalidValue, Color: badge.ErrorColor, Style: badge.StyleFlat}, nil)
		return
	}

	switch req.Kind {
	case parser.KindHome:
		h.handleIndex(w, r)
	case parser.KindExample:
		h.handleExample(w, req.Params)
	default:
		h.handleBadge(w, r, req)
	}
}

func (h *webHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", htmlType)
	if err := h.tmpl.Execute(w, indexData{Colors: badge.NamedColors()}); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render index template")
		http.Error(w, "render template failed", http.StatusInternalServerError)
	}
}

func (h *webHandler) handleExample(w http.ResponseWriter, params parser.Params) {
	spec := badge.Spec{
		Label: valueOr(params.Label, defaultLabel),
		Value: exampleValue,
		Color: badge.PreviewColor,
		Style: params.Style,
	}
	if params.Color != nil {
		spec.Color = badge.ResolveColor(*params.Color)
	}

	writeBadge(w, spec, http.Header{"Cache-Control": {previewCache}})
}

func (h *webHandler) handleBadge(w http.ResponseWriter, r *http.Request, req parser.BadgeRequest) {
	logger := hlog.FromRequest(r)

	summary, err := h.aggregate(r.Context(), req.Ref)
	if err != nil {
		logger.Warn().Err(err).
			Str("owner", req.Ref.Owner).
			Str("repo", req.Ref.Repo).
			Str("tag", req.Ref.Tag).
			Bool("not_found", gh.IsNotFound(err)).
			Bool("rate_limited", gh.IsRateLimitError(err)).
			Msg("aggregate downloads failed")
		writeBadge(w, badge.Spec{Label: defaultLabel, Value: errorValue, Color: badge.ErrorColor, Style: badge.StyleFlat}, http.Header{
			"Cache-Control": {errorCache},
		})
		return
	}
	if summary.Truncated {
		logger.Info().
			Str("owner", req.Ref.Owner).
			Str("repo", req.Ref.Repo).
			Int("pages", summary.Pages).
			Msg("release listing truncated after page failure")
	}

	spec := badge.Spec{
		Label: badgeLabel(req, summary),
		Value: badge.FormatCount(summary.TotalDownloads),
		Color: badge.SeverityColor(summary.TotalDownloads),
		Style: req.Params.Style,
	}
	if req.Params.Color != nil {
		spec.Color = badge.ResolveColor(*req.Params.Color)
	}

	writeBadge(w, spec, http.Header{
		"Cache-Control":                {successCache},
		"Access-Control-Allow-Origin":  {"*"},
		"Access-Control-Allow-Methods": {allowedMethod},
		"Access-Control-Allow-Headers": {"Content-Type"},
	})
}

func (h *webHandler) aggregate(ctx context.Context, ref gh.ReleaseRef) (gh.Summary, error) {
	if h.aggregator == nil {
		return gh.Summary{}, gh.ErrUpstreamUnavailable
	}
	return h.aggregator.Aggregate(ctx, ref)
}

func badgeLabel(req parser.BadgeRequest, summary gh.Summary) string {
	if req.Params.Label != nil {
		return *req.Params.Label
	}
	switch {
	case req.Ref.IsLatest():
		return summary.ResolvedTag + " Downloads"
	case req.Ref.HasTag():
		return req.Ref.Tag + " Downloads"
	default:
		return defaultLabel
	}
}

func writeBadge(w http.ResponseWriter, spec badge.Spec, headers http.Header) {
	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Content-Type", svgType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(badge.Render(spec)))
}

func valueOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
