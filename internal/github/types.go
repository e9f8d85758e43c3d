package github

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const latestTag = "latest"

// ReleaseRef identifies the releases a badge counts.
// An empty Tag selects every release of the repository.
type ReleaseRef struct {
	Owner string
	Repo  string
	Tag   string
}

// HasTag reports whether the ref narrows the count to one release.
func (r ReleaseRef) HasTag() bool {
	return r.Tag != ""
}

// IsLatest reports whether the ref asks for the newest release.
func (r ReleaseRef) IsLatest() bool {
	return strings.EqualFold(r.Tag, latestTag)
}

// Summary is the aggregated download count for one ReleaseRef.
type Summary struct {
	TotalDownloads int64
	// ResolvedTag is the concrete tag behind "latest", or the requested tag.
	ResolvedTag string
	Releases    int
	Pages       int
	// Truncated is set when a later listing page failed and the total is partial.
	Truncated bool
}

// Release stores the release fields needed for counting.
type Release struct {
	TagName string
	Assets  []Asset
}

// Asset stores the download counter of one release file.
type Asset struct {
	DownloadCount int64
}

// Downloads sums the download counters of every asset, saturating at math.MaxInt64.
func (r Release) Downloads() int64 {
	var total int64
	for _, asset := range r.Assets {
		total = addCapped(total, asset.DownloadCount)
	}
	return total
}

// addCapped adds two non-negative counts without wrapping past math.MaxInt64.
func addCapped(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

// UnmarshalJSON decodes a release, ignoring fields with unexpected types.
func (r *Release) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var decoded Release
	if raw, ok := fields["tag_name"]; ok {
		_ = json.Unmarshal(raw, &decoded.TagName)
	}
	if raw, ok := fields["assets"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			decoded.Assets = make([]Asset, 0, len(items))
			for _, item := range items {
				var asset Asset
				if err := json.Unmarshal(item, &asset); err != nil {
					continue
				}
				decoded.Assets = append(decoded.Assets, asset)
			}
		}
	}

	*r = decoded
	return nil
}

// UnmarshalJSON decodes an asset. A missing or malformed download_count counts as zero.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var decoded Asset
	if raw, ok := fields["download_count"]; ok {
		decoded.DownloadCount = parseCount(raw)
	}

	*a = decoded
	return nil
}

func parseCount(raw json.RawMessage) int64 {
	text := string(bytes.TrimSpace(raw))
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// decodeRelease decodes a single-release payload. Non-object payloads yield an empty release.
func decodeRelease(payload json.RawMessage) Release {
	var release Release
	if err := json.Unmarshal(payload, &release); err != nil {
		return Release{}
	}
	return release
}

// decodeReleasePage decodes one listing page. ok is false when the payload is not an array.
func decodeReleasePage(payload json.RawMessage) (releases []Release, ok bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false
	}

	releases = make([]Release, 0, len(items))
	for _, item := range items {
		releases = append(releases, decodeRelease(item))
	}
	return releases, true
}
