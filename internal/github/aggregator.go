package github

import (
	"context"
	"fmt"
)

type aggregator struct {
	fetcher JSONFetcher
}

// releaseTotals accumulates downloads across listing pages.
type releaseTotals struct {
	downloads int64
	releases  int
	pages     int
}

func (t releaseTotals) add(releases []Release) releaseTotals {
	for _, release := range releases {
		t.downloads = addCapped(t.downloads, release.Downloads())
	}
	t.releases += len(releases)
	t.pages++
	return t
}

func (a *aggregator) Aggregate(ctx context.Context, ref ReleaseRef) (Summary, error) {
	if ref.HasTag() {
		summary, err := a.aggregateRelease(ctx, ref)
		if err != nil {
			return Summary{}, fmt.Errorf("aggregate release %q: %w", ref.Tag, err)
		}
		return summary, nil
	}

	summary, err := a.aggregateAllReleases(ctx, ref)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregate releases: %w", err)
	}
	return summary, nil
}

func (a *aggregator) aggregateRelease(ctx context.Context, ref ReleaseRef) (Summary, error) {
	payload, err := a.fetcher.FetchJSON(ctx, releasesPath(ref))
	if err != nil {
		return Summary{}, err
	}

	release := decodeRelease(payload)
	resolved := ref.Tag
	if ref.IsLatest() && release.TagName != "" {
		resolved = release.TagName
	}

	return Summary{
		TotalDownloads: release.Downloads(),
		ResolvedTag:    resolved,
		Releases:       1,
		Pages:          1,
	}, nil
}

// aggregateAllReleases walks the release listing while pages come back full.
// Only the first page is required; a later failure ends the walk with a partial total.
func (a *aggregator) aggregateAllReleases(ctx context.Context, ref ReleaseRef) (Summary, error) {
	payload, err := a.fetcher.FetchJSON(ctx, releasesPath(ref))
	if err != nil {
		return Summary{}, err
	}

	releases, ok := decodeReleasePage(payload)
	if !ok {
		return Summary{Pages: 1}, nil
	}

	totals := releaseTotals{}.add(releases)
	truncated := false
	for page, full := 2, len(releases) == ReleasesPerPage; full; page++ {
		payload, err := a.fetcher.FetchJSON(ctx, releasesPagePath(ref, page))
		if err != nil {
			truncated = true
			break
		}
		next, ok := decodeReleasePage(payload)
		if !ok || len(next) == 0 {
			break
		}
		totals = totals.add(next)
		full = len(next) == ReleasesPerPage
	}

	return Summary{
		TotalDownloads: totals.downloads,
		Releases:       totals.releases,
		Pages:          totals.pages,
		Truncated:      truncated,
	}, nil
}
