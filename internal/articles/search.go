package articles

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
	"github.com/dgallion1/grokmcp/internal/render"
)

const (
	SortRelevance = "relevance"
	SortViews     = "views"
)

// Upper bounds on search paging. Twice the limit is requested upstream, so
// the limit must stay far from overflow.
const (
	MaxSearchLimit  = 1000
	MaxSearchOffset = 1_000_000
)

// SearchInput are the parameters of Search.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"Search query string" validate:"required"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results" validate:"gte=1,lte=1000"`
	Offset   int    `json:"offset,omitempty" jsonschema:"Pagination offset" validate:"gte=0,lte=1000000"`
	SortBy   string `json:"sort_by,omitempty" jsonschema:"Sort results by 'relevance' or 'views'" validate:"omitempty,oneof=relevance views"`
	MinViews *int64 `json:"min_views,omitempty" jsonschema:"Minimum view count filter" validate:"omitempty,gte=0"`
}

// SearchData is the structured result of Search.
type SearchData struct {
	Results []grokipedia.SearchResult `json:"results"`
}

// Search finds articles, optionally filtered by view count and sorted by
// views. Twice the limit is fetched so filtering can still fill the page.
func (s *Service) Search(ctx context.Context, log *slog.Logger, in SearchInput) (render.Result, error) {
	if err := s.check(log, in); err != nil {
		return render.Result{}, err
	}
	log.Debug("searching", "query", in.Query, "limit", in.Limit, "offset", in.Offset, "sort_by", in.SortBy)

	resp, err := s.backend.Search(ctx, in.Query, in.Limit*2, in.Offset)
	if err != nil {
		return render.Result{}, upstreamError(log, err, "", "Invalid search parameters")
	}

	results := []grokipedia.SearchResult{}
	if resp != nil {
		results = append(results, resp.Results...)
	}
	if in.MinViews != nil {
		filtered := results[:0]
		for _, r := range results {
			if r.ViewCount >= *in.MinViews {
				filtered = append(filtered, r)
			}
		}
		results = filtered
		log.Debug("filtered by views", "count", len(results), "min_views", *in.MinViews)
	}
	if in.SortBy == SortViews {
		sort.SliceStable(results, func(i, j int) bool { return results[i].ViewCount > results[j].ViewCount })
		log.Debug("sorted by view count")
	}
	if len(results) > in.Limit {
		results = results[:in.Limit]
	}
	log.Info("search complete", "query", in.Query, "count", len(results))

	header := fmt.Sprintf("Found %d results for '%s'", len(results), in.Query)
	if in.SortBy == SortViews {
		header += " (sorted by views)"
	}
	if in.MinViews != nil && *in.MinViews != 0 {
		header += fmt.Sprintf(" (min views: %d)", *in.MinViews)
	}

	var b render.Builder
	b.Line(header).Blank()
	for i, r := range results {
		b.Linef("%d. %s", i+1, r.Title).
			Linef("   Slug: %s", r.Slug).
			Linef("   Snippet: %s", r.Snippet).
			Linef("   Relevance: %.3f", r.RelevanceScore).
			Linef("   Views: %d", r.ViewCount).
			Blank()
	}
	return b.Result(SearchData{Results: results}), nil
}
