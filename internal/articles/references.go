package articles

import (
	"context"
	"log/slog"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
	"github.com/dgallion1/grokmcp/internal/render"
)

// CitationsInput are the parameters of GetPageCitations. A nil Limit returns
// every citation.
type CitationsInput struct {
	Slug  string `json:"slug" jsonschema:"Unique slug identifier of the page" validate:"required"`
	Limit *int   `json:"limit,omitempty" jsonschema:"Maximum number of citations to return" validate:"omitempty,gte=1"`
}

// CitationsData is the structured result of GetPageCitations.
type CitationsData struct {
	Slug          string                `json:"slug"`
	Title         string                `json:"title"`
	Citations     []grokipedia.Citation `json:"citations"`
	TotalCount    int                   `json:"total_count"`
	ReturnedCount int                   `json:"returned_count"`
	Limited       bool                  `json:"_limited,omitempty"`
}

// GetPageCitations lists a page's citations in source order.
func (s *Service) GetPageCitations(ctx context.Context, log *slog.Logger, in CitationsInput) (render.Result, error) {
	if err := s.check(log, in); err != nil {
		return render.Result{}, err
	}
	log.Debug("fetching citations", "slug", in.Slug)

	page, err := s.fetchPage(ctx, log, in.Slug, false)
	if err != nil {
		return render.Result{}, err
	}
	if page == nil {
		log.Warn("page not found", "slug", in.Slug)
		return render.Result{}, pageNotFound(in.Slug)
	}

	all := nonNil(page.Citations)
	citations, limited := head(all, in.Limit)
	log.Info("retrieved citations", "returned", len(citations), "total", len(all), "title", page.Title)

	var b render.Builder
	b.Title(page.Title).Blank()
	if len(all) == 0 {
		b.Line("No citations found.")
		return b.Result(CitationsData{Slug: page.Slug, Title: page.Title, Citations: all}), nil
	}

	if limited {
		b.Linef("Showing %d of %d citations:", len(citations), len(all))
	} else {
		b.Linef("Found %d citations:", len(all))
	}
	b.Blank()
	for i, c := range citations {
		b.Linef("%d. **%s**", i+1, c.Title).Linef("   URL: %s", c.URL)
		if c.Description != "" {
			b.Linef("   Description: %s", c.Description)
		}
		b.Blank()
	}
	if limited {
		b.Linef("... and %d more citations", len(all)-len(citations))
	}
	return b.Result(CitationsData{
		Slug:          page.Slug,
		Title:         page.Title,
		Citations:     citations,
		TotalCount:    len(all),
		ReturnedCount: len(citations),
		Limited:       limited,
	}), nil
}

// RelatedInput are the parameters of GetRelatedPages.
type RelatedInput struct {
	Slug  string `json:"slug" jsonschema:"Unique slug identifier of the page" validate:"required"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of related pages to return" validate:"gte=1"`
}

// RelatedData is the structured result of GetRelatedPages. Opaque linked
// pages are emitted exactly as the backend returned them.
type RelatedData struct {
	Slug          string                  `json:"slug"`
	Title         string                  `json:"title"`
	RelatedPages  []grokipedia.LinkedPage `json:"related_pages"`
	TotalCount    int                     `json:"total_count"`
	ReturnedCount int                     `json:"returned_count"`
	Limited       bool                    `json:"_limited,omitempty"`
}

// GetRelatedPages lists the pages linked from a page.
func (s *Service) GetRelatedPages(ctx context.Context, log *slog.Logger, in RelatedInput) (render.Result, error) {
	if err := s.check(log, in); err != nil {
		return render.Result{}, err
	}
	log.Debug("fetching related pages", "slug", in.Slug, "limit", in.Limit)

	page, err := s.fetchPage(ctx, log, in.Slug, false)
	if err != nil {
		return render.Result{}, err
	}
	if page == nil {
		log.Warn("page not found", "slug", in.Slug)
		return render.Result{}, pageNotFound(in.Slug)
	}

	all := nonNil(page.LinkedPages)
	related, limited := head(all, &in.Limit)
	log.Info("retrieved related pages", "returned", len(related), "total", len(all), "title", page.Title)

	var b render.Builder
	b.Title(page.Title).Blank()
	if len(all) == 0 {
		b.Line("No related pages found.")
		return b.Result(RelatedData{Slug: page.Slug, Title: page.Title, RelatedPages: all}), nil
	}

	if limited {
		b.Linef("Showing %d of %d related pages:", len(related), len(all))
	} else {
		b.Linef("Found %d related pages:", len(all))
	}
	b.Blank()
	for i, rp := range related {
		b.Linef("%d. %s", i+1, rp.DisplayTitle())
		if rp.Structured && rp.Slug != "" {
			b.Linef("   Slug: %s", rp.Slug)
		}
		b.Blank()
	}
	if limited {
		b.Linef("... and %d more", len(all)-len(related))
	}
	return b.Result(RelatedData{
		Slug:          page.Slug,
		Title:         page.Title,
		RelatedPages:  related,
		TotalCount:    len(all),
		ReturnedCount: len(related),
		Limited:       limited,
	}), nil
}

// head returns the first *limit items of s and whether any were cut.
func head[T any](s []T, limit *int) ([]T, bool) {
	if limit == nil || *limit >= len(s) {
		return s, false
	}
	return s[:*limit], true
}
