package articles

import (
	"context"
	"log/slog"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
	"github.com/dgallion1/grokmcp/internal/render"
	"github.com/dgallion1/grokmcp/internal/truncate"
)

const (
	// previewLength caps the content preview in the text rendering of GetPage.
	previewLength = 1000
	// citationSummary is how many citations GetPage lists in text.
	citationSummary = 5
)

// PageInput are the parameters of GetPage.
type PageInput struct {
	Slug             string `json:"slug" jsonschema:"Unique slug identifier of the page" validate:"required"`
	MaxContentLength int    `json:"max_content_length,omitempty" jsonschema:"Maximum length of content in the structured result" validate:"gte=0"`
}

// PageData is the structured result of GetPage.
type PageData struct {
	Slug        string                  `json:"slug"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Content     string                  `json:"content,omitempty"`
	Citations   []grokipedia.Citation   `json:"citations"`
	LinkedPages []grokipedia.LinkedPage `json:"linked_pages"`
	*render.Truncation
}

// GetPage returns page metadata, a content preview and a citations summary.
// The preview and the structured content are limited independently.
func (s *Service) GetPage(ctx context.Context, log *slog.Logger, in PageInput) (render.Result, error) {
	if err := s.check(log, in); err != nil {
		return render.Result{}, err
	}
	log.Debug("fetching page", "slug", in.Slug)

	page, err := s.fetchPage(ctx, log, in.Slug, true)
	if err != nil {
		return render.Result{}, err
	}
	if page == nil {
		return render.Result{}, s.suggestNotFound(ctx, log, in.Slug)
	}
	log.Info("retrieved page", "title", page.Title, "slug", in.Slug)

	var b render.Builder
	b.Title(page.Title).Blank().Linef("**Slug:** %s", page.Slug)
	if page.Description != "" {
		b.Blank().Linef("**Description:** %s", page.Description).Blank()
	}
	contentLen := truncate.Len(page.Content)
	if page.Content != "" {
		preview := truncate.Limit(page.Content, min(previewLength, in.MaxContentLength))
		b.Blank().Line("## Content Preview").Blank().Line(preview.Content)
		if preview.Truncated {
			b.Blank().Linef("... (showing first %d of %d chars)", truncate.Len(preview.Content), contentLen)
		}
	}
	if n := len(page.Citations); n > 0 {
		b.Blank().Linef("## Citations (%d total)", n).Blank()
		for i, c := range page.Citations[:min(citationSummary, n)] {
			b.Linef("%d. %s: %s", i+1, c.Title, c.URL)
		}
		if n > citationSummary {
			b.Linef("... and %d more", n-citationSummary)
		}
	}

	limited := truncate.Limit(page.Content, in.MaxContentLength)
	data := PageData{
		Slug:        page.Slug,
		Title:       page.Title,
		Description: page.Description,
		Content:     limited.Content,
		Citations:   nonNil(page.Citations),
		LinkedPages: nonNil(page.LinkedPages),
		Truncation:  render.TruncationOf(limited),
	}
	if limited.Truncated {
		log.Warn("content truncated, use get_page_content for full content",
			"original_length", contentLen, "max_content_length", in.MaxContentLength)
	}
	return b.Result(data), nil
}

// ContentInput are the parameters of GetPageContent.
type ContentInput struct {
	Slug      string `json:"slug" jsonschema:"Unique slug identifier of the page" validate:"required"`
	MaxLength int    `json:"max_length,omitempty" jsonschema:"Maximum content length to return" validate:"gte=0"`
}

// ContentData is the structured result of GetPageContent.
type ContentData struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ContentLength int    `json:"content_length"`
	*render.Truncation
}

// GetPageContent returns only the article body, limited to MaxLength.
func (s *Service) GetPageContent(ctx context.Context, log *slog.Logger, in ContentInput) (render.Result, error) {
	if err := s.check(log, in); err != nil {
		return render.Result{}, err
	}
	log.Debug("fetching content", "slug", in.Slug)

	page, err := s.fetchPage(ctx, log, in.Slug, true)
	if err != nil {
		return render.Result{}, err
	}
	if page == nil {
		log.Warn("page not found", "slug", in.Slug)
		return render.Result{}, pageNotFound(in.Slug)
	}

	limited := truncate.Limit(page.Content, in.MaxLength)
	tr := render.TruncationOf(limited)
	if tr != nil {
		log.Warn("content truncated, use max_length to adjust",
			"original_length", limited.OriginalLength, "max_length", in.MaxLength)
	}
	log.Info("retrieved content", "title", page.Title, "length", limited.OriginalLength)

	var b render.Builder
	b.Title(page.Title).Blank().Line(limited.Content).TruncationNotice(tr, in.MaxLength)
	return b.Result(ContentData{
		Slug:          page.Slug,
		Title:         page.Title,
		Content:       limited.Content,
		ContentLength: truncate.Len(limited.Content),
		Truncation:    tr,
	}), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
