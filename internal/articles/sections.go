package articles

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dgallion1/grokmcp/internal/outline"
	"github.com/dgallion1/grokmcp/internal/render"
	"github.com/dgallion1/grokmcp/internal/truncate"
)

// SectionsInput are the parameters of GetPageSections.
type SectionsInput struct {
	Slug string `json:"slug" jsonschema:"Unique slug identifier of the page" validate:"required"`
}

// SectionsData is the structured result of GetPageSections.
type SectionsData struct {
	Slug     string            `json:"slug"`
	Title    string            `json:"title"`
	Sections []outline.Section `json:"sections"`
	Count    int               `json:"count"`
}

// GetPageSections lists every heading in a page body with its level.
func (s *Service) GetPageSections(ctx context.Context, log *slog.Logger, in SectionsInput) (render.Result, error) {
	if err := s.check(log, in); err != nil {
		return render.Result{}, err
	}
	log.Debug("fetching section headers", "slug", in.Slug)

	page, err := s.fetchPage(ctx, log, in.Slug, true)
	if err != nil {
		return render.Result{}, err
	}
	if page == nil {
		return render.Result{}, s.suggestNotFound(ctx, log, in.Slug)
	}

	sections := nonNil(outline.Index(page.Content))
	log.Info("found section headers", "count", len(sections), "title", page.Title)

	var b render.Builder
	b.Title(page.Title).Blank()
	if len(sections) == 0 {
		b.Line("No section headers found.")
	} else {
		b.Linef("Found %d sections:", len(sections)).Blank()
		for i, sec := range sections {
			b.Linef("%d. %s%s (Level %d)", i+1, strings.Repeat("  ", sec.Level-1), sec.Header, sec.Level)
		}
	}
	return b.Result(SectionsData{
		Slug:     page.Slug,
		Title:    page.Title,
		Sections: sections,
		Count:    len(sections),
	}), nil
}

// SectionInput are the parameters of GetPageSection.
type SectionInput struct {
	Slug          string `json:"slug" jsonschema:"Unique slug identifier of the page" validate:"required"`
	SectionHeader string `json:"section_header" jsonschema:"Exact header text of the section (case-insensitive)" validate:"required,notblank"`
	MaxLength     int    `json:"max_length,omitempty" jsonschema:"Maximum section content length to return" validate:"gte=0"`
}

// SectionData is the structured result of GetPageSection.
type SectionData struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	SectionHeader  string `json:"section_header"`
	SectionContent string `json:"section_content"`
	ContentLength  int    `json:"content_length"`
	*render.Truncation
}

// GetPageSection extracts one section, including its subsections, by header.
func (s *Service) GetPageSection(ctx context.Context, log *slog.Logger, in SectionInput) (render.Result, error) {
	if err := s.check(log, in); err != nil {
		return render.Result{}, err
	}
	log.Debug("fetching section", "section", in.SectionHeader, "slug", in.Slug)

	page, err := s.fetchPage(ctx, log, in.Slug, true)
	if err != nil {
		return render.Result{}, err
	}
	if page == nil {
		log.Warn("page not found", "slug", in.Slug)
		return render.Result{}, pageNotFound(in.Slug)
	}

	match, err := outline.Locate(page.Content, in.SectionHeader)
	if err != nil {
		if !errors.Is(err, outline.ErrSectionNotFound) {
			return render.Result{}, &Error{Kind: KindInvalidInput, Message: "Invalid section header: " + err.Error(), Err: err}
		}
		log.Warn("section not found", "section", in.SectionHeader, "slug", in.Slug)
		return render.Result{}, &Error{
			Kind:    KindSectionNotFound,
			Message: "Section '" + in.SectionHeader + "' not found",
			Err:     err,
		}
	}

	limited := truncate.Limit(match.Content, in.MaxLength)
	tr := render.TruncationOf(limited)
	if tr != nil {
		log.Warn("section content truncated", "original_length", limited.OriginalLength, "max_length", in.MaxLength)
	}
	log.Info("extracted section", "section", in.SectionHeader, "title", page.Title)

	var b render.Builder
	b.Title(page.Title).Linef("## %s", in.SectionHeader).Blank().Line(limited.Content).TruncationNotice(tr, in.MaxLength)
	return b.Result(SectionData{
		Slug:           page.Slug,
		Title:          page.Title,
		SectionHeader:  in.SectionHeader,
		SectionContent: limited.Content,
		ContentLength:  truncate.Len(limited.Content),
		Truncation:     tr,
	}), nil
}
