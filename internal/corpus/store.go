// Package corpus serves articles from a local directory of markdown files,
// one "<slug>.md" per page, with the same interface as the HTTP client.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
	"github.com/dgallion1/grokmcp/internal/truncate"
)

const (
	titleWeight   = 3
	snippetLength = 160
)

// Store is an immutable in-memory index of a corpus directory.
type Store struct {
	pages map[string]*grokipedia.Page
	slugs []string // sorted
}

// Open loads every markdown file in dir.
func Open(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	s := &Store{pages: make(map[string]*grokipedia.Page)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".md" && ext != ".markdown" {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		slug := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		s.pages[slug] = parseArticle(slug, src)
		s.slugs = append(s.slugs, slug)
	}
	sort.Strings(s.slugs)

	// Resolve linked page titles now that every page is known.
	for _, p := range s.pages {
		for i, lp := range p.LinkedPages {
			if lp.Title != "" {
				continue
			}
			if target, ok := s.pages[lp.Slug]; ok {
				p.LinkedPages[i].Title = target.Title
			} else {
				p.LinkedPages[i].Title = strings.ReplaceAll(lp.Slug, "_", " ")
			}
		}
	}
	return s, nil
}

// Len returns the number of pages.
func (s *Store) Len() int { return len(s.pages) }

// GetPage returns a copy of the page so callers cannot mutate the store.
func (s *Store) GetPage(ctx context.Context, slug string, includeContent bool) (*grokipedia.PageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("%w: empty slug", grokipedia.ErrBadRequest)
	}
	p, ok := s.pages[slug]
	if !ok {
		return &grokipedia.PageResponse{Found: false}, nil
	}
	cp := *p
	cp.Citations = append([]grokipedia.Citation{}, p.Citations...)
	cp.LinkedPages = append([]grokipedia.LinkedPage{}, p.LinkedPages...)
	if !includeContent {
		cp.Content = ""
	}
	return &grokipedia.PageResponse{Found: true, Page: &cp}, nil
}

type hit struct {
	slug  string
	score int
	line  int // body line of the first match, -1 if none
}

// Search ranks pages by term frequency, counting title matches more heavily.
func (s *Store) Search(ctx context.Context, query string, limit, offset int) (*grokipedia.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: negative limit or offset", grokipedia.ErrBadRequest)
	}

	// A query without letters or digits matches nothing.
	terms := tokenize(query)
	var hits []hit
	for _, slug := range s.slugs {
		p := s.pages[slug]
		title := strings.ToLower(p.Title + " " + slug)
		body := strings.ToLower(p.Content)
		h := hit{slug: slug}
		first := -1
		for _, term := range terms {
			h.score += titleWeight * strings.Count(title, term)
			h.score += strings.Count(body, term)
			if i := strings.Index(body, term); i >= 0 && (first < 0 || i < first) {
				first = i
			}
		}
		h.line = lineOf(body, first)
		if h.score > 0 {
			hits = append(hits, h)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := &grokipedia.SearchResponse{Results: []grokipedia.SearchResult{}}
	if len(hits) == 0 || offset >= len(hits) {
		return out, nil
	}
	top := float64(hits[0].score)
	hits = hits[offset:]
	if limit < len(hits) {
		hits = hits[:limit]
	}
	for _, h := range hits {
		p := s.pages[h.slug]
		out.Results = append(out.Results, grokipedia.SearchResult{
			Title:          p.Title,
			Slug:           p.Slug,
			Snippet:        snippet(p, h.line),
			RelevanceScore: float64(h.score) / top,
		})
	}
	return out, nil
}

func tokenize(q string) []string {
	return strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// lineOf returns the line number holding byte offset pos, or -1.
func lineOf(s string, pos int) int {
	if pos < 0 || pos > len(s) {
		return -1
	}
	return strings.Count(s[:pos], "\n")
}

// snippet returns the given body line, or the description when there is none.
func snippet(p *grokipedia.Page, line int) string {
	lines := strings.Split(p.Content, "\n")
	if line < 0 || line >= len(lines) {
		return truncate.Prefix(p.Description, snippetLength)
	}
	text := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[line]), "#"))
	return truncate.Prefix(text, snippetLength)
}
