package articles

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
)

func citationPage() *fakeBackend {
	return &fakeBackend{pages: map[string]*grokipedia.Page{
		"Go": {
			Slug:  "Go",
			Title: "Go",
			Citations: []grokipedia.Citation{
				{Title: "Spec", URL: "https://go.dev/ref/spec", Description: "Language spec"},
				{Title: "Blog", URL: "https://go.dev/blog"},
				{Title: "Tour", URL: "https://go.dev/tour"},
			},
		},
		"Empty": {Slug: "Empty", Title: "Empty"},
	}}
}

func TestGetPageCitations_All(t *testing.T) {
	fb := citationPage()
	res, err := NewService(fb).GetPageCitations(context.Background(), discard(), CitationsInput{Slug: "Go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.lastIncl {
		t.Error("expected content not to be requested")
	}
	want := "# Go\n\nFound 3 citations:\n\n" +
		"1. **Spec**\n   URL: https://go.dev/ref/spec\n   Description: Language spec\n\n" +
		"2. **Blog**\n   URL: https://go.dev/blog\n\n" +
		"3. **Tour**\n   URL: https://go.dev/tour\n"
	if res.Text != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, res.Text)
	}
	m := toMap(t, res.Data)
	if m["total_count"] != float64(3) || m["returned_count"] != float64(3) {
		t.Errorf("unexpected counts: %v", m)
	}
	if _, ok := m["_limited"]; ok {
		t.Errorf("expected no _limited key when not limited")
	}
}

func TestGetPageCitations_Limited(t *testing.T) {
	res, err := NewService(citationPage()).GetPageCitations(context.Background(), discard(), CitationsInput{Slug: "Go", Limit: ptr(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Text, "# Go\n\nShowing 1 of 3 citations:\n\n1. **Spec**") {
		t.Errorf("unexpected text:\n%s", res.Text)
	}
	if !strings.HasSuffix(res.Text, "\n... and 2 more citations") {
		t.Errorf("expected footer, got:\n%s", res.Text)
	}
	data := res.Data.(CitationsData)
	if !data.Limited || data.ReturnedCount != 1 || data.TotalCount != 3 {
		t.Errorf("unexpected data %+v", data)
	}
}

func TestGetPageCitations_EmptyIsValid(t *testing.T) {
	res, err := NewService(citationPage()).GetPageCitations(context.Background(), discard(), CitationsInput{Slug: "Empty"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "# Empty\n\nNo citations found." {
		t.Errorf("unexpected text %q", res.Text)
	}
	m := toMap(t, res.Data)
	if c, ok := m["citations"].([]any); !ok || len(c) != 0 || m["total_count"] != float64(0) {
		t.Errorf("unexpected data %v", m)
	}
}

func TestGetPageCitations_InvalidLimit(t *testing.T) {
	_, err := NewService(citationPage()).GetPageCitations(context.Background(), discard(), CitationsInput{Slug: "Go", Limit: ptr(0)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestGetRelatedPages_OpaqueEntries(t *testing.T) {
	fb := &fakeBackend{pages: map[string]*grokipedia.Page{
		"Go": {
			Slug:  "Go",
			Title: "Go",
			LinkedPages: []grokipedia.LinkedPage{
				grokipedia.OpaqueRef(json.RawMessage(`"C"`)),
				grokipedia.OpaqueRef(json.RawMessage(`42`)),
			},
		},
	}}
	res, err := NewService(fb).GetRelatedPages(context.Background(), discard(), RelatedInput{Slug: "Go", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Go\n\nFound 2 related pages:\n\n1. Unknown\n\n2. Unknown\n"
	if res.Text != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, res.Text)
	}
	if strings.Contains(res.Text, "Slug:") {
		t.Error("opaque entries must not render a slug line")
	}

	b, err := json.Marshal(res.Data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"related_pages":["C",42]`) {
		t.Errorf("expected raw values unchanged, got %s", b)
	}
}

func TestGetRelatedPages_StructuredAndLimited(t *testing.T) {
	fb := &fakeBackend{pages: map[string]*grokipedia.Page{
		"Go": {
			Slug:  "Go",
			Title: "Go",
			LinkedPages: []grokipedia.LinkedPage{
				grokipedia.PageRef("Rob Pike", "Rob_Pike"),
				grokipedia.PageRef("", "Untitled"),
				grokipedia.PageRef("C", "C"),
			},
		},
	}}
	res, err := NewService(fb).GetRelatedPages(context.Background(), discard(), RelatedInput{Slug: "Go", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Go\n\nShowing 2 of 3 related pages:\n\n" +
		"1. Rob Pike\n   Slug: Rob_Pike\n\n" +
		"2. Unknown\n   Slug: Untitled\n\n" +
		"... and 1 more"
	if res.Text != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, res.Text)
	}
	m := toMap(t, res.Data)
	if m["_limited"] != true || m["returned_count"] != float64(2) || m["total_count"] != float64(3) {
		t.Errorf("unexpected data %v", m)
	}
}

func TestGetRelatedPages_Empty(t *testing.T) {
	fb := &fakeBackend{pages: map[string]*grokipedia.Page{"Go": {Slug: "Go", Title: "Go"}}}
	res, err := NewService(fb).GetRelatedPages(context.Background(), discard(), RelatedInput{Slug: "Go", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "# Go\n\nNo related pages found." {
		t.Errorf("unexpected text %q", res.Text)
	}
}

func TestGetRelatedPages_NotFound(t *testing.T) {
	_, err := NewService(&fakeBackend{}).GetRelatedPages(context.Background(), discard(), RelatedInput{Slug: "Nope", Limit: 10})
	if KindOf(err) != KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
