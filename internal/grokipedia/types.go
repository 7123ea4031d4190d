package grokipedia

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// SearchResult is one hit from a full-text search.
type SearchResult struct {
	Title          string  `json:"title"`
	Slug           string  `json:"slug"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevance_score"`
	ViewCount      int64   `json:"view_count"`
}

// SearchResponse is the result of Search. Results keep the upstream order.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// Citation is a source referenced by a page.
type Citation struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Page is a single article.
type Page struct {
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Content     string       `json:"content,omitempty"`
	Citations   []Citation   `json:"citations"`
	LinkedPages []LinkedPage `json:"linked_pages"`
}

// PageResponse is the result of GetPage. Page is nil when Found is false.
type PageResponse struct {
	Found bool  `json:"found"`
	Page  *Page `json:"page,omitempty"`
}

// LinkedPage is a reference from one page to another. The upstream returns
// either a record with a title and slug or some other JSON value; the latter
// is kept verbatim in Raw.
type LinkedPage struct {
	Structured bool
	Title      string
	Slug       string
	Raw        json.RawMessage
}

// PageRef returns a structured linked page.
func PageRef(title, slug string) LinkedPage {
	return LinkedPage{Structured: true, Title: title, Slug: slug}
}

// OpaqueRef returns a linked page holding raw, unstructured JSON.
func OpaqueRef(raw json.RawMessage) LinkedPage {
	return LinkedPage{Raw: raw}
}

// DisplayTitle is the title shown to readers: "Unknown" when there is none.
func (l LinkedPage) DisplayTitle() string {
	if !l.Structured || l.Title == "" {
		return "Unknown"
	}
	return l.Title
}

func (l *LinkedPage) UnmarshalJSON(data []byte) error {
	parseLinkedPage(gjson.ParseBytes(data), l)
	return nil
}

func (l LinkedPage) MarshalJSON() ([]byte, error) {
	if len(l.Raw) > 0 {
		return l.Raw, nil
	}
	if !l.Structured {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
	}{l.Title, l.Slug})
}

func parseLinkedPage(r gjson.Result, l *LinkedPage) {
	*l = LinkedPage{Raw: json.RawMessage(r.Raw)}
	if !r.IsObject() {
		return
	}
	l.Structured = true
	l.Title = r.Get("title").String()
	l.Slug = r.Get("slug").String()
}
