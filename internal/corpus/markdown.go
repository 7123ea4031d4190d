package corpus

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
)

// wikiLink matches [[slug]] and [[slug|label]].
var wikiLink = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// referencesHeading names the section whose list items become citations.
const referencesHeading = "references"

// parseArticle extracts page metadata from a markdown article. Content is the
// raw source; linked page titles are resolved later by the store.
func parseArticle(slug string, src []byte) *grokipedia.Page {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	page := &grokipedia.Page{
		Slug:        slug,
		Title:       strings.ReplaceAll(slug, "_", " "),
		Content:     string(src),
		Citations:   []grokipedia.Citation{},
		LinkedPages: []grokipedia.LinkedPage{},
	}

	titleSet := false
	inReferences := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := strings.TrimSpace(string(node.Text(src)))
			if node.Level == 1 && !titleSet {
				page.Title = heading
				titleSet = true
				continue
			}
			inReferences = strings.EqualFold(heading, referencesHeading)
		case *ast.Paragraph:
			if page.Description == "" && !inReferences {
				page.Description = wikiLink.ReplaceAllString(extractText(node, src), "$1")
			}
		case *ast.List:
			if inReferences {
				page.Citations = append(page.Citations, listCitations(node, src)...)
			}
		}
	}

	seen := make(map[string]bool)
	for _, m := range wikiLink.FindAllStringSubmatch(string(src), -1) {
		target := strings.TrimSpace(m[1])
		if target == "" || seen[target] || target == slug {
			continue
		}
		seen[target] = true
		page.LinkedPages = append(page.LinkedPages, grokipedia.PageRef(strings.TrimSpace(m[2]), target))
	}
	return page
}

// listCitations turns "[title](url) description" list items into citations.
func listCitations(list *ast.List, src []byte) []grokipedia.Citation {
	var out []grokipedia.Citation
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var link *ast.Link
		_ = ast.Walk(item, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if l, ok := n.(*ast.Link); ok && entering {
				link = l
				return ast.WalkStop, nil
			}
			return ast.WalkContinue, nil
		})
		if link == nil {
			continue
		}
		title := extractText(link, src)
		full := extractText(item, src)
		desc := strings.TrimSpace(strings.TrimPrefix(full, title))
		desc = strings.TrimSpace(strings.TrimLeft(desc, "-–:"))
		out = append(out, grokipedia.Citation{
			Title:       title,
			URL:         string(link.Destination),
			Description: desc,
		})
	}
	return out
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		if n.FirstChild() == nil {
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
