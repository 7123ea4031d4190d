package mcpserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/grokmcp/internal/articles"
	"github.com/dgallion1/grokmcp/internal/render"
)

// Tool defaults advertised in the input schemas.
const (
	DefaultSearchLimit      = 12
	DefaultPageContentLimit = 5000
	DefaultContentLimit     = 10000
	DefaultRelatedLimit     = 10
	DefaultSectionLimit     = 5000
)

type operation[In any] func(ctx context.Context, log *slog.Logger, in In) (render.Result, error)

func (s *Server) registerTools() {
	addTool(s, "search",
		"Search for articles in Grokipedia with optional filtering and sorting.",
		inputSchema[articles.SearchInput](
			withDefault("limit", DefaultSearchLimit), withMinimum("limit", 1), withMaximum("limit", articles.MaxSearchLimit),
			withDefault("offset", 0), withMinimum("offset", 0), withMaximum("offset", articles.MaxSearchOffset),
			withDefault("sort_by", articles.SortRelevance),
			withEnum("sort_by", articles.SortRelevance, articles.SortViews),
			withMinimum("min_views", 0),
		),
		s.svc.Search)

	addTool(s, "get_page",
		"Get complete page information including metadata, content preview, and citations summary.",
		inputSchema[articles.PageInput](
			withDefault("max_content_length", DefaultPageContentLimit), withMinimum("max_content_length", 0),
		),
		s.svc.GetPage)

	addTool(s, "get_page_content",
		"Get only the article content without citations or metadata.",
		inputSchema[articles.ContentInput](
			withDefault("max_length", DefaultContentLimit), withMinimum("max_length", 0),
		),
		s.svc.GetPageContent)

	addTool(s, "get_page_citations",
		"Get the citations list for a specific page.",
		inputSchema[articles.CitationsInput](withMinimum("limit", 1)),
		s.svc.GetPageCitations)

	addTool(s, "get_related_pages",
		"Get pages that are linked from the specified page.",
		inputSchema[articles.RelatedInput](
			withDefault("limit", DefaultRelatedLimit), withMinimum("limit", 1),
		),
		s.svc.GetRelatedPages)

	addTool(s, "get_page_sections",
		"Get a list of all section headers in an article.",
		inputSchema[articles.SectionsInput](),
		s.svc.GetPageSections)

	addTool(s, "get_page_section",
		"Extract a specific section from an article by header name.",
		inputSchema[articles.SectionInput](
			withDefault("max_length", DefaultSectionLimit), withMinimum("max_length", 0),
		),
		s.svc.GetPageSection)
}

// addTool registers op as a tool. A successful call carries the rendered text
// as content and the structured record alongside it; a failed call is
// reported as a tool error with the operation's message.
func addTool[In any](s *Server, name, description string, schema *jsonschema.Schema, op operation[In]) {
	tool := &mcp.Tool{Name: name, Description: description, InputSchema: schema}
	mcp.AddTool(s.mcp, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		log := s.callLogger(req, name)
		start := time.Now()
		res, err := op(ctx, log, in)
		s.metrics.observe(name, err, time.Since(start))
		if err != nil {
			log.Debug("tool call failed", "kind", articles.KindOf(err).String(), "duration", time.Since(start))
			return nil, nil, err
		}
		log.Debug("tool call finished", "duration", time.Since(start))
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: res.Text}},
			StructuredContent: res.Data,
		}, nil, nil
	})
}
