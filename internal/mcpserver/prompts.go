package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	researchTopicText = `I'll help you research a topic from Grokipedia. Please provide the topic you want to research.

I will:
1. Search for articles related to your topic
2. Retrieve the most relevant article
3. Provide a comprehensive overview including related pages and citations

What topic would you like to research?`

	findSourcesText = `I'll help you find sources and citations for a topic from Grokipedia.

I will:
1. Search for articles on your topic
2. Retrieve citation information
3. List all source materials with URLs

What topic do you need sources for?`

	exploreRelatedText = `I'll help you explore related topics and discover connections in Grokipedia.

I will:
1. Get the page you're interested in
2. Find all related/linked pages
3. Show you connections and suggest further reading

Which topic would you like to explore?`

	compareTopicsFormat = `I'll help you compare two topics from Grokipedia.

I will:
1. Retrieve articles for both %s and %s
2. Compare their content, key points, and citations
3. Highlight similarities and differences

Please provide the two topics you want to compare (or confirm the suggestions above).`
)

func (s *Server) registerPrompts() {
	s.addStaticPrompt("research_topic", "Research a topic by searching and retrieving detailed information", researchTopicText)
	s.addStaticPrompt("find_sources", "Find authoritative sources and citations for a topic", findSourcesText)
	s.addStaticPrompt("explore_related", "Explore topics related to a specific article", exploreRelatedText)

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "compare_topics",
		Description: "Compare two topics side by side",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic1", Description: "First topic (default \"Topic 1\")"},
			{Name: "topic2", Description: "Second topic (default \"Topic 2\")"},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		text := fmt.Sprintf(compareTopicsFormat, argOr(args, "topic1", "Topic 1"), argOr(args, "topic2", "Topic 2"))
		return promptResult("Compare two topics side by side", text), nil
	})
}

func (s *Server) addStaticPrompt(name, description, text string) {
	s.mcp.AddPrompt(&mcp.Prompt{Name: name, Description: description},
		func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return promptResult(description, text), nil
		})
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}

func argOr(args map[string]string, key, fallback string) string {
	if v := args[key]; v != "" {
		return v
	}
	return fallback
}
