// Package grokipedia is a client for the Grokipedia article API.
package grokipedia

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	searchPath = "/api/full-text-search"
	pagePath   = "/api/page"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	UserAgent  string
	Stats      *Stats
}

// Client talks to the Grokipedia HTTP API. It is safe for concurrent use and
// must be closed when no longer needed.
type Client struct {
	http  *resty.Client
	stats *Stats
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://grokipedia.com"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = 250 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "grokmcp"
	}
	maxWait := 8 * opts.RetryWait

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent).
		SetRetryCount(opts.MaxRetries).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(maxWait).
		SetRetryAfter(retryAfter(opts.RetryWait, maxWait))
	rc.AddRetryCondition(retryCondition)

	return &Client{http: rc, stats: opts.Stats}
}

// Search runs a full-text search.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*SearchResponse, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("offset", strconv.Itoa(offset))

	body, err := c.do(req, "search", searchPath)
	if err != nil {
		return nil, err
	}
	return decodeSearch(body)
}

// GetPage fetches a page by slug. A page the upstream reports as missing in
// its body yields Found=false; a 404 yields ErrNotFound.
func (c *Client) GetPage(ctx context.Context, slug string, includeContent bool) (*PageResponse, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("slug", slug).
		SetQueryParam("includeContent", strconv.FormatBool(includeContent))

	body, err := c.do(req, "get page", pagePath)
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

func (c *Client) do(req *resty.Request, op, path string) ([]byte, error) {
	start := time.Now()
	resp, err := req.Get(path)
	if err != nil {
		c.stats.Record(op, time.Since(start), true)
		if ctxErr := req.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, &NetworkError{Op: op, Err: err}
	}
	c.stats.Record(op, time.Since(start), resp.IsError())
	if resp.IsError() {
		return nil, statusError(op, resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

func decodeSearch(body []byte) (*SearchResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, &APIError{Op: "search", Message: "invalid JSON response"}
	}
	doc := gjson.ParseBytes(body)
	out := &SearchResponse{Results: []SearchResult{}}
	doc.Get("results").ForEach(func(_, r gjson.Result) bool {
		out.Results = append(out.Results, SearchResult{
			Title:          r.Get("title").String(),
			Slug:           r.Get("slug").String(),
			Snippet:        CleanSnippet(r.Get("snippet").String()),
			RelevanceScore: field(r, "relevanceScore", "relevance_score").Float(),
			ViewCount:      field(r, "viewCount", "view_count").Int(),
		})
		return true
	})
	return out, nil
}

func decodePage(body []byte) (*PageResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, &APIError{Op: "get page", Message: "invalid JSON response"}
	}
	doc := gjson.ParseBytes(body)
	p := doc.Get("page")
	if !p.IsObject() {
		return &PageResponse{Found: false}, nil
	}
	if found := doc.Get("found"); found.Exists() && !found.Bool() {
		return &PageResponse{Found: false}, nil
	}

	page := &Page{
		Slug:        p.Get("slug").String(),
		Title:       p.Get("title").String(),
		Description: p.Get("description").String(),
		Content:     p.Get("content").String(),
		Citations:   []Citation{},
		LinkedPages: []LinkedPage{},
	}
	p.Get("citations").ForEach(func(_, c gjson.Result) bool {
		page.Citations = append(page.Citations, Citation{
			Title:       c.Get("title").String(),
			URL:         c.Get("url").String(),
			Description: c.Get("description").String(),
		})
		return true
	})
	field(p, "linkedPages", "linked_pages").ForEach(func(_, l gjson.Result) bool {
		var lp LinkedPage
		parseLinkedPage(l, &lp)
		page.LinkedPages = append(page.LinkedPages, lp)
		return true
	})
	return &PageResponse{Found: true, Page: page}, nil
}

// field returns the first of the given keys present in r.
func field(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
