// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the article catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mocinformacji/internal/apperr"
	"github.com/starford/mocinformacji/internal/articles"
	"github.com/starford/mocinformacji/internal/catalog"
	"github.com/starford/mocinformacji/internal/parser"
	"github.com/starford/mocinformacji/internal/storage"
	"github.com/starford/mocinformacji/internal/views"
)

const formatURI = "mocinformacji://article-format"

// searchLimit caps the number of search hits returned to a client.
const searchLimit = 20

var segmentPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Server wraps the MCP server with the article tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *articles.Service
	store   storage.Provider
	counter views.Counter
}

// New creates a new MCP server with all article tools registered. counter
// may be nil, in which case get_view_count reports an error.
func New(svc *articles.Service, store storage.Provider, counter views.Counter) *Server {
	s := &Server{svc: svc, store: store, counter: counter}

	s.mcp = server.NewMCPServer(
		"Moc Informacji",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Search article titles, headings and descriptions (case-insensitive substring)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchArticles)

	s.mcp.AddTool(mcp.NewTool("read_article",
		mcp.WithDescription("Read one article with its reading time and table of contents."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category segment (e.g. finanse)")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Article slug (e.g. kredyt-hipoteczny)")),
	), s.readArticle)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List article paths, newest first, optionally in one category."),
		mcp.WithString("category", mcp.Description("Optional category to list (empty for all)")),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List categories with display names and article counts."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("create_article",
		mcp.WithDescription("Create a new article record. Content MUST follow the article "+
			"format contract; read it first via get_article_contract or the "+
			formatURI+" resource."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category segment (lowercase, hyphenated)")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Article slug (lowercase, hyphenated)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("JSON article record")),
	), s.createArticle)

	s.mcp.AddTool(mcp.NewTool("get_article_contract",
		mcp.WithDescription("Returns the article record format contract."),
	), s.getArticleContract)

	s.mcp.AddTool(mcp.NewTool("get_view_count",
		mcp.WithDescription("Returns the unique-visitor count of the site."),
	), s.getViewCount)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Article Format Contract",
			mcp.WithResourceDescription("JSON record format that all articles must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := s.svc.Search(ctx, query).Results
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}
	return jsonResult(catalog.Summaries(results))
}

type articleResult struct {
	Path        string `json:"path"`
	ReadingTime int    `json:"readingTime"`
	TOC         any    `json:"toc"`
	Article     any    `json:"article"`
}

func (s *Server) readArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.svc.Article(ctx, category, slug)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s", category, slug)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(articleResult{
		Path:        page.Article.URL(),
		ReadingTime: page.ReadingTime,
		TOC:         page.Body.TOC,
		Article:     page.Article,
	})
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = strings.TrimSpace(c)
	}

	all := s.svc.Recent(ctx)
	if category != "" {
		all = catalog.InCategory(all, category)
	}
	paths := make([]string, len(all))
	for i, a := range all {
		paths[i] = a.Category + "/" + a.Slug
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText("no articles found"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Categories(ctx))
}

func (s *Server) createArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = validation.Errors{
		"category": validation.Validate(category, validation.Required, validation.Match(segmentPattern)),
		"slug":     validation.Validate(slug, validation.Required, validation.Match(segmentPattern)),
	}.Filter()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data := []byte(content)
	if _, err := parser.Parse(data, category, slug); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if existing, resolveErr := s.store.Resolve(category, slug); resolveErr == nil {
		return mcp.NewToolResultError(fmt.Sprintf("article already exists: %s", existing)), nil
	}

	path := category + "/" + slug + storage.Ext
	if err := s.store.Write(path, data); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) getArticleContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ArticleFormatContract), nil
}

func (s *Server) getViewCount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.counter == nil {
		return mcp.NewToolResultError("view counter not configured"), nil
	}
	n, err := s.counter.Views(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]int{"views": n})
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     ArticleFormatContract,
		},
	}, nil
}
