// MediaWiki Actions MCP Server - a Model Context Protocol server exposing
// the MediaWiki Action API as tools: page editing, retrieval, search,
// moves, deletion, parsing, diffs, and site metadata.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/olgasafonova/mediawiki-actions-mcp-server/tools"
	"github.com/olgasafonova/mediawiki-actions-mcp-server/tracing"
	"github.com/olgasafonova/mediawiki-actions-mcp-server/wiki"
)

const (
	ServerName    = "mediawiki-actions-mcp-server"
	ServerVersion = "1.0.0"
)

func main() {
	// Optional .env bootstrap for local development; real deployments set
	// environment variables directly
	_ = godotenv.Load()

	// Configure logging to stderr (stdout is used for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	config, err := wiki.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	client := wiki.NewClient(config, logger)
	defer client.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger: logger,
		Instructions: `MediaWiki Actions MCP Server provides tools for interacting with a MediaWiki wiki through its Action API.

Available tools:
- wiki_page_edit: Create or modify a page (requires bot credentials)
- wiki_page_get: Retrieve page content (revisions, raw, parse, or extracts)
- wiki_search: Full-text search across the wiki
- wiki_opensearch: Quick title suggestions (OpenSearch protocol)
- wiki_page_move: Rename a page (requires bot credentials)
- wiki_page_delete: Delete a page (requires bot credentials)
- wiki_page_undelete: Restore a deleted page (requires bot credentials)
- wiki_page_parse: Parse pages, revisions, or arbitrary wikitext
- wiki_page_compare: Diff two pages, revisions, or texts
- wiki_meta_siteinfo: Wiki configuration and statistics

Configure via environment variables:
- MEDIAWIKI_API_URL: Wiki API endpoint (e.g., https://wiki.example.com/api.php)
- MEDIAWIKI_API_BOT_USERNAME: Bot username (for mutations)
- MEDIAWIKI_API_BOT_PASSWORD: Bot password (for mutations)
- MEDIAWIKI_API_BOT_USER_AGENT: Custom User-Agent header`,
	})

	tools.NewHandlerRegistry(client, logger).RegisterAll(server)

	logger.Info("Starting MediaWiki Actions MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"wiki_url", config.APIURL,
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
