package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/olgasafonova/mediawiki-actions-mcp-server/metrics"
	"github.com/olgasafonova/mediawiki-actions-mcp-server/tracing"
	"github.com/olgasafonova/mediawiki-actions-mcp-server/wiki"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	client *wiki.Client
	logger *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(client *wiki.Client, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		client: client,
		logger: logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	for _, spec := range AllTools {
		h.registerByName(server, spec)
	}
	h.logger.Info("Registered all tools", "count", len(AllTools))
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) {
	tool := h.buildTool(spec)

	switch spec.Method {
	case "EditPage":
		register(h, server, tool, spec, h.client.EditPage)
	case "GetPage":
		register(h, server, tool, spec, h.client.GetPage)
	case "SearchPages":
		register(h, server, tool, spec, h.client.SearchPages)
	case "OpenSearch":
		register(h, server, tool, spec, h.client.OpenSearch)
	case "MovePage":
		register(h, server, tool, spec, h.client.MovePage)
	case "DeletePage":
		register(h, server, tool, spec, h.client.DeletePage)
	case "UndeletePage":
		register(h, server, tool, spec, h.client.UndeletePage)
	case "ParsePage":
		register(h, server, tool, spec, h.client.ParsePage)
	case "ComparePage":
		register(h, server, tool, spec, h.client.ComparePage)
	case "SiteInfo":
		register(h, server, tool, spec, h.client.SiteInfo)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
	}
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// Every client method produces a formatted text report, so the result is
// returned as MCP text content. The wrapper adds panic recovery, metrics,
// tracing, and logging.
func register[Args any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (string, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (*mcp.CallToolResult, any, error) {
		defer h.recoverPanic(spec.Name)

		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		span.SetAttributes(
			attribute.String("mcp.tool.name", spec.Name),
			attribute.String("mcp.tool.category", spec.Category),
			attribute.Bool("mcp.tool.readonly", spec.ReadOnly),
		)

		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		report, err := method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			return nil, nil, fmt.Errorf("%s failed: %w", spec.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, args, report)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: report}},
		}, nil, nil
	})
}

// recoverPanic recovers from panics in tool handlers.
func (h *HandlerRegistry) recoverPanic(toolName string) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args any, report string) {
	attrs := []any{"tool", spec.Name, "category", spec.Category}

	// Add extractable fields from args using type assertions
	switch a := args.(type) {
	case wiki.EditPageArgs:
		attrs = append(attrs, "title", a.Title)
	case wiki.GetPageArgs:
		attrs = append(attrs, "title", a.Title, "method", a.Method)
	case wiki.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case wiki.OpenSearchArgs:
		attrs = append(attrs, "search", a.Search)
	case wiki.MovePageArgs:
		attrs = append(attrs, "from", a.From, "to", a.To)
	case wiki.DeletePageArgs:
		attrs = append(attrs, "title", a.Title)
	case wiki.UndeletePageArgs:
		attrs = append(attrs, "title", a.Title)
	case wiki.ParsePageArgs:
		attrs = append(attrs, "title", a.Title, "page", a.Page)
	case wiki.ComparePageArgs:
		attrs = append(attrs, "fromtitle", a.FromTitle, "totitle", a.ToTitle)
	case wiki.SiteInfoArgs:
		attrs = append(attrs, "siprop", a.Prop)
	}

	attrs = append(attrs, "report_bytes", len(report))
	h.logger.Info("Tool executed", attrs...)
}
