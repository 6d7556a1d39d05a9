// Package mcpsearch exposes grepr's search engine as a Model Context
// Protocol tool, grounded on the teacher's internal/mcp server: the same
// server.NewMCPServer/ServeStdio bootstrap, the same handlers-with-
// dependencies shape, and the same permissive getString/getBool/getInt
// parameter-extraction helpers, reduced to the single "grep" tool this
// system needs rather than the teacher's full document-store surface.
package mcpsearch

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/evanj-au/grepr/internal/engine"
	"github.com/evanj-au/grepr/internal/globset"
	"github.com/evanj-au/grepr/internal/matcher"
	"github.com/evanj-au/grepr/internal/walk"
)

// Version is advertised to MCP clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio, exposing a single "grep" tool
// that runs [engine.Execute] and returns its Result as JSON.
//
// Logging goes to stderr; stdout is reserved for MCP JSON-RPC messages.
func Serve() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	s := server.NewMCPServer("grepr", Version, server.WithToolCapabilities(true))
	registerTools(s)

	slog.Info("grepr MCP server ready", "version", Version, "transport", "stdio")
	return server.ServeStdio(s)
}

func registerTools(s *server.MCPServer) {
	s.AddTool(
		mcp.NewTool("grep",
			mcp.WithDescription("Search files or directories for lines matching a pattern"),
			mcp.WithString("pattern", mcp.Required(), mcp.Description("Pattern to search for (e.g. 'error|warn', 'TODO.*fix')")),
			mcp.WithArray("paths", mcp.Description("Files or directories to search; omit to search the current directory")),
			mcp.WithString("dialect", mcp.Description("Regex dialect: basic (default), extended, fixed, perl")),
			mcp.WithBoolean("ignore_case", mcp.Description("Case-insensitive match")),
			mcp.WithBoolean("invert_match", mcp.Description("Select non-matching lines")),
			mcp.WithBoolean("recursive", mcp.Description("Recurse into directories")),
			mcp.WithNumber("before_context", mcp.Description("Lines of context to show before each match")),
			mcp.WithNumber("after_context", mcp.Description("Lines of context to show after each match")),
			mcp.WithNumber("max_count", mcp.Description("Stop after this many matches per file")),
			mcp.WithString("include", mcp.Description("Only search files matching this glob (space-separated for multiple)")),
			mcp.WithString("exclude", mcp.Description("Skip files matching this glob (space-separated for multiple)")),
		),
		grepTool,
	)
}

func grepTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError("pattern is required"), nil //nolint:nilerr
	}

	c := engine.DefaultConfig()
	c.Expressions = []string{pattern}
	c.Paths = getStrings(req, "paths")
	c.IgnoreCase = getBool(req, "ignore_case", false)
	c.InvertMatch = getBool(req, "invert_match", false)
	c.BeforeContext = getInt(req, "before_context", 0)
	c.AfterContext = getInt(req, "after_context", 0)
	c.MaxCount = getInt(req, "max_count", 0)
	c.FileNameMode = engine.FileNameAlways
	c.LineNumberOutput = true

	if getBool(req, "recursive", false) {
		c.DirectoryPolicy = walk.PolicyRecurse
	}
	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
		c.DirectoryPolicy = walk.PolicyRecurse
	}

	switch getString(req, "dialect", "basic") {
	case "extended":
		c.Dialect = matcher.Extended
	case "fixed":
		c.Dialect = matcher.Fixed
	case "perl":
		c.Dialect = matcher.Perl
	default:
		c.Dialect = matcher.Basic
	}

	if inc := getString(req, "include", ""); inc != "" {
		values, err := globset.Parse([]string{inc})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		set, err := globset.New(values)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		c.Include = set
	}
	if exc := getString(req, "exclude", ""); exc != "" {
		values, err := globset.Parse([]string{exc})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		set, err := globset.New(values)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		c.Exclude = set
	}

	var discard discardWriter
	res, err := engine.Execute(ctx, c, os.Stdin, discard, discard, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(res)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
