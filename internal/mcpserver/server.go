// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes papercheck tools for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/papercheck/internal/apperr"
	"github.com/starford/papercheck/internal/checkservice"
	"github.com/starford/papercheck/internal/models"
	"github.com/starford/papercheck/internal/report"
)

// Server wraps the MCP server with papercheck tools.
type Server struct {
	mcp *server.MCPServer
	svc *checkservice.Service
}

// New creates a new MCP server with all papercheck tools registered.
func New(svc *checkservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"papercheck",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("check_document",
		mcp.WithDescription("Check a .docx document from the library against the paper format rules "+
			"and record the run. Returns the printed report followed by the run id."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. papers/draft.docx)")),
	), s.checkDocument)

	s.mcp.AddTool(mcp.NewTool("check_upload",
		mcp.WithDescription("Check a .docx document passed inline as base64 (or a base64 data URI). "+
			"The document is not stored in the library."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Base64-encoded .docx bytes")),
		mcp.WithString("filename", mcp.Description("File name to record the run under (default upload.docx)")),
	), s.checkUpload)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List the .docx documents in the library."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recorded check runs, newest first."),
		mcp.WithString("path", mcp.Description("Optional document path to filter by")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs (default 20)")),
	), s.listRuns)

	s.mcp.AddTool(mcp.NewTool("get_run",
		mcp.WithDescription("Get the full report of a recorded run as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	), s.getRun)

	s.mcp.AddTool(mcp.NewTool("get_format_rules",
		mcp.WithDescription("Returns the paper format rules in Markdown. "+
			"Read them before editing a paper to know what the checker expects."),
	), s.getFormatRules)

	s.mcp.AddResource(
		mcp.NewResource(FormatRulesURI, "Paper Format Rules",
			mcp.WithResourceDescription("The format rules every checked paper is measured against."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatRulesResource,
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

func (s *Server) runResult(run *models.Run) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := report.Text(&buf, run.Report, report.Options{}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fmt.Fprintf(&buf, "\nrun: %s\n", run.ID)
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) checkDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	run, err := s.svc.CheckDocument(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.runResult(run)
}

func (s *Server) listDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.svc.Documents(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("no documents found"), nil
	}
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) listRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	limit := req.GetInt("limit", 20)

	runs, _, err := s.svc.Runs(ctx, limit, 0, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("no runs recorded"), nil
	}
	lines := make([]string, len(runs))
	for i, r := range runs {
		lines[i] = fmt.Sprintf("%s\t%s\t%s\t%s", r.ID, r.CheckedAt.Format("2006-01-02 15:04:05"), r.Report.Outcome(), r.Path)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	run, err := s.svc.Run(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("run not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(run, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getFormatRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatRules(s.svc.Rules())), nil
}

func (s *Server) readFormatRulesResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatRulesURI,
			MIMEType: "text/markdown",
			Text:     FormatRules(s.svc.Rules()),
		},
	}, nil
}
