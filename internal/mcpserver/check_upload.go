package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/papercheck/internal/storage"
)

const maxUploadSize = 50 << 20 // 50 MB

var (
	zipMagic       = []byte("PK\x03\x04")
	safeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

func (s *Server) checkUpload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename := sanitizeFilename(req.GetString("filename", "upload.docx"))
	if !storage.IsDocument(filename) {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported file name: %s (must end with .docx)", filename)), nil
	}

	data, err := decodeContent(content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(data) > maxUploadSize {
		return mcp.NewToolResultError(fmt.Sprintf("file too large: %d bytes (max %d)", len(data), maxUploadSize)), nil
	}
	if !bytes.HasPrefix(data, zipMagic) {
		return mcp.NewToolResultError("content is not a .docx (ZIP) archive"), nil
	}

	run, err := s.svc.CheckUpload(ctx, filename, data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.runResult(run)
}

// decodeContent accepts plain base64 or a data:[<mediatype>];base64,<data> URI.
func decodeContent(content string) ([]byte, error) {
	encoded := strings.TrimSpace(content)
	if strings.HasPrefix(encoded, "data:") {
		rest := strings.TrimPrefix(encoded, "data:")
		commaIdx := strings.Index(rest, ",")
		if commaIdx < 0 {
			return nil, fmt.Errorf("invalid data URI: missing comma separator")
		}
		if !strings.Contains(rest[:commaIdx], ";base64") {
			return nil, fmt.Errorf("only base64 data URIs are supported")
		}
		encoded = rest[commaIdx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return data, nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = safeFilenameRe.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == "_" {
		return "upload.docx"
	}
	return name
}
