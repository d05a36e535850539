// ABOUTME: MCP resources for exposing notes as readable resources.
// ABOUTME: Allows AI agents to access note content via URI scheme.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const noteURIPrefix = "journal://note/"

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: noteURIPrefix + "{id}",
			Name:        "Note",
			Description: "Access individual notes by ID",
			MIMEType:    "text/markdown",
		},
		s.handleReadResource,
	)
}

func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	id, ok := strings.CutPrefix(req.Params.URI, noteURIPrefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	note, err := s.notes.GetByPrefix(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s %s\n\n", note.Emoji, note.Title))
	sb.WriteString(fmt.Sprintf("*%s*\n\n", note.Date))
	if name := s.categoryName(ctx, note.CategoryID); name != "" {
		sb.WriteString(fmt.Sprintf("**Category:** %s\n\n", name))
	}
	sb.WriteString(note.Content)

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}

func (s *Server) categoryName(ctx context.Context, id *string) string {
	if id == nil {
		return ""
	}
	cat, found, err := s.cats.GetByID(ctx, *id)
	if err != nil || !found {
		return ""
	}
	return cat.Name
}
