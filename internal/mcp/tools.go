// ABOUTME: MCP tools for journal note and category operations.
// ABOUTME: Mutations go through the state controller so every front end shares one list.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harper/journal/internal/ai"
	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/ui"
)

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "add_note",
		Description: "Create a journal note",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Note title (max 50 characters)"},
				"content": {"type": "string", "description": "Note body (markdown)"},
				"emoji": {"type": "string", "description": "Display emoji"},
				"color": {"type": "string", "description": "Hex color like #FEF3C7"},
				"category_id": {"type": "string", "description": "Category to file the note under"}
			},
			"required": ["title"]
		}`),
	}, s.handleAddNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_notes",
		Description: "List notes, most recently updated first",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category_id": {"type": "string", "description": "Only notes in this category"},
				"limit": {"type": "integer", "description": "Max results", "default": 20}
			}
		}`),
	}, s.handleListNotes)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_note",
		Description: "Get a note by ID or ID prefix",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "update_note",
		Description: "Change some fields of a note. Pass category_id null to remove the category.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"},
				"title": {"type": "string", "description": "New title"},
				"content": {"type": "string", "description": "New content"},
				"emoji": {"type": "string", "description": "New emoji"},
				"color": {"type": "string", "description": "New hex color"},
				"category_id": {"type": ["string", "null"], "description": "New category, or null to clear"}
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "search_notes",
		Description: "Case-insensitive substring search over titles and content",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search text"},
				"limit": {"type": "integer", "description": "Max results", "default": 10}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchNotes)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_categories",
		Description: "List categories with their note counts",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListCategories)

	s.server.AddTool(&mcp.Tool{
		Name:        "add_category",
		Description: "Create a category",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Category name"},
				"color": {"type": "string", "description": "Optional color"},
				"icon": {"type": "string", "description": "Optional icon"}
			},
			"required": ["name"]
		}`),
	}, s.handleAddCategory)

	s.server.AddTool(&mcp.Tool{
		Name:        "generate",
		Description: "Ask the writing assistant for text, optionally grounded in web search",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"prompt": {"type": "string", "description": "What to write"},
				"system_instruction": {"type": "string", "description": "Override the assistant persona"},
				"grounding": {"type": "boolean", "description": "Ground the answer in web search", "default": false},
				"save_as": {"type": "string", "description": "If set, save the answer as a note with this title"}
			},
			"required": ["prompt"]
		}`),
	}, s.handleGenerate)
}

func (s *Server) handleAddNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Title      string  `json:"title"`
		Content    string  `json:"content"`
		Emoji      string  `json:"emoji"`
		Color      string  `json:"color"`
		CategoryID *string `json:"category_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.ctrl.CreateNewNote(ctx, models.CreateNote{
		Title:      params.Title,
		Content:    params.Content,
		Emoji:      params.Emoji,
		Color:      params.Color,
		CategoryID: params.CategoryID,
	})
	if err != nil {
		return errorResult("failed to create note: %v", err), nil
	}
	return textResult(fmt.Sprintf("Created note %s", note.ID)), nil
}

func (s *Server) handleListNotes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		CategoryID string `json:"category_id"`
		Limit      int    `json:"limit"`
	}
	params.Limit = 20
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	var notes []*models.Note
	var err error
	if params.CategoryID != "" {
		notes, err = s.notes.ListByCategory(ctx, params.CategoryID, nil)
	} else {
		notes, err = s.notes.List(ctx, nil)
	}
	if err != nil {
		return errorResult("failed to list notes: %v", err), nil
	}
	return jsonResult(limitNotes(notes, params.Limit))
}

func (s *Server) handleGetNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.notes.GetByPrefix(ctx, params.ID)
	if err != nil {
		return errorResult("failed to get note: %v", err), nil
	}
	return jsonResult(note)
}

func (s *Server) handleUpdateNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID         string                  `json:"id"`
		Title      *string                 `json:"title"`
		Content    *string                 `json:"content"`
		Emoji      *string                 `json:"emoji"`
		Color      *string                 `json:"color"`
		CategoryID models.Optional[string] `json:"category_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	cur, err := s.notes.GetByPrefix(ctx, params.ID)
	if err != nil {
		return errorResult("failed to get note: %v", err), nil
	}

	note, err := s.ctrl.UpdateExistingNote(ctx, models.UpdateNote{
		ID:         cur.ID,
		Title:      params.Title,
		Content:    params.Content,
		Emoji:      params.Emoji,
		Color:      params.Color,
		CategoryID: params.CategoryID,
	})
	if err != nil {
		return errorResult("failed to update note: %v", err), nil
	}
	return textResult(fmt.Sprintf("Updated note %s", note.ID)), nil
}

func (s *Server) handleDeleteNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.notes.GetByPrefix(ctx, params.ID)
	if err != nil {
		return errorResult("failed to get note: %v", err), nil
	}
	if err := s.ctrl.DeleteExistingNote(ctx, note.ID); err != nil {
		return errorResult("failed to delete note: %v", err), nil
	}
	return textResult(fmt.Sprintf("Deleted note %s", note.ID)), nil
}

func (s *Server) handleSearchNotes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	params.Limit = 10
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	notes, err := s.notes.Search(ctx, params.Query, nil)
	if err != nil {
		return errorResult("search failed: %v", err), nil
	}
	return jsonResult(limitNotes(notes, params.Limit))
}

func (s *Server) handleListCategories(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.cats.ListWithCounts(ctx)
	if err != nil {
		return errorResult("failed to list categories: %v", err), nil
	}

	type categoryOut struct {
		*models.Category
		Notes int `json:"notes"`
	}
	out := make([]categoryOut, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryOut{Category: c.Category, Notes: c.Count})
	}
	return jsonResult(out)
}

func (s *Server) handleAddCategory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Name  string  `json:"name"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	cat, err := s.cats.Create(ctx, params.Name, params.Color, params.Icon)
	if err != nil {
		return errorResult("failed to create category: %v", err), nil
	}
	return textResult(fmt.Sprintf("Created category %s (%s)", cat.Name, cat.ID)), nil
}

func (s *Server) handleGenerate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Prompt            string `json:"prompt"`
		SystemInstruction string `json:"system_instruction"`
		Grounding         bool   `json:"grounding"`
		SaveAs            string `json:"save_as"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Prompt) == "" {
		return errorResult("prompt cannot be empty"), nil
	}
	if s.gen == nil || !s.gen.Configured() {
		return errorResult("the writing assistant is not configured: set JOURNAL_AI_API_KEY"), nil
	}

	res, err := s.gen.Generate(ctx, ai.Request{
		Prompt:            params.Prompt,
		SystemInstruction: params.SystemInstruction,
		Grounding:         params.Grounding,
	})
	if err != nil {
		s.log.Warn("generate tool failed", zap.Error(err))
		return errorResult("generation failed: %v", err), nil
	}

	text := res.Text
	if len(res.Sources) > 0 {
		links := make([]ui.SourceLink, 0, len(res.Sources))
		for _, src := range res.Sources {
			links = append(links, ui.SourceLink{Title: src.Title, URI: src.URI})
		}
		text += "\n\n" + ui.FormatSources(links)
	}

	if params.SaveAs != "" {
		note, err := s.ctrl.CreateNewNote(ctx, models.CreateNote{Title: params.SaveAs, Content: text})
		if err != nil {
			return errorResult("generated text could not be saved: %v", err), nil
		}
		text += fmt.Sprintf("\n\nSaved as note %s", note.ID)
	}
	return textResult(text), nil
}

func limitNotes(notes []*models.Note, limit int) []*models.Note {
	if limit > 0 && len(notes) > limit {
		return notes[:limit]
	}
	return notes
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}
