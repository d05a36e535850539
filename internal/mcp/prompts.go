// ABOUTME: MCP prompts for common journaling workflows.
// ABOUTME: Prompts embed live note and category data where it helps the agent.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "daily-reflection",
		Description: "Write a short daily journal entry with guided reflection questions",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "date",
				Description: "Day to reflect on (YYYY-MM-DD), defaults to today",
				Required:    false,
			},
			{
				Name:        "mood",
				Description: "One word for how the day felt",
				Required:    false,
			},
		},
	}, s.getDailyReflectionPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "summarize-note",
		Description: "Summarize an existing note in a few sentences",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "note_id",
				Description: "ID or ID prefix of the note to summarize",
				Required:    true,
			},
		},
	}, s.getSummarizeNotePrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "organize-into-categories",
		Description: "Suggest categories for uncategorized notes",
	}, s.getOrganizePrompt)
}

func (s *Server) getDailyReflectionPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	date := req.Params.Arguments["date"]
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	mood := req.Params.Arguments["mood"]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Help me write a journal entry for %s.\n", date)
	if mood != "" {
		fmt.Fprintf(&sb, "Overall the day felt %s.\n", mood)
	}
	sb.WriteString(`
Ask me about, one at a time:
- the moment I most want to remember
- something that was hard and what it taught me
- one thing I'm grateful for
- what I want tomorrow to look like

Then use the add_note tool to save a note. Keep the title under 50 characters
and pick an emoji that fits the mood.`)

	return promptResult(sb.String()), nil
}

func (s *Server) getSummarizeNotePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	noteID := req.Params.Arguments["note_id"]
	if noteID == "" {
		return nil, errors.New("note_id argument is required")
	}

	note, err := s.notes.GetByPrefix(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	text := fmt.Sprintf(`Summarize this journal note in two or three sentences.
Keep my voice and don't add facts that aren't there.

Title: %s
Written: %s

%s

If I ask you to keep the summary, use the update_note tool on note %s and put it
at the top of the content under a "Summary" heading.`, note.Title, note.Date, note.Content, note.ID)

	return promptResult(text), nil
}

func (s *Server) getOrganizePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	cats, err := s.cats.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Help me organize my journal.\n\n")
	if len(cats) == 0 {
		sb.WriteString("I don't have any categories yet.\n")
	} else {
		sb.WriteString("Existing categories:\n")
		for _, c := range cats {
			fmt.Fprintf(&sb, "- %s (%s, %d notes)\n", c.Category.Name, c.Category.ID, c.Count)
		}
	}
	sb.WriteString(`
1. Use the list_notes tool to read my notes
2. Group the notes without a category by theme
3. Reuse an existing category when one fits, otherwise propose a new one
4. After I agree, create new ones with add_category and file notes with update_note`)

	return promptResult(sb.String()), nil
}

func promptResult(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
