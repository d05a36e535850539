// ABOUTME: Ask command for the writing assistant.
// ABOUTME: Prints the answer with any grounding sources and can save it as a note.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/ai"
	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/ui"
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Ask the writing assistant",
	Long: `Send a prompt to the writing assistant. --ground lets it search the web and
lists the sources it used. --save stores the answer as a new note.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ground, _ := cmd.Flags().GetBool("ground")
		saveAs, _ := cmd.Flags().GetString("save")
		system, _ := cmd.Flags().GetString("system")

		if !jr.gen.Configured() {
			return errors.New("no API key configured: set JOURNAL_AI_API_KEY or GEMINI_API_KEY")
		}

		res, err := jr.gen.Generate(ctx, ai.Request{
			Prompt:            strings.Join(args, " "),
			SystemInstruction: system,
			Grounding:         ground,
		})
		if err != nil {
			var aerr *ai.Error
			if errors.As(err, &aerr) && aerr.IsAuth() {
				return fmt.Errorf("the assistant rejected the API key: %w", err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		rendered, err := ui.FormatNoteContent(res.Text)
		if err != nil {
			rendered = res.Text + "\n"
		}
		fmt.Fprint(out, rendered)

		links := make([]ui.SourceLink, 0, len(res.Sources))
		for _, s := range res.Sources {
			links = append(links, ui.SourceLink{Title: s.Title, URI: s.URI})
		}
		if len(links) > 0 {
			fmt.Fprint(out, ui.FormatSources(links))
		}

		if saveAs != "" {
			content := res.Text
			if len(links) > 0 {
				content += "\n\n" + ui.FormatSources(links)
			}
			note, err := jr.ctrl.CreateNewNote(ctx, models.CreateNote{Title: saveAs, Content: content})
			if err != nil {
				return fmt.Errorf("failed to save answer: %w", err)
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Saved as note %s", note.ID)))
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolP("ground", "g", false, "ground the answer in web search")
	askCmd.Flags().String("save", "", "save the answer as a note with this title")
	askCmd.Flags().String("system", "", "override the assistant persona")
	rootCmd.AddCommand(askCmd)
}
