package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/echotask/echotask/internal/parser"
	"github.com/spf13/cobra"
)

// parseResult is the CLI rendering of a full pipeline run
type parseResult struct {
	IsTask     bool   `json:"is_task"`
	Title      string `json:"title,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	DueTime    string `json:"due_time,omitempty"`
	Category   string `json:"category,omitempty"`
	Expanded   string `json:"expanded"`
	Reply      string `json:"reply"`
	DateLabel  string `json:"date_label,omitempty"`
	ClockLabel string `json:"clock_label,omitempty"`
}

// NewParseCmd creates the parse command
func NewParseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse [utterance]",
		Short: "Run the full pipeline on an utterance",
		Long:  "Classify an utterance, extract the task title, and resolve its date, time, and category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			now := time.Now()

			result := parseResult{
				Expanded: parser.ExpandAbbreviations(text),
			}

			parsed := parser.ParseTask(text)
			if parsed != nil {
				result.IsTask = true
				result.Title = parsed.Title
				result.DueDate = parser.ResolveDate(parsed.RawDate, now)
				result.DueTime = parser.ResolveTime(parsed.RawTime)
				result.Category = parsed.SuggestedCategory
				result.DateLabel = parser.FormatDateForDisplay(result.DueDate, now)
				result.ClockLabel = parser.FormatTimeForDisplay(result.DueTime)
			}
			result.Reply = parser.BotReply(text, parsed != nil)

			if asJSON {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			if !result.IsTask {
				fmt.Println("Not a task.")
				fmt.Printf("Reply: %s\n", result.Reply)
				return nil
			}

			fmt.Printf("Title:    %s\n", result.Title)
			fmt.Printf("Date:     %s (%s)\n", result.DueDate, result.DateLabel)
			fmt.Printf("Time:     %s (%s)\n", result.DueTime, result.ClockLabel)
			fmt.Printf("Category: %s\n", result.Category)
			fmt.Printf("Reply:    %s\n", result.Reply)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
