package commands

import (
	"fmt"
	"strings"

	"github.com/echotask/echotask/internal/parser"
	"github.com/spf13/cobra"
)

// NewTimeCmd creates the time command
func NewTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time [text]",
		Short: "Resolve a time expression",
		Long:  "Resolve expressions like 'at 3pm', 'after lunch', or 'in the morning' to a clock time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			resolved := parser.ResolveTime(text)
			fmt.Printf("%s (%s)\n", resolved, parser.FormatTimeForDisplay(resolved))
			return nil
		},
	}

	return cmd
}
