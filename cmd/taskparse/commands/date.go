package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/echotask/echotask/internal/parser"
	"github.com/spf13/cobra"
)

// NewDateCmd creates the date command
func NewDateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date [text]",
		Short: "Resolve a date expression",
		Long:  "Resolve expressions like 'tomorrow', 'next friday', or 'this weekend' to a calendar date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			now := time.Now()
			resolved := parser.ResolveDate(text, now)
			fmt.Printf("%s (%s)\n", resolved, parser.FormatDateForDisplay(resolved, now))
			return nil
		},
	}

	return cmd
}
