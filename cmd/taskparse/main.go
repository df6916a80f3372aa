package main

import (
	"fmt"
	"os"

	"github.com/echotask/echotask/cmd/taskparse/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "taskparse",
		Short: "Offline utterance parsing tool for EchoTask",
		Long:  "CLI tool for running the rule-based utterance pipeline without a server",
	}

	rootCmd.AddCommand(commands.NewParseCmd())
	rootCmd.AddCommand(commands.NewDateCmd())
	rootCmd.AddCommand(commands.NewTimeCmd())
	rootCmd.AddCommand(commands.NewTopicCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
