package commands

import (
	"fmt"

	"github.com/echotask/echotask/internal/models"
	"github.com/echotask/echotask/internal/parser"
	"github.com/spf13/cobra"
)

// NewTopicCmd creates the topic command
func NewTopicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic [message]...",
		Short: "Derive a conversation topic",
		Long:  "Derive a topic from an ordered list of user messages, the way the server names conversations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			messages := make([]models.Message, 0, len(args))
			for _, content := range args {
				messages = append(messages, models.Message{
					Role:    models.MessageRoleUser,
					Content: content,
				})
			}

			fmt.Println(parser.GenerateTopic(messages))
			return nil
		},
	}

	return cmd
}
