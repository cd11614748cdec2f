package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/debot/internal/cli/formatter"
)

// defaultCLIConversation is the conversation used by ask when none is given,
// so consecutive asks share context.
const defaultCLIConversation = "cli"

func newAskCmd(app *App) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print the reply",
		Long: `Send one message to a conversation and print the reply.

Conversations live in process memory unless DEBOT_REDIS_URL is set, so
separate ask invocations only share context when a Redis store is configured.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("message is empty")
			}
			out := cmd.OutOrStdout()
			status := newReplyStatus(app, out)
			reply, err := app.Conversations.HandleMessage(cmd.Context(), conversationID, text, status.progress)
			status.stop()
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatReply(reply))
			return nil
		},
	}

	addConversationFlag(cmd.Flags(), &conversationID, defaultCLIConversation)
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		conversationID string
		reset          bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or reset the stored window of a conversation",
		Long: `Show or reset the stored window of a conversation.

Without DEBOT_REDIS_URL conversations are kept in process memory, so this only
shows turns from the same process; set a Redis URL to keep them across runs.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if reset {
				if err := app.Conversations.Reset(cmd.Context(), conversationID); err != nil {
					return err
				}
				fmt.Fprintf(out, "Conversation %s reset.\n", conversationID)
				return nil
			}

			msgs, err := app.Conversations.History(cmd.Context(), conversationID)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatHistory(msgs))
			return nil
		},
	}

	addConversationFlag(cmd.Flags(), &conversationID, defaultCLIConversation)
	cmd.Flags().BoolVar(&reset, "reset", false, "Forget the conversation")
	return cmd
}
