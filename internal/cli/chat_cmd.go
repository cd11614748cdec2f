package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/debot/internal/cli/formatter"
)

func newChatCmd(app *App) *cobra.Command {
	var (
		conversationID string
		plain          bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with DE Bot",
		Long: `Start a conversation with DE Bot. On a terminal this opens the chat
view; otherwise one message is read per input line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if conversationID == "" {
				conversationID = app.newConversationID()
			}
			if plain || !app.interactive() {
				return runLineChat(cmd, app, conversationID)
			}

			model := newChatModel(cmd.Context(), app, conversationID)
			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}

	addConversationFlag(cmd.Flags(), &conversationID, "")
	cmd.Flags().BoolVar(&plain, "plain", false, "Read messages line by line even on a terminal")
	return cmd
}

// chatCommand classifies an input line as a chat command.
type chatCommand int

const (
	chatSend chatCommand = iota
	chatQuit
	chatReset
)

func parseChatCommand(input string) chatCommand {
	switch strings.ToLower(input) {
	case "/quit", "/exit", "/q":
		return chatQuit
	case "/reset":
		return chatReset
	}
	return chatSend
}

// runLineChat reads one message per line until EOF or /quit.
func runLineChat(cmd *cobra.Command, app *App, id string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	fmt.Fprint(out, formatter.FormatChatWelcome(id))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		switch parseChatCommand(input) {
		case chatQuit:
			return nil
		case chatReset:
			if err := app.Conversations.Reset(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Dim("Conversa reiniciada."))
			continue
		}

		if err := sendLine(cmd, app, id, input, out); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func sendLine(cmd *cobra.Command, app *App, id, input string, out io.Writer) error {
	status := newReplyStatus(app, out)
	reply, err := app.Conversations.HandleMessage(cmd.Context(), id, input, status.progress)
	status.stop()
	if err != nil {
		return err
	}
	fmt.Fprint(out, formatter.FormatReply(reply))
	return nil
}
