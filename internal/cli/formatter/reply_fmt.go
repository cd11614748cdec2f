package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/debot/internal/conversation"
	"github.com/alexanderramin/debot/internal/domain"
)

const botName = "DE Bot"

// FormatReply renders the messages of one reply, one per line. On the
// recommending branch the first message is the announcement and every other
// one is a lesson block.
func FormatReply(reply *conversation.Reply) string {
	var b strings.Builder
	style := BranchStyle(reply.Branch)
	for i, msg := range reply.Messages {
		switch {
		case reply.Branch == conversation.BranchRecommending && i == 0:
			b.WriteString(StyleBlue.Render(botName+": ") + Bold(msg))
		case reply.Branch == conversation.BranchRecommending:
			b.WriteString("  " + StylePurple.Render("▸ ") + style.Render(msg))
		default:
			b.WriteString(StyleBlue.Render(botName+": ") + style.Render(msg))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatProgress renders an interim status line.
func FormatProgress(text string) string {
	return Dim(botName+": "+text) + "\n"
}

// FormatUserTurn echoes what the user typed.
func FormatUserTurn(text string) string {
	return Dim("Você: ") + text
}

// FormatChatWelcome is the banner of an interactive chat.
func FormatChatWelcome(conversationID string) string {
	return fmt.Sprintf("%s\n%s\n",
		Header("DEbot chat"),
		Dim(fmt.Sprintf("Conversa %s. Escreva sua dúvida; /reset recomeça, /quit sai.", conversationID)))
}

// FormatHistory renders a stored window, system entries dimmed.
func FormatHistory(msgs []domain.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			b.WriteString(Dim("[system] " + truncate(m.Content, 80)))
		case domain.RoleUser:
			b.WriteString(FormatUserTurn(m.Content))
		default:
			b.WriteString(StyleBlue.Render(botName+": ") + m.Content)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
