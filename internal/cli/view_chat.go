package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/debot/internal/cli/formatter"
	"github.com/alexanderramin/debot/internal/conversation"
)

// replyMsg carries the outcome of one message sent in the background.
type replyMsg struct {
	progress []string
	reply    *conversation.Reply
	err      error
}

type resetMsg struct{ err error }

// chatModel is the interactive chat view. Messages are handled off the UI
// loop; input is locked while a reply is pending.
type chatModel struct {
	ctx     context.Context
	app     *App
	id      string
	input   textinput.Model
	spinner spinner.Model

	lines   []string
	waiting bool
}

func newChatModel(ctx context.Context, app *App, id string) *chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 1000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	return &chatModel{
		ctx:     ctx,
		app:     app,
		id:      id,
		input:   ti,
		spinner: sp,
		lines:   []string{formatter.FormatChatWelcome(id)},
	}
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			input := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleInput(input)
		}
		if m.waiting {
			return m, nil
		}

	case replyMsg:
		m.waiting = false
		for _, p := range msg.progress {
			m.lines = append(m.lines, strings.TrimRight(formatter.FormatProgress(p), "\n"))
		}
		if msg.err != nil {
			m.lines = append(m.lines, formatter.StyleRed.Render("Error: "+msg.err.Error()))
			return m, nil
		}
		m.lines = append(m.lines, strings.TrimRight(formatter.FormatReply(msg.reply), "\n"))
		return m, nil

	case resetMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, formatter.StyleRed.Render("Error: "+msg.err.Error()))
			return m, nil
		}
		m.lines = []string{formatter.FormatChatWelcome(m.id), formatter.Dim("Conversa reiniciada.")}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) View() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString(m.spinner.View() + " " + formatter.Dim("Pensando..."))
		return b.String()
	}
	b.WriteString(formatter.StylePurple.Render("você") + formatter.Dim("> "))
	b.WriteString(m.input.View())
	return b.String()
}

// ── input handling ───────────────────────────────────────────────────────────

func (m *chatModel) handleInput(input string) (tea.Model, tea.Cmd) {
	switch parseChatCommand(input) {
	case chatQuit:
		return m, tea.Quit
	case chatReset:
		m.waiting = true
		return m, m.reset()
	}

	m.lines = append(m.lines, formatter.FormatUserTurn(input))
	m.waiting = true
	return m, tea.Batch(m.spinner.Tick, m.send(input))
}

func (m *chatModel) send(text string) tea.Cmd {
	ctx, app, id := m.ctx, m.app, m.id
	return func() tea.Msg {
		var progress []string
		reply, err := app.Conversations.HandleMessage(ctx, id, text, func(p string) {
			progress = append(progress, p)
		})
		return replyMsg{progress: progress, reply: reply, err: err}
	}
}

func (m *chatModel) reset() tea.Cmd {
	ctx, app, id := m.ctx, m.app, m.id
	return func() tea.Msg {
		return resetMsg{err: app.Conversations.Reset(ctx, id)}
	}
}
