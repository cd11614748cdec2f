// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and returned Cmds are run to completion, so a
// test sees the model after every message has settled. Timer Cmds (cursor
// blink, spinner ticks) block for long periods; they are run with a timeout
// and dropped when they do not return in time.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may run.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates work Cmds, which return in microseconds with
// test doubles, from timer Cmds, which block for 80ms or more.
const DefaultCmdTimeout = 50 * time.Millisecond

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced.
	Quitting bool

	timeout time.Duration
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout changes how long a Cmd may run before it is dropped.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// New creates a Driver. Call DrainInit to run the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, timeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs Init and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// ── keys ─────────────────────────────────────────────────────────────────────

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEsc})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// Submit types s and presses Enter.
func (d *Driver) Submit(s string) {
	d.T.Helper()
	d.Type(s)
	d.PressEnter()
}

// View returns the rendered model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── draining ─────────────────────────────────────────────────────────────────

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := d.run(cmd)
	if msg == nil || isTimerMsg(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

// run executes cmd, giving up after the driver's timeout.
func (d *Driver) run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.timeout):
		return nil
	}
}

// isTimerMsg matches the unexported blink messages of bubbles/cursor and the
// tick messages of bubbles/spinner, which chain into blocking timers.
func isTimerMsg(msg tea.Msg) bool {
	t := strings.ToLower(fmt.Sprintf("%T", msg))
	return strings.Contains(t, "blink") || strings.Contains(t, "tick")
}
