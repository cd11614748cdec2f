package conversation

import "github.com/alexanderramin/debot/internal/domain"

// DefaultMaxMessages bounds a window when no size is configured.
const DefaultMaxMessages = 10

// minMaxMessages keeps room for the pinned persona, the user turn and the
// guidance note sent with it.
const minMaxMessages = 3

// Window is a bounded, order-preserving message history. The first entry is
// pinned and never evicted.
type Window struct {
	max  int
	msgs []domain.Message
}

// NewWindow starts a window pinned on the persona system message.
func NewWindow(persona string, max int) *Window {
	return &Window{max: clampMax(max), msgs: []domain.Message{domain.SystemMessage(persona)}}
}

// RestoreWindow rebuilds a window from stored messages. msgs must start with
// the pinned entry.
func RestoreWindow(msgs []domain.Message, max int) *Window {
	w := &Window{max: clampMax(max), msgs: append([]domain.Message(nil), msgs...)}
	w.evict()
	return w
}

func clampMax(max int) int {
	if max <= 0 {
		return DefaultMaxMessages
	}
	if max < minMaxMessages {
		return minMaxMessages
	}
	return max
}

// Append adds m and evicts the oldest non-pinned entries while the window is
// over its maximum.
func (w *Window) Append(m domain.Message) {
	w.msgs = append(w.msgs, m)
	w.evict()
}

func (w *Window) evict() {
	for len(w.msgs) > w.max {
		w.msgs = append(w.msgs[:1], w.msgs[2:]...)
	}
}

// Messages returns a copy of the window contents in order.
func (w *Window) Messages() []domain.Message {
	return append([]domain.Message(nil), w.msgs...)
}

// Clone returns an independent working copy.
func (w *Window) Clone() *Window {
	return &Window{max: w.max, msgs: w.Messages()}
}

// Len is the number of messages held, the pinned entry included.
func (w *Window) Len() int { return len(w.msgs) }

// Max is the bound Append enforces.
func (w *Window) Max() int { return w.max }
