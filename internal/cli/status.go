package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/debot/internal/cli/formatter"
)

// replyStatus reports progress while a reply is pending: a spinner on a
// terminal, plain progress lines otherwise.
type replyStatus struct {
	out     io.Writer
	spinner *formatter.Spinner
}

func newReplyStatus(app *App, out io.Writer) *replyStatus {
	s := &replyStatus{out: out}
	if app.interactive() {
		s.spinner = formatter.NewSpinner(out, "Pensando...")
		s.spinner.Start()
	}
	return s
}

func (s *replyStatus) progress(text string) {
	if s.spinner != nil {
		s.spinner.SetMessage(text)
		return
	}
	fmt.Fprint(s.out, formatter.FormatProgress(text))
}

func (s *replyStatus) stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}
