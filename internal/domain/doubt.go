package domain

import "fmt"

// DoubtKind classifies what the doubt classifier found in a message.
type DoubtKind string

const (
	DoubtNone      DoubtKind = "none"
	DoubtAmbiguous DoubtKind = "ambiguous"
	DoubtText      DoubtKind = "text"
)

// Doubt is the classifier's reading of a user message: either a sentinel
// (no doubt, ambiguous doubt) or a short normalized summary of the question.
type Doubt struct {
	Kind DoubtKind
	Text string
}

// NoDoubt is the sentinel for messages without a subject-matter question.
func NoDoubt() Doubt { return Doubt{Kind: DoubtNone} }

// AmbiguousDoubt is the sentinel for a question that is present but unclear.
func AmbiguousDoubt() Doubt { return Doubt{Kind: DoubtAmbiguous} }

// TextDoubt wraps a normalized doubt summary.
func TextDoubt(text string) Doubt { return Doubt{Kind: DoubtText, Text: text} }

// HasText reports whether the doubt carries a summary to match against the catalog.
func (d Doubt) HasText() bool {
	return d.Kind == DoubtText && d.Text != ""
}

func (d Doubt) String() string {
	if d.Kind == DoubtText {
		return fmt.Sprintf("text(%q)", d.Text)
	}
	return string(d.Kind)
}
