package recommend

import (
	"strings"

	"github.com/alexanderramin/debot/internal/domain"
)

// slugStripChars are removed from lesson titles before building a slug.
const slugStripChars = "!@#$%^&*()_+:;'<>?,./|"

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

// Slugify turns a lesson title into the slug used by the course site.
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(title string) string {
	s := strings.Map(func(r rune) rune {
		if strings.ContainsRune(slugStripChars, r) {
			return -1
		}
		return r
	}, title)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ToLower(s)
	return accentFolder.Replace(s)
}

// LinkBuilder derives lesson URLs from titles.
type LinkBuilder struct {
	MainBase string
	LabsBase string
}

// DefaultLinkBuilder points at the Domínio Elétrico course pages.
func DefaultLinkBuilder() LinkBuilder {
	return LinkBuilder{
		MainBase: "https://dominioeletrico.com.br/courses/dominio-eletrico/lessons/",
		LabsBase: "https://dominioeletrico.com.br/courses/dominio-eletrico-labs/lessons/",
	}
}

// Build returns the lesson URL for a title in a module of the given range.
func (b LinkBuilder) Build(rng domain.ModuleRange, title string) string {
	base := b.MainBase
	if rng == domain.RangeLabs {
		base = b.LabsBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + Slugify(title) + "/"
}
