package recommend

import (
	"context"
	"fmt"
	"strings"
)

// doubtStripChars are removed from a doubt before tokenizing.
const doubtStripChars = "!@#$%^&*()_+:;'<>?,./|1234567890"

// ModuleHits is the keyword evidence collected for one module.
type ModuleHits struct {
	Index int
	Hits  []string
}

// Score is the number of keyword hits, repeated tokens included.
func (m ModuleHits) Score() int { return len(m.Hits) }

// Tokenize normalizes a doubt the way the matcher sees it: stripped of
// punctuation and digits, lower-cased, split on whitespace.
func Tokenize(doubt string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(doubtStripChars, r) {
			return -1
		}
		return r
	}, doubt)
	return strings.Fields(strings.ToLower(cleaned))
}

// MatchModules returns, for every catalog module in catalog order, the doubt
// tokens found in that module's keyword set. A token that appears twice in
// the doubt is recorded twice.
func MatchModules(ctx context.Context, doubt string, src KeywordSource) ([]ModuleHits, error) {
	modules, err := src.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing modules: %v", ErrCatalogUnavailable, err)
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("%w: catalog has no modules", ErrCatalogUnavailable)
	}

	tokens := Tokenize(doubt)
	out := make([]ModuleHits, 0, len(modules))
	for _, m := range modules {
		keywords, err := src.Keywords(ctx, m.Index)
		if err != nil {
			return nil, fmt.Errorf("%w: keywords for module %d: %v", ErrCatalogUnavailable, m.Index, err)
		}
		set := make(map[string]struct{}, len(keywords))
		for _, k := range keywords {
			set[strings.ToLower(k)] = struct{}{}
		}

		hits := []string{}
		for _, tok := range tokens {
			if _, ok := set[tok]; ok {
				hits = append(hits, tok)
			}
		}
		out = append(out, ModuleHits{Index: m.Index, Hits: hits})
	}
	return out, nil
}
