package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/recommend"
)

// CatalogRow summarizes one module for the catalog listing.
type CatalogRow struct {
	Module   domain.Module
	Keywords int
	Lessons  int
}

// FormatCatalog renders the module list.
func FormatCatalog(rows []CatalogRow) string {
	if len(rows) == 0 {
		return Dim("Catalog is empty. Run `debot catalog import <dir>` first.") + "\n"
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			strconv.Itoa(r.Module.Index),
			r.Module.Name,
			string(r.Module.Range),
			strconv.Itoa(r.Keywords),
			strconv.Itoa(r.Lessons),
		}
	}
	return RenderTable([]string{"#", "MODULE", "RANGE", "KEYWORDS", "LESSONS"}, cells)
}

// FormatModule renders one module with its keywords and lessons.
func FormatModule(m *domain.Module, links recommend.LinkBuilder) string {
	var b strings.Builder
	b.WriteString(Header(m.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("Range:"), m.Range)
	fmt.Fprintf(&b, "%s %s\n\n", Dim("Keywords:"), strings.Join(m.Keywords, ", "))

	cells := make([][]string, len(m.Lessons))
	for i, l := range m.Lessons {
		cells[i] = []string{strconv.Itoa(l.Position), l.Title, l.Duration, Dim(links.Build(m.Range, l.Title))}
	}
	b.WriteString(RenderTable([]string{"#", "LESSON", "DURATION", "LINK"}, cells))
	return b.String()
}

// FormatAnalysis renders the keyword stage of a doubt, module by module.
func FormatAnalysis(a *recommend.Analysis, names map[int]string) string {
	var b strings.Builder
	b.WriteString(Header("Keyword match"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %q\n", Dim("Tokens:"), strings.Join(recommend.Tokenize(a.Doubt), " "))
	for _, h := range a.Hits {
		if h.Score() == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s %d %s\n", StylePurple.Render(names[h.Index]), h.Score(), Dim(strings.Join(h.Hits, ", ")))
	}

	gate := StyleGreen.Render("pass")
	if !a.GatePassed {
		gate = StyleYellow.Render("fail")
	}
	fmt.Fprintf(&b, "%s %v  %s %d  %s %s\n", Dim("Selected:"), a.Selected, Dim("Max hits:"), a.MaxHits, Dim("Gate:"), gate)
	return b.String()
}

// FormatRecommendations renders ranked lessons with their distances.
func FormatRecommendations(recs []recommend.Recommendation, failures []recommend.ModuleFailure) string {
	var b strings.Builder
	b.WriteString(Header("Recommendations"))
	b.WriteString("\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "  %s %s\n", StylePurple.Render("▸"), r.Text())
		fmt.Fprintf(&b, "    %s\n", Dim(fmt.Sprintf("distance %.4f", r.Distance)))
	}
	for _, f := range failures {
		fmt.Fprintf(&b, "  %s module %d: %v\n", StyleRed.Render("✖"), f.ModuleIndex, f.Err)
	}
	if len(recs) == 0 && len(failures) == 0 {
		b.WriteString(Dim("  No recommendation.") + "\n")
	}
	return b.String()
}
