package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/debot/internal/domain"
)

// Convert transforms a validated CatalogSchema into domain modules ready for
// persistence. Keywords are trimmed, lower-cased and deduplicated; lessons
// keep their file order.
func Convert(schema *CatalogSchema) []domain.Module {
	modules := make([]domain.Module, 0, len(schema.Modules))
	for _, m := range schema.Modules {
		seen := make(map[string]bool, len(m.Keywords))
		keywords := make([]string, 0, len(m.Keywords))
		for _, k := range m.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			keywords = append(keywords, k)
		}

		lessons := make([]domain.Lesson, len(m.Lessons))
		for i, l := range m.Lessons {
			lessons[i] = domain.Lesson{
				ModuleIndex: m.Index,
				Position:    i,
				Title:       strings.TrimSpace(l.Lesson),
				Duration:    strings.TrimSpace(l.Duration),
			}
		}

		modules = append(modules, domain.Module{
			Index:    m.Index,
			Name:     m.Name,
			Range:    m.Range,
			Keywords: keywords,
			Lessons:  lessons,
		})
	}
	return modules
}

// CatalogWriter stores a converted catalog.
type CatalogWriter interface {
	ReplaceCatalog(ctx context.Context, modules []domain.Module) error
}

// Summary reports what an import stored.
type Summary struct {
	Modules  int
	Lessons  int
	Keywords int
}

// ImportDir loads, validates and stores the catalog in dir, replacing the
// existing one. Nothing is written when validation fails.
func ImportDir(ctx context.Context, dir string, names []string, w CatalogWriter) (*Summary, error) {
	schema, err := LoadCatalogDir(dir, names)
	if err != nil {
		return nil, err
	}
	if errs := ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog in %s: %w", dir, errors.Join(errs...))
	}

	modules := Convert(schema)
	if err := w.ReplaceCatalog(ctx, modules); err != nil {
		return nil, fmt.Errorf("storing catalog: %w", err)
	}

	sum := &Summary{Modules: len(modules)}
	for _, m := range modules {
		sum.Lessons += len(m.Lessons)
		sum.Keywords += len(m.Keywords)
	}
	return sum, nil
}
