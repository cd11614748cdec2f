package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/debot/internal/domain"
)

// ValidateCatalogSchema checks a loaded catalog before conversion.
// Returns a slice of all validation errors found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error
	if len(schema.Modules) == 0 {
		return []error{fmt.Errorf("catalog has no modules")}
	}
	labs := 0
	for _, m := range schema.Modules {
		if m.Range == domain.RangeLabs {
			labs++
		}
		errs = append(errs, validateModule(&m)...)
	}
	if labs > 1 {
		errs = append(errs, fmt.Errorf("catalog has %d labs modules, expected at most 1", labs))
	}
	return errs
}

func validateModule(m *ModuleImport) []error {
	var errs []error
	prefix := m.FileName

	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, fmt.Errorf("%s: module name is required", prefix))
	}
	if !m.keywordsFound {
		errs = append(errs, fmt.Errorf("%s: %s has no %q entry", prefix, KeywordsFileName, m.KeywordKey))
	}
	for i, k := range m.Keywords {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, fmt.Errorf("%s: keyword %d is empty", prefix, i))
		} else if strings.ContainsAny(strings.TrimSpace(k), " \t") {
			errs = append(errs, fmt.Errorf("%s: keyword %q has spaces and can never match a single word", prefix, k))
		}
	}
	if len(m.Lessons) == 0 {
		errs = append(errs, fmt.Errorf("%s: module has no lessons", prefix))
	}
	for i, l := range m.Lessons {
		if strings.TrimSpace(l.Lesson) == "" {
			errs = append(errs, fmt.Errorf("%s: aulas[%d].lesson is required", prefix, i))
		}
		if strings.TrimSpace(l.Duration) == "" {
			errs = append(errs, fmt.Errorf("%s: aulas[%d].duration is required", prefix, i))
		}
	}
	return errs
}
