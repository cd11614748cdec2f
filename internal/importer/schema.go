package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/debot/internal/domain"
)

// KeywordsFileName is the keyword index shared by all modules.
const KeywordsFileName = "keywords.json"

// LessonsFile is the JSON structure of one module's lesson list.
type LessonsFile struct {
	Aulas []LessonImport `json:"aulas"`
}

// LessonImport is one lesson entry in a module file.
type LessonImport struct {
	Lesson   string `json:"lesson"`
	Duration string `json:"duration"`
}

// KeywordsFile maps a module key (modulo_01 .. modulo_11, DE_labs) to its
// keywords.
type KeywordsFile map[string][]string

// ModuleImport is one module as read from disk, before validation.
type ModuleImport struct {
	Index      int
	Name       string
	Range      domain.ModuleRange
	KeywordKey string
	FileName   string
	Keywords   []string
	Lessons    []LessonImport
	// keywordsFound is false when keywords.json has no entry for KeywordKey.
	keywordsFound bool
}

// CatalogSchema is a whole catalog directory as read from disk.
type CatalogSchema struct {
	Dir     string
	Modules []ModuleImport
}

// ModuleFileName returns the lesson file for the module at index in a
// catalog with mainCount main-course modules. The module after the main
// ones is the labs module.
func ModuleFileName(index, mainCount int) string {
	if index >= mainCount {
		return "DE_Labs.json"
	}
	return fmt.Sprintf("modulo_%02d.json", index+1)
}

// KeywordKey returns the keywords.json key of the module at index.
func KeywordKey(index, mainCount int) string {
	if index >= mainCount {
		return "DE_labs"
	}
	return fmt.Sprintf("modulo_%02d", index+1)
}

// LoadCatalogDir reads keywords.json and one lesson file per name in names.
// The last name is the labs module. Missing lesson files are reported, not
// skipped.
func LoadCatalogDir(dir string, names []string) (*CatalogSchema, error) {
	if len(names) == 0 {
		names = domain.DefaultModuleNames
	}
	mainCount := len(names) - 1

	var keywords KeywordsFile
	if err := readJSON(filepath.Join(dir, KeywordsFileName), &keywords); err != nil {
		return nil, err
	}

	schema := &CatalogSchema{Dir: dir}
	var errs []error
	for i, name := range names {
		m := ModuleImport{
			Index:      i,
			Name:       name,
			Range:      domain.RangeMain,
			KeywordKey: KeywordKey(i, mainCount),
			FileName:   ModuleFileName(i, mainCount),
		}
		if i >= mainCount {
			m.Range = domain.RangeLabs
		}
		m.Keywords, m.keywordsFound = keywords[m.KeywordKey]

		var lessons LessonsFile
		if err := readJSON(filepath.Join(dir, m.FileName), &lessons); err != nil {
			errs = append(errs, err)
			continue
		}
		m.Lessons = lessons.Aulas
		schema.Modules = append(schema.Modules, m)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return schema, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
