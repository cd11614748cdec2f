package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/debot/internal/domain"
)

// Analysis is the keyword stage result for one doubt.
type Analysis struct {
	Doubt      string
	Hits       []ModuleHits
	Selected   []int
	MaxHits    int
	GatePassed bool
}

// ModuleFailure records a selected module whose ranking failed.
type ModuleFailure struct {
	ModuleIndex int
	Err         error
}

// Engine runs the doubt-to-lesson pipeline: keyword matching, module
// selection, then nearest-lesson ranking for each selected module.
type Engine struct {
	catalog Catalog
	ranker  *Ranker
	links   LinkBuilder
	gate    Gate
}

// NewEngine wires an Engine over a catalog and an embedder.
func NewEngine(catalog Catalog, ranker *Ranker, links LinkBuilder, gate Gate) *Engine {
	return &Engine{catalog: catalog, ranker: ranker, links: links, gate: gate}
}

// Analyze matches the doubt against module keywords and applies the gate.
// It never calls the embedder.
func (e *Engine) Analyze(ctx context.Context, doubt string) (*Analysis, error) {
	hits, err := MatchModules(ctx, doubt, e.catalog)
	if err != nil {
		return nil, err
	}
	selected, maxHits := SelectModules(hits)
	return &Analysis{
		Doubt:      doubt,
		Hits:       hits,
		Selected:   selected,
		MaxHits:    maxHits,
		GatePassed: e.gate.Allows(selected, maxHits),
	}, nil
}

// Recommend ranks lessons for each module in modules, in order. Modules that
// fail to rank are reported in failures and left out of recs. Catalog
// failures and cancellation abort the whole call.
func (e *Engine) Recommend(ctx context.Context, doubt string, modules []int) (recs []Recommendation, failures []ModuleFailure, err error) {
	catalog, err := e.catalog.ListModules(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing modules: %v", ErrCatalogUnavailable, err)
	}
	byIndex := make(map[int]domain.Module, len(catalog))
	for _, m := range catalog {
		byIndex[m.Index] = m
	}

	for _, idx := range modules {
		m, ok := byIndex[idx]
		if !ok {
			failures = append(failures, ModuleFailure{ModuleIndex: idx, Err: fmt.Errorf("module %d not in catalog", idx)})
			continue
		}
		ranked, rankErr := e.ranker.Rank(ctx, idx, doubt)
		if rankErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			if errors.Is(rankErr, ErrCatalogUnavailable) {
				return nil, nil, rankErr
			}
			failures = append(failures, ModuleFailure{ModuleIndex: idx, Err: rankErr})
			continue
		}
		recs = append(recs, Recommendation{
			ModuleIndex: idx,
			ModuleName:  m.Name,
			Lesson:      ranked.Lesson.Title,
			Duration:    ranked.Lesson.Duration,
			Link:        e.links.Build(m.Range, ranked.Lesson.Title),
			Distance:    ranked.Distance,
		})
	}
	return recs, failures, nil
}
