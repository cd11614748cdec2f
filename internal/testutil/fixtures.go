package testutil

import (
	"fmt"

	"github.com/alexanderramin/debot/internal/domain"
)

// ModuleOption customizes a fixture module.
type ModuleOption func(*domain.Module)

func WithKeywords(keywords ...string) ModuleOption {
	return func(m *domain.Module) {
		m.Keywords = append(m.Keywords, keywords...)
	}
}

// WithLessons appends lessons given as alternating title, duration pairs.
func WithLessons(titleDuration ...string) ModuleOption {
	return func(m *domain.Module) {
		for i := 0; i+1 < len(titleDuration); i += 2 {
			m.Lessons = append(m.Lessons, domain.Lesson{
				ModuleIndex: m.Index,
				Position:    len(m.Lessons),
				Title:       titleDuration[i],
				Duration:    titleDuration[i+1],
			})
		}
	}
}

func WithRange(r domain.ModuleRange) ModuleOption {
	return func(m *domain.Module) {
		m.Range = r
	}
}

// NewTestModule builds a main-course module named after its index.
func NewTestModule(index int, opts ...ModuleOption) domain.Module {
	m := domain.Module{
		Index: index,
		Name:  fmt.Sprintf("%d: Module %d", index+1, index+1),
		Range: domain.RangeMain,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// NewTestCatalog returns n empty main modules followed by one labs module.
// Callers fill in keywords and lessons via opts keyed by module index.
func NewTestCatalog(n int, opts map[int][]ModuleOption) []domain.Module {
	modules := make([]domain.Module, 0, n+1)
	for i := 0; i < n; i++ {
		modules = append(modules, NewTestModule(i, opts[i]...))
	}
	labs := append([]ModuleOption{WithRange(domain.RangeLabs)}, opts[n]...)
	lab := NewTestModule(n, labs...)
	lab.Name = "Domínio Elétrico Labs"
	return append(modules, lab)
}

// CircuitsCatalog is a small catalog shaped like the real one: three main
// modules plus labs. Module 2 owns "nodal" and "análise"; "circuito" is
// shared by modules 0, 1 and 2.
func CircuitsCatalog() []domain.Module {
	return NewTestCatalog(3, map[int][]ModuleOption{
		0: {
			WithKeywords("tensão", "corrente", "circuito", "lei"),
			WithLessons(
				"Tensão elétrica", "10:05",
				"Corrente elétrica", "08:40",
				"Lei de Ohm", "12:00",
			),
		},
		1: {
			WithKeywords("capacitor", "indutor", "resistor", "circuito"),
			WithLessons(
				"Capacitores", "15:10",
				"Indutores", "14:30",
			),
		},
		2: {
			WithKeywords("nodal", "análise", "malhas", "circuito", "Thévenin"),
			WithLessons(
				"Análise de malhas", "20:00",
				"Análise nodal", "18:20",
				"Teorema de Thévenin", "16:45",
			),
		},
		3: {
			WithKeywords("osciloscópio", "protoboard", "circuito"),
			WithLessons(
				"Usando o osciloscópio", "09:00",
			),
		},
	})
}
