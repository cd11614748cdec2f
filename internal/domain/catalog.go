package domain

// ModuleRange says which course a module belongs to. It decides the link
// base used for its lessons.
type ModuleRange string

const (
	RangeMain ModuleRange = "main"
	RangeLabs ModuleRange = "labs"
)

// IsValid returns true if r is a known module range.
func (r ModuleRange) IsValid() bool {
	return r == RangeMain || r == RangeLabs
}

// Module is a subject area of the course catalog. Index is its identity and
// its position in the catalog order.
type Module struct {
	Index    int
	Name     string
	Range    ModuleRange
	Keywords []string
	Lessons  []Lesson
}

// Lesson is a titled, timed unit of content. Position is the insertion order
// inside its module.
type Lesson struct {
	ModuleIndex int
	Position    int
	Title       string
	Duration    string
}

// DefaultModuleNames are the display names of the Domínio Elétrico catalog,
// in catalog order. The last entry is the supplementary labs module.
var DefaultModuleNames = []string{
	"1: Conceitos Básicos",
	"2: Componentes Eletrônicos",
	"3: Análise Básica de Circuitos",
	"4: Circuitos de Primeira Ordem",
	"5: Circuitos de Segunda Ordem",
	"6: Circuitos em Corrente Alternada",
	"7: Circuitos Trifásicos",
	"8: Análise Avançada de Circuitos",
	"9: Semicondutores",
	"10: Circuitos Analógicos",
	"11: Circuitos Digitais",
	"Domínio Elétrico Labs",
}
