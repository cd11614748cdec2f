package recommend

// SelectModules keeps the modules with the highest non-zero score. It is a
// single leader-tracking pass, so ties come out in catalog order.
func SelectModules(hits []ModuleHits) (selected []int, maxHits int) {
	selected = []int{}
	for _, h := range hits {
		score := h.Score()
		switch {
		case score > maxHits:
			selected = []int{h.Index}
			maxHits = score
		case score == maxHits && maxHits != 0:
			selected = append(selected, h.Index)
		}
	}
	return selected, maxHits
}

// Gate decides whether a selection is specific and strong enough to
// recommend lessons for.
type Gate struct {
	// MaxModules is the exclusive upper bound on selected modules.
	MaxModules int
	// MinHits is the exclusive lower bound on the winning score.
	MinHits int
}

// DefaultGate recommends for one to three modules with at least two hits.
func DefaultGate() Gate {
	return Gate{MaxModules: 4, MinHits: 1}
}

// Allows reports whether lessons should be recommended for the selection.
func (g Gate) Allows(selected []int, maxHits int) bool {
	return len(selected) > 0 && len(selected) < g.MaxModules && maxHits > g.MinHits
}
