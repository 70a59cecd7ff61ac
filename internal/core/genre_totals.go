package core

// GenreTotals sums positive reviews per genre label and remembers the order
// in which labels were first added.
type GenreTotals struct {
	order  []string
	totals map[string]int
}

// NewGenreTotals returns an empty GenreTotals.
func NewGenreTotals() *GenreTotals {
	return &GenreTotals{totals: make(map[string]int)}
}

// GenreTotalsOf builds totals from label/value pairs given in order. It is a
// convenience for callers that already hold summed values.
func GenreTotalsOf(pairs ...GenreTotal) *GenreTotals {
	g := NewGenreTotals()
	for _, p := range pairs {
		g.Add(p.Genre, p.Positive)
	}
	return g
}

// GenreTotal is one label and its summed positive reviews.
type GenreTotal struct {
	Genre    string
	Positive int
}

// Add inserts label with n or accumulates n onto the existing total.
func (g *GenreTotals) Add(label string, n int) {
	if g.totals == nil {
		g.totals = make(map[string]int)
	}
	if _, ok := g.totals[label]; !ok {
		g.order = append(g.order, label)
	}
	g.totals[label] += n
}

// Get returns the total for label.
func (g *GenreTotals) Get(label string) (int, bool) {
	if g == nil {
		return 0, false
	}
	v, ok := g.totals[label]
	return v, ok
}

// Len returns the number of distinct labels.
func (g *GenreTotals) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Entries returns labels and totals in first-seen order.
func (g *GenreTotals) Entries() []GenreTotal {
	if g == nil {
		return nil
	}
	out := make([]GenreTotal, 0, len(g.order))
	for _, label := range g.order {
		out = append(out, GenreTotal{Genre: label, Positive: g.totals[label]})
	}
	return out
}
