package model

// GroupKind distinguishes how a group participates in the report.
type GroupKind string

const (
	KindCommodity GroupKind = "commodity"
	KindEquity    GroupKind = "equity"
	KindIndex     GroupKind = "index"
)

// Instrument is a tradable symbol tracked by the engine.
type Instrument struct {
	Symbol string
	Name   string
}

// DisplayName returns the human name, falling back to the symbol.
func (i Instrument) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Symbol
}

// Group is a named instrument sub-universe (e.g. a cap tier).
type Group struct {
	Name        string
	Label       string
	Kind        GroupKind
	RankBy      string // timeframe name used for this group's leaderboard
	TopN        int
	Instruments []Instrument
}

// Symbols returns the group's symbols in declared order.
func (g Group) Symbols() []string {
	syms := make([]string, len(g.Instruments))
	for i, inst := range g.Instruments {
		syms[i] = inst.Symbol
	}
	return syms
}

// MemberSet returns the group membership as a lookup set.
func (g Group) MemberSet() map[string]bool {
	set := make(map[string]bool, len(g.Instruments))
	for _, inst := range g.Instruments {
		set[inst.Symbol] = true
	}
	return set
}
