// Package render produces human-readable views of automata and regular
// expression trees.
package render

import (
	"fmt"
	"strings"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/rosed"
)

// DefaultWidth is the width that tables are laid out to when no other is
// given.
const DefaultWidth = 80

const noTransition = "-"

// Table returns a text table of the automaton with one row per state and one
// column per input symbol. The start state is listed first and marked with
// "->", and accepting states are marked with "*". If width is less than 1,
// DefaultWidth is used.
func Table(a automaton.Automaton, width int) string {
	if width < 1 {
		width = DefaultWidth
	}

	symbols := a.Alphabet()
	hasEpsilon := false
	for _, s := range a.States() {
		if len(a.Next(s, automaton.Epsilon)) > 0 {
			hasEpsilon = true
			break
		}
	}
	if hasEpsilon {
		symbols = append(symbols, automaton.Epsilon)
	}

	header := []string{"STATE", "OUTPUT"}
	for _, sym := range symbols {
		if sym == automaton.Epsilon {
			sym = automaton.EpsilonSymbol
		}
		header = append(header, sym)
	}
	data := [][]string{header}

	for _, s := range startFirst(a) {
		row := []string{stateLabel(a, s), a.Output(s)}
		for _, sym := range symbols {
			cell := strings.Join(a.Next(s, sym), ",")
			if cell == "" {
				cell = noTransition
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, tableOpts).
		String()
}

// MealyTable returns a text table of a Mealy machine with one row per state and
// one column per input symbol. Each cell gives the next state and the output,
// as in "q1/y1". The start state is listed first and marked with "->". If width
// is less than 1, DefaultWidth is used.
func MealyTable(m automaton.Mealy, width int) string {
	if width < 1 {
		width = DefaultWidth
	}

	symbols := m.Alphabet()
	data := [][]string{append([]string{"STATE"}, symbols...)}

	order := m.States()
	if m.Has(m.Start) {
		order = []string{m.Start}
		for _, s := range m.States() {
			if s != m.Start {
				order = append(order, s)
			}
		}
	}

	for _, s := range order {
		label := s
		if s == m.Start {
			label = "->" + label
		}
		row := []string{label}
		for _, sym := range symbols {
			cell := noTransition
			if t, ok := m.Next(s, sym); ok {
				cell = t.To + "/" + t.Output
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}).
		String()
}

// Origins returns a text table giving the NFA states each state of a DFA was
// built from. It is empty if the automaton was not made by subset
// construction.
func Origins(dfa automaton.Automaton, width int) string {
	if width < 1 {
		width = DefaultWidth
	}

	data := [][]string{{"STATE", "NFA STATES"}}
	for _, s := range dfa.States() {
		orig := dfa.Origin(s)
		if orig == nil {
			continue
		}
		data = append(data, []string{s, "{" + strings.Join(orig, ", ") + "}"})
	}
	if len(data) == 1 {
		return ""
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}).
		String()
}

// Summary gives a one-line description of the size of the automaton.
func Summary(a automaton.Automaton) string {
	desc := fmt.Sprintf("%d %s, %d accepting, alphabet {%s}",
		a.Len(), plural(a.Len(), "state", "states"), a.AcceptingStates().Len(), strings.Join(a.Alphabet(), ", "))

	if !a.IsDeterministic() {
		desc += ", nondeterministic"
	}
	return desc
}

func stateLabel(a automaton.Automaton, s string) string {
	label := s
	if a.IsAccepting(s) {
		label = "*" + label
	}
	if s == a.Start {
		label = "->" + label
	}
	return label
}

func startFirst(a automaton.Automaton) []string {
	all := a.States()
	if !a.Has(a.Start) {
		return all
	}

	order := []string{a.Start}
	for _, s := range all {
		if s != a.Start {
			order = append(order, s)
		}
	}
	return order
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
