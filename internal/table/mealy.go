package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/fsmc/internal/util"
)

// OutputSeparator separates the next state from the output in a cell of a
// Mealy table.
const OutputSeparator = "/"

// WriteMealy writes a Mealy machine as a transition table. It has no output
// row; instead each cell holds the next state and the output of the
// transition, as in "q1/y1". The start state is written first.
//
//	;s0;s1
//	a;s1/y1;s0/y2
//	b;s0/y2;s1/y1
func WriteMealy(w io.Writer, m automaton.Mealy) error {
	order := mealyColumnOrder(m)

	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	if err := cw.Write(append([]string{""}, order...)); err != nil {
		return err
	}

	for _, sym := range m.Alphabet() {
		row := []string{sym}
		for _, s := range order {
			cell := ""
			if t, ok := m.Next(s, sym); ok {
				cell = t.To + OutputSeparator + t.Output
			}
			row = append(row, cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// MealyString gives the Mealy machine as a transition table.
func MealyString(m automaton.Mealy) string {
	var sb strings.Builder

	// writes to a strings.Builder do not fail
	_ = WriteMealy(&sb, m)
	return sb.String()
}

// ReadMealy reads a Mealy machine from a transition table in the form written
// by WriteMealy. The first state in the table becomes the start state. The
// returned error wraps ErrMalformed if the table is not well-formed.
func ReadMealy(r io.Reader) (automaton.Mealy, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter

	records, err := cr.ReadAll()
	if err != nil {
		return automaton.Mealy{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) < 1 || len(records[0]) < 2 {
		return automaton.Mealy{}, fmt.Errorf("%w: no states", ErrMalformed)
	}

	names := records[0][1:]
	var m automaton.Mealy
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return automaton.Mealy{}, fmt.Errorf("%w: line 1: state in column %d has no name", ErrMalformed, i+2)
		}
		if m.Has(name) {
			return automaton.Mealy{}, fmt.Errorf("%w: line 1: duplicate state %q", ErrMalformed, name)
		}
		m.AddState(name)
		names[i] = name
	}
	m.Start = names[0]

	seenSymbols := util.NewStringSet()
	for lineIdx, rec := range records[1:] {
		line := lineIdx + 2

		sym, err := readSymbol(rec[0])
		if err != nil {
			return automaton.Mealy{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if sym == automaton.Epsilon {
			return automaton.Mealy{}, fmt.Errorf("%w: line %d: Mealy machines have no ε-transitions", ErrMalformed, line)
		}
		if seenSymbols.Has(sym) {
			return automaton.Mealy{}, fmt.Errorf("%w: line %d: duplicate row for symbol %q", ErrMalformed, line, rec[0])
		}
		seenSymbols.Add(sym)

		for i, cell := range rec[1:] {
			if strings.TrimSpace(cell) == "" {
				continue
			}

			to, output, found := strings.Cut(cell, OutputSeparator)
			if !found {
				return automaton.Mealy{}, fmt.Errorf("%w: line %d: cell %q is not in the form STATE%sOUTPUT", ErrMalformed, line, cell, OutputSeparator)
			}
			to = strings.TrimSpace(to)
			if !m.Has(to) {
				return automaton.Mealy{}, fmt.Errorf("%w: line %d: transition from %q goes to unknown state %q", ErrMalformed, line, names[i], to)
			}
			m.AddTransition(names[i], sym, to, output)
		}
	}

	return m, nil
}

// StringAsMealy converts a deterministic automaton to a Mealy machine and gives
// it as a Mealy transition table. The returned error wraps
// automaton.ErrNondeterministic if a is not deterministic.
func StringAsMealy(a automaton.Automaton) (string, error) {
	m, err := a.ToMealy()
	if err != nil {
		return "", fmt.Errorf("convert to Mealy: %w", err)
	}
	return MealyString(m), nil
}

func mealyColumnOrder(m automaton.Mealy) []string {
	all := m.States()
	if !m.Has(m.Start) {
		return all
	}

	order := []string{m.Start}
	for _, s := range all {
		if s != m.Start {
			order = append(order, s)
		}
	}
	return order
}
