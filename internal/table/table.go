// Package table reads and writes automata in the semicolon-separated
// transition table format used for interchange with other tools.
//
// The first row holds the output of each state and the second row holds the
// names of the states, each with a blank first cell. Every row after that is
// for one input symbol, which is in the first cell, and holds in each state's
// column the comma-separated names of the states it moves to on that symbol.
// A blank cell means there is no transition. The symbol for ε-transitions is
// written as "ε". The first state in the table is the start state. Symbols are
// single characters. Symbol and output cells are used exactly as written, but
// spaces around state names are ignored.
//
//	;;;F
//	;q0;q1;q2
//	a;q1;;
//	b;;q2;
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/fsmc/internal/util"
	"golang.org/x/text/unicode/norm"
)

// Delimiter separates the cells of a row.
const Delimiter = ';'

var (
	// ErrMalformed is returned when input cannot be read as a transition
	// table.
	ErrMalformed = errors.New("malformed transition table")
)

// Write writes the automaton as a transition table. The start state is written
// first and the rest follow in the order of the automaton. Symbol rows are in
// sorted order, with the ε row after all others.
func Write(w io.Writer, a automaton.Automaton) error {
	order := columnOrder(a)

	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	outputs := []string{""}
	names := []string{""}
	for _, s := range order {
		outputs = append(outputs, a.Output(s))
		names = append(names, s)
	}
	if err := cw.Write(outputs); err != nil {
		return err
	}
	if err := cw.Write(names); err != nil {
		return err
	}

	for _, sym := range tableSymbols(a) {
		label := sym
		if sym == automaton.Epsilon {
			label = automaton.EpsilonSymbol
		}

		row := []string{label}
		for _, s := range order {
			row = append(row, strings.Join(a.Next(s, sym), ","))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// String gives the automaton as a transition table.
func String(a automaton.Automaton) string {
	var sb strings.Builder

	// writes to a strings.Builder do not fail
	_ = Write(&sb, a)
	return sb.String()
}

// Read reads an automaton from a transition table. The first state in the
// table becomes the start state. The returned error wraps ErrMalformed if the
// table is not well-formed.
func Read(r io.Reader) (automaton.Automaton, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter

	records, err := cr.ReadAll()
	if err != nil {
		return automaton.Automaton{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(records) < 2 {
		return automaton.Automaton{}, fmt.Errorf("%w: need at least an output row and a state row", ErrMalformed)
	}

	outputs := records[0][1:]
	names := records[1][1:]
	if len(names) == 0 {
		return automaton.Automaton{}, fmt.Errorf("%w: no states", ErrMalformed)
	}

	var a automaton.Automaton
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return automaton.Automaton{}, fmt.Errorf("%w: line 2: state in column %d has no name", ErrMalformed, i+2)
		}
		if a.Has(name) {
			return automaton.Automaton{}, fmt.Errorf("%w: line 2: duplicate state %q", ErrMalformed, name)
		}
		a.AddState(name, outputs[i])
		names[i] = name
	}
	a.Start = names[0]

	seenSymbols := util.NewStringSet()
	for lineIdx, rec := range records[2:] {
		line := lineIdx + 3

		sym, err := readSymbol(rec[0])
		if err != nil {
			return automaton.Automaton{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if seenSymbols.Has(sym) {
			return automaton.Automaton{}, fmt.Errorf("%w: line %d: duplicate row for symbol %q", ErrMalformed, line, rec[0])
		}
		seenSymbols.Add(sym)

		for i, cell := range rec[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			for _, to := range strings.Split(cell, ",") {
				to = strings.TrimSpace(to)
				if !a.Has(to) {
					return automaton.Automaton{}, fmt.Errorf("%w: line %d: transition from %q goes to unknown state %q", ErrMalformed, line, names[i], to)
				}
				a.AddTransition(names[i], sym, to)
			}
		}
	}

	return a, nil
}

// readSymbol gives the input symbol named by the first cell of a row. The cell
// is taken as-is, without trimming, since a space is a valid symbol. Symbols
// are single characters so that input strings can be matched one character
// at a time.
func readSymbol(cell string) (string, error) {
	if cell == "" {
		return "", errors.New("row has no symbol")
	}
	if cell == automaton.EpsilonSymbol {
		return automaton.Epsilon, nil
	}

	sym := norm.NFC.String(cell)
	if utf8.RuneCountInString(sym) != 1 {
		return "", fmt.Errorf("symbol %q is not a single character", cell)
	}
	return sym, nil
}

func columnOrder(a automaton.Automaton) []string {
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

// tableSymbols returns every symbol used by a transition of a, including
// Epsilon, with Epsilon last.
func tableSymbols(a automaton.Automaton) []string {
	syms := a.Alphabet()
	for _, s := range a.States() {
		if len(a.Next(s, automaton.Epsilon)) > 0 {
			return append(syms, automaton.Epsilon)
		}
	}
	return syms
}
