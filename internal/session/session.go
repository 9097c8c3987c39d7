// Package session holds an automaton being worked on along with everything it
// was built from. A Session is made from a regular expression, a regular
// grammar, a transition table, or a Mealy machine table, and always has both an
// NFA and the DFA determinized from it.
package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/fsmc/internal/grammar"
	"github.com/dekarrin/fsmc/internal/regex"
	"github.com/dekarrin/fsmc/internal/render"
	"github.com/dekarrin/fsmc/internal/table"
)

// SourceKind is what a Session was built from.
type SourceKind int

const (
	FromNothing SourceKind = iota
	FromRegex
	FromGrammar
	FromTable
	FromMealy
)

func (sk SourceKind) String() string {
	switch sk {
	case FromNothing:
		return "nothing"
	case FromRegex:
		return "regex"
	case FromGrammar:
		return "grammar"
	case FromTable:
		return "table"
	case FromMealy:
		return "Mealy table"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(sk))
	}
}

// Conflict is a DFA state whose NFA states disagreed on its output.
type Conflict struct {
	State     string
	NFAStates []string
	Labels    []string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s from {%s} has outputs %s; used %q",
		c.State, strings.Join(c.NFAStates, ", "), strings.Join(c.Labels, ", "), c.Labels[0])
}

// Session is a compiled automaton and what it came from.
type Session struct {
	Kind SourceKind

	// Source is the pattern for a regex or the path (or other description) of
	// where a grammar or table was read from.
	Source string

	// Tree is the parsed pattern. It is only set for FromRegex.
	Tree regex.Node

	// Grammar is the parsed grammar. It is only set for FromGrammar.
	Grammar *grammar.Grammar

	NFA automaton.Automaton
	DFA automaton.Automaton

	// Conflicts lists DFA states that got an output chosen from several
	// disagreeing ones.
	Conflicts []Conflict
}

// NewFromRegex compiles pattern. If it is malformed, the returned error is the
// *regex.SyntaxError describing why.
func NewFromRegex(pattern string) (*Session, error) {
	tree, err := regex.Parse(pattern)
	if err != nil {
		return nil, err
	}

	nfa, err := regex.CompileTreeToNFA(tree, &regex.StateAllocator{})
	if err != nil {
		return nil, err
	}

	s := &Session{
		Kind:   FromRegex,
		Source: pattern,
		Tree:   tree,
		NFA:    nfa,
	}
	return s, s.determinize()
}

// NewFromGrammar builds a Session from the text of a regular grammar. source
// describes where the text came from.
func NewFromGrammar(text string, source string) (*Session, error) {
	g, err := grammar.Parse(text)
	if err != nil {
		return nil, err
	}

	nfa, _ := g.ToNFA()
	s := &Session{
		Kind:    FromGrammar,
		Source:  source,
		Grammar: &g,
		NFA:     nfa,
	}
	return s, s.determinize()
}

// NewFromTable builds a Session from an automaton in transition table form.
// source describes where the table came from.
func NewFromTable(r io.Reader, source string) (*Session, error) {
	nfa, err := table.Read(r)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Kind:   FromTable,
		Source: source,
		NFA:    nfa,
	}
	return s, s.determinize()
}

// NewFromMealy builds a Session from a Mealy machine in Mealy table form. The
// machine is converted to the equivalent Moore automaton, which becomes the
// NFA. source describes where the table came from.
func NewFromMealy(r io.Reader, source string) (*Session, error) {
	m, err := table.ReadMealy(r)
	if err != nil {
		return nil, err
	}

	moore, err := m.ToMoore()
	if err != nil {
		return nil, fmt.Errorf("convert to Moore: %w", err)
	}

	s := &Session{
		Kind:   FromMealy,
		Source: source,
		NFA:    moore,
	}
	return s, s.determinize()
}

// Mealy returns the DFA converted to a Mealy machine, where each transition
// outputs the label of the state it goes to.
func (s *Session) Mealy() automaton.Mealy {
	// the DFA is always deterministic
	m, _ := s.DFA.ToMealy()
	return m
}

func (s *Session) determinize() error {
	s.Conflicts = nil
	d := automaton.Determinizer{
		OnConflict: func(dfaState string, nfaStates []string, labels []string) {
			s.Conflicts = append(s.Conflicts, Conflict{State: dfaState, NFAStates: nfaStates, Labels: labels})
		},
	}

	dfa, err := d.Determinize(s.NFA, s.NFA.Alphabet(), s.NFA.Start)
	if err != nil {
		return fmt.Errorf("determinize: %w", err)
	}
	s.DFA = dfa
	return nil
}

// Automaton returns the NFA if kind is "NFA" and otherwise the DFA.
func (s *Session) Automaton(kind string) automaton.Automaton {
	if strings.EqualFold(kind, "NFA") {
		return s.NFA
	}
	return s.DFA
}

// Match returns whether the DFA accepts input, where each character is one
// symbol.
func (s *Session) Match(input string) bool {
	return s.DFA.Accepts(regex.Symbols(input))
}

// Trace runs input through the DFA and returns the states it passes through,
// starting with the start state. If the DFA has no transition for some symbol,
// the path stops at the state where that happened. The returned bool is
// whether the input was accepted.
func (s *Session) Trace(input string) ([]string, bool) {
	cur := s.DFA.Start
	if !s.DFA.Has(cur) {
		return nil, false
	}
	path := []string{cur}

	for _, sym := range regex.Symbols(input) {
		next := s.DFA.Next(cur, sym)
		if len(next) == 0 {
			return path, false
		}
		cur = next[0]
		path = append(path, cur)
	}

	return path, s.DFA.IsAccepting(cur)
}

// Trim removes the unreachable states of both automata and returns the names
// of the removed ones.
func (s *Session) Trim() (nfaRemoved, dfaRemoved []string) {
	return s.NFA.RemoveUnreachable(), s.DFA.RemoveUnreachable()
}

// Summary gives a short multi-line description of the session.
func (s *Session) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Built from %s %q\n", s.Kind, s.Source))
	if s.Grammar != nil {
		sb.WriteString(fmt.Sprintf("Grammar is %s with %d rules\n", s.Grammar.Kind, len(s.Grammar.Rules)))
	}
	sb.WriteString("NFA: " + render.Summary(s.NFA) + "\n")
	sb.WriteString("DFA: " + render.Summary(s.DFA))
	for _, c := range s.Conflicts {
		sb.WriteString("\nWarning: output conflict in " + c.String())
	}
	return sb.String()
}
