// Package grammar reads regular grammars and converts them to nondeterministic
// finite automata.
//
// A grammar is a list of rules, one per line, of the form
//
//	<S> -> a <A> | b
//
// where names in angle brackets are nonterminals and everything else is a
// terminal of exactly one character. The terminal "ε" stands for the empty
// string. A rule whose alternatives do not fit on one line may be continued on
// the next by ending the line with "|" or by starting the next with "|". Blank
// lines and lines starting with "#" are ignored.
//
// A grammar is either right-linear, where every alternative is "a" or
// "a <B>", or left-linear, where every alternative is "a" or "<B> a". Which
// one it is gets decided from the alternatives that can only be one or the
// other; a grammar with no such alternatives is taken to be right-linear.
package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/fsmc/internal/automaton"
)

var (
	// ErrMalformedRule is returned when a line of a grammar cannot be read as
	// a rule or does not fit with the rest of the grammar.
	ErrMalformedRule = errors.New("malformed rule")
)

// Kind is the direction of a regular grammar.
type Kind int

const (
	RightLinear Kind = iota
	LeftLinear
)

func (k Kind) String() string {
	switch k {
	case RightLinear:
		return "right-linear"
	case LeftLinear:
		return "left-linear"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Production is one alternative of a rule. NonTerminal is empty if the
// alternative is only a terminal. Terminal is automaton.Epsilon for ε.
type Production struct {
	Terminal    string
	NonTerminal string
}

// Rule is all the alternatives for a single nonterminal given on one line
// (plus any continuation lines).
type Rule struct {
	NonTerminal string
	Productions []Production

	// Line is the 1-based line of the input the rule started on.
	Line int
}

// Grammar is a regular grammar. The head of the first rule is the start
// symbol.
type Grammar struct {
	Kind  Kind
	Rules []Rule
}

// NonTerminals returns every nonterminal of the grammar in the order it first
// appears, reading each rule's head before its alternatives.
func (g Grammar) NonTerminals() []string {
	var order []string
	seen := map[string]bool{}
	add := func(nt string) {
		if nt != "" && !seen[nt] {
			seen[nt] = true
			order = append(order, nt)
		}
	}

	for _, r := range g.Rules {
		add(r.NonTerminal)
		for _, p := range r.Productions {
			add(p.NonTerminal)
		}
	}
	return order
}

// StartSymbol returns the head of the first rule, or "" if there are no rules.
func (g Grammar) StartSymbol() string {
	if len(g.Rules) == 0 {
		return ""
	}
	return g.Rules[0].NonTerminal
}

// String gives the grammar back in the form Parse reads, one rule per line.
func (g Grammar) String() string {
	var sb strings.Builder

	for i, r := range g.Rules {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(r.String(g.Kind))
	}
	return sb.String()
}

// String gives the rule in the form Parse reads it, with alternatives written
// for a grammar of the given Kind.
func (r Rule) String(k Kind) string {
	alts := make([]string, len(r.Productions))
	for i, p := range r.Productions {
		alts[i] = p.String(k)
	}
	return fmt.Sprintf("<%s> -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// String gives the production as it is written in a grammar of the given
// Kind.
func (p Production) String(k Kind) string {
	term := p.Terminal
	if term == automaton.Epsilon {
		term = automaton.EpsilonSymbol
	}

	if p.NonTerminal == "" {
		return term
	}
	if k == LeftLinear {
		return fmt.Sprintf("<%s> %s", p.NonTerminal, term)
	}
	return fmt.Sprintf("%s <%s>", term, p.NonTerminal)
}
