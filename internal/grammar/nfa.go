package grammar

import (
	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/fsmc/internal/regex"
)

// ToNFA converts the grammar to an NFA that accepts the language it
// generates. States are named "q0", "q1", and so on. The mapping from
// nonterminal to state name is returned alongside it; the extra state that
// has no nonterminal is not in the map.
//
// For a right-linear grammar each nonterminal becomes a state in the order
// given by NonTerminals, the start symbol's state is the start state, and a
// final accepting state is added after all of them. A -> a B is a transition
// from A to B on a, and A -> a is a transition from A to the final state.
//
// For a left-linear grammar a new start state comes first, followed by every
// nonterminal other than the start symbol, followed by the start symbol's
// state, which is the accepting one. A -> B a is a transition from B to A on
// a, and A -> a is a transition from the new start state to A.
func (g Grammar) ToNFA() (automaton.Automaton, map[string]string) {
	if g.Kind == LeftLinear {
		return g.leftLinearNFA()
	}
	return g.rightLinearNFA()
}

func (g Grammar) rightLinearNFA() (automaton.Automaton, map[string]string) {
	var nfa automaton.Automaton
	alloc := &regex.StateAllocator{}
	names := map[string]string{}

	for _, nt := range g.NonTerminals() {
		names[nt] = alloc.Next()
		nfa.AddState(names[nt], "")
	}
	final := alloc.Next()
	nfa.AddState(final, automaton.AcceptMarker)

	for _, r := range g.Rules {
		for _, p := range r.Productions {
			to := final
			if p.NonTerminal != "" {
				to = names[p.NonTerminal]
			}
			nfa.AddTransition(names[r.NonTerminal], p.Terminal, to)
		}
	}

	nfa.Start = names[g.StartSymbol()]
	return nfa, names
}

func (g Grammar) leftLinearNFA() (automaton.Automaton, map[string]string) {
	var nfa automaton.Automaton
	alloc := &regex.StateAllocator{}
	names := map[string]string{}
	goal := g.StartSymbol()

	start := alloc.Next()
	nfa.AddState(start, "")
	for _, nt := range g.NonTerminals() {
		if nt == goal {
			continue
		}
		names[nt] = alloc.Next()
		nfa.AddState(names[nt], "")
	}
	names[goal] = alloc.Next()
	nfa.AddState(names[goal], automaton.AcceptMarker)

	for _, r := range g.Rules {
		for _, p := range r.Productions {
			from := start
			if p.NonTerminal != "" {
				from = names[p.NonTerminal]
			}
			nfa.AddTransition(from, p.Terminal, names[r.NonTerminal])
		}
	}

	nfa.Start = start
	return nfa, names
}
