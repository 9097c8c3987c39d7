// Package regex compiles regular expressions into finite automata. A pattern
// is parsed into a tree of Nodes with Parse, the tree is turned into an ε-NFA
// with Thompson construction by Build, and the ε-NFA is turned into a DFA with
// subset construction. CompileToDFA does all three.
package regex

import (
	"fmt"

	"github.com/dekarrin/fsmc/internal/automaton"
)

// CompileToNFA parses pattern and builds an ε-NFA for it whose single final
// state is marked accepting. State names come from a fresh StateAllocator.
//
// If the pattern is malformed, the returned error is the *SyntaxError from
// Parse.
func CompileToNFA(pattern string) (automaton.Automaton, error) {
	tree, err := Parse(pattern)
	if err != nil {
		return automaton.Automaton{}, err
	}

	return CompileTreeToNFA(tree, &StateAllocator{})
}

// CompileTreeToNFA builds an ε-NFA for an already-parsed tree with the given
// allocator and marks its final state accepting.
func CompileTreeToNFA(tree Node, alloc *StateAllocator) (automaton.Automaton, error) {
	nfa, _, final, err := Build(tree, alloc)
	if err != nil {
		return automaton.Automaton{}, fmt.Errorf("build NFA: %w", err)
	}

	nfa.SetOutput(final, automaton.AcceptMarker)
	return nfa, nil
}

// CompileToDFA compiles pattern into a DFA that accepts exactly the strings the
// pattern matches, where each character of a string is one input symbol.
//
// If the pattern is malformed, the returned error is the *SyntaxError from
// Parse.
func CompileToDFA(pattern string) (automaton.Automaton, error) {
	nfa, err := CompileToNFA(pattern)
	if err != nil {
		return automaton.Automaton{}, err
	}

	dfa, err := automaton.Determinize(nfa, nfa.Alphabet(), nfa.Start)
	if err != nil {
		return automaton.Automaton{}, fmt.Errorf("determinize: %w", err)
	}

	return dfa, nil
}

// Symbols splits s into the input symbols that a compiled automaton consumes:
// one per character after normalization to Unicode form C.
func Symbols(s string) []string {
	s = normalize(s)

	syms := make([]string, 0, len(s))
	for _, ch := range s {
		syms = append(syms, string(ch))
	}
	return syms
}
