package regex

import (
	"fmt"

	"github.com/dekarrin/fsmc/internal/automaton"
)

// Build creates an ε-NFA that matches the language of tree using Thompson
// construction. Every state is named by alloc, so states never collide with
// ones alloc has handed out before. It returns the automaton along with the
// names of its start and final states; Start is set on the returned automaton
// as well.
//
// The final state is not marked as accepting. The caller marks it once it is
// done composing, since a final state of a fragment is not necessarily
// accepting in whatever the fragment is later made part of.
//
// A nil node or a Node of a type other than the ones this package defines gives
// an error matching ErrConstructionInvariant.
func Build(tree Node, alloc *StateAllocator) (nfa automaton.Automaton, start string, final string, err error) {
	if alloc == nil {
		alloc = &StateAllocator{}
	}

	b := &thompsonBuilder{alloc: alloc}

	start, final, err = b.build(tree)
	if err != nil {
		return automaton.Automaton{}, "", "", err
	}

	b.nfa.Start = start
	return b.nfa, start, final, nil
}

type thompsonBuilder struct {
	alloc *StateAllocator
	nfa   automaton.Automaton
}

func (b *thompsonBuilder) newState() string {
	name := b.alloc.Next()
	b.nfa.AddState(name, "")
	return name
}

// build adds the fragment for n to the automaton and returns its start and
// final states.
func (b *thompsonBuilder) build(n Node) (start, final string, err error) {
	switch n := n.(type) {
	case Literal:
		start = b.newState()
		final = b.newState()
		b.nfa.AddTransition(start, n.Symbol, final)
		return start, final, nil

	case Concat:
		lStart, lFinal, err := b.build(n.Left)
		if err != nil {
			return "", "", err
		}
		rStart, rFinal, err := b.build(n.Right)
		if err != nil {
			return "", "", err
		}

		b.nfa.AddTransition(lFinal, automaton.Epsilon, rStart)
		return lStart, rFinal, nil

	case Alternation:
		lStart, lFinal, err := b.build(n.Left)
		if err != nil {
			return "", "", err
		}
		rStart, rFinal, err := b.build(n.Right)
		if err != nil {
			return "", "", err
		}

		start = b.newState()
		final = b.newState()
		b.nfa.AddTransition(start, automaton.Epsilon, lStart)
		b.nfa.AddTransition(start, automaton.Epsilon, rStart)
		b.nfa.AddTransition(lFinal, automaton.Epsilon, final)
		b.nfa.AddTransition(rFinal, automaton.Epsilon, final)
		return start, final, nil

	case Star:
		start, final, err = b.buildRepetition(n.Inner)
		if err != nil {
			return "", "", err
		}

		// zero occurrences
		b.nfa.AddTransition(start, automaton.Epsilon, final)
		return start, final, nil

	case Plus:
		return b.buildRepetition(n.Inner)

	case nil:
		return "", "", fmt.Errorf("%w: nil node in tree", ErrConstructionInvariant)

	default:
		return "", "", fmt.Errorf("%w: unknown node type %T", ErrConstructionInvariant, n)
	}
}

// buildRepetition builds the one-or-more fragment for inner, which is the
// Kleene star fragment without the bypass from start to final.
func (b *thompsonBuilder) buildRepetition(inner Node) (start, final string, err error) {
	iStart, iFinal, err := b.build(inner)
	if err != nil {
		return "", "", err
	}

	start = b.newState()
	final = b.newState()
	b.nfa.AddTransition(start, automaton.Epsilon, iStart)
	b.nfa.AddTransition(iFinal, automaton.Epsilon, iStart)
	b.nfa.AddTransition(iFinal, automaton.Epsilon, final)
	return start, final, nil
}
