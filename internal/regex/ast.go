package regex

import (
	"github.com/dekarrin/fsmc/internal/automaton"
)

// Epsilon is the symbol held by a Literal that matches the empty string.
const Epsilon = automaton.Epsilon

// Node is a node of a parsed regular expression. The set of implementations is
// closed: Literal, Concat, Alternation, Star, and Plus are the only types that
// satisfy it. Nodes are immutable once created.
type Node interface {
	// String gives a canonical fully-parenthesized form of the node.
	String() string

	regexNode()
}

// Literal matches exactly one symbol, or the empty string if Symbol is
// Epsilon.
type Literal struct {
	Symbol string
}

// Concat matches Left followed by Right.
type Concat struct {
	Left  Node
	Right Node
}

// Alternation matches either Left or Right.
type Alternation struct {
	Left  Node
	Right Node
}

// Star matches zero or more repetitions of Inner.
type Star struct {
	Inner Node
}

// Plus matches one or more repetitions of Inner.
type Plus struct {
	Inner Node
}

func (Literal) regexNode()     {}
func (Concat) regexNode()      {}
func (Alternation) regexNode() {}
func (Star) regexNode()        {}
func (Plus) regexNode()        {}

func (n Literal) String() string {
	if n.Symbol == Epsilon {
		return "()"
	}
	return n.Symbol
}

func (n Concat) String() string {
	return "(" + nodeString(n.Left) + nodeString(n.Right) + ")"
}

func (n Alternation) String() string {
	return "(" + nodeString(n.Left) + "|" + nodeString(n.Right) + ")"
}

func (n Star) String() string {
	return nodeString(n.Inner) + "*"
}

func (n Plus) String() string {
	return nodeString(n.Inner) + "+"
}

func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
