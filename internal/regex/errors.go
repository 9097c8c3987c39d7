package regex

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is matched by every *SyntaxError when checked with
	// errors.Is.
	ErrSyntax = errors.New("syntax error")

	// ErrConstructionInvariant is returned when automaton construction meets
	// a tree it should never have been given, such as one with a nil node. It
	// indicates a bug in whatever built the tree and not bad user input.
	ErrConstructionInvariant = errors.New("construction invariant violated")
)

// SyntaxError is returned by Parse when a pattern is malformed.
type SyntaxError struct {
	// Pattern is the complete pattern that was being parsed.
	Pattern string

	// Pos is the index of the rune in Pattern where the problem was found.
	// It is equal to the length of the pattern in runes if the problem is
	// that the pattern ended too early.
	Pos int

	// Msg describes the problem.
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d in %q: %s", e.Pos, e.Pattern, e.Msg)
}

// Is returns whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
