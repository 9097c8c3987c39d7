package regex

import (
	"golang.org/x/text/unicode/norm"
)

// EpsilonRune is a character that may be written in a pattern to stand for the
// empty string, the same as "()".
const EpsilonRune = 'ε'

// Parse parses a pattern into a tree of Nodes.
//
// Patterns are made of symbols and the operators "|", "*", "+", "(", and ")".
// Every other character is a symbol and matches itself; a symbol is a single
// character after the pattern has been converted to Unicode normalization form
// C. Juxtaposition is concatenation, "*" and "+" apply to the single operand
// directly before them, and "()" or "ε" matches the empty string. Alternation
// has the lowest precedence and repetition the highest.
//
// If the pattern is malformed, the returned error is a *SyntaxError.
func Parse(pattern string) (Node, error) {
	pattern = normalize(pattern)

	p := &parser{
		pattern: pattern,
		runes:   []rune(pattern),
	}

	if len(p.runes) == 0 {
		return nil, p.errorf(0, "empty pattern")
	}

	return p.parseAlternation(0, len(p.runes))
}

func normalize(s string) string {
	return norm.NFC.String(s)
}

type parser struct {
	pattern string
	runes   []rune
}

func (p *parser) errorf(pos int, msg string) *SyntaxError {
	return &SyntaxError{Pattern: p.pattern, Pos: pos, Msg: msg}
}

// parseAlternation parses runes[lo:hi]. It splits on the first "|" that is not
// inside parentheses and parses the rest of the range as another alternation,
// so a|b|c becomes Alternation(a, Alternation(b, c)).
func (p *parser) parseAlternation(lo, hi int) (Node, error) {
	depth := 0
	for i := lo; i < hi; i++ {
		switch p.runes[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth != 0 {
				continue
			}
			if i == lo {
				return nil, p.errorf(i, "alternation is missing its left side")
			}
			if i+1 == hi {
				return nil, p.errorf(i, "alternation is missing its right side")
			}

			left, err := p.parseConcat(lo, i)
			if err != nil {
				return nil, err
			}
			right, err := p.parseAlternation(i+1, hi)
			if err != nil {
				return nil, err
			}
			return Alternation{Left: left, Right: right}, nil
		}
	}

	return p.parseConcat(lo, hi)
}

// parseConcat parses runes[lo:hi], which must not contain a "|" outside of
// parentheses.
func (p *parser) parseConcat(lo, hi int) (Node, error) {
	var parts []Node

	for i := lo; i < hi; {
		switch ch := p.runes[i]; ch {
		case '(':
			end := p.findClosingParen(i, hi)
			if end < 0 {
				return nil, p.errorf(i, "unmatched '('")
			}

			if end == i+1 {
				parts = append(parts, Literal{Symbol: Epsilon})
			} else {
				group, err := p.parseAlternation(i+1, end)
				if err != nil {
					return nil, err
				}
				parts = append(parts, group)
			}
			i = end + 1
		case ')':
			return nil, p.errorf(i, "unmatched ')'")
		case '*', '+':
			if len(parts) == 0 {
				return nil, p.errorf(i, "'"+string(ch)+"' has nothing before it to repeat")
			}
			last := len(parts) - 1
			if ch == '*' {
				parts[last] = Star{Inner: parts[last]}
			} else {
				parts[last] = Plus{Inner: parts[last]}
			}
			i++
		case EpsilonRune:
			parts = append(parts, Literal{Symbol: Epsilon})
			i++
		default:
			parts = append(parts, Literal{Symbol: string(ch)})
			i++
		}
	}

	if len(parts) == 0 {
		return nil, p.errorf(lo, "empty expression")
	}

	return foldConcat(parts), nil
}

// findClosingParen returns the index of the ")" matching the "(" at open, or
// -1 if there is none before hi.
func (p *parser) findClosingParen(open, hi int) int {
	depth := 1
	for i := open + 1; i < hi; i++ {
		switch p.runes[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// foldConcat folds parts from the right, so a b c becomes
// Concat(a, Concat(b, c)). A single part is returned unwrapped.
func foldConcat(parts []Node) Node {
	n := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		n = Concat{Left: parts[i], Right: n}
	}
	return n
}
