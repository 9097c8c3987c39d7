package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/fsmc/internal/automaton"
	"golang.org/x/text/unicode/norm"
)

// ErrNoRules is returned by Parse when the input holds no rules at all.
var ErrNoRules = errors.New("grammar has no rules")

var nonTerminalRegexp = regexp.MustCompile(`^<(\w+)>$`)

type shape int

const (
	shapeTerminal shape = iota
	shapeRight
	shapeLeft
)

type parsedAlt struct {
	prod  Production
	shape shape
}

type parsedRule struct {
	head string
	alts []parsedAlt
	line int
}

type logicalLine struct {
	text string
	line int
}

// Parse reads a regular grammar from text. The returned error wraps
// ErrMalformedRule and gives the line of the problem if any rule cannot be
// read.
func Parse(text string) (Grammar, error) {
	lines, err := joinContinuations(text)
	if err != nil {
		return Grammar{}, err
	}
	if len(lines) == 0 {
		return Grammar{}, ErrNoRules
	}

	var rules []parsedRule
	for _, ll := range lines {
		r, err := parseRule(ll.text, ll.line)
		if err != nil {
			return Grammar{}, err
		}
		rules = append(rules, r)
	}

	kind, err := detectKind(rules)
	if err != nil {
		return Grammar{}, err
	}

	g := Grammar{Kind: kind}
	for _, r := range rules {
		rule := Rule{NonTerminal: r.head, Line: r.line}
		for _, a := range r.alts {
			rule.Productions = append(rule.Productions, a.prod)
		}
		g.Rules = append(g.Rules, rule)
	}
	return g, nil
}

// MustParse is like Parse but panics if the grammar cannot be read.
func MustParse(text string) Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

func malformed(line int, format string, a ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedRule, line, fmt.Sprintf(format, a...))
}

// joinContinuations splits text into rules, gluing together lines that are
// continued with a trailing or leading "|".
func joinContinuations(text string) ([]logicalLine, error) {
	var lines []logicalLine
	continuing := false

	for i, raw := range strings.Split(text, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if continuing || strings.HasPrefix(line, "|") {
			if len(lines) == 0 {
				return nil, malformed(lineNum, "continuation with no rule before it")
			}
			if continuing && strings.HasPrefix(line, "|") {
				return nil, malformed(lineNum, "alternative is empty")
			}
			lines[len(lines)-1].text += " " + line
		} else {
			lines = append(lines, logicalLine{text: line, line: lineNum})
		}

		continuing = strings.HasSuffix(line, "|")
	}

	if continuing {
		last := lines[len(lines)-1]
		return nil, malformed(last.line, "rule ends with '|'")
	}

	return lines, nil
}

func parseRule(s string, line int) (parsedRule, error) {
	sides := strings.SplitN(s, "->", 2)
	if len(sides) != 2 {
		return parsedRule{}, malformed(line, "not a rule of form '<A> -> ALTERNATIVES': %q", s)
	}

	headStr := strings.TrimSpace(sides[0])
	m := nonTerminalRegexp.FindStringSubmatch(headStr)
	if m == nil {
		return parsedRule{}, malformed(line, "left side %q is not a nonterminal", headStr)
	}

	r := parsedRule{head: m[1], line: line}

	for _, altStr := range strings.Split(sides[1], "|") {
		altStr = strings.TrimSpace(altStr)
		if altStr == "" {
			return parsedRule{}, malformed(line, "alternative is empty")
		}

		alt, err := parseAlternative(altStr)
		if err != nil {
			return parsedRule{}, malformed(line, "%s", err.Error())
		}
		r.alts = append(r.alts, alt)
	}

	return r, nil
}

func parseAlternative(s string) (parsedAlt, error) {
	tokens := strings.Fields(s)

	switch len(tokens) {
	case 1:
		term, err := parseTerminal(tokens[0])
		if err != nil {
			return parsedAlt{}, err
		}
		return parsedAlt{prod: Production{Terminal: term}, shape: shapeTerminal}, nil
	case 2:
		if m := nonTerminalRegexp.FindStringSubmatch(tokens[0]); m != nil {
			term, err := parseTerminal(tokens[1])
			if err != nil {
				return parsedAlt{}, err
			}
			return parsedAlt{prod: Production{Terminal: term, NonTerminal: m[1]}, shape: shapeLeft}, nil
		}
		if m := nonTerminalRegexp.FindStringSubmatch(tokens[1]); m != nil {
			term, err := parseTerminal(tokens[0])
			if err != nil {
				return parsedAlt{}, err
			}
			return parsedAlt{prod: Production{Terminal: term, NonTerminal: m[1]}, shape: shapeRight}, nil
		}
		return parsedAlt{}, fmt.Errorf("alternative %q has no nonterminal", s)
	default:
		return parsedAlt{}, fmt.Errorf("alternative %q must be one terminal and at most one nonterminal", s)
	}
}

func parseTerminal(tok string) (string, error) {
	if tok == automaton.EpsilonSymbol {
		return automaton.Epsilon, nil
	}
	if strings.HasPrefix(tok, "<") && len(tok) > 1 {
		return "", fmt.Errorf("%q is not a valid nonterminal or terminal", tok)
	}

	tok = norm.NFC.String(tok)
	if utf8.RuneCountInString(tok) != 1 {
		return "", fmt.Errorf("terminal %q is not a single character", tok)
	}
	return tok, nil
}

// detectKind decides whether the rules make a right- or left-linear grammar
// from whichever alternatives can only be one or the other.
func detectKind(rules []parsedRule) (Kind, error) {
	var kind Kind
	decided := false

	for _, r := range rules {
		for _, a := range r.alts {
			var k Kind
			switch a.shape {
			case shapeRight:
				k = RightLinear
			case shapeLeft:
				k = LeftLinear
			default:
				continue
			}

			if !decided {
				kind = k
				decided = true
			} else if k != kind {
				return 0, malformed(r.line, "%s alternative in %s grammar", k, kind)
			}
		}
	}

	return kind, nil
}
