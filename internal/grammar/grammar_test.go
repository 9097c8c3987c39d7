package grammar

import (
	"errors"
	"testing"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expectKind Kind
		expect     string
	}{
		{
			name:       "right-linear",
			input:      "<S> -> a <A> | b\n<A> -> b <S> | a",
			expectKind: RightLinear,
			expect:     "<S> -> a <A> | b\n<A> -> b <S> | a",
		},
		{
			name:       "left-linear",
			input:      "<S> -> <A> b | a\n<A> -> <S> a | b",
			expectKind: LeftLinear,
			expect:     "<S> -> <A> b | a\n<A> -> <S> a | b",
		},
		{
			name:       "only terminals is right-linear",
			input:      "<S> -> a | b",
			expectKind: RightLinear,
			expect:     "<S> -> a | b",
		},
		{
			name:       "kind decided by later rule",
			input:      "<S> -> a | b\n<T> -> <S> c",
			expectKind: LeftLinear,
			expect:     "<S> -> a | b\n<T> -> <S> c",
		},
		{
			name:       "trailing bar continues rule",
			input:      "<S> -> a <S> |\n       b",
			expectKind: RightLinear,
			expect:     "<S> -> a <S> | b",
		},
		{
			name:       "leading bar continues rule",
			input:      "<S> -> a <S>\n  | b\n  | c",
			expectKind: RightLinear,
			expect:     "<S> -> a <S> | b | c",
		},
		{
			name:       "comments and blank lines",
			input:      "# a grammar\n\n<S> -> a <S> | b\n\n# end\n",
			expectKind: RightLinear,
			expect:     "<S> -> a <S> | b",
		},
		{
			name:       "epsilon alternative",
			input:      "<S> -> a <S> | ε",
			expectKind: RightLinear,
			expect:     "<S> -> a <S> | ε",
		},
		{
			name:       "windows line endings",
			input:      "<S> -> a <A>\r\n<A> -> b\r\n",
			expectKind: RightLinear,
			expect:     "<S> -> a <A>\n<A> -> b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectKind, actual.Kind)
			assert.Equal(tc.expect, actual.String())
		})
	}
}

func Test_Parse_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectLine  string
		expectNoRul bool
	}{
		{name: "empty", input: "", expectNoRul: true},
		{name: "only comments", input: "# nothing\n\n", expectNoRul: true},
		{name: "no arrow", input: "<S> a <A>", expectLine: "line 1"},
		{name: "bare head", input: "S -> a", expectLine: "line 1"},
		{name: "terminal too long", input: "<S> -> ab", expectLine: "line 1"},
		{name: "too many symbols", input: "<S> -> a <A> <B>", expectLine: "line 1"},
		{name: "two terminals", input: "<S> -> a b", expectLine: "line 1"},
		{name: "empty alternative", input: "<S> -> a || b", expectLine: "line 1"},
		{name: "dangling bar", input: "<S> -> a <S> |", expectLine: "line 1"},
		{name: "continuation first", input: "| a", expectLine: "line 1"},
		{name: "double continuation bar", input: "<S> -> a |\n| b", expectLine: "line 2"},
		{name: "mixed directions", input: "# mixed\n<S> -> a <A>\n<A> -> <S> b", expectLine: "line 3"},
		{name: "bad nonterminal", input: "<S> -> a <A-B>", expectLine: "line 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Parse(tc.input)
			if !assert.Error(err) {
				return
			}

			if tc.expectNoRul {
				assert.True(errors.Is(err, ErrNoRules))
				return
			}
			assert.True(errors.Is(err, ErrMalformedRule))
			assert.Contains(err.Error(), tc.expectLine)
		})
	}
}

func Test_Grammar_NonTerminals(t *testing.T) {
	assert := assert.New(t)
	g := MustParse("<S> -> a <B> | b <A>\n<A> -> c <S>\n<B> -> d")

	assert.Equal([]string{"S", "B", "A"}, g.NonTerminals())
	assert.Equal("S", g.StartSymbol())
}

func Test_Grammar_ToNFA(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expect      string
		expectNames map[string]string
	}{
		{
			name:  "right-linear",
			input: "<S> -> a <A> | b\n<A> -> b <S> | a",
			expect: `<START: "q0", STATES:
	(q0 [=(a)=> q1, =(b)=> q2]),
	(q1 [=(b)=> q0, =(a)=> q2]),
	((q2 []))
>`,
			expectNames: map[string]string{"S": "q0", "A": "q1"},
		},
		{
			name:  "right-linear with epsilon",
			input: "<S> -> a <S> | ε",
			expect: `<START: "q0", STATES:
	(q0 [=(a)=> q0, =(ε)=> q1]),
	((q1 []))
>`,
			expectNames: map[string]string{"S": "q0"},
		},
		{
			name:  "left-linear",
			input: "<S> -> <A> b | a\n<A> -> <S> a | b",
			expect: `<START: "q0", STATES:
	(q0 [=(a)=> q2, =(b)=> q1]),
	(q1 [=(b)=> q2]),
	((q2 [=(a)=> q1]))
>`,
			expectNames: map[string]string{"A": "q1", "S": "q2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := MustParse(tc.input)

			nfa, names := g.ToNFA()

			assert.Equal(tc.expect, nfa.String())
			assert.Equal(tc.expectNames, names)
			assert.NoError(nfa.Validate())
		})
	}
}

func Test_Grammar_Language(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		accept [][]string
		reject [][]string
	}{
		{
			name:   "right-linear (ab)*a",
			input:  "<S> -> a <A> | a\n<A> -> b <S>",
			accept: [][]string{{"a"}, {"a", "b", "a"}, {"a", "b", "a", "b", "a"}},
			reject: [][]string{{}, {"a", "b"}, {"b"}, {"a", "a"}},
		},
		{
			name:   "left-linear",
			input:  "<S> -> <A> b | a\n<A> -> <S> a | b",
			accept: [][]string{{"a"}, {"b", "b"}, {"a", "a", "b"}},
			reject: [][]string{{}, {"b"}, {"a", "b"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			nfa, _ := MustParse(tc.input).ToNFA()

			dfa, err := automaton.Determinize(nfa, nfa.Alphabet(), nfa.Start)
			if !assert.NoError(err) {
				return
			}

			for _, in := range tc.accept {
				assert.True(nfa.Accepts(in), "NFA should accept %v", in)
				assert.True(dfa.Accepts(in), "DFA should accept %v", in)
			}
			for _, in := range tc.reject {
				assert.False(nfa.Accepts(in), "NFA should reject %v", in)
				assert.False(dfa.Accepts(in), "DFA should reject %v", in)
			}
		})
	}
}
