package regex

import (
	"errors"
	"testing"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/stretchr/testify/assert"
)

func Test_CompileToDFA(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		expect  string
	}{
		{
			name:    "single symbol",
			pattern: "a",
			expect: `<START: "q0", STATES:
	(q0 [=(a)=> q1]),
	((q1 []))
>`,
		},
		{
			name:    "star collapses to one state",
			pattern: "a*",
			expect: `<START: "q0", STATES:
	((q0 [=(a)=> q0]))
>`,
		},
		{
			name:    "concatenation and alternation",
			pattern: "ab|c",
			expect: `<START: "q0", STATES:
	(q0 [=(a)=> q1, =(c)=> q2]),
	(q1 [=(b)=> q2]),
	((q2 []))
>`,
		},
		{
			name:    "empty string only",
			pattern: "()",
			expect: `<START: "q0", STATES:
	((q0 []))
>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := CompileToDFA(tc.pattern)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
			assert.True(actual.IsDeterministic())
		})
	}
}

func Test_CompileToDFA_Matching(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		accept  []string
		reject  []string
	}{
		{
			name:    "ab|c",
			pattern: "ab|c",
			accept:  []string{"ab", "c"},
			reject:  []string{"", "a", "b", "abc", "cc", "ac"},
		},
		{
			name:    "(a|b)+c",
			pattern: "(a|b)+c",
			accept:  []string{"ac", "bc", "abc", "bbac"},
			reject:  []string{"", "c", "a", "ab", "acc"},
		},
		{
			name:    "a*",
			pattern: "a*",
			accept:  []string{"", "a", "aaaa"},
			reject:  []string{"b", "ab"},
		},
		{
			name:    "optional via epsilon",
			pattern: "x(y|ε)z",
			accept:  []string{"xz", "xyz"},
			reject:  []string{"xyyz", "x", "z"},
		},
		{
			name:    "composed and decomposed input agree",
			pattern: "café",
			accept:  []string{"café", "café"},
			reject:  []string{"cafe"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dfa, err := CompileToDFA(tc.pattern)
			if !assert.NoError(err) {
				return
			}

			for _, s := range tc.accept {
				assert.True(dfa.Accepts(Symbols(s)), "should accept %q", s)
			}
			for _, s := range tc.reject {
				assert.False(dfa.Accepts(Symbols(s)), "should reject %q", s)
			}
		})
	}
}

func Test_CompileToDFA_StartTransitions(t *testing.T) {
	assert := assert.New(t)

	dfa, err := CompileToDFA("ab|c")
	if !assert.NoError(err) {
		return
	}

	assert.Len(dfa.Next(dfa.Start, "a"), 1)
	assert.Len(dfa.Next(dfa.Start, "c"), 1)
	assert.Empty(dfa.Next(dfa.Start, "b"))
}

func Test_CompileToDFA_SyntaxError(t *testing.T) {
	testCases := []string{"(a", "*a", "a|", ""}

	for _, pattern := range testCases {
		t.Run("'"+pattern+"'", func(t *testing.T) {
			assert := assert.New(t)

			_, err := CompileToDFA(pattern)

			var synErr *SyntaxError
			assert.True(errors.As(err, &synErr))
			assert.True(errors.Is(err, ErrSyntax))
		})
	}
}

func Test_CompileToNFA_MatchesDFA(t *testing.T) {
	patterns := []string{"a", "a*", "ab|c", "(a|b)+c", "(a|b)*abb", "a(b|())c*", "(ab)+|ba*"}
	inputs := allInputs([]string{"a", "b", "c"}, 5)

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			assert := assert.New(t)

			nfa, err := CompileToNFA(pattern)
			if !assert.NoError(err) {
				return
			}
			dfa, err := CompileToDFA(pattern)
			if !assert.NoError(err) {
				return
			}

			assert.Equal([]string{nfa.States()[nfa.Len()-1]}, nfa.AcceptingStates().Elements())
			for _, in := range inputs {
				syms := Symbols(in)
				assert.Equal(nfa.Accepts(syms), dfa.Accepts(syms), "input %q", in)
			}
		})
	}
}

func Test_CompileToDFA_ClosuresGiveSameLanguage(t *testing.T) {
	assert := assert.New(t)

	nfa, err := CompileToNFA("(a|b)*abb")
	if !assert.NoError(err) {
		return
	}

	kernel, err := automaton.Determinize(nfa, nfa.Alphabet(), nfa.Start)
	if !assert.NoError(err) {
		return
	}
	whole, err := automaton.Determinizer{KeepClosures: true}.Determinize(nfa, nfa.Alphabet(), nfa.Start)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(4, kernel.Len())
	assert.Equal(5, whole.Len())
	for _, in := range allInputs([]string{"a", "b"}, 6) {
		syms := Symbols(in)
		assert.Equal(whole.Accepts(syms), kernel.Accepts(syms), "input %q", in)
	}
}

func Test_Symbols(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{}, Symbols(""))
	assert.Equal([]string{"a", "b"}, Symbols("ab"))
	assert.Equal([]string{"é", "λ"}, Symbols("éλ"))
}

func allInputs(alphabet []string, maxLen int) []string {
	all := []string{""}
	layer := []string{""}
	for n := 0; n < maxLen; n++ {
		var next []string
		for _, prefix := range layer {
			for _, a := range alphabet {
				next = append(next, prefix+a)
			}
		}
		all = append(all, next...)
		layer = next
	}
	return all
}

