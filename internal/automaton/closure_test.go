package automaton

import (
	"testing"

	"github.com/dekarrin/fsmc/internal/util"
	"github.com/stretchr/testify/assert"
)

func Test_Automaton_EpsilonClosure(t *testing.T) {
	testCases := []struct {
		name   string
		input  []string
		expect []string
	}{
		{
			name:   "start of dragon NFA",
			input:  []string{"0"},
			expect: []string{"0", "1", "2", "4", "7"},
		},
		{
			name:   "through a cycle back to the loop head",
			input:  []string{"3"},
			expect: []string{"1", "2", "3", "4", "6", "7"},
		},
		{
			name:   "no epsilon moves",
			input:  []string{"8"},
			expect: []string{"8"},
		},
		{
			name:   "multiple starting states",
			input:  []string{"8", "5"},
			expect: []string{"1", "2", "4", "5", "6", "7", "8"},
		},
		{
			name:   "unknown state is ignored",
			input:  []string{"99"},
			expect: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			nfa := dragonNFA()

			actual := nfa.EpsilonClosure(tc.input...)

			assert.Equal(tc.expect, actual.Elements())
		})
	}
}

func Test_Automaton_EpsilonClosure_Idempotent(t *testing.T) {
	nfa := dragonNFA()

	for _, s := range nfa.States() {
		t.Run(s, func(t *testing.T) {
			assert := assert.New(t)

			once := nfa.EpsilonClosure(s)
			twice := nfa.EpsilonClosureOfSet(once)

			assert.True(once.Equal(twice), "closure(closure(%s)) = %s, closure(%s) = %s", s, twice, s, once)
		})
	}
}

func Test_Automaton_EpsilonClosure_SelfLoop(t *testing.T) {
	assert := assert.New(t)
	a := buildAutomaton("q0",
		stateDef{name: "q0", trans: []string{"=(ε)=> q0", "=(ε)=> q1"}},
		stateDef{name: "q1", trans: []string{"=(ε)=> q0"}},
	)

	actual := a.EpsilonClosure("q0")

	assert.Equal([]string{"q0", "q1"}, actual.Elements())
}

func Test_Automaton_Move(t *testing.T) {
	testCases := []struct {
		name   string
		from   []string
		input  string
		expect []string
	}{
		{
			name:   "a from start closure",
			from:   []string{"0", "1", "2", "4", "7"},
			input:  "a",
			expect: []string{"3", "8"},
		},
		{
			name:   "b from start closure",
			from:   []string{"0", "1", "2", "4", "7"},
			input:  "b",
			expect: []string{"5"},
		},
		{
			name:   "epsilon is never followed",
			from:   []string{"0"},
			input:  Epsilon,
			expect: []string{},
		},
		{
			name:   "no transitions on symbol",
			from:   []string{"10"},
			input:  "a",
			expect: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			nfa := dragonNFA()

			actual := nfa.Move(util.StringSetOf(tc.from), tc.input)

			assert.Equal(tc.expect, actual.Elements())
		})
	}
}

func Test_Automaton_Accepts(t *testing.T) {
	testCases := []struct {
		input  string
		expect bool
	}{
		{input: "abb", expect: true},
		{input: "aabb", expect: true},
		{input: "babb", expect: true},
		{input: "ababb", expect: true},
		{input: "", expect: false},
		{input: "ab", expect: false},
		{input: "abba", expect: false},
		{input: "abc", expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert := assert.New(t)
			nfa := dragonNFA()

			actual := nfa.Accepts(splitSymbols(tc.input))

			assert.Equal(tc.expect, actual)
		})
	}
}

func splitSymbols(s string) []string {
	var syms []string
	for _, ch := range s {
		syms = append(syms, string(ch))
	}
	return syms
}
