package automaton

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stateDef struct {
	name   string
	output string
	trans  []string
}

// buildAutomaton makes an automaton from state definitions whose transitions
// are given in the same "=(a)=> q1" format that Transition.String produces.
func buildAutomaton(start string, defs ...stateDef) Automaton {
	a := Automaton{Start: start}

	for _, d := range defs {
		a.AddState(d.name, d.output)
	}

	// add transitions AFTER all states are already in or it will cause a panic
	for _, d := range defs {
		for _, t := range d.trans {
			sym, to := mustParseTransition(t)
			a.AddTransition(d.name, sym, to)
		}
	}

	return a
}

func mustParseTransition(s string) (symbol, to string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "=(") {
		panic(fmt.Sprintf("not a transition: %q", s))
	}
	s = s[2:]

	parts := strings.SplitN(s, ")=> ", 2)
	if len(parts) != 2 {
		panic(fmt.Sprintf("not a transition: %q", s))
	}

	symbol = parts[0]
	if symbol == EpsilonSymbol {
		symbol = Epsilon
	}
	return symbol, parts[1]
}

// dragonNFA is the NFA for (a|b)*abb from figure 3.34 of the purple dragon
// book.
func dragonNFA() Automaton {
	return buildAutomaton("0",
		stateDef{name: "0", trans: []string{"=(ε)=> 1", "=(ε)=> 7"}},
		stateDef{name: "1", trans: []string{"=(ε)=> 2", "=(ε)=> 4"}},
		stateDef{name: "2", trans: []string{"=(a)=> 3"}},
		stateDef{name: "3", trans: []string{"=(ε)=> 6"}},
		stateDef{name: "4", trans: []string{"=(b)=> 5"}},
		stateDef{name: "5", trans: []string{"=(ε)=> 6"}},
		stateDef{name: "6", trans: []string{"=(ε)=> 1", "=(ε)=> 7"}},
		stateDef{name: "7", trans: []string{"=(a)=> 8"}},
		stateDef{name: "8", trans: []string{"=(b)=> 9"}},
		stateDef{name: "9", trans: []string{"=(b)=> 10"}},
		stateDef{name: "10", output: AcceptMarker},
	)
}

func Test_Automaton_String(t *testing.T) {
	testCases := []struct {
		name   string
		input  Automaton
		expect string
	}{
		{
			name:   "empty",
			input:  Automaton{},
			expect: `<START: "", STATES:>`,
		},
		{
			name: "single transition",
			input: buildAutomaton("q0",
				stateDef{name: "q0", trans: []string{"=(a)=> q1"}},
				stateDef{name: "q1", output: AcceptMarker},
			),
			expect: "<START: \"q0\", STATES:\n\t(q0 [=(a)=> q1]),\n\t((q1 []))\n>",
		},
		{
			name: "epsilon and non-accept output",
			input: buildAutomaton("q0",
				stateDef{name: "q0", output: "y1", trans: []string{"=(ε)=> q0", "=(ε)=> q1"}},
				stateDef{name: "q1"},
			),
			expect: "<START: \"q0\", STATES:\n\t(q0:y1 [=(ε)=> q0, =(ε)=> q1]),\n\t(q1 [])\n>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.input.String()

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Automaton_AddTransition(t *testing.T) {
	t.Run("duplicate transitions are collapsed", func(t *testing.T) {
		assert := assert.New(t)
		a := Automaton{}
		a.AddState("q0", "")
		a.AddState("q1", "")

		a.AddTransition("q0", "a", "q1")
		a.AddTransition("q0", "a", "q1")
		a.AddTransition("q0", "a", "q0")

		assert.Equal([]Transition{{Symbol: "a", Targets: []string{"q1", "q0"}}}, a.Transitions("q0"))
	})

	t.Run("unknown from state panics", func(t *testing.T) {
		assert := assert.New(t)
		a := Automaton{}
		a.AddState("q0", "")

		assert.Panics(func() {
			a.AddTransition("q9", "a", "q0")
		})
	})

	t.Run("unknown to state panics", func(t *testing.T) {
		assert := assert.New(t)
		a := Automaton{}
		a.AddState("q0", "")

		assert.Panics(func() {
			a.AddTransition("q0", "a", "q9")
		})
	})

	t.Run("returned transitions are a copy", func(t *testing.T) {
		assert := assert.New(t)
		a := buildAutomaton("q0",
			stateDef{name: "q0", trans: []string{"=(a)=> q0"}},
		)

		trans := a.Transitions("q0")
		trans[0].Targets[0] = "changed"

		assert.Equal([]string{"q0"}, a.Next("q0", "a"))
	})
}

func Test_Automaton_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		input     Automaton
		expectErr bool
	}{
		{
			name:      "no start",
			input:     buildAutomaton("", stateDef{name: "q0"}),
			expectErr: true,
		},
		{
			name:      "start does not exist",
			input:     buildAutomaton("q1", stateDef{name: "q0"}),
			expectErr: true,
		},
		{
			name:  "valid",
			input: dragonNFA(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.input.Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Automaton_Alphabet(t *testing.T) {
	assert := assert.New(t)

	actual := dragonNFA().Alphabet()

	assert.Equal([]string{"a", "b"}, actual)
}

func Test_Automaton_IsDeterministic(t *testing.T) {
	testCases := []struct {
		name   string
		input  Automaton
		expect bool
	}{
		{
			name:   "epsilon transitions",
			input:  dragonNFA(),
			expect: false,
		},
		{
			name: "multiple targets",
			input: buildAutomaton("q0",
				stateDef{name: "q0", trans: []string{"=(a)=> q0", "=(a)=> q1"}},
				stateDef{name: "q1"},
			),
			expect: false,
		},
		{
			name: "deterministic",
			input: buildAutomaton("q0",
				stateDef{name: "q0", trans: []string{"=(a)=> q1", "=(b)=> q0"}},
				stateDef{name: "q1"},
			),
			expect: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.input.IsDeterministic())
		})
	}
}

func Test_Automaton_RemoveUnreachable(t *testing.T) {
	assert := assert.New(t)
	a := buildAutomaton("q0",
		stateDef{name: "q0", trans: []string{"=(a)=> q1"}},
		stateDef{name: "q1", output: AcceptMarker},
		stateDef{name: "q2", trans: []string{"=(a)=> q1", "=(b)=> q3"}},
		stateDef{name: "q3", trans: []string{"=(a)=> q2"}},
	)

	removed := a.RemoveUnreachable()

	assert.Equal([]string{"q2", "q3"}, removed)
	assert.Equal([]string{"q0", "q1"}, a.States())
	assert.NoError(a.Validate())
}

func Test_Automaton_Copy(t *testing.T) {
	assert := assert.New(t)
	orig := dragonNFA()

	copied := orig.Copy()
	copied.AddState("11", "")
	copied.AddTransition("10", "c", "11")
	copied.SetOutput("0", "y0")

	assert.Equal(dragonNFA().String(), orig.String())
	assert.NotEqual(orig.String(), copied.String())
}
