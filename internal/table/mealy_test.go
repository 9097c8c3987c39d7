package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/stretchr/testify/assert"
)

func sampleMealy() automaton.Mealy {
	var m automaton.Mealy
	m.AddState("s0")
	m.AddState("s1")
	m.AddState("s2")
	m.AddTransition("s0", "a", "s1", "y1")
	m.AddTransition("s0", "b", "s0", "y2")
	m.AddTransition("s1", "a", "s0", "y2")
	m.AddTransition("s2", "b", "s1", " y3 ")
	m.Start = "s1"
	return m
}

func Test_WriteMealy(t *testing.T) {
	assert := assert.New(t)
	var sb strings.Builder

	err := WriteMealy(&sb, sampleMealy())
	if !assert.NoError(err) {
		return
	}

	assert.Equal(";s1;s0;s2\na;s0/y2;s1/y1;\nb;;s0/y2;s1/ y3 \n", sb.String())
	assert.Equal(sb.String(), MealyString(sampleMealy()))
}

func Test_ReadMealy(t *testing.T) {
	assert := assert.New(t)

	actual, err := ReadMealy(strings.NewReader(";s0;s1\na;s1/y1;s0/y2\nb; s0/y2;\n"))
	if !assert.NoError(err) {
		return
	}

	assert.Equal("s0", actual.Start)
	assert.Equal([]string{"s0", "s1"}, actual.States())

	out, ok := actual.Run([]string{"a", "a", "b"})
	assert.True(ok)
	assert.Equal([]string{"y1", "y2", "y2"}, out)

	_, ok = actual.Next("s1", "b")
	assert.False(ok)
}

func Test_Mealy_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	original := sampleMealy()

	actual, err := ReadMealy(strings.NewReader(MealyString(original)))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(original.Start, actual.Start)
	assert.ElementsMatch(original.States(), actual.States())
	for _, s := range original.States() {
		assert.ElementsMatch(original.Transitions(s), actual.Transitions(s), "transitions of %s", s)
	}
	assert.Equal(MealyString(original), MealyString(actual))
}

func Test_ReadMealy_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no states", input: "x\n"},
		{name: "unnamed state", input: ";s0;\n"},
		{name: "duplicate state", input: ";s0;s0\n"},
		{name: "row without symbol", input: ";s0;s1\n;s1/y;\n"},
		{name: "epsilon row", input: ";s0;s1\nε;s1/y;\n"},
		{name: "duplicate symbol", input: ";s0;s1\na;s1/y;\na;;s0/y\n"},
		{name: "cell without output", input: ";s0;s1\na;s1;\n"},
		{name: "unknown target", input: ";s0;s1\na;s7/y;\n"},
		{name: "multi-character symbol", input: ";s0;s1\nab;s1/y;\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := ReadMealy(strings.NewReader(tc.input))

			assert.True(errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func Test_StringAsMealy(t *testing.T) {
	assert := assert.New(t)

	actual, err := StringAsMealy(sampleDFA())
	if !assert.NoError(err) {
		return
	}
	assert.Equal(";q0;q1\na;q1/F;q0/\nb;q1/F;\n", actual)

	_, err = StringAsMealy(sampleNFA())
	assert.ErrorIs(err, automaton.ErrNondeterministic)
}

func sampleDFA() automaton.Automaton {
	var a automaton.Automaton
	a.AddState("q0", "")
	a.AddState("q1", automaton.AcceptMarker)
	a.AddTransition("q0", "b", "q1")
	a.AddTransition("q0", "a", "q1")
	a.AddTransition("q1", "a", "q0")
	a.Start = "q0"
	return a
}
