package command

import (
	"testing"

	"github.com/dekarrin/fsmc/internal/fsmerrors"
	"github.com/stretchr/testify/assert"
)

func Test_ParseCommand(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect Command
	}{
		{name: "blank", input: "   ", expect: Command{}},
		{name: "regex keeps case and spacing", input: "regex  (A|b) c*", expect: Command{Verb: "REGEX", Argument: "(A|b) c*"}},
		{name: "regex alias", input: "RE ab|c", expect: Command{Verb: "REGEX", Argument: "ab|c"}},
		{name: "grammar", input: "grammar Grammars/left.txt", expect: Command{Verb: "GRAMMAR", Argument: "Grammars/left.txt"}},
		{name: "load", input: "OPEN nfa.csv", expect: Command{Verb: "LOAD", Argument: "nfa.csv"}},
		{name: "save default", input: "save Out.csv", expect: Command{Verb: "SAVE", Recipient: "DFA", Argument: "Out.csv"}},
		{name: "save nfa", input: "save nfa my nfa.csv", expect: Command{Verb: "SAVE", Recipient: "NFA", Argument: "my nfa.csv"}},
		{name: "mealy", input: "mealy Machines/m.csv", expect: Command{Verb: "MEALY", Argument: "Machines/m.csv"}},
		{name: "save mealy", input: "save mealy m.csv", expect: Command{Verb: "SAVE", Recipient: "MEALY", Argument: "m.csv"}},
		{name: "show mealy", input: "show mealy", expect: Command{Verb: "SHOW", Recipient: "MEALY"}},
		{name: "show default", input: "show", expect: Command{Verb: "SHOW", Recipient: "DFA"}},
		{name: "show ast", input: "Show Ast", expect: Command{Verb: "SHOW", Recipient: "AST"}},
		{name: "tree alias", input: "tree", expect: Command{Verb: "SHOW", Recipient: "AST"}},
		{name: "origins alias", input: "origins", expect: Command{Verb: "SHOW", Recipient: "ORIGINS"}},
		{name: "dot nfa", input: "dot nfa", expect: Command{Verb: "DOT", Recipient: "NFA"}},
		{name: "match", input: "match aAb", expect: Command{Verb: "MATCH", Argument: "aAb"}},
		{name: "match empty string", input: "TEST", expect: Command{Verb: "MATCH"}},
		{name: "trim", input: "trim", expect: Command{Verb: "TRIM"}},
		{name: "info alias", input: "status", expect: Command{Verb: "INFO"}},
		{name: "help", input: "help", expect: Command{Verb: "HELP"}},
		{name: "help on alias", input: "? re", expect: Command{Verb: "HELP", Recipient: "REGEX"}},
		{name: "quit alias", input: "bye", expect: Command{Verb: "QUIT"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseCommand(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ParseCommand_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "unknown verb", input: "fly away", expect: `I don't know what you mean by "FLY"`},
		{name: "regex without pattern", input: "re", expect: "I need a pattern to compile, like RE (a|b)*c"},
		{name: "load without file", input: "load  ", expect: "I need the path of a file to load"},
		{name: "save without file", input: "save nfa", expect: "I need the path of a file to save the NFA to"},
		{name: "show unknown", input: "show cats", expect: `I can't SHOW "CATS"; try one of NFA, DFA, MEALY, AST, ORIGINS`},
		{name: "dot ast", input: "dot ast", expect: `I can't DOT "AST"; try one of NFA, DFA`},
		{name: "show too much", input: "show nfa dfa", expect: "SHOW takes at most one thing to show"},
		{name: "quit with arg", input: "exit now", expect: "You can't EXIT *something*; type EXIT by itself"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := ParseCommand(tc.input)
			if !assert.Error(err) {
				return
			}

			assert.Equal(tc.expect, fsmerrors.ConsoleMessage(err))
		})
	}
}

func Test_ExpandAliases(t *testing.T) {
	testCases := []struct {
		name   string
		tokens []string
		limit  int
		expect []string
	}{
		{name: "no alias", tokens: []string{"SHOW", "NFA"}, limit: 2, expect: []string{"SHOW", "NFA"}},
		{name: "one word alias", tokens: []string{"RE", "A"}, limit: 2, expect: []string{"REGEX", "A"}},
		{name: "alias to two words", tokens: []string{"TREE"}, limit: 2, expect: []string{"SHOW", "AST"}},
		{name: "limit of zero", tokens: []string{"RE", "A"}, limit: 0, expect: []string{"RE", "A"}},
		{name: "empty", tokens: []string{}, limit: 2, expect: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ExpandAliases(tc.tokens, tc.limit)

			assert.Equal(tc.expect, actual)
		})
	}
}
