package fsmerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dekarrin/fsmc/internal/regex"
	"github.com/dekarrin/fsmc/internal/table"
	"github.com/stretchr/testify/assert"
)

func Test_ConsoleMessage(t *testing.T) {
	wrapped := errors.New("disk on fire")

	testCases := []struct {
		name   string
		input  error
		expect string
	}{
		{
			name:   "command error",
			input:  Command("You can't do that.", "tried to do that"),
			expect: "You can't do that.",
		},
		{
			name:   "formatted command error",
			input:  Commandf("No %s loaded.", "DFA"),
			expect: "No DFA loaded.",
		},
		{
			name:   "wrapped inside other error",
			input:  fmt.Errorf("outer: %w", WrapCommand(wrapped, "Could not save.", "")),
			expect: "Could not save.",
		},
		{
			name:   "syntax error",
			input:  &regex.SyntaxError{Pattern: "ab(c", Pos: 2, Msg: "unmatched '('"},
			expect: "Bad pattern: unmatched '('\n  ab(c\n    ^",
		},
		{
			name:   "table error",
			input:  fmt.Errorf("%w: no states", table.ErrMalformed),
			expect: "That didn't work: malformed transition table: no states",
		},
		{
			name:   "plain error",
			input:  wrapped,
			expect: "disk on fire",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ConsoleMessage(tc.input)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_WrapCommandf(t *testing.T) {
	assert := assert.New(t)
	wrapped := errors.New("permission denied")

	err := WrapCommandf(wrapped, "Could not read %q.", "x.csv")

	assert.True(errors.Is(err, wrapped))
	assert.Equal(`got CommandError("Could not read \"x.csv\".")`, err.Error())
}
