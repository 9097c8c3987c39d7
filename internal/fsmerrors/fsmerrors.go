// Package fsmerrors holds errors that carry a message meant for a person at the
// console in addition to their regular technical message.
package fsmerrors

import (
	"errors"
	"fmt"

	"github.com/dekarrin/fsmc/internal/grammar"
	"github.com/dekarrin/fsmc/internal/regex"
	"github.com/dekarrin/fsmc/internal/table"
)

// commandError is an error caused by a command that could not be carried out.
// Either the input could not be understood or it asks for something that is
// not possible at the current time.
//
// It includes a human-readable message to show to the operator as well as a
// typical more technical "error message" style message.
type commandError struct {
	msg   string
	human string
	wrap  error
}

func (e *commandError) Error() string {
	return e.msg
}

// ConsoleMessage shows the message that should be displayed at the console to
// describe the error.
func (e *commandError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the commandError wraps, if it wraps one.
func (e *commandError) Unwrap() error {
	return e.wrap
}

// Command returns a new error that has both the message to show the operator
// and the technical description of the error.
func Command(console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got CommandError(%q)", console)
	}
	return &commandError{
		msg:   technical,
		human: console,
	}
}

// Commandf returns a new error that has a message to show to the operator and
// an automatically generated Error() description.
func Commandf(consoleFormat string, a ...interface{}) error {
	return Command(fmt.Sprintf(consoleFormat, a...), "")
}

// WrapCommand returns a new error that has both the message to show the
// operator and the technical description of the error, and that wraps the
// given error.
func WrapCommand(e error, console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got CommandError(%q)", console)
	}
	return &commandError{
		msg:   technical,
		human: console,
		wrap:  e,
	}
}

// WrapCommandf is like WrapCommand but builds the console message from a
// format string. The technical message is generated.
func WrapCommandf(e error, consoleFormat string, a ...interface{}) error {
	return WrapCommand(e, fmt.Sprintf(consoleFormat, a...), "")
}

// ConsoleMessage gets the message to display at the console for the given
// error. Errors made by this package give their console message. Pattern
// syntax errors point at the bad character. Anything else gives err.Error().
func ConsoleMessage(err error) string {
	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ConsoleMessage()
	}

	var synErr *regex.SyntaxError
	if errors.As(err, &synErr) {
		return syntaxMessage(synErr)
	}

	if errors.Is(err, grammar.ErrMalformedRule) || errors.Is(err, grammar.ErrNoRules) || errors.Is(err, table.ErrMalformed) {
		return "That didn't work: " + err.Error()
	}

	return err.Error()
}

func syntaxMessage(e *regex.SyntaxError) string {
	pointer := ""
	for i := 0; i < e.Pos; i++ {
		pointer += " "
	}
	pointer += "^"

	return fmt.Sprintf("Bad pattern: %s\n  %s\n  %s", e.Msg, e.Pattern, pointer)
}
