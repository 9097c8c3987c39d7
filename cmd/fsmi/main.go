/*
Fsmi starts an interactive FSMC workbench session.

It optionally builds a first automaton from a regular expression, grammar file,
or transition table given on the command line, and then reads commands from
stdin and prints their results to stdout until input ends or the "QUIT" command
is input.

Usage:

	fsmi [flags]

The flags are:

	-v, --version
		Give the current version of FSMC and then exit.

	-r, --regex PATTERN
		Compile PATTERN before the session starts.

	-g, --grammar FILE
		Build the automata from the regular grammar in FILE before the session
		starts.

	-t, --table FILE
		Load the automaton in the transition table in FILE before the session
		starts.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

	--history FILE
		Keep the readline command history in FILE. Defaults to no history
		file. Ignored if readline is not used.

Once a session has started, the user input will be parsed for FSMC commands.
For an explanation of the commands, type "HELP" once in a session. To exit the
interpreter, type "QUIT".
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/fsmc"
	"github.com/dekarrin/fsmc/internal/command"
	"github.com/dekarrin/fsmc/internal/fsmerrors"
	"github.com/dekarrin/fsmc/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var returnCode int = ExitSuccess

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of FSMC and then exit.")
	flagRegex   = pflag.StringP("regex", "r", "", "Compile the given regular expression before starting.")
	flagGrammar = pflag.StringP("grammar", "g", "", "Build from the given regular grammar file before starting.")
	flagTable   = pflag.StringP("table", "t", "", "Load the given transition table file before starting.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagHistory = pflag.String("history", "", "Keep readline command history in the given file.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	var initial *command.Command
	sources := 0
	if pflag.Lookup("regex").Changed {
		initial = &command.Command{Verb: "REGEX", Argument: *flagRegex}
		sources++
	}
	if *flagGrammar != "" {
		initial = &command.Command{Verb: "GRAMMAR", Argument: *flagGrammar}
		sources++
	}
	if *flagTable != "" {
		initial = &command.Command{Verb: "LOAD", Argument: *flagTable}
		sources++
	}
	if sources > 1 {
		fmt.Fprintf(os.Stderr, "Only one of --regex, --grammar, and --table may be given\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	eng, initErr := fsmc.New(os.Stdin, os.Stdout, *flagDirect, *flagHistory)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if initial != nil {
		if err := eng.Execute(*initial); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", fsmerrors.ConsoleMessage(err))
			returnCode = ExitInitError
			return
		}
	}

	err := eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
