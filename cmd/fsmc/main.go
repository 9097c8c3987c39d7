/*
Fsmc compiles a regular expression, regular grammar, or transition table into
a deterministic finite automaton and writes out its transition table.

Usage:

	fsmc [flags] PATTERN
	fsmc [flags] --grammar FILE
	fsmc [flags] --table FILE
	fsmc [flags] --mealy FILE
	fsmc [flags] --manifest FILE

Exactly one source must be given. The result is written to stdout unless -o is
given. With --manifest, every machine listed in the FSMW file is built and each
is written to the output given for it in the file, or to stdout if it has none.

The flags are:

	-v, --version
		Give the current version of FSMC and then exit.

	-g, --grammar FILE
		Build from the regular grammar in FILE.

	-t, --table FILE
		Build from the transition table in FILE. The table may be
		nondeterministic and is determinized.

	-M, --mealy FILE
		Build from the Mealy machine table in FILE. The machine is
		converted to an equivalent Moore automaton.

	-m, --manifest FILE
		Build every machine in the FSMW file FILE.

	-n, --nfa
		Stop before determinization and output the NFA.

	-o, --output FILE
		Write the result to FILE instead of stdout. Not allowed with
		--manifest.

	-f, --format FORMAT
		Output in FORMAT, one of csv (the default), text, dot, or mealy. The
		mealy format is the DFA converted to a Mealy machine table and cannot
		be used with --nfa.

	-x, --match STRING
		After building, report whether STRING is accepted. May be given
		multiple times.

	--trim
		Remove unreachable states before output.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/fsmc/internal/fsmerrors"
	"github.com/dekarrin/fsmc/internal/fsmw"
	"github.com/dekarrin/fsmc/internal/render"
	"github.com/dekarrin/fsmc/internal/session"
	"github.com/dekarrin/fsmc/internal/table"
	"github.com/dekarrin/fsmc/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates that the source could not be built.
	ExitCompileError

	// ExitUsageError indicates that the program was invoked incorrectly.
	ExitUsageError

	// ExitOutputError indicates that the result could not be written.
	ExitOutputError
)

var returnCode int = ExitSuccess

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of FSMC and then exit.")
	flagGrammar  = pflag.StringP("grammar", "g", "", "Build from the given regular grammar file.")
	flagTable    = pflag.StringP("table", "t", "", "Build from the given transition table file.")
	flagMealy    = pflag.StringP("mealy", "M", "", "Build from the given Mealy machine table file.")
	flagManifest = pflag.StringP("manifest", "m", "", "Build every machine in the given FSMW file.")
	flagNFA      = pflag.BoolP("nfa", "n", false, "Output the NFA instead of the DFA.")
	flagOutput   = pflag.StringP("output", "o", "", "Write the result to the given file instead of stdout.")
	flagFormat   = pflag.StringP("format", "f", "csv", "Output format: csv, text, dot, or mealy.")
	flagMatch    = pflag.StringArrayP("match", "x", nil, "Report whether the given string is accepted. May be repeated.")
	flagTrim     = pflag.Bool("trim", false, "Remove unreachable states before output.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
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

	format := strings.ToLower(*flagFormat)
	if format != "csv" && format != "text" && format != "dot" && format != "mealy" {
		usageError("%q is not a format; must be one of csv, text, dot, or mealy", *flagFormat)
		return
	}
	if format == "mealy" && *flagNFA {
		usageError("--nfa cannot be used with the mealy format")
		return
	}

	args := pflag.Args()
	sources := len(args)
	for _, f := range []string{*flagGrammar, *flagTable, *flagMealy, *flagManifest} {
		if f != "" {
			sources++
		}
	}
	if len(args) > 1 {
		usageError("Too many arguments")
		return
	}
	if sources != 1 {
		usageError("Give exactly one of PATTERN, --grammar, --table, --mealy, or --manifest")
		return
	}

	if *flagManifest != "" {
		if *flagOutput != "" {
			usageError("--output cannot be used with --manifest; set output in the manifest instead")
			return
		}
		buildManifest(*flagManifest, format)
		return
	}

	var sess *session.Session
	var err error
	switch {
	case len(args) == 1:
		sess, err = session.NewFromRegex(args[0])
	case *flagGrammar != "":
		sess, err = fsmw.Machine{Name: "grammar", GrammarFile: *flagGrammar}.Compile()
	case *flagMealy != "":
		sess, err = loadTable(*flagMealy, session.NewFromMealy)
	default:
		sess, err = loadTable(*flagTable, session.NewFromTable)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", fsmerrors.ConsoleMessage(err))
		returnCode = ExitCompileError
		return
	}

	if err := emit(sess, "fsm", *flagNFA, format, *flagOutput); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitOutputError
	}
}

func usageError(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\nDo -h for help.\n", a...)
	returnCode = ExitUsageError
}

func loadTable(path string, build func(io.Reader, string) (*session.Session, error)) (*session.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return build(f, path)
}

func buildManifest(path string, format string) {
	machines, err := fsmw.LoadBundle(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}

	for _, m := range machines {
		sess, err := m.Compile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: machine %q: %s\n", m.Name, fsmerrors.ConsoleMessage(err))
			returnCode = ExitCompileError
			continue
		}

		if m.Output == "" {
			fmt.Printf("# %s\n", m.Name)
		}
		if err := emit(sess, m.Name, *flagNFA || m.NFAOnly, format, m.Output); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: machine %q: %s\n", m.Name, err.Error())
			returnCode = ExitOutputError
			continue
		}
		if m.Output != "" {
			fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", m.Name, m.Output)
		}
	}
}

// emit writes the chosen automaton of sess to outPath, or stdout if outPath
// is empty, and then reports on every --match string.
func emit(sess *session.Session, name string, nfa bool, format string, outPath string) error {
	if *flagTrim {
		sess.Trim()
	}
	for _, c := range sess.Conflicts {
		fmt.Fprintf(os.Stderr, "WARN: output conflict in %s\n", c)
	}

	which := "DFA"
	if nfa {
		which = "NFA"
	}
	var out string
	if format == "mealy" {
		if nfa {
			return fmt.Errorf("the NFA cannot be given as a Mealy machine")
		}
		out = table.MealyString(sess.Mealy())
	} else {
		out = formatAutomaton(sess.Automaton(which), name, format)
	}

	if outPath == "" {
		fmt.Print(out)
	} else {
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
			return err
		}
	}

	for _, in := range *flagMatch {
		path, accepted := sess.Trace(in)
		verdict := "REJECTED"
		if accepted {
			verdict = "ACCEPTED"
		}
		fmt.Printf("%s %q (%s)\n", verdict, in, strings.Join(path, " -> "))
	}
	return nil
}

func formatAutomaton(a automaton.Automaton, name string, format string) string {
	switch format {
	case "text":
		return render.Table(a, render.DefaultWidth) + "\n"
	case "dot":
		return render.DOT(a, name)
	default:
		return table.String(a)
	}
}
