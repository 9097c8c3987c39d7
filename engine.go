// Package fsmc contains a CLI-driven workbench engine for building finite
// automata from regular expressions, grammars, and transition tables and
// then inspecting and testing them until the user quits.
package fsmc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dekarrin/fsmc/internal/command"
	"github.com/dekarrin/fsmc/internal/fsmerrors"
	"github.com/dekarrin/fsmc/internal/input"
	"github.com/dekarrin/fsmc/internal/render"
	"github.com/dekarrin/fsmc/internal/session"
	"github.com/dekarrin/fsmc/internal/table"
	"github.com/dekarrin/rosed"
)

// Engine contains the things needed to run a workbench from an interactive
// shell attached to an input stream and an output stream.
type Engine struct {
	sess        *session.Session
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	useReadline bool
	running     bool
}

const consoleOutputWidth = 80

var errNothingLoaded = fsmerrors.Command("Nothing is loaded yet. Try REGEX first, or HELP for other ways to start.", "no session")

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. When both are the console and forceDirectInput
// is not set, input is read with readline and keeps a history in historyFile
// if it is not empty.
func New(inputStream io.Reader, outputStream io.Writer, forceDirectInput bool, historyFile string) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
		useReadline: !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout,
	}

	if eng.useReadline {
		verbs := make([]string, len(command.Verbs))
		for i := range command.Verbs {
			verbs[i] = command.Verbs[i][0]
		}

		var err error
		eng.in, err = input.NewInteractiveReader(verbs, historyFile)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// Session returns the session currently loaded, or nil if there is none.
func (eng *Engine) Session() *session.Session {
	return eng.sess
}

// RunUntilQuit begins reading commands from the streams and executing them
// until the QUIT command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "FSMC Automaton Workbench\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "========================\n"
	introMsg += "Type HELP for a list of commands.\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	prompt := "> "
	if eng.useReadline {
		// readline shows its own
		prompt = ""
	}

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out, prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			eng.running = false
			break
		}

		if err := eng.Execute(cmd); err != nil {
			consoleMessage := fsmerrors.ConsoleMessage(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if err := eng.write(consoleMessage + "\n"); err != nil {
				return err
			}
		}
	}

	return eng.write("Goodbye\n")
}

// Execute carries out a single command. The returned error describes why the
// command could not be done and is suitable for fsmerrors.ConsoleMessage.
func (eng *Engine) Execute(cmd command.Command) error {
	switch cmd.Verb {
	case "REGEX":
		sess, err := session.NewFromRegex(cmd.Argument)
		if err != nil {
			return err
		}
		return eng.replaceSession(sess)
	case "GRAMMAR":
		data, err := os.ReadFile(cmd.Argument)
		if err != nil {
			return fsmerrors.WrapCommandf(err, "Could not read %q: %v", cmd.Argument, unwrapPathError(err))
		}
		sess, err := session.NewFromGrammar(string(data), cmd.Argument)
		if err != nil {
			return err
		}
		return eng.replaceSession(sess)
	case "LOAD":
		f, err := os.Open(cmd.Argument)
		if err != nil {
			return fsmerrors.WrapCommandf(err, "Could not open %q: %v", cmd.Argument, unwrapPathError(err))
		}
		defer f.Close()

		sess, err := session.NewFromTable(f, cmd.Argument)
		if err != nil {
			return err
		}
		return eng.replaceSession(sess)
	case "MEALY":
		f, err := os.Open(cmd.Argument)
		if err != nil {
			return fsmerrors.WrapCommandf(err, "Could not open %q: %v", cmd.Argument, unwrapPathError(err))
		}
		defer f.Close()

		sess, err := session.NewFromMealy(f, cmd.Argument)
		if err != nil {
			return err
		}
		return eng.replaceSession(sess)
	case "SAVE":
		return eng.save(cmd.Recipient, cmd.Argument)
	case "SHOW":
		return eng.show(cmd.Recipient)
	case "DOT":
		if eng.sess == nil {
			return errNothingLoaded
		}
		return eng.write(render.DOT(eng.sess.Automaton(cmd.Recipient), cmd.Recipient))
	case "MATCH":
		return eng.match(cmd.Argument)
	case "TRIM":
		if eng.sess == nil {
			return errNothingLoaded
		}
		nfaRemoved, dfaRemoved := eng.sess.Trim()
		return eng.write(fmt.Sprintf("Removed %d unreachable states from the NFA and %d from the DFA\n", len(nfaRemoved), len(dfaRemoved)))
	case "INFO":
		if eng.sess == nil {
			return errNothingLoaded
		}
		return eng.write(eng.sess.Summary() + "\n")
	case "HELP":
		return eng.help(cmd.Recipient)
	default:
		return fsmerrors.Commandf("I don't know how to %s", cmd.Verb)
	}
}

func (eng *Engine) replaceSession(sess *session.Session) error {
	eng.sess = sess
	return eng.write(sess.Summary() + "\n")
}

func (eng *Engine) show(what string) error {
	if eng.sess == nil {
		return errNothingLoaded
	}

	var output string
	switch what {
	case "AST":
		if eng.sess.Tree == nil {
			return fsmerrors.Commandf("There is no pattern tree; the automaton was built from a %s", eng.sess.Kind)
		}
		output = render.Tree(eng.sess.Tree)
	case "ORIGINS":
		output = render.Origins(eng.sess.DFA, consoleOutputWidth)
	case "MEALY":
		output = render.MealyTable(eng.sess.Mealy(), consoleOutputWidth)
	default:
		output = render.Table(eng.sess.Automaton(what), consoleOutputWidth)
	}

	return eng.write(output + "\n")
}

func (eng *Engine) match(in string) error {
	if eng.sess == nil {
		return errNothingLoaded
	}

	path, accepted := eng.sess.Trace(in)
	verdict := "REJECTED"
	if accepted {
		verdict = "ACCEPTED"
	}

	return eng.write(fmt.Sprintf("%s %q (%s)\n", verdict, in, strings.Join(path, " -> ")))
}

func (eng *Engine) save(which, path string) error {
	if eng.sess == nil {
		return errNothingLoaded
	}

	if _, err := os.Stat(path); err == nil {
		overwrite, err := eng.confirm(fmt.Sprintf("%q already exists. Overwrite it? (y/N) ", path))
		if err != nil {
			return err
		}
		if !overwrite {
			return eng.write("Not saved\n")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fsmerrors.WrapCommandf(err, "Could not create %q: %v", path, unwrapPathError(err))
	}
	defer f.Close()

	if which == "MEALY" {
		err = table.WriteMealy(f, eng.sess.Mealy())
	} else {
		err = table.Write(f, eng.sess.Automaton(which))
	}
	if err != nil {
		return fsmerrors.WrapCommandf(err, "Could not write to %q: %v", path, err)
	}

	return eng.write(fmt.Sprintf("Saved the %s to %s\n", which, path))
}

func (eng *Engine) help(verb string) error {
	if verb == "" {
		var sb strings.Builder
		sb.WriteString("Commands:\n")
		for _, v := range command.Verbs {
			sb.WriteString("  " + v[1] + "\n")
		}
		return eng.write(sb.String())
	}

	for _, v := range command.Verbs {
		if v[0] == verb {
			return eng.write(v[1] + "\n")
		}
	}
	return fsmerrors.Commandf("There is no command called %q", verb)
}

// confirm asks a yes-or-no question and returns whether the answer was yes.
func (eng *Engine) confirm(prompt string) (bool, error) {
	var oldPrompt string
	var icr *input.InteractiveCommandReader
	if eng.useReadline {
		icr = eng.in.(*input.InteractiveCommandReader)
		oldPrompt = icr.GetPrompt()
		icr.SetPrompt(prompt)
	} else if err := eng.write(prompt); err != nil {
		return false, err
	}

	eng.in.AllowBlank(true)
	answer, err := eng.in.ReadCommand()
	eng.in.AllowBlank(false)
	if icr != nil {
		icr.SetPrompt(oldPrompt)
	}
	if err != nil {
		return false, fmt.Errorf("could not get input: %w", err)
	}

	answer = strings.ToUpper(answer)
	return answer == "Y" || answer == "YES", nil
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// unwrapPathError gives the underlying reason of a *fs.PathError, since the
// path is already in the console message.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
