// Package input contains readers used for getting workbench command input
// from a CLI or other sources of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is shown before each command read by an
// InteractiveCommandReader unless another is set.
const DefaultPrompt = "fsm> "

// DirectCommandReader implements command.Reader and reads commands from any
// generic input stream directly. It can be used generically with any io.Reader
// but does not sanitize the input of control and escape sequences.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveCommandReader implements command.Reader and reads commands from
// stdin using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences and enables the use of
// command history and tab-completion of verbs. This should in general only be
// used when directly connecting to a TTY for input.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectCommandReader and initializes a buffered
// reader on the provided reader.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveCommandReader and initializes
// readline. Each of verbs is offered as a tab-completion at the start of a
// line. If historyFile is not empty, command history is kept in it between
// sessions. The returned InteractiveCommandReader must have Close() called on
// it before disposal to properly teardown readline resources.
func NewInteractiveReader(verbs []string, historyFile string) (*InteractiveCommandReader, error) {
	var items []readline.PrefixCompleterInterface
	for _, v := range verbs {
		items = append(items, readline.PcItem(v))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          DefaultPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "QUIT",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{
		rl:     rl,
		prompt: DefaultPrompt,
	}, nil
}

// Close cleans up resources associated with the DirectCommandReader. It
// currently has nothing to release but callers should treat it as though it
// must have Close called on it.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveCommandReader.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next line from the input stream. Unless blank lines
// are allowed, this function blocks until a line containing non-space
// characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	return readNonBlank(func() (string, error) {
		return dcr.r.ReadString('\n')
	}, dcr.blanksAllowed)
}

// ReadCommand reads the next command from stdin. Unless blank lines are
// allowed, this function blocks until a line consisting of more than empty or
// whitespace-only input is read. An interrupt (Ctrl-C) on an empty line is
// treated as the end of input.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	return readNonBlank(func() (string, error) {
		line, err := icr.rl.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				return "", io.EOF
			}
			// abandon the partly typed line and give back a blank one
			return "", nil
		}
		return line, err
	}, icr.blanksAllowed)
}

func readNonBlank(readLine func() (string, error), blanksAllowed bool) (string, error) {
	for {
		line, err := readLine()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line != "" || blanksAllowed {
			return line, nil
		}
	}
}

// AllowBlank sets whether blank input is returned. By default it is not.
func (dcr *DirectCommandReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// AllowBlank sets whether blank input is returned. By default it is not.
func (icr *InteractiveCommandReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.prompt = p
	icr.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (icr *InteractiveCommandReader) GetPrompt() string {
	return icr.prompt
}
