// Package fsmw has functions for loading batch build definitions using the
// FSMW (FSMC Workbench) file format, a TOML-based format that lists the
// machines to compile and where their sources are.
package fsmw

import (
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/fsmc/internal/session"
)

const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recusion level of
	// MaxManifestRecrusionDepth is reached and an additional Manifest is then
	// specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies any
	// series of files that with their own manifests refer back to the original
	// manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")

	// ErrBadMachine is the error returned when a machine definition is missing
	// something it needs or has conflicting sources.
	ErrBadMachine = errors.New("invalid machine definition")
)

// Manifest contains data loaded from one or more FSMW Manifest files.
type Manifest struct {
	Files []string
}

// Machine is a single automaton to build.
type Machine struct {
	Name string

	// Regex is the pattern to compile. Exactly one of Regex, Grammar, and
	// GrammarFile is set.
	Regex string

	// Grammar is the text of a regular grammar.
	Grammar string

	// GrammarFile is the path to a file containing a regular grammar. It is
	// resolved relative to the FSMW file the machine was defined in.
	GrammarFile string

	// Output is where the table for the machine is written. It is resolved
	// relative to the FSMW file the machine was defined in. If empty, the
	// caller decides.
	Output string

	// NFAOnly is whether the NFA rather than the DFA is the result.
	NFAOnly bool
}

// Compile builds a Session from the machine's source.
func (m Machine) Compile() (*session.Session, error) {
	switch {
	case m.Regex != "":
		return session.NewFromRegex(m.Regex)
	case m.Grammar != "":
		return session.NewFromGrammar(m.Grammar, "machine "+m.Name)
	case m.GrammarFile != "":
		data, err := os.ReadFile(m.GrammarFile)
		if err != nil {
			return nil, fmt.Errorf("machine %q: %w", m.Name, err)
		}
		return session.NewFromGrammar(string(data), m.GrammarFile)
	default:
		return nil, fmt.Errorf("machine %q: %w: no source", m.Name, ErrBadMachine)
	}
}

// FileInfo contains the essential information all FSMW format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadBundle loads every machine from the given FSMW file. The file's type is
// auto-detected; it can be either "MACHINES" type or "MANIFEST" type, and if
// it's manifest type, the files listed in it relative to it are also loaded,
// recursively. Machines are returned in the order they were defined and names
// must be unique across all included files.
func LoadBundle(path string) ([]Machine, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return nil, err
	}

	return parseMachines(unmarshaled)
}

// LoadManifestFile loads manifest data from an FSMW file.
func LoadManifestFile(path string) (manif Manifest, err error) {
	manifestData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return manif, loadErr
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return manif, err
	}
	return parseManifest(unmarshaled)
}

// LoadMachinesFile loads the machines defined in a single FSMW file of type
// "MACHINES".
func LoadMachinesFile(path string) ([]Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	unmarshaled, err := unmarshalMachines(data)
	if err != nil {
		return nil, err
	}
	resolvePaths(&unmarshaled, path)

	return parseMachines(unmarshaled)
}

// ScanFileInfo takes the given data bytes and attempts to read the FSMW
// format common header info from it. The bytes are read up to the first
// instance of a table definition header and those bytes are parsed for the
// info. If there is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	onNewLine := true
	for b := range data {
		if onNewLine && data[b] == '[' {
			topLevelEnd = b
			break
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
