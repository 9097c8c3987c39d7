package fsmw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const formatName = "FSMC"

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) (data topLevelMachines, err error) {
	path = filepath.Clean(path)

	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return topLevelMachines{}, fmt.Errorf("%q: reading from disk: %w", path, loadErr)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelMachines{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != formatName {
		return topLevelMachines{}, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, formatName)
	}

	fileType := strings.ToUpper(fileInfo.Type)
	switch fileType {
	case "MACHINES":
		unmarshaled, err := unmarshalMachines(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("machines file %q: %w", path, err)
		}
		resolvePaths(&unmarshaled, path)
		return unmarshaled, nil
	case "MANIFEST":
		// check the stack to be sure we havent recursed too far and to be sure
		// we aren't about to re-scan a circular-ref'd manifest file we've
		// already brought in.
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelMachines{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelMachines{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		unmarshaledManif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelMachines{}, fmt.Errorf("manifest file %q: %w", path, err)
		}
		manif, err := parseManifest(unmarshaledManif)
		if err != nil {
			return topLevelMachines{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelMachines{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		unmarshaled := topLevelMachines{}

		// copy the manif stack into a new value and add self to it for recursive calls
		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			included, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// a circular reference is skipped, not failed on.
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelMachines{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			unmarshaled.Machines = append(unmarshaled.Machines, included.Machines...)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			// the first file is a manifest and it gave no valid definitions.
			return unmarshaled, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return unmarshaled, nil

	default:
		return topLevelMachines{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"MACHINES\" or \"MANIFEST\"", path)
	}
}

// resolvePaths makes every file path in the machines of data relative to the
// directory of the file they were defined in.
func resolvePaths(data *topLevelMachines, definedIn string) {
	dir := filepath.Dir(definedIn)
	for i := range data.Machines {
		m := &data.Machines[i]
		if m.GrammarFile != "" && !filepath.IsAbs(m.GrammarFile) {
			m.GrammarFile = filepath.Join(dir, m.GrammarFile)
		}
		if m.Output != "" && !filepath.IsAbs(m.Output) {
			m.Output = filepath.Join(dir, m.Output)
		}
	}
}

// unmarshalMachines unmarshals machine definitions from the given bytes. It
// does not check the machines.
func unmarshalMachines(tomlData []byte) (topLevelMachines, error) {
	var fsmw topLevelMachines
	if tomlErr := toml.Unmarshal(tomlData, &fsmw); tomlErr != nil {
		return fsmw, tomlErr
	}

	if strings.ToUpper(fsmw.Format) != formatName {
		return fsmw, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(fsmw.Type) != "MACHINES" {
		return fsmw, fmt.Errorf("in header: 'type' must exist and be set to 'MACHINES'")
	}

	return fsmw, nil
}

// unmarshalManifest unmarshals an FSMW manifest from the given bytes.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var fsmw topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &fsmw); tomlErr != nil {
		return fsmw, tomlErr
	}

	if strings.ToUpper(fsmw.Format) != formatName {
		return fsmw, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(fsmw.Type) != "MANIFEST" {
		return fsmw, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return fsmw, nil
}
