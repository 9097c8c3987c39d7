package fsmw

import (
	"fmt"
	"regexp"
)

var nameRegexp = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func parseManifest(fsmw topLevelManifest) (Manifest, error) {
	manif := Manifest{
		Files: fsmw.Files,
	}

	return manif, nil
}

func parseMachines(fsmw topLevelMachines) ([]Machine, error) {
	seen := map[string]bool{}
	machines := make([]Machine, 0, len(fsmw.Machines))

	for i, m := range fsmw.Machines {
		if err := validateMachineDef(m); err != nil {
			if m.Name == "" {
				return nil, fmt.Errorf("machine[%d]: %w", i, err)
			}
			return nil, fmt.Errorf("machine[%q]: %w", m.Name, err)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("machine[%q]: %w: name is already used by another machine", m.Name, ErrBadMachine)
		}
		seen[m.Name] = true

		machines = append(machines, m.toMachine())
	}

	return machines, nil
}

func validateMachineDef(m machine) error {
	if m.Name == "" {
		return fmt.Errorf("%w: must have a name", ErrBadMachine)
	}
	if !nameRegexp.MatchString(m.Name) {
		return fmt.Errorf("%w: name may only contain letters, digits, '_', '.', and '-'", ErrBadMachine)
	}

	sources := 0
	for _, s := range []string{m.Regex, m.Grammar, m.GrammarFile} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("%w: must have exactly one of 'regex', 'grammar', or 'grammar_file'", ErrBadMachine)
	}

	return nil
}
