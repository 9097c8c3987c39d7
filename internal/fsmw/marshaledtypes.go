package fsmw

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelMachines is the top-level structure containing all keys in a
// complete FSMW 'MACHINES' type file.
type topLevelMachines struct {
	Format   string    `toml:"format"`
	Type     string    `toml:"type"`
	Machines []machine `toml:"machine"`
}

type machine struct {
	Name        string `toml:"name"`
	Regex       string `toml:"regex"`
	Grammar     string `toml:"grammar"`
	GrammarFile string `toml:"grammar_file"`
	Output      string `toml:"output"`
	NFAOnly     bool   `toml:"nfa_only"`
}

func (tm machine) toMachine() Machine {
	return Machine{
		Name:        tm.Name,
		Regex:       tm.Regex,
		Grammar:     tm.Grammar,
		GrammarFile: tm.GrammarFile,
		Output:      tm.Output,
		NFAOnly:     tm.NFAOnly,
	}
}
