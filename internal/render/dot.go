package render

import (
	"fmt"
	"strings"

	"github.com/dekarrin/fsmc/internal/automaton"
)

// DOT returns a Graphviz description of the automaton. Accepting states are
// drawn as double circles and states with any other output have it added to
// their label.
func DOT(a automaton.Automaton, name string) string {
	if name == "" {
		name = "G"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %q {\n", name))
	sb.WriteString("    rankdir=LR;\n")

	for _, s := range a.States() {
		shape := "circle"
		if a.IsAccepting(s) {
			shape = "doublecircle"
		}

		out := a.Output(s)
		if out != "" && out != automaton.AcceptMarker {
			sb.WriteString(fmt.Sprintf("    %q [shape=%s, label=%q];\n", s, shape, s+"\n"+out))
		} else {
			sb.WriteString(fmt.Sprintf("    %q [shape=%s];\n", s, shape))
		}
	}

	if a.Has(a.Start) {
		sb.WriteString(fmt.Sprintf("    _start [shape=point];\n    _start -> %q;\n", a.Start))
	}

	for _, s := range a.States() {
		for _, t := range a.Transitions(s) {
			sym := t.Symbol
			if sym == automaton.Epsilon {
				sym = automaton.EpsilonSymbol
			}
			for _, to := range t.Targets {
				sb.WriteString(fmt.Sprintf("    %q -> %q [label=%q];\n", s, to, sym))
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
