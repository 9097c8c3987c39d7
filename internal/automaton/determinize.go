package automaton

import (
	"fmt"

	"github.com/dekarrin/fsmc/internal/util"
)

// DefaultStatePrefix is prepended to the discovery number of each state
// created by subset construction when no other prefix is set.
const DefaultStatePrefix = "q"

// Determinizer converts nondeterministic automata to deterministic ones with
// subset construction. The zero value is ready to use.
type Determinizer struct {
	// NamePrefix is put before the discovery number of each DFA state. If
	// empty, DefaultStatePrefix is used.
	NamePrefix string

	// KeepClosures makes each DFA state stand for its entire ε-closed set of
	// NFA states. By default a DFA state stands only for the kernel of the set
	// (see Kernel), which merges sets that cannot be told apart by any input.
	KeepClosures bool

	// OnConflict, if set, is called for each DFA state whose NFA states are
	// all non-accepting but carry more than one distinct non-empty output.
	// labels holds the distinct outputs in alphabetical order; the first of
	// them is the one that was assigned.
	OnConflict func(dfaState string, nfaStates []string, labels []string)
}

// Determinize performs subset construction on nfa using the default
// Determinizer.
func Determinize(nfa Automaton, alphabet []string, start string) (Automaton, error) {
	return Determinizer{}.Determinize(nfa, alphabet, start)
}

// ToDFA performs subset construction on the automaton using its own Alphabet
// and Start with the default Determinizer.
func (a Automaton) ToDFA() (Automaton, error) {
	return Determinize(a, a.Alphabet(), a.Start)
}

// Kernel returns the members of X that either have a transition on some
// symbol other than Epsilon or have a non-empty output. These are the dragon
// book's "important states" along with any labeled ones. Two ε-closed sets
// with the same kernel have the same transitions on every symbol and the same
// outputs, so they are equivalent as DFA states.
func (a Automaton) Kernel(X util.StringSet) util.StringSet {
	kernel := util.NewStringSet()
	for s := range X {
		st, ok := a.states[s]
		if !ok {
			continue
		}
		if st.Output != "" {
			kernel.Add(s)
			continue
		}
		for _, t := range st.transitions {
			if t.Symbol != Epsilon {
				kernel.Add(s)
				break
			}
		}
	}
	return kernel
}

// Determinize builds a DFA that accepts the same language as nfa, starting
// from the given state and considering only the given input symbols. Epsilon
// is ignored if it is in alphabet.
//
// Each DFA state stands for a set of NFA states: the kernel of the ε-closed
// set it was discovered from, or the whole closure if KeepClosures is set.
// Two DFA states are the same state exactly when those sets are equal. States
// are named in the order they are discovered, with the start state numbered 0,
// and the set behind each one can be retrieved with Origin.
//
// A DFA state is accepting if any of its NFA states is. Otherwise it takes the
// output of its NFA states if they agree on one; if they disagree, it takes the
// alphabetically-first output and the conflict is reported to OnConflict.
//
// The only error is ErrUnknownState when start is not a state of nfa.
func (d Determinizer) Determinize(nfa Automaton, alphabet []string, start string) (Automaton, error) {
	if !nfa.Has(start) {
		return Automaton{}, fmt.Errorf("start state %q: %w", start, ErrUnknownState)
	}

	prefix := d.NamePrefix
	if prefix == "" {
		prefix = DefaultStatePrefix
	}

	symbols := util.StringSetOf(alphabet)
	symbols.Remove(Epsilon)
	inputs := symbols.Elements()

	dfa := Automaton{
		origins: map[string][]string{},
	}

	// Dstates is keyed by the ordered string form of each identifying set, so
	// set equality and never insertion order decides which state a set is.
	Dstates := map[string]string{}

	type unmarked struct {
		name    string
		closure util.StringSet
	}
	var queue []unmarked

	discover := func(T util.StringSet) string {
		id := T
		if !d.KeepClosures {
			id = nfa.Kernel(T)
		}

		key := id.StringOrdered()
		if name, ok := Dstates[key]; ok {
			return name
		}

		name := fmt.Sprintf("%s%d", prefix, len(Dstates))
		Dstates[key] = name
		queue = append(queue, unmarked{name: name, closure: T})

		dfa.AddState(name, d.outputOf(nfa, name, T))
		dfa.origins[name] = id.Elements()
		return name
	}

	dfa.Start = discover(nfa.EpsilonClosure(start))

	for len(queue) > 0 {
		T := queue[0]
		queue = queue[1:]

		for _, a := range inputs {
			U := nfa.EpsilonClosureOfSet(nfa.Move(T.closure, a))
			if U.Empty() {
				continue
			}

			// Dtran[T, a] = U
			dfa.AddTransition(T.name, a, discover(U))
		}
	}

	return dfa, nil
}

func (d Determinizer) outputOf(nfa Automaton, dfaState string, T util.StringSet) string {
	labels := util.NewStringSet()
	for s := range T {
		out := nfa.Output(s)
		if out == AcceptMarker {
			return AcceptMarker
		}
		if out != "" {
			labels.Add(out)
		}
	}

	if labels.Empty() {
		return ""
	}

	sorted := labels.Elements()
	if len(sorted) > 1 && d.OnConflict != nil {
		d.OnConflict(dfaState, T.Elements(), sorted)
	}
	return sorted[0]
}
