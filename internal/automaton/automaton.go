// Package automaton contains the Moore automaton model shared by every stage of
// FSMC along with the algorithms that operate on it directly: ε-closure, MOVE,
// subset construction, and simulation.
//
// The same Automaton type is used for both nondeterministic and deterministic
// machines. An automaton is deterministic when no state has an ε-transition and
// no state has more than one target for any one input symbol; see
// IsDeterministic.
package automaton

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/fsmc/internal/util"
)

const (
	// Epsilon is the input symbol used for ε-transitions. It is the empty
	// string so that it can never collide with a real input symbol.
	Epsilon = ""

	// EpsilonSymbol is how Epsilon is written when an automaton is displayed
	// or exported to a table.
	EpsilonSymbol = "ε"

	// AcceptMarker is the output label that marks a state as accepting.
	AcceptMarker = "F"
)

var (
	// ErrUnknownState is returned when an operation refers to a state that is
	// not in the automaton.
	ErrUnknownState = errors.New("no such state")

	// ErrNoStart is returned by Validate when the start state is unset.
	ErrNoStart = errors.New("start state is not set")
)

// Transition is all outgoing edges of a state on one input symbol.
type Transition struct {
	Symbol  string
	Targets []string
}

// String gives the transition in the form "=(a)=> q1", with one such entry per
// target.
func (t Transition) String() string {
	sym := t.Symbol
	if sym == Epsilon {
		sym = EpsilonSymbol
	}

	parts := make([]string, len(t.Targets))
	for i := range t.Targets {
		parts[i] = fmt.Sprintf("=(%s)=> %s", sym, t.Targets[i])
	}
	return strings.Join(parts, ", ")
}

// State is a single state of a Moore automaton.
type State struct {
	Name string

	// Output is the output label of the state. The empty string means the
	// state produces no output and is not accepting; AcceptMarker means it is
	// accepting.
	Output string

	transitions []Transition
}

// Transitions returns a copy of the outgoing transitions of the state in the
// order their symbols were first added.
func (s State) Transitions() []Transition {
	trans := make([]Transition, len(s.transitions))
	for i := range s.transitions {
		trans[i] = Transition{
			Symbol:  s.transitions[i].Symbol,
			Targets: append([]string{}, s.transitions[i].Targets...),
		}
	}
	return trans
}

// IsAccepting returns whether the output of the state is AcceptMarker.
func (s State) IsAccepting() bool {
	return s.Output == AcceptMarker
}

func (s State) String() string {
	var sb strings.Builder

	sb.WriteRune('(')
	sb.WriteString(s.Name)
	if s.Output != "" && s.Output != AcceptMarker {
		sb.WriteRune(':')
		sb.WriteString(s.Output)
	}
	sb.WriteString(" [")
	for i := range s.transitions {
		sb.WriteString(s.transitions[i].String())
		if i+1 < len(s.transitions) {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("])")

	if s.IsAccepting() {
		return "(" + sb.String() + ")"
	}
	return sb.String()
}

func (s *State) next(symbol string) []string {
	for i := range s.transitions {
		if s.transitions[i].Symbol == symbol {
			return s.transitions[i].Targets
		}
	}
	return nil
}

// addTarget adds to as a target on symbol and returns whether it was not
// already present.
func (s *State) addTarget(symbol, to string) bool {
	for i := range s.transitions {
		if s.transitions[i].Symbol != symbol {
			continue
		}
		for _, existing := range s.transitions[i].Targets {
			if existing == to {
				return false
			}
		}
		s.transitions[i].Targets = append(s.transitions[i].Targets, to)
		return true
	}

	s.transitions = append(s.transitions, Transition{Symbol: symbol, Targets: []string{to}})
	return true
}

func (s *State) copy() *State {
	return &State{
		Name:        s.Name,
		Output:      s.Output,
		transitions: s.Transitions(),
	}
}

// Automaton is a finite Moore automaton. Each state carries an output label
// and a list of outgoing transitions, and one state is distinguished as the
// start.
//
// The zero value is an empty automaton ready for use. Automaton is not safe for
// concurrent mutation; a stage that receives one owns it, and Copy should be
// used if another stage needs its own to modify.
type Automaton struct {
	// Start is the name of the starting state.
	Start string

	states map[string]*State
	order  util.InsertionOrder

	// only set on automata produced by subset construction.
	origins map[string][]string
}

// AddState adds a new state with the given name and output. If a state with
// that name already exists, this has no effect.
func (a *Automaton) AddState(name string, output string) {
	if _, ok := a.states[name]; ok {
		return
	}

	if a.states == nil {
		a.states = map[string]*State{}
	}

	a.states[name] = &State{Name: name, Output: output}
	a.order.Add(name)
}

// AddTransition adds a transition from one state to another on the given input
// symbol. Use Epsilon as the symbol for an ε-transition. Adding a transition
// that already exists has no effect.
//
// It panics if either state does not exist.
func (a *Automaton) AddTransition(fromState string, input string, toState string) {
	from, ok := a.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := a.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	from.addTarget(input, toState)
}

// SetOutput sets the output label of an existing state. It panics if the state
// does not exist.
func (a *Automaton) SetOutput(state string, output string) {
	s, ok := a.states[state]
	if !ok {
		panic(fmt.Sprintf("setting output on non-existent state: %q", state))
	}
	s.Output = output
}

// RemoveState removes a state along with every transition into it. If the
// removed state was the start state, Start is cleared.
func (a *Automaton) RemoveState(state string) {
	if _, ok := a.states[state]; !ok {
		return
	}

	delete(a.states, state)
	delete(a.origins, state)
	a.order.Remove(state)

	for _, s := range a.states {
		kept := s.transitions[:0]
		for _, t := range s.transitions {
			var targets []string
			for _, to := range t.Targets {
				if to != state {
					targets = append(targets, to)
				}
			}
			if len(targets) > 0 {
				t.Targets = targets
				kept = append(kept, t)
			}
		}
		s.transitions = kept
	}

	if a.Start == state {
		a.Start = ""
	}
}

// States returns the names of all states in the order they were added.
func (a Automaton) States() []string {
	return a.order.Slice()
}

// Len returns the number of states in the automaton.
func (a Automaton) Len() int {
	return len(a.states)
}

// Has returns whether the automaton has a state with the given name.
func (a Automaton) Has(state string) bool {
	_, ok := a.states[state]
	return ok
}

// State returns a copy of the state with the given name and whether it exists.
func (a Automaton) State(name string) (State, bool) {
	s, ok := a.states[name]
	if !ok {
		return State{}, false
	}
	return *s.copy(), true
}

// Output returns the output label of the given state. It returns the empty
// string if the state does not exist.
func (a Automaton) Output(state string) string {
	s, ok := a.states[state]
	if !ok {
		return ""
	}
	return s.Output
}

// IsAccepting returns whether the given state exists and is accepting.
func (a Automaton) IsAccepting(state string) bool {
	s, ok := a.states[state]
	if !ok {
		return false
	}
	return s.IsAccepting()
}

// AcceptingStates returns the set of all accepting states.
func (a Automaton) AcceptingStates() util.StringSet {
	accepting := util.NewStringSet()
	for name, s := range a.states {
		if s.IsAccepting() {
			accepting.Add(name)
		}
	}
	return accepting
}

// Transitions returns a copy of the outgoing transitions of the given state.
// It returns nil if the state does not exist.
func (a Automaton) Transitions(state string) []Transition {
	s, ok := a.states[state]
	if !ok {
		return nil
	}
	return s.Transitions()
}

// Next returns the targets of the transitions out of fromState on input. For a
// deterministic automaton the returned slice has at most one element.
func (a Automaton) Next(fromState string, input string) []string {
	s, ok := a.states[fromState]
	if !ok {
		return nil
	}
	return append([]string{}, s.next(input)...)
}

// Alphabet returns every input symbol used by some transition, excluding
// Epsilon, in alphabetical order.
func (a Automaton) Alphabet() []string {
	symbols := util.NewStringSet()
	for _, s := range a.states {
		for _, t := range s.transitions {
			if t.Symbol != Epsilon {
				symbols.Add(t.Symbol)
			}
		}
	}
	return symbols.Elements()
}

// IsDeterministic returns whether no state has an ε-transition and no state
// has more than one target on any symbol.
func (a Automaton) IsDeterministic() bool {
	for _, s := range a.states {
		for _, t := range s.transitions {
			if t.Symbol == Epsilon || len(t.Targets) > 1 {
				return false
			}
		}
	}
	return true
}

// Origin returns the names of the NFA states that the given state of a DFA was
// built from, in alphabetical order. It returns nil if the automaton was not
// produced by subset construction or the state does not exist.
func (a Automaton) Origin(state string) []string {
	orig, ok := a.origins[state]
	if !ok {
		return nil
	}
	return append([]string{}, orig...)
}

// Copy returns a duplicate of the automaton that shares no mutable state with
// it.
func (a Automaton) Copy() Automaton {
	copied := Automaton{
		Start: a.Start,
	}

	for _, name := range a.order.Slice() {
		if copied.states == nil {
			copied.states = map[string]*State{}
		}
		copied.states[name] = a.states[name].copy()
		copied.order.Add(name)
	}

	if a.origins != nil {
		copied.origins = make(map[string][]string, len(a.origins))
		for k, v := range a.origins {
			copied.origins[k] = append([]string{}, v...)
		}
	}

	return copied
}

// Validate returns an error if the automaton has no start state, the start
// state does not exist, or any transition refers to a state that does not
// exist.
func (a Automaton) Validate() error {
	var errs []string

	if a.Start == "" {
		errs = append(errs, ErrNoStart.Error())
	} else if _, ok := a.states[a.Start]; !ok {
		errs = append(errs, fmt.Sprintf("start state %q: %s", a.Start, ErrUnknownState))
	}

	for _, name := range a.order.Slice() {
		for _, t := range a.states[name].transitions {
			for _, to := range t.Targets {
				if _, ok := a.states[to]; !ok {
					sym := t.Symbol
					if sym == Epsilon {
						sym = EpsilonSymbol
					}
					errs = append(errs, fmt.Sprintf("state %q transitions to non-existent state %q on %q", name, to, sym))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid automaton:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Reachable returns the set of states that can be reached from the start state
// by following any sequence of transitions, ε-transitions included.
func (a Automaton) Reachable() util.StringSet {
	reached := util.NewStringSet()
	if _, ok := a.states[a.Start]; !ok {
		return reached
	}

	pending := util.Stack[string]{}
	pending.Push(a.Start)

	for !pending.Empty() {
		cur := pending.Pop()
		if reached.Has(cur) {
			continue
		}
		reached.Add(cur)

		for _, t := range a.states[cur].transitions {
			for _, to := range t.Targets {
				if !reached.Has(to) {
					pending.Push(to)
				}
			}
		}
	}

	return reached
}

// RemoveUnreachable removes every state that is not reachable from the start
// state and returns the names of the removed states in the order they had been
// added.
func (a *Automaton) RemoveUnreachable() []string {
	reached := a.Reachable()

	var removed []string
	for _, name := range a.order.Slice() {
		if !reached.Has(name) {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		a.RemoveState(name)
	}
	return removed
}

func (a Automaton) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", a.Start))

	names := a.order.Slice()
	for i := range names {
		sb.WriteString("\n\t")
		sb.WriteString(a.states[names[i]].String())

		if i+1 < len(names) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}
