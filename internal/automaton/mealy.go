package automaton

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/fsmc/internal/util"
)

// ErrNondeterministic is returned when an operation needs a deterministic
// automaton and is given one that is not.
var ErrNondeterministic = errors.New("automaton is not deterministic")

// MealyTransition is the single edge a Mealy state takes on one input symbol,
// along with the output produced while taking it.
type MealyTransition struct {
	Symbol string
	To     string
	Output string
}

// String gives the transition in the form "=(a/y1)=> q1".
func (t MealyTransition) String() string {
	return fmt.Sprintf("=(%s/%s)=> %s", t.Symbol, t.Output, t.To)
}

// Mealy is a deterministic Mealy machine. Unlike Automaton, outputs are carried
// on transitions rather than on states, and there are no ε-transitions.
//
// The zero value is an empty machine ready for use.
type Mealy struct {
	// Start is the name of the starting state.
	Start string

	states map[string][]MealyTransition
	order  util.InsertionOrder
}

// AddState adds a new state with no transitions. If a state with that name
// already exists, this has no effect.
func (m *Mealy) AddState(name string) {
	if _, ok := m.states[name]; ok {
		return
	}

	if m.states == nil {
		m.states = map[string][]MealyTransition{}
	}

	m.states[name] = nil
	m.order.Add(name)
}

// AddTransition sets the transition taken from fromState on input, replacing
// any that was there before.
//
// It panics if either state does not exist or input is Epsilon.
func (m *Mealy) AddTransition(fromState string, input string, toState string, output string) {
	trans, ok := m.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := m.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}
	if input == Epsilon {
		panic("add ε-transition to Mealy machine")
	}

	t := MealyTransition{Symbol: input, To: toState, Output: output}
	for i := range trans {
		if trans[i].Symbol == input {
			trans[i] = t
			return
		}
	}
	m.states[fromState] = append(trans, t)
}

// States returns the names of all states in the order they were added.
func (m Mealy) States() []string {
	return m.order.Slice()
}

// Len returns the number of states.
func (m Mealy) Len() int {
	return len(m.states)
}

// Has returns whether the machine has a state with the given name.
func (m Mealy) Has(state string) bool {
	_, ok := m.states[state]
	return ok
}

// Transitions returns a copy of the transitions out of state in the order
// their symbols were first added.
func (m Mealy) Transitions(state string) []MealyTransition {
	return append([]MealyTransition{}, m.states[state]...)
}

// Next returns the transition taken from fromState on input. The returned bool
// is false if there is none.
func (m Mealy) Next(fromState string, input string) (MealyTransition, bool) {
	for _, t := range m.states[fromState] {
		if t.Symbol == input {
			return t, true
		}
	}
	return MealyTransition{}, false
}

// Alphabet returns every input symbol used by a transition, in sorted order.
func (m Mealy) Alphabet() []string {
	symbols := util.NewStringSet()
	for _, trans := range m.states {
		for _, t := range trans {
			symbols.Add(t.Symbol)
		}
	}
	return symbols.Elements()
}

// Run feeds input to the machine from the start state and returns the output
// of each transition taken. The returned bool is false if some symbol had no
// transition, in which case the outputs stop there.
func (m Mealy) Run(input []string) ([]string, bool) {
	cur := m.Start
	if !m.Has(cur) {
		return nil, false
	}

	outputs := []string{}
	for _, sym := range input {
		t, ok := m.Next(cur, sym)
		if !ok {
			return outputs, false
		}
		outputs = append(outputs, t.Output)
		cur = t.To
	}
	return outputs, true
}

// Reachable returns the set of states that can be reached from the start
// state.
func (m Mealy) Reachable() util.StringSet {
	reached := util.NewStringSet()
	if !m.Has(m.Start) {
		return reached
	}

	pending := util.Stack[string]{}
	pending.Push(m.Start)

	for !pending.Empty() {
		cur := pending.Pop()
		if reached.Has(cur) {
			continue
		}
		reached.Add(cur)

		for _, t := range m.states[cur] {
			if !reached.Has(t.To) {
				pending.Push(t.To)
			}
		}
	}

	return reached
}

func (m Mealy) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", m.Start))

	names := m.order.Slice()
	for i := range names {
		sb.WriteString("\n\t(")
		sb.WriteString(names[i])
		sb.WriteString(" [")
		for j, t := range m.states[names[i]] {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.String())
		}
		sb.WriteString("])")

		if i+1 < len(names) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}

// ToMealy converts a deterministic automaton into the equivalent Mealy
// machine. Each transition outputs the output label of the state it goes to,
// and state names are kept. It returns ErrNondeterministic if a is not
// deterministic.
func (a Automaton) ToMealy() (Mealy, error) {
	if !a.IsDeterministic() {
		return Mealy{}, ErrNondeterministic
	}

	var m Mealy
	names := a.order.Slice()
	for _, name := range names {
		m.AddState(name)
	}
	for _, name := range names {
		for _, t := range a.states[name].transitions {
			to := t.Targets[0]
			m.AddTransition(name, t.Symbol, to, a.states[to].Output)
		}
	}
	m.Start = a.Start

	return m, nil
}

type mealyPair struct {
	state  string
	output string
}

// ToMoore converts the machine into an equivalent deterministic Moore
// automaton. Every Moore state stands for a pair of a Mealy state and the
// output of a transition into it, and its Origin is that Mealy state. Only
// states reachable from the start are converted.
//
// The start state is paired with the smallest output of any reachable
// transition into it, or with no output if there is none. Moore states are
// named "q0", "q1", and so on in breadth-first order, taking symbols in sorted
// order.
func (m Mealy) ToMoore() (Automaton, error) {
	if m.Start == "" {
		return Automaton{}, ErrNoStart
	}
	if !m.Has(m.Start) {
		return Automaton{}, fmt.Errorf("start state %q: %w", m.Start, ErrUnknownState)
	}

	reached := m.Reachable()
	var startOut string
	foundStartOut := false
	for _, s := range m.order.Slice() {
		if !reached.Has(s) {
			continue
		}
		for _, t := range m.states[s] {
			if t.To == m.Start && (!foundStartOut || t.Output < startOut) {
				startOut = t.Output
				foundStartOut = true
			}
		}
	}

	moore := Automaton{origins: map[string][]string{}}
	names := map[mealyPair]string{}
	var pending []mealyPair

	nameOf := func(p mealyPair) string {
		if name, ok := names[p]; ok {
			return name
		}
		name := fmt.Sprintf("q%d", len(names))
		names[p] = name
		moore.AddState(name, p.output)
		moore.origins[name] = []string{p.state}
		pending = append(pending, p)
		return name
	}

	moore.Start = nameOf(mealyPair{state: m.Start, output: startOut})
	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]
		from := names[cur]

		bySymbol := util.SortBy(m.states[cur.state], func(l, r MealyTransition) bool {
			return l.Symbol < r.Symbol
		})
		for _, t := range bySymbol {
			moore.AddTransition(from, t.Symbol, nameOf(mealyPair{state: t.To, output: t.Output}))
		}
	}

	return moore, nil
}
