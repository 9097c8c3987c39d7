package automaton

import (
	"fmt"

	"github.com/dekarrin/fsmc/internal/util"
)

// EpsilonClosure gives the set of states reachable from any of the given states
// using zero or more ε-moves. Every given state that exists is in its own
// closure; names of states that do not exist are ignored.
//
// The closure is computed with an explicit stack rather than by recursion, so
// cycles of ε-transitions such as those made by Kleene star terminate after
// each state has been visited once.
func (a Automaton) EpsilonClosure(states ...string) util.StringSet {
	closure := util.NewStringSet()
	checking := util.Stack[string]{}

	for _, s := range states {
		if _, ok := a.states[s]; ok {
			checking.Push(s)
		}
	}

	for !checking.Empty() {
		cur := checking.Pop()

		if closure.Has(cur) {
			continue
		}
		closure.Add(cur)

		for _, next := range a.states[cur].next(Epsilon) {
			if _, ok := a.states[next]; !ok {
				// AddTransition never allows this, so the automaton was built
				// by something else.
				panic(fmt.Sprintf("points to invalid state: %q", next))
			}
			if !closure.Has(next) {
				checking.Push(next)
			}
		}
	}

	return closure
}

// EpsilonClosureOfSet is EpsilonClosure over the elements of X.
func (a Automaton) EpsilonClosureOfSet(X util.StringSet) util.StringSet {
	return a.EpsilonClosure(X.Elements()...)
}

// Move returns the set of states reachable with exactly one transition on input
// from some state in X. ε-transitions are not followed; Move with Epsilon as
// the input always gives the empty set. The dragon book calls this MOVE(T, a)
// as part of algorithm 3.20.
func (a Automaton) Move(X util.StringSet, input string) util.StringSet {
	moves := util.NewStringSet()
	if input == Epsilon {
		return moves
	}

	for s := range X {
		st, ok := a.states[s]
		if !ok {
			continue
		}
		for _, to := range st.next(input) {
			moves.Add(to)
		}
	}

	return moves
}

// Accepts returns whether the automaton accepts the given sequence of input
// symbols. The automaton is simulated directly as a set of current states, so
// this works the same for deterministic and nondeterministic automata.
func (a Automaton) Accepts(input []string) bool {
	_, accepted := a.Run(input)
	return accepted
}

// Run simulates the automaton on the given input and returns the set of states
// it is in after consuming all of it, along with whether any of those states is
// accepting. The returned set is empty if the automaton got stuck.
func (a Automaton) Run(input []string) (util.StringSet, bool) {
	current := a.EpsilonClosure(a.Start)

	for _, sym := range input {
		if current.Empty() {
			break
		}
		current = a.EpsilonClosureOfSet(a.Move(current, sym))
	}

	accepted := current.Any(func(s string) bool {
		return a.states[s].IsAccepting()
	})
	return current, accepted
}
