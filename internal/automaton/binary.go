package automaton

import (
	"errors"
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary encodes the state into a REZI byte slice.
func (s State) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(s.Name)...)
	data = append(data, rezi.EncString(s.Output)...)
	data = append(data, rezi.EncInt(len(s.transitions))...)
	for _, t := range s.transitions {
		data = append(data, rezi.EncString(t.Symbol)...)
		data = append(data, encStrings(t.Targets)...)
	}

	return data, nil
}

// UnmarshalBinary decodes a REZI byte slice produced by MarshalBinary into the
// state.
func (s *State) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	s.Name, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	s.Output, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("transition count: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("transition count: %w", errNegativeCount(count))
	}
	data = data[n:]

	s.transitions = make([]Transition, count)
	for i := 0; i < count; i++ {
		s.transitions[i].Symbol, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("transition %d: symbol: %w", i, err)
		}
		data = data[n:]

		s.transitions[i].Targets, n, err = decStrings(data)
		if err != nil {
			return fmt.Errorf("transition %d: targets: %w", i, err)
		}
		data = data[n:]
	}

	return nil
}

// MarshalBinary encodes the automaton into a REZI byte slice. States are
// written in the order they were added, so decoding preserves it.
func (a Automaton) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(a.Start)...)

	names := a.order.Slice()
	data = append(data, rezi.EncInt(len(names))...)
	for _, name := range names {
		data = append(data, rezi.EncBinary(a.states[name])...)
	}

	data = append(data, rezi.EncInt(len(a.origins))...)
	for _, name := range names {
		orig, ok := a.origins[name]
		if !ok {
			continue
		}
		data = append(data, rezi.EncString(name)...)
		data = append(data, encStrings(orig)...)
	}

	return data, nil
}

// UnmarshalBinary decodes a REZI byte slice produced by MarshalBinary into the
// automaton, replacing all of its existing contents.
func (a *Automaton) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	decoded := Automaton{}

	decoded.Start, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	data = data[n:]

	stateCount, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("state count: %w", err)
	}
	if stateCount < 0 {
		return fmt.Errorf("state count: %w", errNegativeCount(stateCount))
	}
	data = data[n:]

	decoded.states = make(map[string]*State, stateCount)
	for i := 0; i < stateCount; i++ {
		st := &State{}
		n, err = rezi.DecBinary(data, st)
		if err != nil {
			return fmt.Errorf("state %d: %w", i, err)
		}
		data = data[n:]

		decoded.states[st.Name] = st
		decoded.order.Add(st.Name)
	}

	originCount, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("origin count: %w", err)
	}
	if originCount < 0 {
		return fmt.Errorf("origin count: %w", errNegativeCount(originCount))
	}
	data = data[n:]

	if originCount > 0 {
		decoded.origins = make(map[string][]string, originCount)
	}
	for i := 0; i < originCount; i++ {
		var name string
		name, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("origin %d: state: %w", i, err)
		}
		data = data[n:]

		decoded.origins[name], n, err = decStrings(data)
		if err != nil {
			return fmt.Errorf("origin %d: members: %w", i, err)
		}
		data = data[n:]
	}

	if stateCount > 0 {
		if err := decoded.Validate(); err != nil {
			return err
		}
	}

	*a = decoded
	return nil
}

// ErrCorruptData is returned when decoded binary data holds a value that no
// call to MarshalBinary could have produced.
var ErrCorruptData = errors.New("corrupt data")

func errNegativeCount(count int) error {
	return fmt.Errorf("%w: negative count %d", ErrCorruptData, count)
}

func encStrings(sl []string) []byte {
	data := rezi.EncInt(len(sl))
	for i := range sl {
		data = append(data, rezi.EncString(sl[i])...)
	}
	return data
}

func decStrings(data []byte) ([]string, int, error) {
	count, total, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, errNegativeCount(count)
	}
	data = data[total:]

	sl := make([]string, count)
	for i := 0; i < count; i++ {
		s, n, err := rezi.DecString(data)
		if err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		sl[i] = s
		data = data[n:]
		total += n
	}

	return sl, total, nil
}
