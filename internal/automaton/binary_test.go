package automaton

import (
	"testing"

	"github.com/dekarrin/rezi"
	"github.com/stretchr/testify/assert"
)

func Test_Automaton_BinaryRoundTrip(t *testing.T) {
	assert := assert.New(t)
	dfa, err := dragonNFA().ToDFA()
	if !assert.NoError(err) {
		return
	}

	data, err := dfa.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Automaton
	err = decoded.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(dfa.String(), decoded.String())
	assert.Equal(dfa.States(), decoded.States())
	for _, name := range dfa.States() {
		assert.Equal(dfa.Origin(name), decoded.Origin(name))
	}
}

func Test_Automaton_UnmarshalBinary_Truncated(t *testing.T) {
	assert := assert.New(t)
	data, err := dragonNFA().MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Automaton
	err = decoded.UnmarshalBinary(data[:len(data)/2])

	assert.Error(err)
}

func Test_Automaton_UnmarshalBinary_NegativeCount(t *testing.T) {
	testCases := []struct {
		name string
		data func() []byte
	}{
		{
			name: "state count",
			data: func() []byte {
				data := rezi.EncString("q0")
				return append(data, rezi.EncInt(-3)...)
			},
		},
		{
			name: "origin count",
			data: func() []byte {
				data := rezi.EncString("")
				data = append(data, rezi.EncInt(0)...)
				return append(data, rezi.EncInt(-1)...)
			},
		},
		{
			name: "transition count",
			data: func() []byte {
				st := rezi.EncString("q0")
				st = append(st, rezi.EncString("")...)
				st = append(st, rezi.EncInt(-2)...)

				data := rezi.EncString("q0")
				data = append(data, rezi.EncInt(1)...)
				return append(data, rezi.EncBinary(rawBinary(st))...)
			},
		},
		{
			name: "target count",
			data: func() []byte {
				st := rezi.EncString("q0")
				st = append(st, rezi.EncString("")...)
				st = append(st, rezi.EncInt(1)...)
				st = append(st, rezi.EncString("a")...)
				st = append(st, rezi.EncInt(-5)...)

				data := rezi.EncString("q0")
				data = append(data, rezi.EncInt(1)...)
				return append(data, rezi.EncBinary(rawBinary(st))...)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var decoded Automaton

			var err error
			assert.NotPanics(func() {
				err = decoded.UnmarshalBinary(tc.data())
			})

			assert.ErrorIs(err, ErrCorruptData)
		})
	}
}

// rawBinary is already-encoded state data, so that a test can hand-build the
// bytes of a corrupt state.
type rawBinary []byte

func (r rawBinary) MarshalBinary() ([]byte, error) {
	return r, nil
}
