package regex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		expect  string
	}{
		{name: "single symbol", pattern: "a", expect: "a"},
		{name: "concatenation", pattern: "ab", expect: "(ab)"},
		{name: "concatenation folds right", pattern: "abc", expect: "(a(bc))"},
		{name: "alternation", pattern: "a|b", expect: "(a|b)"},
		{name: "alternation is right-recursive", pattern: "a|b|c", expect: "(a|(b|c))"},
		{name: "concat binds tighter than alternation", pattern: "ab|c", expect: "((ab)|c)"},
		{name: "star", pattern: "a*", expect: "a*"},
		{name: "plus", pattern: "a+", expect: "a+"},
		{name: "star applies to one operand", pattern: "ab*", expect: "(ab*)"},
		{name: "star of group", pattern: "(ab)*", expect: "(ab)*"},
		{name: "repeated repetition", pattern: "a**", expect: "a**"},
		{name: "group then symbol", pattern: "(a|b)+c", expect: "((a|b)+c)"},
		{name: "nested groups", pattern: "((a))", expect: "a"},
		{name: "empty group", pattern: "()", expect: "()"},
		{name: "epsilon character", pattern: "ε", expect: "()"},
		{name: "epsilon in alternation", pattern: "a|ε", expect: "(a|())"},
		{name: "alternation inside group", pattern: "x(a|b|c)y", expect: "(x((a|(b|c))y))"},
		{name: "multi-byte symbol", pattern: "λ*", expect: "λ*"},
		{name: "decomposed input is composed", pattern: "é", expect: "é"},
		{name: "space is a symbol", pattern: "a b", expect: "(a( b))"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.pattern)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
		})
	}
}

func Test_Parse_Tree(t *testing.T) {
	assert := assert.New(t)

	actual, err := Parse("(a|b)+c")
	if !assert.NoError(err) {
		return
	}

	expect := Concat{
		Left: Plus{Inner: Alternation{
			Left:  Literal{Symbol: "a"},
			Right: Literal{Symbol: "b"},
		}},
		Right: Literal{Symbol: "c"},
	}
	assert.Equal(expect, actual)
}

func Test_Parse_SyntaxErrors(t *testing.T) {
	testCases := []struct {
		name      string
		pattern   string
		expectPos int
		expectMsg string
	}{
		{name: "empty pattern", pattern: "", expectPos: 0, expectMsg: "empty pattern"},
		{name: "unmatched open paren", pattern: "(a", expectPos: 0, expectMsg: "unmatched '('"},
		{name: "unmatched nested open paren", pattern: "a((b)", expectPos: 1, expectMsg: "unmatched '('"},
		{name: "stray close paren", pattern: ")", expectPos: 0, expectMsg: "unmatched ')'"},
		{name: "close paren after repetition", pattern: "a+)", expectPos: 2, expectMsg: "unmatched ')'"},
		{name: "leading star", pattern: "*a", expectPos: 0, expectMsg: "'*' has nothing before it to repeat"},
		{name: "leading plus", pattern: "+", expectPos: 0, expectMsg: "'+' has nothing before it to repeat"},
		{name: "star after alternation", pattern: "a|*", expectPos: 2, expectMsg: "'*' has nothing before it to repeat"},
		{name: "star at group start", pattern: "(*a)", expectPos: 1, expectMsg: "'*' has nothing before it to repeat"},
		{name: "missing right branch", pattern: "a|", expectPos: 1, expectMsg: "alternation is missing its right side"},
		{name: "missing left branch", pattern: "|a", expectPos: 0, expectMsg: "alternation is missing its left side"},
		{name: "double bar", pattern: "a||b", expectPos: 2, expectMsg: "alternation is missing its left side"},
		{name: "empty branch in group", pattern: "a(|b)", expectPos: 2, expectMsg: "alternation is missing its left side"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Parse(tc.pattern)
			if !assert.Error(err) {
				return
			}

			assert.True(errors.Is(err, ErrSyntax))

			var synErr *SyntaxError
			if !assert.True(errors.As(err, &synErr)) {
				return
			}
			assert.Equal(tc.pattern, synErr.Pattern)
			assert.Equal(tc.expectPos, synErr.Pos)
			assert.Equal(tc.expectMsg, synErr.Msg)
		})
	}
}

func Test_SyntaxError_Error(t *testing.T) {
	assert := assert.New(t)

	err := &SyntaxError{Pattern: "(a", Pos: 0, Msg: "unmatched '('"}

	assert.Equal(`syntax error at position 0 in "(a": unmatched '('`, err.Error())
	assert.False(errors.Is(err, ErrConstructionInvariant))
}
