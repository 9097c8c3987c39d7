package util

// Stack is a LIFO stack of elements. The zero value is an empty stack ready for
// use.
type Stack[E any] struct {
	Of []E
}

// Push adds an element to the top of the stack.
func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes the top element of the stack and returns it. It panics if the
// stack is empty.
func (s *Stack[E]) Pop() E {
	if len(s.Of) == 0 {
		panic("pop of empty stack")
	}

	v := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// Peek returns the top element of the stack without removing it. It panics if
// the stack is empty.
func (s Stack[E]) Peek() E {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

func (s Stack[E]) Len() int {
	return len(s.Of)
}

func (s Stack[E]) Empty() bool {
	return len(s.Of) == 0
}
