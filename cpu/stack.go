package cpu

import (
	"slices"
)

const (
	INCLUDE_LIMIT = 16 // Maximum #include nesting depth
)

// Stack is a bounded LIFO.
type Stack[T comparable] struct {
	Data  []T
	Limit int // Maximum depth; zero for unbounded.
}

func (s *Stack[T]) Push(value T) {
	s.Data = append(s.Data, value)
}

func (s *Stack[T]) Pop() (value T, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack[T]) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack[T]) Full() bool {
	return s.Limit > 0 && len(s.Data) >= s.Limit
}

func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Contains returns true if value is anywhere on the stack.
func (s *Stack[T]) Contains(value T) bool {
	return slices.Contains(s.Data, value)
}

func (s *Stack[T]) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
