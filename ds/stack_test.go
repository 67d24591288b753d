package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Peek(t *testing.T) {
	type T struct {
		Value1 int
		Value2 int
	}
	stack := NewStack[T]()
	stack.Push(
		T{
			Value1: 1,
			Value2: 2,
		},
	)

	last, ok := stack.Peek()

	assert.True(t, ok)
	assert.Equal(t, 1, last.Value1)
	assert.Equal(t, 2, last.Value2)
	assert.Equal(t, 1, stack.Len())
}

func TestStack_Pop(t *testing.T) {
	stack := Stack[string]{}
	stack.Push("a")
	stack.Push("b")

	last, ok := stack.Pop()
	assert.True(t, ok)
	assert.Equal(t, "b", last)

	last, ok = stack.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", last)

	_, ok = stack.Pop()
	assert.False(t, ok)
	assert.True(t, stack.IsEmpty())
}

func TestStack_Clear(t *testing.T) {
	stack := NewStack[int]()
	stack.Push(1)
	stack.Push(2)
	stack.Clear()

	_, ok := stack.Peek()
	assert.False(t, ok)
	assert.Equal(t, 0, stack.Len())
}
