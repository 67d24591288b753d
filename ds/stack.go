package ds

// Stack is a LIFO list. The zero value is ready to use.
type Stack[T any] struct {
	slice []T
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{
		slice: make([]T, 0),
	}
}

func (r *Stack[T]) Len() int {
	return len(r.slice)
}

func (r *Stack[T]) IsEmpty() bool {
	return len(r.slice) == 0
}

func (r *Stack[T]) Push(t T) T {
	r.slice = append(r.slice, t)
	return t
}

// Pop removes the last item. The second value is false when the stack is empty.
func (r *Stack[T]) Pop() (T, bool) {
	if r.IsEmpty() {
		var zero T
		return zero, false
	}
	last := r.slice[r.Len()-1]
	r.slice = r.slice[:r.Len()-1]
	return last, true
}

func (r *Stack[T]) Peek() (T, bool) {
	if r.IsEmpty() {
		var zero T
		return zero, false
	}
	return r.slice[r.Len()-1], true
}

func (r *Stack[T]) Clear() {
	r.slice = r.slice[:0]
}
