package ds

// Repeat returns n copies of t.
func Repeat[T any](n int, t T) []T {
	ts := make([]T, n)
	for i := range ts {
		ts[i] = t
	}
	return ts
}

// ShallowCopy copies the slice header and elements, never returning nil.
func ShallowCopy[T any](ts []T) []T {
	return append(make([]T, 0, len(ts)), ts...)
}
