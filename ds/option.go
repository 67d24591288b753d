package ds

// Option holds a value that may be absent.
type Option[T any] struct {
	value T
	ok    bool
}

func Some[T any](t T) Option[T] {
	return Option[T]{value: t, ok: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func (r Option[T]) IsSome() bool {
	return r.ok
}

func (r Option[T]) Get() (T, bool) {
	return r.value, r.ok
}

func (r Option[T]) OrElse(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}
