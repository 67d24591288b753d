package avalue

import (
	"fmt"
)

type (
	// TypeMismatchError is returned when a value is read or written with an
	// accessor that does not match its declared kind.
	TypeMismatchError struct {
		Path      string
		Declared  Kind
		Requested Kind
	}
)

func (r TypeMismatchError) Error() string {
	if r.Path == "" {
		return fmt.Sprintf(`type mismatch: value is "%s", accessed as "%s"`, r.Declared, r.Requested)
	}
	return fmt.Sprintf(`type mismatch at "%s": value is "%s", accessed as "%s"`, r.Path, r.Declared, r.Requested)
}
