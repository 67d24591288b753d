package afield

import (
	"fmt"
)

type (
	PathNotFoundError struct {
		Path    string
		Segment string
	}
	// StructuralMismatchError is returned by array mutations on a node that
	// is not an array, or with an element built from a different template.
	StructuralMismatchError struct {
		Field  string
		Reason string
	}
)

func (r PathNotFoundError) Error() string {
	return fmt.Sprintf(`path "%s" not found: no segment "%s"`, r.Path, r.Segment)
}

func (r StructuralMismatchError) Error() string {
	return fmt.Sprintf(`structural mismatch at "%s": %s`, r.Field, r.Reason)
}
