package tcodec

import (
	"fmt"

	"atlas-repacker/texture/tformat"
)

type (
	UnsupportedFormatError struct {
		Format tformat.Format
		Reason string
	}
	PayloadSizeError struct {
		Format   tformat.Format
		Expected int
		Actual   int
	}
)

func (r UnsupportedFormatError) Error() string {
	return fmt.Sprintf(`unsupported texture format "%s" (%d): %s`, r.Format, int32(r.Format), r.Reason)
}

func (r PayloadSizeError) Error() string {
	return fmt.Sprintf(
		`payload of %s texture has %d bytes; expected %d`,
		r.Format, r.Actual, r.Expected,
	)
}
