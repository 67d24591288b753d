// Package acodec reads and writes field trees in the container's binary
// layout.
//
// Numbers are fixed width in the configured byte order, booleans are one
// byte, strings and byte blobs are a u32 length followed by the bytes, arrays
// are a u32 count followed by the elements. Fields whose template is marked
// aligned are followed by zero padding up to the next multiple of the
// alignment, counted from the start of the object.
package acodec

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type (
	Rules struct {
		Order binary.ByteOrder
		// Alignment of aligned fields in bytes; values below 2 disable padding.
		Alignment int
		// MaxArrayCount rejects absurd array counts before allocating.
		MaxArrayCount int
	}
	DecodeError struct {
		Offset int
		Path   string
		Cause  error
	}
	EncodeError struct {
		Path  string
		Cause error
	}
)

var (
	ErrTrailingBytes  = errors.New("trailing bytes after the root field")
	ErrCountTooLarge  = errors.New("count exceeds the remaining input")
	ErrInvalidBool    = errors.New("boolean byte is neither 0 nor 1")
	ErrLengthTooLarge = errors.New("length does not fit in 32 bits")
)

// zeroWidthLimit bounds arrays of elements that occupy no bytes when
// MaxArrayCount is disabled.
const zeroWidthLimit = 1 << 16

func DefaultRules() Rules {
	return Rules{
		Order:         binary.LittleEndian,
		Alignment:     4,
		MaxArrayCount: 1 << 24,
	}
}

func (r DecodeError) Error() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("decode error at offset %d", r.Offset))
	if r.Path != "" {
		s.WriteString(fmt.Sprintf(` in "%s"`, r.Path))
	}
	if r.Cause != nil {
		s.WriteString(": ")
		s.WriteString(r.Cause.Error())
	}
	return s.String()
}

func (r DecodeError) Unwrap() error {
	return r.Cause
}

func (r EncodeError) Error() string {
	return fmt.Sprintf(`encode error in "%s": %v`, r.Path, r.Cause)
}

func (r EncodeError) Unwrap() error {
	return r.Cause
}

func joinPath(parent string, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func elementPath(arrayPath string, i int) string {
	return fmt.Sprintf("%s.Array[%d]", arrayPath, i)
}
