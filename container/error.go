package container

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrSignature       = errors.New("not an asset container")
	ErrVersion         = errors.New("unsupported container version")
	ErrCountTooLarge   = errors.New("count exceeds the file size")
	ErrLengthMismatch  = errors.New("decompressed length does not match the header")
	ErrObjectNotFound  = errors.New("object not found")
	ErrDuplicatePathID = errors.New("duplicated path id")
)

type (
	// DataError wraps an error that occurred while reading container bytes.
	DataError struct {
		// Offset is the byte offset where the error occurred.
		Offset int64
		Cause  error
	}
	ObjectError struct {
		PathID int64
		Cause  error
	}
)

func (r DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if r.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, r.Offset, 10))
	}
	if r.Cause != nil {
		s.WriteString(": ")
		s.WriteString(r.Cause.Error())
	}
	return s.String()
}

func (r DataError) Unwrap() error {
	return r.Cause
}

func (r ObjectError) Error() string {
	return fmt.Sprintf("object %d: %v", r.PathID, r.Cause)
}

func (r ObjectError) Unwrap() error {
	return r.Cause
}
