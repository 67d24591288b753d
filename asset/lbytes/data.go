package lbytes

import (
	"bytes"
	"encoding/binary"
)

type (
	// Reader reads fixed-width numbers in a configurable byte order and
	// tracks its offset from the start of the input.
	Reader struct {
		bytes.Reader
		order binary.ByteOrder
	}
	// Writer is the encoding counterpart of Reader.
	Writer struct {
		bytes.Buffer
		order binary.ByteOrder
	}
)
