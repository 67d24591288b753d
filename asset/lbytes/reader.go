package lbytes

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

func NewBytesReader(bs []byte, order binary.ByteOrder) *Reader {
	return &Reader{
		Reader: *bytes.NewReader(bs),
		order:  order,
	}
}

// Offset is the number of bytes consumed so far.
func (b *Reader) Offset() int {
	return int(b.Size()) - b.Len()
}

func (b *Reader) Remaining() int {
	return b.Len()
}

// ReadBytes reads exactly n bytes. Reading zero bytes at the end of input is
// not an error.
func (b *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes error: negative length %d", n)
	}
	bs := make([]byte, n)
	if n == 0 {
		return bs, nil
	}
	if n > b.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	if _, err := io.ReadFull(b, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// ReadFixed reads an unsigned number of 1, 2, 4 or 8 bytes.
func (b *Reader) ReadFixed(size int) (uint64, error) {
	bs, err := b.ReadBytes(size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(bs[0]), nil
	case 2:
		return uint64(b.order.Uint16(bs)), nil
	case 4:
		return uint64(b.order.Uint32(bs)), nil
	case 8:
		return b.order.Uint64(bs), nil
	default:
		return 0, fmt.Errorf("ReadFixed error: unsupported width %d", size)
	}
}

func (b *Reader) ReadUInt32() (uint32, error) {
	value, err := b.ReadFixed(4)
	return uint32(value), err
}
