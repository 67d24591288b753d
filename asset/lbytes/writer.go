package lbytes

import (
	"encoding/binary"
	"fmt"
)

func NewBytesWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// Offset is the number of bytes written so far.
func (b *Writer) Offset() int {
	return b.Len()
}

// WriteFixed writes the low size bytes of value.
func (b *Writer) WriteFixed(size int, value uint64) error {
	bs := make([]byte, size)
	switch size {
	case 1:
		bs[0] = byte(value)
	case 2:
		b.order.PutUint16(bs, uint16(value))
	case 4:
		b.order.PutUint32(bs, uint32(value))
	case 8:
		b.order.PutUint64(bs, value)
	default:
		return fmt.Errorf("WriteFixed error: unsupported width %d", size)
	}
	b.Write(bs)
	return nil
}

func (b *Writer) WriteUInt32(value uint32) {
	_ = b.WriteFixed(4, uint64(value))
}
