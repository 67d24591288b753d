package avalue

import (
	"bytes"
	"math"
)

// Zero returns the zero value of a kind: 0, false, "" or an empty byte slice.
func Zero(kind Kind) Value {
	value := Value{kind: kind}
	if kind == KindByteArray {
		value.bytes = []byte{}
	}
	return value
}

func Int8(v int8) Value       { return Value{kind: KindInt8, bits: uint64(uint8(v))} }
func Int16(v int16) Value     { return Value{kind: KindInt16, bits: uint64(uint16(v))} }
func Int32(v int32) Value     { return Value{kind: KindInt32, bits: uint64(uint32(v))} }
func Int64(v int64) Value     { return Value{kind: KindInt64, bits: uint64(v)} }
func UInt8(v uint8) Value     { return Value{kind: KindUInt8, bits: uint64(v)} }
func UInt16(v uint16) Value   { return Value{kind: KindUInt16, bits: uint64(v)} }
func UInt32(v uint32) Value   { return Value{kind: KindUInt32, bits: uint64(v)} }
func UInt64(v uint64) Value   { return Value{kind: KindUInt64, bits: v} }
func Float32(v float32) Value { return Value{kind: KindFloat32, bits: uint64(math.Float32bits(v))} }
func Float64(v float64) Value { return Value{kind: KindFloat64, bits: math.Float64bits(v)} }
func String(v string) Value   { return Value{kind: KindString, str: v} }

func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

// Bytes copies v so the caller may keep mutating its slice.
func Bytes(v []byte) Value {
	copied := make([]byte, len(v))
	copy(copied, v)
	return Value{kind: KindByteArray, bytes: copied}
}

// FromBits builds a fixed-width value from raw bits as read off the wire.
func FromBits(kind Kind, bits uint64) Value {
	if kind == KindBool && bits != 0 {
		bits = 1
	}
	return Value{kind: kind, bits: bits}
}

func (r Value) Kind() Kind {
	return r.kind
}

// Bits exposes the raw payload of fixed-width kinds for encoders.
func (r Value) Bits() uint64 {
	return r.bits
}

func (r Value) Equal(other Value) bool {
	return r.kind == other.kind &&
		r.bits == other.bits &&
		r.str == other.str &&
		bytes.Equal(r.bytes, other.bytes)
}

func (r Value) check(requested Kind) error {
	if r.kind != requested {
		return TypeMismatchError{Declared: r.kind, Requested: requested}
	}
	return nil
}

func (r Value) AsInt8() (int8, error) {
	if err := r.check(KindInt8); err != nil {
		return 0, err
	}
	return int8(uint8(r.bits)), nil
}

func (r Value) AsInt16() (int16, error) {
	if err := r.check(KindInt16); err != nil {
		return 0, err
	}
	return int16(uint16(r.bits)), nil
}

func (r Value) AsInt32() (int32, error) {
	if err := r.check(KindInt32); err != nil {
		return 0, err
	}
	return int32(uint32(r.bits)), nil
}

func (r Value) AsInt64() (int64, error) {
	if err := r.check(KindInt64); err != nil {
		return 0, err
	}
	return int64(r.bits), nil
}

func (r Value) AsUInt8() (uint8, error) {
	if err := r.check(KindUInt8); err != nil {
		return 0, err
	}
	return uint8(r.bits), nil
}

func (r Value) AsUInt16() (uint16, error) {
	if err := r.check(KindUInt16); err != nil {
		return 0, err
	}
	return uint16(r.bits), nil
}

func (r Value) AsUInt32() (uint32, error) {
	if err := r.check(KindUInt32); err != nil {
		return 0, err
	}
	return uint32(r.bits), nil
}

func (r Value) AsUInt64() (uint64, error) {
	if err := r.check(KindUInt64); err != nil {
		return 0, err
	}
	return r.bits, nil
}

func (r Value) AsFloat32() (float32, error) {
	if err := r.check(KindFloat32); err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(r.bits)), nil
}

func (r Value) AsFloat64() (float64, error) {
	if err := r.check(KindFloat64); err != nil {
		return 0, err
	}
	return math.Float64frombits(r.bits), nil
}

func (r Value) AsBool() (bool, error) {
	if err := r.check(KindBool); err != nil {
		return false, err
	}
	return r.bits != 0, nil
}

func (r Value) AsString() (string, error) {
	if err := r.check(KindString); err != nil {
		return "", err
	}
	return r.str, nil
}

// AsBytes returns a copy of the blob.
func (r Value) AsBytes() ([]byte, error) {
	if err := r.check(KindByteArray); err != nil {
		return nil, err
	}
	copied := make([]byte, len(r.bytes))
	copy(copied, r.bytes)
	return copied, nil
}

// Interface returns the payload as the matching Go type, for dumping.
func (r Value) Interface() any {
	switch r.kind {
	case KindInt8:
		return int8(uint8(r.bits))
	case KindInt16:
		return int16(uint16(r.bits))
	case KindInt32:
		return int32(uint32(r.bits))
	case KindInt64:
		return int64(r.bits)
	case KindUInt8:
		return uint8(r.bits)
	case KindUInt16:
		return uint16(r.bits)
	case KindUInt32:
		return uint32(r.bits)
	case KindUInt64:
		return r.bits
	case KindFloat32:
		return math.Float32frombits(uint32(r.bits))
	case KindFloat64:
		return math.Float64frombits(r.bits)
	case KindBool:
		return r.bits != 0
	case KindString:
		return r.str
	case KindByteArray:
		return r.bytes
	default:
		return nil
	}
}
