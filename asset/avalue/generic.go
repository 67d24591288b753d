package avalue

import (
	"atlas-repacker/ds"
)

// Of wraps a Go value into the Value of the matching kind.
func Of[T Scalar](t T) Value {
	switch v := any(t).(type) {
	case int8:
		return Int8(v)
	case int16:
		return Int16(v)
	case int32:
		return Int32(v)
	case int64:
		return Int64(v)
	case uint8:
		return UInt8(v)
	case uint16:
		return UInt16(v)
	case uint32:
		return UInt32(v)
	case uint64:
		return UInt64(v)
	case float32:
		return Float32(v)
	case float64:
		return Float64(v)
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case []byte:
		return Bytes(v)
	}
	panic(ds.ErrUnreachableCode{Caller: "avalue.Of", Detail: t})
}

// KindOf is the kind that Of produces for T.
func KindOf[T Scalar]() Kind {
	var zero T
	return Of(zero).Kind()
}

// As reads value as T, failing with TypeMismatchError when T does not match
// the declared kind.
func As[T Scalar](value Value) (T, error) {
	var zero T
	var result any
	var err error
	switch any(zero).(type) {
	case int8:
		result, err = value.AsInt8()
	case int16:
		result, err = value.AsInt16()
	case int32:
		result, err = value.AsInt32()
	case int64:
		result, err = value.AsInt64()
	case uint8:
		result, err = value.AsUInt8()
	case uint16:
		result, err = value.AsUInt16()
	case uint32:
		result, err = value.AsUInt32()
	case uint64:
		result, err = value.AsUInt64()
	case float32:
		result, err = value.AsFloat32()
	case float64:
		result, err = value.AsFloat64()
	case bool:
		result, err = value.AsBool()
	case string:
		result, err = value.AsString()
	case []byte:
		result, err = value.AsBytes()
	}
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}
