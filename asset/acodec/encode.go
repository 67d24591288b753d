package acodec

import (
	"math"

	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/avalue"
	"atlas-repacker/asset/lbytes"
	"atlas-repacker/ds"
)

type encoder struct {
	writer *lbytes.Writer
	rules  Rules
}

// Encode writes a field tree. Padding recorded at decode time is written
// back as it was; new fields are padded with zeros.
func Encode(instance *afield.Instance, rules Rules) ([]byte, error) {
	e := encoder{
		writer: lbytes.NewBytesWriter(rules.Order),
		rules:  rules,
	}
	if err := e.encodeField(instance, ""); err != nil {
		return nil, err
	}
	return e.writer.Bytes(), nil
}

func (r *encoder) encodeField(instance *afield.Instance, path string) error {
	if err := r.encodeValue(instance, path); err != nil {
		return err
	}
	template := instance.Template()
	if template.Align() && r.rules.Alignment > 1 {
		offset := r.writer.Offset()
		padding := ds.NearestDivisibleByM(offset, r.rules.Alignment) - offset
		if recorded := instance.Padding(); len(recorded) == padding {
			r.writer.Write(recorded)
		} else {
			r.writer.Write(ds.Repeat(padding, byte(0)))
		}
	}
	return nil
}

func (r *encoder) encodeValue(instance *afield.Instance, path string) error {
	kind := instance.Kind()
	value := instance.Value()
	switch {
	case kind == avalue.KindStruct:
		for _, child := range instance.Children() {
			if err := r.encodeField(child, joinPath(path, child.Name())); err != nil {
				return err
			}
		}
		return nil
	case kind == avalue.KindArrayOfStruct:
		if int64(instance.Len()) > math.MaxUint32 {
			return EncodeError{Path: path, Cause: ErrLengthTooLarge}
		}
		r.writer.WriteUInt32(uint32(instance.Len()))
		for i, element := range instance.Children() {
			if err := r.encodeField(element, elementPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case kind == avalue.KindString || kind == avalue.KindByteArray:
		var bs []byte
		if kind == avalue.KindString {
			str, err := value.AsString()
			if err != nil {
				return EncodeError{Path: path, Cause: err}
			}
			bs = []byte(str)
		} else {
			var err error
			if bs, err = value.AsBytes(); err != nil {
				return EncodeError{Path: path, Cause: err}
			}
		}
		if int64(len(bs)) > math.MaxUint32 {
			return EncodeError{Path: path, Cause: ErrLengthTooLarge}
		}
		r.writer.WriteUInt32(uint32(len(bs)))
		r.writer.Write(bs)
		return nil
	case kind.FixedSize() > 0:
		if value.Kind() != kind {
			return EncodeError{Path: path, Cause: avalue.TypeMismatchError{Path: path, Declared: kind, Requested: value.Kind()}}
		}
		if err := r.writer.WriteFixed(kind.FixedSize(), value.Bits()); err != nil {
			return EncodeError{Path: path, Cause: err}
		}
		return nil
	}
	return EncodeError{Path: path, Cause: ds.ErrUnreachableCode{Caller: "acodec.encodeValue", Detail: kind}}
}
