package acodec

import (
	"fmt"

	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/atemplate"
	"atlas-repacker/asset/avalue"
	"atlas-repacker/asset/lbytes"
	"atlas-repacker/ds"
	"github.com/samber/lo"
)

type decoder struct {
	reader *lbytes.Reader
	rules  Rules
}

// Decode reads one object laid out as root. The whole input must be consumed.
func Decode(data []byte, root *atemplate.Template, rules Rules) (*afield.Instance, error) {
	d := decoder{
		reader: lbytes.NewBytesReader(data, rules.Order),
		rules:  rules,
	}
	instance, err := d.decodeField(root, "")
	if err != nil {
		return nil, err
	}
	if d.reader.Remaining() > 0 {
		return nil, DecodeError{
			Offset: d.reader.Offset(),
			Cause:  fmt.Errorf("%w: %d byte(s)", ErrTrailingBytes, d.reader.Remaining()),
		}
	}
	return instance, nil
}

func (r *decoder) fail(offset int, path string, err error) error {
	return DecodeError{Offset: offset, Path: path, Cause: err}
}

func (r *decoder) decodeField(template *atemplate.Template, path string) (*afield.Instance, error) {
	instance, err := r.decodeValue(template, path)
	if err != nil {
		return nil, err
	}
	if template.Align() && r.rules.Alignment > 1 {
		offset := r.reader.Offset()
		padding := ds.NearestDivisibleByM(offset, r.rules.Alignment) - offset
		bs, err := r.reader.ReadBytes(padding)
		if err != nil {
			return nil, r.fail(offset, path, err)
		}
		if padding > 0 {
			instance.SetPadding(bs)
		}
	}
	return instance, nil
}

func (r *decoder) decodeValue(template *atemplate.Template, path string) (*afield.Instance, error) {
	offset := r.reader.Offset()
	kind := template.Kind()
	switch {
	case kind == avalue.KindStruct:
		return r.decodeStruct(template, path)
	case kind == avalue.KindArrayOfStruct:
		return r.decodeArray(template, path)
	case kind == avalue.KindString || kind == avalue.KindByteArray:
		length, err := r.reader.ReadUInt32()
		if err != nil {
			return nil, r.fail(offset, path, err)
		}
		if int64(length) > int64(r.reader.Remaining()) {
			return nil, r.fail(offset, path, fmt.Errorf("%w: length %d, %d byte(s) left", ErrCountTooLarge, length, r.reader.Remaining()))
		}
		bs, err := r.reader.ReadBytes(int(length))
		if err != nil {
			return nil, r.fail(offset, path, err)
		}
		value := avalue.Bytes(bs)
		if kind == avalue.KindString {
			value = avalue.String(string(bs))
		}
		return afield.NewLeaf(template, value)
	case kind.FixedSize() > 0:
		bits, err := r.reader.ReadFixed(kind.FixedSize())
		if err != nil {
			return nil, r.fail(offset, path, err)
		}
		if kind == avalue.KindBool && bits > 1 {
			return nil, r.fail(offset, path, ErrInvalidBool)
		}
		return afield.NewLeaf(template, avalue.FromBits(kind, bits))
	}
	return nil, r.fail(offset, path, ds.ErrUnreachableCode{Caller: "acodec.decodeValue", Detail: kind})
}

func (r *decoder) decodeStruct(template *atemplate.Template, path string) (*afield.Instance, error) {
	children := make([]*afield.Instance, 0, template.NumChildren())
	for i := 0; i < template.NumChildren(); i++ {
		childTemplate := template.ChildAt(i)
		child, err := r.decodeField(childTemplate, joinPath(path, childTemplate.Name()))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return afield.NewStruct(template, children)
}

func (r *decoder) decodeArray(template *atemplate.Template, path string) (*afield.Instance, error) {
	offset := r.reader.Offset()
	count, err := r.reader.ReadUInt32()
	if err != nil {
		return nil, r.fail(offset, path, err)
	}
	if r.rules.MaxArrayCount > 0 && int64(count) > int64(r.rules.MaxArrayCount) {
		return nil, r.fail(offset, path, fmt.Errorf("%w: count %d above limit %d", ErrCountTooLarge, count, r.rules.MaxArrayCount))
	}
	element := template.Element()
	remaining := int64(r.reader.Remaining())
	if minSize := int64(element.MinSize()); minSize > 0 && int64(count)*minSize > remaining {
		return nil, r.fail(offset, path, fmt.Errorf("%w: count %d, %d byte(s) left", ErrCountTooLarge, count, remaining))
	}
	if element.MinSize() == 0 && r.rules.MaxArrayCount <= 0 && int64(count) > zeroWidthLimit {
		return nil, r.fail(offset, path, fmt.Errorf("%w: count %d of zero width elements above %d", ErrCountTooLarge, count, zeroWidthLimit))
	}

	// Zero width elements pass the remaining input check, so the count alone never sizes the slice.
	elements := make([]*afield.Instance, 0, lo.Min([]int64{int64(count), remaining + 1}))
	for i := 0; i < int(count); i++ {
		item, err := r.decodeField(element, elementPath(path, i))
		if err != nil {
			return nil, err
		}
		elements = append(elements, item)
	}
	return afield.NewArray(template, elements)
}
