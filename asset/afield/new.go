package afield

import (
	"fmt"

	"atlas-repacker/asset/atemplate"
	"atlas-repacker/asset/avalue"
	"atlas-repacker/ds"
)

// DefaultValueFromTemplate builds a zero-valued tree for a template: numbers
// are 0, booleans false, strings empty, blobs and arrays empty.
func DefaultValueFromTemplate(template *atemplate.Template) *Instance {
	instance := &Instance{template: template}
	switch template.Kind() {
	case avalue.KindStruct:
		instance.children = make([]*Instance, 0, template.NumChildren())
		for i := 0; i < template.NumChildren(); i++ {
			instance.children = append(instance.children, DefaultValueFromTemplate(template.ChildAt(i)))
		}
	case avalue.KindArrayOfStruct:
		instance.children = []*Instance{}
	default:
		instance.value = avalue.Zero(template.Kind())
	}
	return instance
}

// NewLeaf binds a value to a leaf template.
func NewLeaf(template *atemplate.Template, value avalue.Value) (*Instance, error) {
	if !template.Kind().IsLeaf() {
		return nil, StructuralMismatchError{
			Field:  template.Name(),
			Reason: fmt.Sprintf(`"%s" is not a leaf`, template.Kind()),
		}
	}
	if value.Kind() != template.Kind() {
		return nil, avalue.TypeMismatchError{Path: template.Name(), Declared: template.Kind(), Requested: value.Kind()}
	}
	return &Instance{template: template, value: value}, nil
}

// NewStruct binds children to a struct template; they must match the
// template's children one to one.
func NewStruct(template *atemplate.Template, children []*Instance) (*Instance, error) {
	if template.Kind() != avalue.KindStruct {
		return nil, StructuralMismatchError{Field: template.Name(), Reason: "not a struct"}
	}
	if len(children) != template.NumChildren() {
		return nil, StructuralMismatchError{
			Field:  template.Name(),
			Reason: fmt.Sprintf("expected %d children, got %d", template.NumChildren(), len(children)),
		}
	}
	for i, child := range children {
		if child == nil || child.template != template.ChildAt(i) {
			return nil, StructuralMismatchError{
				Field:  template.Name(),
				Reason: fmt.Sprintf(`child %d does not match field "%s"`, i, template.ChildAt(i).Name()),
			}
		}
	}
	return &Instance{template: template, children: ds.ShallowCopy(children)}, nil
}

// NewArray binds elements to an array template.
func NewArray(template *atemplate.Template, elements []*Instance) (*Instance, error) {
	instance := &Instance{template: template, children: []*Instance{}}
	if err := instance.Replace(elements); err != nil {
		return nil, err
	}
	return instance, nil
}

// Clone deep-copies the tree. Templates stay shared.
func (r *Instance) Clone() *Instance {
	cloned := &Instance{
		template: r.template,
		value:    r.value,
	}
	if r.value.Kind() == avalue.KindByteArray {
		bs, _ := r.value.AsBytes()
		cloned.value = avalue.Bytes(bs)
	}
	if r.padding != nil {
		cloned.padding = ds.ShallowCopy(r.padding)
	}
	if r.children != nil {
		cloned.children = make([]*Instance, 0, len(r.children))
		for _, child := range r.children {
			cloned.children = append(cloned.children, child.Clone())
		}
	}
	return cloned
}

// Equal compares structure and values. Padding is ignored.
func (r *Instance) Equal(other *Instance) bool {
	if r.template != other.template || !r.value.Equal(other.value) || len(r.children) != len(other.children) {
		return false
	}
	for i := range r.children {
		if !r.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}
