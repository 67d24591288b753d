// Package afield holds field instances: mutable trees binding a shared
// template to the data of one serialized object.
package afield

import (
	"atlas-repacker/asset/atemplate"
	"atlas-repacker/asset/avalue"
)

type (
	// Instance is one node of an object's field tree. Struct nodes have one
	// child per template child, in template order. Array nodes have any
	// number of children, each built from the template's element.
	Instance struct {
		template *atemplate.Template
		value    avalue.Value
		children []*Instance
		// padding holds the alignment bytes that followed this field when it
		// was decoded, so untouched objects re-encode byte for byte.
		padding []byte
	}
)

func (r *Instance) Template() *atemplate.Template {
	return r.template
}

func (r *Instance) Name() string {
	return r.template.Name()
}

func (r *Instance) Kind() avalue.Kind {
	return r.template.Kind()
}

func (r *Instance) Value() avalue.Value {
	return r.value
}

func (r *Instance) Len() int {
	return len(r.children)
}

func (r *Instance) At(i int) *Instance {
	return r.children[i]
}

// Children returns a copy of the child list; the children themselves are shared.
func (r *Instance) Children() []*Instance {
	children := make([]*Instance, len(r.children))
	copy(children, r.children)
	return children
}

func (r *Instance) Padding() []byte {
	return r.padding
}

func (r *Instance) SetPadding(padding []byte) {
	r.padding = padding
}
