// Package atemplate holds field templates: the immutable shape of a
// serialized object, shared by every instance of the same type.
package atemplate

import (
	"atlas-repacker/asset/avalue"
)

type (
	Template struct {
		name     string
		typeName string
		kind     avalue.Kind
		children []*Template
		index    map[string]int
		element  *Template
		align    bool
		minSize  int
	}
)

const (
	// RootName is the name given to the root field of an object.
	RootName = "Base"
	// ElementName is the name given to array element templates.
	ElementName = "data"
)

func (r *Template) Name() string {
	return r.name
}

func (r *Template) TypeName() string {
	return r.typeName
}

func (r *Template) Kind() avalue.Kind {
	return r.kind
}

// Align reports whether the stream is padded to the container alignment
// after this field.
func (r *Template) Align() bool {
	return r.align
}

// Children returns a copy of the ordered child list of a struct template.
func (r *Template) Children() []*Template {
	children := make([]*Template, len(r.children))
	copy(children, r.children)
	return children
}

func (r *Template) NumChildren() int {
	return len(r.children)
}

func (r *Template) ChildAt(i int) *Template {
	return r.children[i]
}

func (r *Template) Child(name string) (*Template, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.children[i], true
}

// Element is the template of every element of an array template, nil otherwise.
func (r *Template) Element() *Template {
	return r.element
}

// MinSize is the smallest number of bytes an instance can occupy on the wire,
// ignoring alignment padding.
func (r *Template) MinSize() int {
	return r.minSize
}

// ChildIndex is the position of the named child within a struct template.
func (r *Template) ChildIndex(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}
