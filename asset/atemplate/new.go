package atemplate

import (
	"fmt"

	"atlas-repacker/asset/avalue"
	"github.com/samber/lo"
)

// NewLeaf creates a template for a scalar, string or byte blob field.
func NewLeaf(name string, kind avalue.Kind) *Template {
	if !kind.IsLeaf() {
		panic(fmt.Sprintf(`NewLeaf error: kind "%s" is not a leaf kind`, kind))
	}
	minSize := kind.FixedSize()
	if kind == avalue.KindString || kind == avalue.KindByteArray {
		minSize = 4
	}
	return &Template{
		name:     name,
		typeName: kind.String(),
		kind:     kind,
		minSize:  minSize,
	}
}

// NewStruct creates a struct template. Child names must be unique.
func NewStruct(name string, typeName string, children ...*Template) *Template {
	index := make(map[string]int, len(children))
	for i, child := range children {
		if _, existed := index[child.name]; existed {
			panic(fmt.Sprintf(`NewStruct error: duplicated field "%s" in "%s"`, child.name, typeName))
		}
		index[child.name] = i
	}
	return &Template{
		name:     name,
		typeName: typeName,
		kind:     avalue.KindStruct,
		children: children,
		index:    index,
		minSize: lo.SumBy(
			children,
			func(child *Template) int {
				return child.minSize
			},
		),
	}
}

// NewArray creates an array template; the element is renamed to ElementName.
func NewArray(name string, typeName string, element *Template) *Template {
	return &Template{
		name:     name,
		typeName: typeName,
		kind:     avalue.KindArrayOfStruct,
		element:  element.Renamed(ElementName),
		minSize:  4,
	}
}

// Renamed returns a copy of the template under another field name. Subtrees
// are shared.
func (r *Template) Renamed(name string) *Template {
	if r.name == name {
		return r
	}
	copied := *r
	copied.name = name
	return &copied
}

// Aligned returns a copy of the template with the alignment flag set.
func (r *Template) Aligned() *Template {
	if r.align {
		return r
	}
	copied := *r
	copied.align = true
	return &copied
}
