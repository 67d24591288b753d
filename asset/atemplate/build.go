package atemplate

import (
	"fmt"

	"atlas-repacker/asset/ageneric"
	"atlas-repacker/asset/ameta"
	"atlas-repacker/asset/avalue"
	"github.com/samber/lo"
)

// Builder turns type metadata into templates. Templates are cached per field
// name and concrete type expression, so repeated builds of the same type
// return the same shared template.
type Builder struct {
	provider ameta.Provider
	cache    map[string]*Template
}

func NewBuilder(provider ameta.Provider) *Builder {
	return &Builder{
		provider: provider,
		cache:    map[string]*Template{},
	}
}

// BuildRoot builds the root template of an object of the given type expression.
func (r *Builder) BuildRoot(typeExpression string) (*Template, error) {
	ref, err := ameta.ParseTypeRef(typeExpression)
	if err != nil {
		return nil, SchemaError{Type: typeExpression, Reason: "invalid type expression", Cause: err}
	}
	return r.BuildTemplate(RootName, ref)
}

// BuildTemplate builds the template of a field named name holding a value of
// type ref. The result is a pure function of the metadata.
func (r *Builder) BuildTemplate(name string, ref ameta.TypeRef) (*Template, error) {
	return r.build(name, ref, nil)
}

func (r *Builder) build(name string, ref ameta.TypeRef, inProgress []string) (*Template, error) {
	key := name + ":" + ref.String()
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}
	if len(inProgress) > ageneric.MaxDepth || ref.Depth() > ageneric.MaxDepth {
		return nil, SchemaError{
			Type:   ref.String(),
			Field:  name,
			Reason: fmt.Sprintf("nesting deeper than %d levels", ageneric.MaxDepth),
		}
	}

	template, err := r.buildUncached(name, ref, inProgress)
	if err != nil {
		return nil, err
	}
	r.cache[key] = template
	return template, nil
}

func (r *Builder) buildUncached(name string, ref ameta.TypeRef, inProgress []string) (*Template, error) {
	if kind, ok := avalue.KindByName(ref.Name); ok {
		if ref.IsGeneric() {
			return nil, SchemaError{Type: ref.String(), Field: name, Reason: "primitive types take no type arguments"}
		}
		return NewLeaf(name, kind), nil
	}

	if ref.Name == ameta.ArrayTypeName {
		if len(ref.Args) != 1 {
			return nil, SchemaError{Type: ref.String(), Field: name, Reason: "Array takes exactly one type argument"}
		}
		element, err := r.build(ElementName, ref.Args[0], inProgress)
		if err != nil {
			return nil, err
		}
		return NewArray(name, ref.String(), element), nil
	}

	meta, ok := r.provider.Lookup(ref.Name)
	if !ok {
		return nil, SchemaError{Type: ref.String(), Field: name, Reason: "unresolvable type"}
	}
	resolved, err := ageneric.ResolveGenericBindings(meta, ref.Args, nil)
	if err != nil {
		return nil, SchemaError{Type: ref.String(), Field: name, Cause: err}
	}
	if lo.Contains(inProgress, resolved.Name) {
		return nil, SchemaError{Type: resolved.Name, Field: name, Reason: "recursive type"}
	}
	inProgress = append(inProgress, resolved.Name)

	if resolved.Alias != nil {
		return r.build(name, *resolved.Alias, inProgress)
	}

	children := make([]*Template, 0, len(resolved.Fields))
	seen := map[string]struct{}{}
	for _, field := range resolved.Fields {
		if _, existed := seen[field.Name]; existed {
			return nil, SchemaError{Type: resolved.Name, Field: field.Name, Reason: "duplicated field"}
		}
		seen[field.Name] = struct{}{}

		child, err := r.build(field.Name, field.Type, inProgress)
		if err != nil {
			return nil, err
		}
		if field.Align {
			child = child.Aligned()
		}
		children = append(children, child)
	}
	return NewStruct(name, resolved.Name, children...), nil
}
