// Package ageneric binds the type parameters of generic type metadata to
// concrete type arguments.
//
// Every function returns new values; inputs are never mutated.
package ageneric

import (
	"fmt"

	"atlas-repacker/asset/ameta"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type (
	// Bindings maps type parameter names to the type arguments bound in the
	// current scope. Treat it as immutable.
	Bindings map[string]ameta.TypeRef

	ArityError struct {
		TypeName string
		Params   []string
		Args     []ameta.TypeRef
	}
	TooDeepError struct {
		Type     ameta.TypeRef
		MaxDepth int
	}
)

// MaxDepth bounds generic nesting. Metadata is expected to be shallow, so
// anything deeper is treated as malformed input.
const MaxDepth = 32

func (r ArityError) Error() string {
	return fmt.Sprintf(
		`type "%s" expects %d type argument(s) %v, got %d`,
		r.TypeName, len(r.Params), r.Params, len(r.Args),
	)
}

func (r TooDeepError) Error() string {
	return fmt.Sprintf(`type "%s" nests deeper than %d levels`, r.Type, r.MaxDepth)
}

// Lookup reports the argument bound to a parameter name.
func (r Bindings) Lookup(name string) (ameta.TypeRef, bool) {
	ref, ok := r[name]
	return ref, ok
}

// AssignTypeParams binds params to args. Each argument is first solidified
// against the parent scope, so an argument that names one of the parent's
// parameters (directly or inside its own arguments) is replaced by the
// parent's binding.
func AssignTypeParams(params []string, args []ameta.TypeRef, parent Bindings) (Bindings, error) {
	if len(params) != len(args) {
		return nil, ArityError{Params: params, Args: args}
	}
	bindings := make(Bindings, len(params))
	for i, param := range params {
		resolved := SolidifyType(args[i], parent)
		if resolved.Depth() > MaxDepth {
			return nil, TooDeepError{Type: resolved, MaxDepth: MaxDepth}
		}
		bindings[param] = resolved
	}
	return bindings, nil
}

// SolidifyType substitutes the bound argument for a free type parameter
// name. A candidate that is not bound is returned unchanged, apart from its
// own arguments being solidified.
func SolidifyType(candidate ameta.TypeRef, bindings Bindings) ameta.TypeRef {
	if !candidate.IsGeneric() {
		if bound, ok := bindings.Lookup(candidate.Name); ok {
			return copyRef(bound)
		}
		return ameta.TypeRef{Name: candidate.Name}
	}
	return ameta.TypeRef{
		Name: candidate.Name,
		Args: lo.Map(
			candidate.Args,
			func(arg ameta.TypeRef, _ int) ameta.TypeRef {
				return SolidifyType(arg, bindings)
			},
		),
	}
}

func copyRef(ref ameta.TypeRef) ameta.TypeRef {
	return SolidifyType(ref, nil)
}

// ResolveGenericBindings instantiates meta with args, resolved against the
// parent scope. The result has no type parameters: its name is the
// instantiated expression and every field type is solidified.
func ResolveGenericBindings(meta ameta.TypeMetadata, args []ameta.TypeRef, parent Bindings) (ameta.TypeMetadata, error) {
	bindings, err := AssignTypeParams(meta.TypeParams, args, parent)
	if err != nil {
		if arityErr, ok := err.(ArityError); ok {
			arityErr.TypeName = meta.Name
			err = arityErr
		}
		return ameta.TypeMetadata{}, errors.Wrap(err, "ResolveGenericBindings error")
	}

	instance := ameta.TypeMetadata{
		Name: ameta.TypeRef{
			Name: meta.Name,
			Args: lo.Map(
				meta.TypeParams,
				func(param string, _ int) ameta.TypeRef {
					return bindings[param]
				},
			),
		}.String(),
	}
	if meta.Alias != nil {
		alias := SolidifyType(*meta.Alias, bindings)
		if alias.Depth() > MaxDepth {
			return ameta.TypeMetadata{}, TooDeepError{Type: alias, MaxDepth: MaxDepth}
		}
		instance.Alias = &alias
	}
	for _, field := range meta.Fields {
		solid := SolidifyType(field.Type, bindings)
		if solid.Depth() > MaxDepth {
			return ameta.TypeMetadata{}, TooDeepError{Type: solid, MaxDepth: MaxDepth}
		}
		instance.Fields = append(instance.Fields, ameta.FieldMetadata{
			Name:  field.Name,
			Type:  solid,
			Align: field.Align,
		})
	}
	return instance, nil
}
