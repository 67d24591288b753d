package afield

import (
	"fmt"

	"atlas-repacker/asset/avalue"
)

func (r *Instance) checkArray() error {
	if r.Kind() != avalue.KindArrayOfStruct {
		return StructuralMismatchError{
			Field:  r.Name(),
			Reason: fmt.Sprintf(`"%s" is not an array`, r.Kind()),
		}
	}
	return nil
}

func (r *Instance) checkElement(element *Instance) error {
	if element == nil {
		return StructuralMismatchError{Field: r.Name(), Reason: "nil element"}
	}
	if element.template != r.template.Element() {
		return StructuralMismatchError{
			Field: r.Name(),
			Reason: fmt.Sprintf(
				`element of type "%s" was not built from this array's element template "%s"`,
				element.template.TypeName(), r.template.Element().TypeName(),
			),
		}
	}
	return nil
}

// Clear removes every element of an array.
func (r *Instance) Clear() error {
	if err := r.checkArray(); err != nil {
		return err
	}
	r.children = []*Instance{}
	return nil
}

// Add appends an element built from this array's element template.
func (r *Instance) Add(element *Instance) error {
	if err := r.checkArray(); err != nil {
		return err
	}
	if err := r.checkElement(element); err != nil {
		return err
	}
	r.children = append(r.children, element)
	return nil
}

// Replace swaps the whole element list. Nothing changes unless every
// element is valid.
func (r *Instance) Replace(elements []*Instance) error {
	if err := r.checkArray(); err != nil {
		return err
	}
	for _, element := range elements {
		if err := r.checkElement(element); err != nil {
			return err
		}
	}
	r.children = make([]*Instance, 0, len(elements))
	r.children = append(r.children, elements...)
	return nil
}

func (r *Instance) RemoveAt(i int) error {
	if err := r.checkArray(); err != nil {
		return err
	}
	if i < 0 || i >= len(r.children) {
		return StructuralMismatchError{Field: r.Name(), Reason: fmt.Sprintf("index %d out of range [0, %d)", i, len(r.children))}
	}
	r.children = append(r.children[:i:i], r.children[i+1:]...)
	return nil
}

// NewElement returns a default-valued element for this array.
func (r *Instance) NewElement() (*Instance, error) {
	if err := r.checkArray(); err != nil {
		return nil, err
	}
	return DefaultValueFromTemplate(r.template.Element()), nil
}
