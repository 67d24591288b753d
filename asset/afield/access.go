package afield

import (
	"strconv"

	"atlas-repacker/asset/avalue"
	"github.com/pkg/errors"
)

// Get resolves a dotted path below this node.
func (r *Instance) Get(path string) (*Instance, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return r.Resolve(parsed)
}

// MustGet is Get for paths known to exist, such as those of built-in schemas.
func (r *Instance) MustGet(path string) *Instance {
	instance, err := r.Get(path)
	if err != nil {
		panic(err)
	}
	return instance
}

func (r *Instance) Resolve(path Path) (*Instance, error) {
	current := r
	for _, segment := range path.segments {
		notFound := PathNotFoundError{Path: path.String(), Segment: segment.String()}
		switch segment.Kind {
		case SegmentName:
			if current.Kind() != avalue.KindStruct {
				return nil, notFound
			}
			child, ok := current.child(segment.Name)
			if !ok {
				return nil, notFound
			}
			current = child
		case SegmentArray:
			if current.Kind() != avalue.KindArrayOfStruct {
				return nil, notFound
			}
		case SegmentIndex:
			if segment.Index >= len(current.children) {
				return nil, notFound
			}
			current = current.children[segment.Index]
		}
	}
	return current, nil
}

func (r *Instance) child(name string) (*Instance, bool) {
	i, ok := r.template.ChildIndex(name)
	if !ok {
		return nil, false
	}
	return r.children[i], true
}

// Set overwrites a leaf value. The value's kind must equal the declared kind.
func (r *Instance) Set(value avalue.Value) error {
	if !r.Kind().IsLeaf() {
		return StructuralMismatchError{Field: r.Name(), Reason: "cannot set a value on a non-leaf field"}
	}
	if value.Kind() != r.Kind() {
		return avalue.TypeMismatchError{Path: r.Name(), Declared: r.Kind(), Requested: value.Kind()}
	}
	r.value = value
	return nil
}

// SetValue overwrites a leaf value with a Go value of the matching type.
func SetValue[T avalue.Scalar](instance *Instance, t T) error {
	return instance.Set(avalue.Of(t))
}

// Read resolves path and reads the leaf there as T.
func Read[T avalue.Scalar](instance *Instance, path string) (T, error) {
	var zero T
	target, err := instance.Get(path)
	if err != nil {
		return zero, err
	}
	t, err := avalue.As[T](target.value)
	if err != nil {
		return zero, withPath(err, path)
	}
	return t, nil
}

// Write resolves path and overwrites the leaf there with t.
func Write[T avalue.Scalar](instance *Instance, path string, t T) error {
	target, err := instance.Get(path)
	if err != nil {
		return err
	}
	return withPath(SetValue(target, t), path)
}

func withPath(err error, path string) error {
	var mismatch avalue.TypeMismatchError
	if errors.As(err, &mismatch) {
		mismatch.Path = path
		return mismatch
	}
	return err
}

// ReadElements reads every element of the array at path as T.
func ReadElements[T avalue.Scalar](instance *Instance, path string) ([]T, error) {
	array, err := instance.Get(path)
	if err != nil {
		return nil, err
	}
	ts := make([]T, 0, array.Len())
	for i, element := range array.children {
		t, err := avalue.As[T](element.value)
		if err != nil {
			return nil, withPath(err, path+"["+strconv.Itoa(i)+"]")
		}
		ts = append(ts, t)
	}
	return ts, nil
}
