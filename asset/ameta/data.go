// Package ameta describes the external type metadata that field templates
// are built from.
package ameta

type (
	// TypeRef is a type expression such as "int32", "T" or "Pair<string, List<T>>".
	TypeRef struct {
		Name string
		Args []TypeRef
	}
	FieldMetadata struct {
		Name  string
		Type  TypeRef
		Align bool
	}
	// TypeMetadata is one declared type. A type with Alias set has no fields
	// of its own and stands for the aliased expression.
	TypeMetadata struct {
		Name       string
		TypeParams []string
		Alias      *TypeRef
		Fields     []FieldMetadata
	}
	Provider interface {
		Lookup(name string) (TypeMetadata, bool)
	}
	// Catalog is a Provider backed by a map.
	Catalog map[string]TypeMetadata
)

const (
	ArrayTypeName = "Array"
)

func (r Catalog) Lookup(name string) (TypeMetadata, bool) {
	meta, ok := r[name]
	return meta, ok
}

func (r Catalog) Add(meta TypeMetadata) {
	r[meta.Name] = meta
}
