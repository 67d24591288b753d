// Package schema carries the type metadata of the objects this tool reads.
package schema

import (
	_ "embed"

	"atlas-repacker/asset/ameta"
	"atlas-repacker/asset/atemplate"
	"github.com/pkg/errors"
)

//go:embed types.json
var typesJSON []byte

const (
	TypeTexture2D    = "Texture2D"
	TypeMaterial     = "Material"
	TypeUIAtlas      = "UIAtlas"
	TypeTextureAtlas = "TextureAtlas"
)

// Schema builds and caches the root templates of known object types.
type Schema struct {
	catalog ameta.Catalog
	builder *atemplate.Builder
}

// Load parses the built-in type metadata.
func Load() (*Schema, error) {
	return LoadFrom(typesJSON)
}

func LoadFrom(data []byte) (*Schema, error) {
	catalog, err := ameta.LoadCatalog(data)
	if err != nil {
		return nil, errors.Wrap(err, "schema.Load error")
	}
	return &Schema{
		catalog: catalog,
		builder: atemplate.NewBuilder(catalog),
	}, nil
}

func (r *Schema) Root(typeName string) (*atemplate.Template, error) {
	if _, ok := r.catalog.Lookup(typeName); !ok {
		return nil, atemplate.SchemaError{Type: typeName, Reason: "unknown object type"}
	}
	return r.builder.BuildRoot(typeName)
}

func (r *Schema) Knows(typeName string) bool {
	_, ok := r.catalog.Lookup(typeName)
	return ok
}
