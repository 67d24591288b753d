package ameta

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
)

const (
	alignFlag = "|align"
)

// LoadCatalog reads type declarations from JSON. Field order is preserved:
//
//   {
//     "Vector2": {"fields": {"x": "float32", "y": "float32"}},
//     "List<T>": {"alias": "Array<T>"},
//     "Pair<K, V>": {"fields": {"first": "K", "second": "V|align"}}
//   }
func LoadCatalog(data []byte) (Catalog, error) {
	document := orderedmap.New()
	if err := json.Unmarshal(data, document); err != nil {
		return nil, errors.Wrap(err, "LoadCatalog error: unmarshal document")
	}

	catalog := Catalog{}
	for _, declaration := range document.Keys() {
		body, _ := document.Get(declaration)
		meta, err := parseDeclaration(declaration, body)
		if err != nil {
			return nil, errors.Wrapf(err, `LoadCatalog error: declaration "%s"`, declaration)
		}
		if _, existed := catalog[meta.Name]; existed {
			return nil, fmt.Errorf(`LoadCatalog error: type "%s" declared twice`, meta.Name)
		}
		catalog.Add(meta)
	}
	return catalog, nil
}

func asOrderedMap(value any) (orderedmap.OrderedMap, bool) {
	switch typed := value.(type) {
	case orderedmap.OrderedMap:
		return typed, true
	case *orderedmap.OrderedMap:
		return *typed, true
	}
	return orderedmap.OrderedMap{}, false
}

func parseDeclaration(declaration string, body any) (TypeMetadata, error) {
	head, err := ParseTypeRef(declaration)
	if err != nil {
		return TypeMetadata{}, err
	}
	meta := TypeMetadata{Name: head.Name}
	for _, param := range head.Args {
		if param.IsGeneric() {
			return TypeMetadata{}, fmt.Errorf(`type parameter "%s" must be a plain name`, param)
		}
		meta.TypeParams = append(meta.TypeParams, param.Name)
	}

	bodyMap, ok := asOrderedMap(body)
	if !ok {
		return TypeMetadata{}, fmt.Errorf(`expected an object, got "%v"`, body)
	}

	if aliasAny, ok := bodyMap.Get("alias"); ok {
		aliasStr, ok := aliasAny.(string)
		if !ok {
			return TypeMetadata{}, fmt.Errorf(`alias must be a string, got "%v"`, aliasAny)
		}
		alias, err := ParseTypeRef(aliasStr)
		if err != nil {
			return TypeMetadata{}, err
		}
		meta.Alias = &alias
		return meta, nil
	}

	fieldsAny, ok := bodyMap.Get("fields")
	if !ok {
		return TypeMetadata{}, errors.New(`expected "fields" or "alias"`)
	}
	fields, ok := asOrderedMap(fieldsAny)
	if !ok {
		return TypeMetadata{}, fmt.Errorf(`fields must be an object, got "%v"`, fieldsAny)
	}
	for _, fieldName := range fields.Keys() {
		typeAny, _ := fields.Get(fieldName)
		typeStr, ok := typeAny.(string)
		if !ok {
			return TypeMetadata{}, fmt.Errorf(`field "%s" type must be a string`, fieldName)
		}
		field := FieldMetadata{Name: fieldName}
		if strings.HasSuffix(typeStr, alignFlag) {
			field.Align = true
			typeStr = strings.TrimSuffix(typeStr, alignFlag)
		}
		field.Type, err = ParseTypeRef(typeStr)
		if err != nil {
			return TypeMetadata{}, errors.Wrapf(err, `field "%s"`, fieldName)
		}
		meta.Fields = append(meta.Fields, field)
	}
	return meta, nil
}
