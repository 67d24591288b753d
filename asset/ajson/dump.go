// Package ajson renders field trees as JSON for inspection.
package ajson

import (
	"encoding/json"
	"math"
	"strconv"

	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/avalue"
	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ToOrderedMap converts a struct node to an ordered map, arrays to slices and
// leaves to their Go values. Field order follows the template. NaN and
// infinite floats become the strings "NaN", "+Inf" and "-Inf".
func ToOrderedMap(instance *afield.Instance) any {
	switch instance.Kind() {
	case avalue.KindStruct:
		om := orderedmap.New()
		om.SetEscapeHTML(false)
		lo.ForEach(
			instance.Children(),
			func(child *afield.Instance, _ int) {
				om.Set(child.Name(), ToOrderedMap(child))
			},
		)
		return om
	case avalue.KindArrayOfStruct:
		return lo.Map(
			instance.Children(),
			func(element *afield.Instance, _ int) any {
				return ToOrderedMap(element)
			},
		)
	default:
		return leaf(instance.Value().Interface())
	}
}

func leaf(value any) any {
	var f float64
	switch v := value.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return value
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return value
}

func Marshal(instance *afield.Instance) ([]byte, error) {
	bs, err := json.MarshalIndent(ToOrderedMap(instance), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "ajson.Marshal error")
	}
	return bs, nil
}
