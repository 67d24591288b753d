package ajson

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/atemplate"
	"atlas-repacker/asset/avalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	root := atemplate.NewStruct(
		atemplate.RootName, "R",
		atemplate.NewLeaf("z", avalue.KindString),
		atemplate.NewLeaf("a", avalue.KindInt32),
		atemplate.NewArray("items", "Array<bool>", atemplate.NewLeaf("v", avalue.KindBool)),
	)
	instance := afield.DefaultValueFromTemplate(root)
	require.NoError(t, afield.Write(instance, "z", "<tag>"))
	require.NoError(t, afield.Write(instance, "a", int32(-3)))
	items := instance.MustGet("items.Array")
	element, _ := items.NewElement()
	require.NoError(t, afield.SetValue(element, true))
	require.NoError(t, items.Add(element))

	bs, err := Marshal(instance)
	require.NoError(t, err)

	var compact map[string]any
	require.NoError(t, json.Unmarshal(bs, &compact))
	assert.Equal(t, "<tag>", compact["z"])
	assert.Equal(t, float64(-3), compact["a"])
	assert.Equal(t, []any{true}, compact["items"])
	assert.Less(t, strings.Index(string(bs), `"z"`), strings.Index(string(bs), `"a"`))
}

func TestMarshalNonFiniteFloats(t *testing.T) {
	root := atemplate.NewStruct(
		atemplate.RootName, "R",
		atemplate.NewLeaf("nan", avalue.KindFloat32),
		atemplate.NewLeaf("up", avalue.KindFloat64),
		atemplate.NewLeaf("down", avalue.KindFloat32),
		atemplate.NewLeaf("plain", avalue.KindFloat64),
	)
	instance := afield.DefaultValueFromTemplate(root)
	require.NoError(t, afield.Write(instance, "nan", float32(math.NaN())))
	require.NoError(t, afield.Write(instance, "up", math.Inf(1)))
	require.NoError(t, afield.Write(instance, "down", float32(math.Inf(-1))))
	require.NoError(t, afield.Write(instance, "plain", 1.5))

	bs, err := Marshal(instance)
	require.NoError(t, err)

	var compact map[string]any
	require.NoError(t, json.Unmarshal(bs, &compact))
	assert.Equal(t, "NaN", compact["nan"])
	assert.Equal(t, "+Inf", compact["up"])
	assert.Equal(t, "-Inf", compact["down"])
	assert.Equal(t, 1.5, compact["plain"])
}
