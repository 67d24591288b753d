package atemplate

import (
	"testing"

	"atlas-repacker/asset/ameta"
	"atlas-repacker/asset/avalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const catalogJSON = `{
	"Rect": {"fields": {"x": "float32", "y": "float32", "width": "float32", "height": "float32"}},
	"List<T>": {"alias": "Array<T>"},
	"Pair<K, V>": {"fields": {"first": "K", "second": "V"}},
	"Atlas": {"fields": {
		"m_Name": "string|align",
		"uvs": "List<Rect>",
		"names": "List<string>",
		"lookup": "Array<Pair<string, List<int32>>>",
		"flag": "bool|align"
	}},
	"Loop": {"fields": {"next": "Loop"}},
	"Holder<T>": {"fields": {"value": "T"}},
	"Broken": {"fields": {"x": "Missing"}},
	"Free": {"fields": {"x": "T"}},
	"Arity": {"fields": {"x": "Pair<string>"}}
}`

type BuilderTestSuite struct {
	Builder *Builder
	R       *require.Assertions
	suite.Suite
}

func (suite *BuilderTestSuite) SetupTest() {
	suite.R = suite.Require()
	catalog, err := ameta.LoadCatalog([]byte(catalogJSON))
	suite.R.NoError(err)
	suite.Builder = NewBuilder(catalog)
}

func (suite *BuilderTestSuite) TestStructure() {
	root, err := suite.Builder.BuildRoot("Atlas")
	suite.R.NoError(err)

	suite.R.Equal(RootName, root.Name())
	suite.R.Equal(avalue.KindStruct, root.Kind())
	suite.R.Equal(
		[]string{"m_Name", "uvs", "names", "lookup", "flag"},
		namesOf(root.Children()),
	)

	name, _ := root.Child("m_Name")
	suite.R.Equal(avalue.KindString, name.Kind())
	suite.R.True(name.Align())

	uvs, _ := root.Child("uvs")
	suite.R.Equal(avalue.KindArrayOfStruct, uvs.Kind())
	suite.R.Equal("Array<Rect>", uvs.TypeName())
	suite.R.Equal(ElementName, uvs.Element().Name())
	suite.R.Equal([]string{"x", "y", "width", "height"}, namesOf(uvs.Element().Children()))
	suite.R.Equal(16, uvs.Element().MinSize())

	names, _ := root.Child("names")
	suite.R.Equal(avalue.KindString, names.Element().Kind())

	lookup, _ := root.Child("lookup")
	pair := lookup.Element()
	suite.R.Equal("Pair<string, List<int32>>", pair.TypeName())
	second, ok := pair.Child("second")
	suite.R.True(ok)
	suite.R.Equal(avalue.KindInt32, second.Element().Kind())

	suite.R.Equal(4+4+4+4+1, root.MinSize())
}

func (suite *BuilderTestSuite) TestTemplatesAreShared() {
	first, err := suite.Builder.BuildRoot("Atlas")
	suite.R.NoError(err)
	second, err := suite.Builder.BuildRoot("Atlas")
	suite.R.NoError(err)
	suite.R.Same(first, second)

	holder, err := suite.Builder.BuildRoot("Holder<Rect>")
	suite.R.NoError(err)
	value, _ := holder.Child("value")
	suite.R.Equal("Rect", value.TypeName())
}

func (suite *BuilderTestSuite) TestSchemaErrors() {
	for _, expression := range []string{"Loop", "Broken", "Free", "Arity", "Unknown", "int32<T>", "Array<int32, int32>", "List<"} {
		_, err := suite.Builder.BuildRoot(expression)
		var schemaErr SchemaError
		suite.R.ErrorAs(err, &schemaErr, expression)
	}
}

func TestBuilder(t *testing.T) {
	suite.Run(t, new(BuilderTestSuite))
}

func TestNewStruct_Duplicated(t *testing.T) {
	assert.Panics(t, func() {
		NewStruct("s", "S", NewLeaf("x", avalue.KindInt32), NewLeaf("x", avalue.KindInt32))
	})
	assert.Panics(t, func() {
		NewLeaf("x", avalue.KindStruct)
	})
}

func TestAligned_DoesNotMutate(t *testing.T) {
	leaf := NewLeaf("x", avalue.KindBool)
	aligned := leaf.Aligned()

	assert.False(t, leaf.Align())
	assert.True(t, aligned.Align())
	assert.Same(t, aligned, aligned.Aligned())
}

func namesOf(templates []*Template) []string {
	names := make([]string, 0, len(templates))
	for _, template := range templates {
		names = append(names, template.Name())
	}
	return names
}
