package afield

import (
	"testing"

	"atlas-repacker/asset/atemplate"
	"atlas-repacker/asset/avalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InstanceTestSuite struct {
	Sprite *atemplate.Template
	Root   *atemplate.Template
	R      *require.Assertions
	suite.Suite
}

func (suite *InstanceTestSuite) SetupSuite() {
	suite.R = suite.Require()
	suite.Sprite = atemplate.NewStruct(
		"data", "Sprite",
		atemplate.NewLeaf("name", avalue.KindString),
		atemplate.NewLeaf("x", avalue.KindInt32),
		atemplate.NewLeaf("y", avalue.KindInt32),
	)
	suite.Root = atemplate.NewStruct(
		atemplate.RootName, "Atlas",
		atemplate.NewLeaf("m_Name", avalue.KindString),
		atemplate.NewLeaf("scale", avalue.KindFloat32),
		atemplate.NewArray("mSprites", "Array<Sprite>", suite.Sprite),
		atemplate.NewArray("tags", "Array<string>", atemplate.NewLeaf("tag", avalue.KindString)),
	)
}

func (suite *InstanceTestSuite) newAtlas(names ...string) *Instance {
	root := DefaultValueFromTemplate(suite.Root)
	sprites := root.MustGet("mSprites.Array")
	for i, name := range names {
		element, err := sprites.NewElement()
		suite.R.NoError(err)
		suite.R.NoError(Write(element, "name", name))
		suite.R.NoError(Write(element, "x", int32(i*10)))
		suite.R.NoError(sprites.Add(element))
	}
	return root
}

func (suite *InstanceTestSuite) TestDefaultValueFromTemplate() {
	root := DefaultValueFromTemplate(suite.Root)

	suite.R.Equal(4, root.Len())
	name, err := Read[string](root, "m_Name")
	suite.R.NoError(err)
	suite.R.Equal("", name)
	scale, err := Read[float32](root, "scale")
	suite.R.NoError(err)
	suite.R.Equal(float32(0), scale)
	suite.R.Equal(0, root.MustGet("mSprites.Array").Len())
}

func (suite *InstanceTestSuite) TestGet() {
	root := suite.newAtlas("a", "b")

	x, err := Read[int32](root, "mSprites.Array[1].x")
	suite.R.NoError(err)
	suite.R.Equal(int32(10), x)

	name, err := Read[string](root, "mSprites.Array.0.name")
	suite.R.NoError(err)
	suite.R.Equal("a", name)

	array, err := root.Get("mSprites")
	suite.R.NoError(err)
	suite.R.Equal(2, array.Len())

	self, err := root.Get("")
	suite.R.NoError(err)
	suite.R.Same(root, self)
}

func (suite *InstanceTestSuite) TestGet_NotFound() {
	root := suite.newAtlas("a")
	for _, path := range []string{"missing", "m_Name.x", "mSprites.Array[3]", "scale.Array", "mSprites.Array[0].z"} {
		_, err := root.Get(path)
		var notFound PathNotFoundError
		suite.R.ErrorAs(err, &notFound, path)
		suite.R.Equal(path, notFound.Path)
	}
}

func (suite *InstanceTestSuite) TestTypeMismatch() {
	root := suite.newAtlas("a")

	_, err := Read[int64](root, "mSprites.Array[0].x")
	var mismatch avalue.TypeMismatchError
	suite.R.ErrorAs(err, &mismatch)
	suite.R.Equal("mSprites.Array[0].x", mismatch.Path)
	suite.R.Equal(avalue.KindInt32, mismatch.Declared)

	err = Write(root, "scale", float64(2))
	suite.R.ErrorAs(err, &mismatch)

	scale, _ := Read[float32](root, "scale")
	suite.R.Equal(float32(0), scale)

	err = root.Set(avalue.Int32(1))
	var structural StructuralMismatchError
	suite.R.ErrorAs(err, &structural)
}

func (suite *InstanceTestSuite) TestAdd_RejectsForeignTemplate() {
	root := suite.newAtlas("a")
	sprites := root.MustGet("mSprites.Array")

	lookalike := atemplate.NewStruct(
		"data", "Sprite",
		atemplate.NewLeaf("name", avalue.KindString),
		atemplate.NewLeaf("x", avalue.KindInt32),
		atemplate.NewLeaf("y", avalue.KindInt32),
	)
	err := sprites.Add(DefaultValueFromTemplate(lookalike))
	var structural StructuralMismatchError
	suite.R.ErrorAs(err, &structural)
	suite.R.Equal(1, sprites.Len())

	err = root.MustGet("tags").Add(DefaultValueFromTemplate(suite.Sprite))
	suite.R.ErrorAs(err, &structural)

	err = root.MustGet("m_Name").Clear()
	suite.R.ErrorAs(err, &structural)
}

func (suite *InstanceTestSuite) TestReplace_ValidatesFirst() {
	root := suite.newAtlas("a", "b")
	sprites := root.MustGet("mSprites.Array")
	good := DefaultValueFromTemplate(sprites.Template().Element())
	bad := DefaultValueFromTemplate(suite.Root)

	err := sprites.Replace([]*Instance{good, bad})
	suite.R.Error(err)
	suite.R.Equal(2, sprites.Len())

	suite.R.NoError(sprites.Replace([]*Instance{good}))
	suite.R.Equal(1, sprites.Len())
}

func (suite *InstanceTestSuite) TestClearAndRemove() {
	root := suite.newAtlas("a", "b", "c")
	sprites := root.MustGet("mSprites.Array")
	before := sprites.Children()

	suite.R.NoError(sprites.RemoveAt(1))
	names, err := readNames(sprites)
	suite.R.NoError(err)
	suite.R.Equal([]string{"a", "c"}, names)
	suite.R.Len(before, 3)

	suite.R.Error(sprites.RemoveAt(5))
	suite.R.NoError(sprites.Clear())
	suite.R.Equal(0, sprites.Len())
}

func (suite *InstanceTestSuite) TestLeafArray() {
	root := DefaultValueFromTemplate(suite.Root)
	tags := root.MustGet("tags.Array")
	for _, tag := range []string{"x", "y"} {
		element, err := tags.NewElement()
		suite.R.NoError(err)
		suite.R.NoError(SetValue(element, tag))
		suite.R.NoError(tags.Add(element))
	}

	values, err := ReadElements[string](root, "tags.Array")
	suite.R.NoError(err)
	suite.R.Equal([]string{"x", "y"}, values)
}

func (suite *InstanceTestSuite) TestClone() {
	root := suite.newAtlas("a")
	cloned := root.Clone()
	suite.R.True(root.Equal(cloned))

	suite.R.NoError(Write(cloned, "mSprites.Array[0].name", "changed"))
	suite.R.False(root.Equal(cloned))

	name, _ := Read[string](root, "mSprites.Array[0].name")
	suite.R.Equal("a", name)
	suite.R.Same(root.Template(), cloned.Template())
}

func (suite *InstanceTestSuite) TestNewStruct() {
	_, err := NewStruct(suite.Sprite, nil)
	suite.R.Error(err)

	children := DefaultValueFromTemplate(suite.Sprite).Children()
	built, err := NewStruct(suite.Sprite, children)
	suite.R.NoError(err)
	suite.R.Equal(3, built.Len())

	_, err = NewLeaf(suite.Sprite.ChildAt(0), avalue.Int32(1))
	suite.R.Error(err)
}

func TestInstance(t *testing.T) {
	suite.Run(t, new(InstanceTestSuite))
}

func readNames(array *Instance) ([]string, error) {
	names := make([]string, 0, array.Len())
	for _, element := range array.Children() {
		name, err := Read[string](element, "name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func TestParsePath(t *testing.T) {
	path, err := ParsePath("m_SavedProperties.m_TexEnvs.Array[0].second.m_Texture")
	require.NoError(t, err)
	assert.Equal(
		t,
		[]Segment{
			{Kind: SegmentName, Name: "m_SavedProperties"},
			{Kind: SegmentName, Name: "m_TexEnvs"},
			{Kind: SegmentArray},
			{Kind: SegmentIndex, Index: 0},
			{Kind: SegmentName, Name: "second"},
			{Kind: SegmentName, Name: "m_Texture"},
		},
		path.Segments(),
	)

	dotted, err := ParsePath("uvs.Array.12")
	require.NoError(t, err)
	assert.Equal(t, Segment{Kind: SegmentIndex, Index: 12}, dotted.Segments()[2])

	root, err := ParsePath("")
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
}

func TestParsePath_Invalid(t *testing.T) {
	for _, input := range []string{".", "a..b", "a[0]", "a.0", "Array[x]", "Array[0", "Array[-1]", "Array[0][1]"} {
		_, err := ParsePath(input)
		var syntax PathSyntaxError
		assert.ErrorAs(t, err, &syntax, input)
	}
}
