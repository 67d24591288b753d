package tasset

import (
	"image"
	"image/color"
	"testing"

	"atlas-repacker/asset/acodec"
	"atlas-repacker/asset/afield"
	"atlas-repacker/schema"
	"atlas-repacker/texture/tcodec"
	"atlas-repacker/texture/tformat"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TextureTestSuite struct {
	Instance *afield.Instance
	R        *require.Assertions
	suite.Suite
}

func (suite *TextureTestSuite) SetupTest() {
	suite.R = suite.Require()
	s, err := schema.Load()
	suite.R.NoError(err)
	root, err := s.Root(schema.TypeTexture2D)
	suite.R.NoError(err)
	suite.Instance = afield.DefaultValueFromTemplate(root)
}

func checker(width int, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 30, A: 255})
			}
		}
	}
	return img
}

func (suite *TextureTestSuite) newTexture() *Texture {
	texture := &Texture{
		Name:         "atlas",
		Format:       tformat.RGBA32,
		MipCount:     3,
		IsReadable:   true,
		ColorSpace:   tformat.ColorSpaceSRGB,
		PlatformBlob: []byte{},
	}
	texture.Width, texture.Height = 4, 4
	suite.R.NoError(texture.SetImage(checker(4, 4)))
	return texture
}

func (suite *TextureTestSuite) TestWriteRead() {
	texture := suite.newTexture()
	suite.R.Equal(uint32(3), texture.MipCount)
	suite.R.True(texture.HasMipMaps)
	suite.R.NoError(texture.Write(suite.Instance))

	data, err := acodec.Encode(suite.Instance, acodec.DefaultRules())
	suite.R.NoError(err)
	decoded, err := acodec.Decode(data, suite.Instance.Template(), acodec.DefaultRules())
	suite.R.NoError(err)

	read, err := Read(decoded)
	suite.R.NoError(err)
	suite.R.Equal(texture, read)

	size, err := afield.Read[uint32](decoded, "m_CompleteImageSize")
	suite.R.NoError(err)
	suite.R.Equal(uint32(84), size)

	img, err := read.Image()
	suite.R.NoError(err)
	suite.R.Equal(checker(4, 4).Pix, img.Pix)
}

func (suite *TextureTestSuite) TestResize() {
	texture := suite.newTexture()

	suite.R.NoError(texture.SetImage(checker(8, 4)))
	suite.R.Equal(uint32(8), texture.Width)
	suite.R.Equal(uint32(4), texture.MipCount)

	suite.R.NoError(texture.SetImage(checker(6, 4)))
	suite.R.Equal(uint32(1), texture.MipCount)
	suite.R.False(texture.HasMipMaps)
	suite.R.Len(texture.Payload, 6*4*4)
}

func (suite *TextureTestSuite) TestSameSizeKeepsMipCount() {
	texture := &Texture{
		Name:         "atlas",
		Format:       tformat.RGBA32,
		MipCount:     3,
		PlatformBlob: []byte{},
	}
	texture.Width, texture.Height = 6, 4
	suite.R.NoError(texture.SetImage(checker(6, 4)))
	suite.R.Equal(uint32(3), texture.MipCount)
	suite.R.True(texture.HasMipMaps)
	suite.R.Len(texture.Payload, (6*4+3*2+1*1)*4)

	img, err := texture.Image()
	suite.R.NoError(err)
	suite.R.NoError(texture.SetImage(img))
	suite.R.Equal(uint32(3), texture.MipCount)
	suite.R.Len(texture.Payload, 124)
}

func (suite *TextureTestSuite) TestPayloadMismatch() {
	texture := suite.newTexture()
	texture.Payload = texture.Payload[:10]
	suite.R.NoError(texture.Write(suite.Instance))

	_, err := Read(suite.Instance)
	var sizeErr tcodec.PayloadSizeError
	suite.R.True(errors.As(err, &sizeErr))
	suite.R.Equal(84, sizeErr.Expected)
	suite.R.Equal(10, sizeErr.Actual)
}

func (suite *TextureTestSuite) TestPlatformBlob() {
	texture := suite.newTexture()
	texture.PlatformBlob = []byte{1, 2, 3}
	_, err := texture.Image()
	var formatErr tcodec.UnsupportedFormatError
	suite.R.True(errors.As(err, &formatErr))
}

func TestTextureTestSuite(t *testing.T) {
	suite.Run(t, new(TextureTestSuite))
}
