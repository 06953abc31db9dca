package classify

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_SinglePixel(t *testing.T) {
	tests := []struct {
		name  string
		pixel uint32
		want  []float32
	}{
		{"white", 0xFFFFFFFF, []float32{1, 1, 1}},
		{"black", 0xFF000000, []float32{0, 0, 0}},
		{"alpha ignored", 0x00FF0000, []float32{1, 0, 0}},
		{"channel order", 0xFF00FF00, []float32{0, 1, 0}},
		{"blue", 0x800000FF, []float32{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode([]uint32{tt.pixel}, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_RowMajorLayout(t *testing.T) {
	pixels := []uint32{
		0xFF010203, 0xFF040506,
		0xFF070809, 0xFF0A0B0C,
	}
	got, err := Encode(pixels, 2)
	require.NoError(t, err)
	require.Len(t, got, 12)

	for i := 0; i < 12; i++ {
		assert.InDelta(t, float32(i+1)/255.0, got[i], 1e-7, "index %d", i)
	}
}

func TestEncode_LengthRangeAndDeterminism(t *testing.T) {
	const n = 16
	pixels := make([]uint32, n*n)
	for i := range pixels {
		pixels[i] = uint32(i*2654435761) | 0xFF000000
	}

	a, err := Encode(pixels, n)
	require.NoError(t, err)
	b, err := Encode(pixels, n)
	require.NoError(t, err)

	assert.Len(t, a, n*n*3)
	assert.Equal(t, a, b)
	for _, v := range a {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestEncode_InvalidArgument(t *testing.T) {
	_, err := Encode(make([]uint32, 3), 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Encode(make([]uint32, 5), 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Encode(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPackImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	img.SetNRGBA(10, 20, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF})
	img.SetNRGBA(11, 20, color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0x80})

	assert.Equal(t, []uint32{0xFF112233, 0x80AABBCC}, PackImage(img))
}

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.White)
		}
	}
	got, err := EncodeImage(img, 2)
	require.NoError(t, err)
	for _, v := range got {
		assert.Equal(t, float32(1), v)
	}

	_, err = EncodeImage(image.NewRGBA(image.Rect(0, 0, 3, 2)), 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
