package classify

import (
	"image"
	"image/color"
)

// Encode converts a row-major N×N raster of packed 0xAARRGGBB pixels into a
// flat [1, N, N, 3] tensor with R, G, B scaled to [0, 1]. Alpha is ignored.
func Encode(pixels []uint32, n int) ([]float32, error) {
	if n <= 0 {
		return nil, invalidf("image size must be positive, got %d", n)
	}
	if len(pixels) != n*n {
		return nil, invalidf("expected %d pixels for a %dx%d image, got %d", n*n, n, n, len(pixels))
	}

	data := make([]float32, 0, n*n*3)
	i := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p := pixels[i]
			i++
			data = append(data,
				float32((p>>16)&0xFF)/255.0,
				float32((p>>8)&0xFF)/255.0,
				float32(p&0xFF)/255.0,
			)
		}
	}
	return data, nil
}

// PackImage flattens img into row-major packed ARGB pixels, starting at the
// top-left corner of its bounds. Channels are taken non-premultiplied.
func PackImage(img image.Image) []uint32 {
	b := img.Bounds()
	pixels := make([]uint32, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, uint32(c.A)<<24|uint32(c.R)<<16|uint32(c.G)<<8|uint32(c.B))
		}
	}
	return pixels
}

// EncodeImage encodes an image that is already exactly n×n. It does not
// resize; see the preprocess package for that.
func EncodeImage(img image.Image, n int) ([]float32, error) {
	b := img.Bounds()
	if b.Dx() != n || b.Dy() != n {
		return nil, invalidf("expected a %dx%d image, got %dx%d", n, n, b.Dx(), b.Dy())
	}
	return Encode(PackImage(img), n)
}
