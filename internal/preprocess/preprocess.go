// Package preprocess brings arbitrary photos to the square input size a
// classifier expects: crop to a square, then scale to n×n.
package preprocess

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Crop modes.
const (
	CropCenter = "center"
	CropSmart  = "smart"
	CropNone   = "none"
)

// Options selects the crop and the resampling filter.
type Options struct {
	// Crop is one of "center" (default), "smart" or "none". "none"
	// stretches the whole image to a square.
	Crop string
	// Resample is "nearest" (default), "bilinear" or "lanczos".
	Resample string
}

// DefaultOptions crops the largest centred square and scales it without
// filtering.
func DefaultOptions() Options {
	return Options{Crop: CropCenter, Resample: "nearest"}
}

// Preparer implements classify.Preparer.
type Preparer struct {
	crop   string
	interp resize.InterpolationFunction
}

// New validates opts and returns a Preparer.
func New(opts Options) (*Preparer, error) {
	crop := strings.ToLower(strings.TrimSpace(opts.Crop))
	switch crop {
	case "":
		crop = CropCenter
	case CropCenter, CropSmart, CropNone:
	default:
		return nil, errors.Errorf("unknown crop mode %q", opts.Crop)
	}

	interp, err := chooseInterpolation(opts.Resample)
	if err != nil {
		return nil, err
	}
	return &Preparer{crop: crop, interp: interp}, nil
}

func chooseInterpolation(name string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nearest":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "lanczos":
		return resize.Lanczos3, nil
	default:
		return 0, errors.Errorf("unknown resample filter %q", name)
	}
}

var defaultPreparer = &Preparer{crop: CropCenter, interp: resize.NearestNeighbor}

// Square crops and scales img using default options.
func Square(img image.Image, n int) (image.Image, error) {
	return defaultPreparer.Prepare(img, n)
}

// Prepare returns an n×n image whose bounds start at (0, 0).
func (p *Preparer) Prepare(img image.Image, n int) (image.Image, error) {
	if n <= 0 {
		return nil, errors.Errorf("target size must be positive, got %d", n)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("empty image")
	}

	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}

	var src image.Image
	switch p.crop {
	case CropSmart:
		rect, err := p.smartSquare(img, side)
		if err != nil {
			return nil, err
		}
		src = imaging.Crop(img, rect)
	case CropNone:
		src = img
	default:
		src = imaging.CropCenter(img, side, side)
	}

	return resize.Resize(uint(n), uint(n), src, p.interp), nil
}

func (p *Preparer) smartSquare(img image.Image, side int) (image.Rectangle, error) {
	analyzer := smartcrop.NewAnalyzer(resizer{interp: resize.Bilinear})
	rect, err := analyzer.FindBestCrop(img, side, side)
	if err != nil {
		return image.Rectangle{}, errors.Wrap(err, "finding best crop")
	}
	return rect, nil
}

type resizer struct {
	interp resize.InterpolationFunction
}

func (r resizer) Resize(img image.Image, width, height uint) image.Image {
	return resize.Resize(width, height, img, r.interp)
}
