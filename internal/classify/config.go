package classify

// DefaultImageSize is the side length the bundled model was trained on.
const DefaultImageSize = 224

// Config fixes the tensor geometry and the label order for one model.
type Config struct {
	ImageSize int      `json:"image_size"`
	Labels    []string `json:"labels"`
}

// DefaultConfig returns the geometry of the bundled four-class model.
func DefaultConfig() Config {
	return Config{
		ImageSize: DefaultImageSize,
		Labels:    []string{"Label A", "Label B", "Label C", "Label D"},
	}
}

// Validate reports whether the config can drive an encode/report cycle.
func (c Config) Validate() error {
	if c.ImageSize <= 0 {
		return invalidf("image size must be positive, got %d", c.ImageSize)
	}
	if len(c.Labels) == 0 {
		return invalidf("at least one label is required")
	}
	return nil
}

// TensorSize is the number of float32 values in one [1, N, N, 3] input.
func (c Config) TensorSize() int {
	return c.ImageSize * c.ImageSize * 3
}

// InputShape is the NHWC shape handed to the inference engine.
func (c Config) InputShape() []int64 {
	n := int64(c.ImageSize)
	return []int64{1, n, n, 3}
}

// OutputShape is the shape of the confidence vector the engine returns.
func (c Config) OutputShape() []int64 {
	return []int64{1, int64(len(c.Labels))}
}
