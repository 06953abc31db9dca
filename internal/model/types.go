package model

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/Brownie44l1/photo-classifier/internal/classify"
)

// Metadata describes an exported model, as written next to the .onnx file.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

// LoadMetadata reads and parses a model_metadata.json file.
func LoadMetadata(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read metadata")
	}

	var metadata Metadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, errors.Wrap(err, "failed to parse metadata")
	}
	return &metadata, nil
}

// Apply overrides the image size and labels in cfg with whatever the
// metadata declares. Only square NHWC inputs [1, n, n, 3] are accepted; an
// input shape wins over image_size.
func (m *Metadata) Apply(cfg *classify.Config) error {
	if m == nil || cfg == nil {
		return nil
	}

	size := cfg.ImageSize
	switch {
	case len(m.InputShape) == 4:
		s := m.InputShape
		if s[0] != 1 || s[3] != 3 || s[1] != s[2] || s[1] <= 0 {
			if s[1] == 3 {
				return errors.Wrapf(classify.ErrInvalidArgument, "NCHW input %v not supported, want [1 n n 3]", s)
			}
			return errors.Wrapf(classify.ErrInvalidArgument, "input shape %v is not [1 n n 3]", s)
		}
		size = int(s[1])
		if m.ImageSize > 0 && m.ImageSize != size {
			return errors.Wrapf(classify.ErrInvalidArgument,
				"image_size %d disagrees with input shape %v", m.ImageSize, s)
		}
	case len(m.InputShape) != 0:
		return errors.Wrapf(classify.ErrInvalidArgument, "input shape %v is not [1 n n 3]", m.InputShape)
	case m.ImageSize > 0:
		size = m.ImageSize
	}

	labels := cfg.Labels
	if len(m.Classes) > 0 {
		labels = m.Classes
	}
	if len(m.OutputShape) != 0 {
		if len(m.OutputShape) != 2 || m.OutputShape[1] != int64(len(labels)) {
			return errors.Wrapf(classify.ErrInvalidArgument,
				"output shape %v does not match %d classes", m.OutputShape, len(labels))
		}
	}

	cfg.ImageSize = size
	cfg.Labels = append([]string(nil), labels...)
	return nil
}
