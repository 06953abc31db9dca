package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/photo-classifier/internal/classify"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "input", cfg.Model.InputName)
	assert.Equal(t, classify.DefaultConfig(), cfg.Classify())
	assert.Equal(t, "center", cfg.Preprocess.Crop)
	assert.True(t, cfg.Reporter().ZeroFloor)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  debug: true
model:
  path: /models/pets.onnx
  imagesize: 96
  labels: [cat, dog]
preprocess:
  crop: smart
report:
  zerofloor: false
`), 0o600))

	t.Setenv("CLASSIFIER_SERVER_PORT", "9100")
	t.Setenv("CLASSIFIER_PREPROCESS_RESAMPLE", "bilinear")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "/models/pets.onnx", cfg.Model.Path)
	assert.Equal(t, classify.Config{ImageSize: 96, Labels: []string{"cat", "dog"}}, cfg.Classify())
	assert.Equal(t, "smart", cfg.PreprocessOptions().Crop)
	assert.Equal(t, "bilinear", cfg.PreprocessOptions().Resample)
	assert.False(t, cfg.Reporter().ZeroFloor)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
