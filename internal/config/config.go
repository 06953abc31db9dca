package config

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"

	"github.com/Brownie44l1/photo-classifier/internal/classify"
	"github.com/Brownie44l1/photo-classifier/internal/preprocess"
)

// EnvPrefix prefixes every environment override, e.g. CLASSIFIER_SERVER_PORT.
const EnvPrefix = "CLASSIFIER_"

// ServerConfig defines HTTP server configurations
type ServerConfig struct {
	Port           int   `koanf:"port"`
	Debug          bool  `koanf:"debug"`
	MaxUploadBytes int64 `koanf:"maxuploadbytes"`
}

// ModelConfig locates the model and describes its geometry
type ModelConfig struct {
	Path         string   `koanf:"path"`
	MetadataPath string   `koanf:"metadatapath"`
	ORTLibrary   string   `koanf:"ortlibrary"`
	InputName    string   `koanf:"inputname"`
	OutputName   string   `koanf:"outputname"`
	ImageSize    int      `koanf:"imagesize"`
	Labels       []string `koanf:"labels"`
}

// PreprocessConfig selects how photos are squared
type PreprocessConfig struct {
	Crop     string `koanf:"crop"`
	Resample string `koanf:"resample"`
}

// ReportConfig controls the top-1 selection
type ReportConfig struct {
	ZeroFloor bool `koanf:"zerofloor"`
}

// AppConfig is the whole process configuration.
type AppConfig struct {
	Server     ServerConfig     `koanf:"server"`
	Model      ModelConfig      `koanf:"model"`
	Preprocess PreprocessConfig `koanf:"preprocess"`
	Report     ReportConfig     `koanf:"report"`
}

func defaults() map[string]interface{} {
	def := classify.DefaultConfig()
	pre := preprocess.DefaultOptions()
	return map[string]interface{}{
		"server.port":           8080,
		"server.debug":          false,
		"server.maxuploadbytes": int64(10 << 20),
		"model.path":            "models/model.onnx",
		"model.metadatapath":    "",
		"model.ortlibrary":      "",
		"model.inputname":       "input",
		"model.outputname":      "output",
		"model.imagesize":       def.ImageSize,
		"model.labels":          def.Labels,
		"preprocess.crop":       pre.Crop,
		"preprocess.resample":   pre.Resample,
		"report.zerofloor":      true,
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and CLASSIFIER_* environment variables, in that order.
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}

// Classify returns the tensor geometry and labels.
func (c *AppConfig) Classify() classify.Config {
	return classify.Config{
		ImageSize: c.Model.ImageSize,
		Labels:    append([]string(nil), c.Model.Labels...),
	}
}

// PreprocessOptions returns the crop and resample settings.
func (c *AppConfig) PreprocessOptions() preprocess.Options {
	return preprocess.Options{Crop: c.Preprocess.Crop, Resample: c.Preprocess.Resample}
}

// Reporter returns the configured top-1 reporter.
func (c *AppConfig) Reporter() classify.Reporter {
	return classify.Reporter{ZeroFloor: c.Report.ZeroFloor}
}
