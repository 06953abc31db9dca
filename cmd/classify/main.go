package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Brownie44l1/photo-classifier/internal/classify"
	"github.com/Brownie44l1/photo-classifier/internal/config"
	"github.com/Brownie44l1/photo-classifier/internal/logger"
	"github.com/Brownie44l1/photo-classifier/internal/model"
	"github.com/Brownie44l1/photo-classifier/internal/preprocess"
)

func main() {
	var (
		configPath   string
		modelPath    string
		imagePath    string
		labelsPath   string
		metadataPath string
	)

	flag.StringVar(&configPath, "config", "", "Optional path to YAML config")
	flag.StringVar(&modelPath, "model", "", "Path to ONNX model file (overrides config)")
	flag.StringVar(&imagePath, "image", "", "Path to input image file")
	flag.StringVar(&labelsPath, "labels-file", "", "Optional labels file (one per line)")
	flag.StringVar(&metadataPath, "metadata", "", "Optional model_metadata.json (overrides config)")
	flag.Parse()

	if imagePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --image is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if metadataPath != "" {
		cfg.Model.MetadataPath = metadataPath
	}

	log := logger.New(cfg.Server.Debug)
	defer log.Sync() //nolint:errcheck

	res, err := classifyFile(context.Background(), cfg, imagePath, labelsPath, log)
	if err != nil {
		log.Fatal("classification failed", zap.Error(err))
	}

	fmt.Println(res.TopLabel)
	fmt.Print(res.Text)
}

func classifyFile(ctx context.Context, cfg *config.AppConfig, imagePath, labelsPath string, log *zap.Logger) (*classify.Result, error) {
	clsCfg := cfg.Classify()
	if cfg.Model.MetadataPath != "" {
		meta, err := model.LoadMetadata(cfg.Model.MetadataPath)
		if err != nil {
			return nil, err
		}
		if err := meta.Apply(&clsCfg); err != nil {
			return nil, errors.Wrapf(err, "metadata %s", cfg.Model.MetadataPath)
		}
	}
	if labelsPath != "" {
		labels, err := readLabels(labelsPath)
		if err != nil {
			return nil, err
		}
		clsCfg.Labels = labels
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", imagePath)
	}

	opts := model.OptionsFor(cfg.Model.Path, clsCfg)
	opts.SharedLibraryPath = cfg.Model.ORTLibrary
	opts.InputName = cfg.Model.InputName
	opts.OutputName = cfg.Model.OutputName
	runtime, err := model.NewRuntime(opts, log)
	if err != nil {
		return nil, err
	}
	defer runtime.Close() //nolint:errcheck

	prep, err := preprocess.New(cfg.PreprocessOptions())
	if err != nil {
		return nil, err
	}
	pipeline, err := classify.NewPipeline(clsCfg, runtime,
		classify.WithPreparer(prep),
		classify.WithReporter(cfg.Reporter()),
		classify.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return pipeline.Classify(ctx, img)
}

// readLabels loads a newline-delimited labels file, skipping blank lines.
func readLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, errors.New("labels file is empty")
	}
	return labels, nil
}
