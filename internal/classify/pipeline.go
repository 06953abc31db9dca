package classify

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Engine runs a pre-trained model over one encoded tensor and returns the
// confidence vector, aligned with the configured labels.
type Engine interface {
	Infer(ctx context.Context, tensor []float32) ([]float32, error)
}

// Preparer brings an arbitrary image to exactly n×n pixels.
type Preparer interface {
	Prepare(img image.Image, n int) (image.Image, error)
}

// Pipeline wires prepare, encode, infer and report for one model.
type Pipeline struct {
	cfg      Config
	engine   Engine
	prep     Preparer
	reporter Reporter
	logger   *zap.Logger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithPreparer sets the step that squares and scales incoming images.
// Without one, Classify only accepts images that are already N×N.
func WithPreparer(p Preparer) Option {
	return func(pl *Pipeline) { pl.prep = p }
}

// WithReporter overrides DefaultReporter.
func WithReporter(r Reporter) Option {
	return func(pl *Pipeline) { pl.reporter = r }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(pl *Pipeline) { pl.logger = l }
}

// NewPipeline validates cfg and returns a ready Pipeline.
func NewPipeline(cfg Config, engine Engine, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, invalidf("engine is required")
	}
	p := &Pipeline{
		cfg:      cfg,
		engine:   engine,
		reporter: DefaultReporter,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Config returns the pipeline's geometry and labels.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Classify prepares, encodes and classifies img.
func (p *Pipeline) Classify(ctx context.Context, img image.Image) (*Result, error) {
	n := p.cfg.ImageSize
	if p.prep != nil {
		b := img.Bounds()
		prepared, err := p.prep.Prepare(img, n)
		if err != nil {
			return nil, errors.Wrap(err, "prepare image")
		}
		p.logger.Debug("image prepared",
			zap.Int("src_width", b.Dx()),
			zap.Int("src_height", b.Dy()),
			zap.Int("size", n))
		img = prepared
	}

	tensor, err := EncodeImage(img, n)
	if err != nil {
		return nil, err
	}
	return p.ClassifyTensor(ctx, tensor)
}

// ClassifyTensor classifies an already encoded [1, N, N, 3] tensor.
func (p *Pipeline) ClassifyTensor(ctx context.Context, tensor []float32) (*Result, error) {
	if want := p.cfg.TensorSize(); len(tensor) != want {
		return nil, invalidf("expected %d values, got %d", want, len(tensor))
	}

	scores, err := p.engine.Infer(ctx, tensor)
	if err != nil {
		return nil, errors.Wrap(err, "inference failed")
	}
	p.logger.Debug("inference done", zap.Int("scores", len(scores)))

	res, err := p.reporter.Report(scores, p.cfg.Labels)
	if err != nil {
		return nil, err
	}
	p.logger.Info("classified",
		zap.String("label", res.TopLabel),
		zap.Float32("confidence", res.Confidence))
	return &res, nil
}
