package model

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/Brownie44l1/photo-classifier/internal/classify"
)

// Options locates the model and names its input and output tensors.
type Options struct {
	ModelPath string
	// SharedLibraryPath points at the onnxruntime library. If empty,
	// ONNXRUNTIME_SHARED_LIBRARY_PATH is used, then the loader default.
	SharedLibraryPath string
	InputName         string
	OutputName        string
	InputShape        []int64
	OutputShape       []int64
}

// OptionsFor fills tensor shapes from a classify.Config.
func OptionsFor(modelPath string, cfg classify.Config) Options {
	return Options{
		ModelPath:   modelPath,
		InputName:   "input",
		OutputName:  "output",
		InputShape:  cfg.InputShape(),
		OutputShape: cfg.OutputShape(),
	}
}

// The onnxruntime environment is process-wide. It is created by the first
// live Runtime and destroyed when the last one is closed.
var (
	envMu      sync.Mutex
	envRefs    int
	initEnv    = ort.InitializeEnvironment
	destroyEnv = ort.DestroyEnvironment
	setLibrary = ort.SetSharedLibraryPath
)

func acquireEnv(libraryPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		if libraryPath != "" {
			setLibrary(libraryPath)
		}
		if err := initEnv(); err != nil {
			return errors.Wrap(err, "failed to initialize ONNX environment")
		}
	}
	envRefs++
	return nil
}

func releaseEnv() error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		return nil
	}
	envRefs--
	if envRefs > 0 {
		return nil
	}
	return destroyEnv()
}

// Runtime implements classify.Engine on top of onnxruntime. Sessions are not
// shared: every Infer checks one out and releases it. Several Runtimes may
// coexist; the shared library path of the first one wins.
type Runtime struct {
	opts   Options
	logger *zap.Logger
	once   sync.Once
}

// NewRuntime takes a reference on the onnxruntime environment. Call Close
// when done.
func NewRuntime(opts Options, logger *zap.Logger) (*Runtime, error) {
	if opts.ModelPath == "" {
		return nil, errors.New("model path is required")
	}
	if opts.InputName == "" || opts.OutputName == "" {
		return nil, errors.New("input and output names must be provided")
	}
	if len(opts.InputShape) == 0 || len(opts.OutputShape) == 0 {
		return nil, errors.New("input and output shapes must be provided")
	}
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, errors.Wrap(err, "model file")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	lib := opts.SharedLibraryPath
	if lib == "" {
		lib = os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")
	}
	if err := acquireEnv(lib); err != nil {
		return nil, err
	}

	logger.Info("onnxruntime ready",
		zap.String("model", opts.ModelPath),
		zap.Int64s("input_shape", opts.InputShape),
		zap.Int64s("output_shape", opts.OutputShape))

	return &Runtime{opts: opts, logger: logger}, nil
}

// session is one checked-out model instance with its bound tensors.
type session struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func (r *Runtime) checkout() (*session, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(r.opts.InputShape...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input tensor")
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(r.opts.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "failed to create output tensor")
	}

	s, err := ort.NewAdvancedSession(r.opts.ModelPath,
		[]string{r.opts.InputName}, []string{r.opts.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		outputTensor.Destroy()
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "failed to create ONNX session")
	}

	return &session{
		session:      s,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

func (s *session) release() {
	if s.session != nil {
		s.session.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
}

// Infer runs the model once over tensor and returns a copy of the output.
func (r *Runtime) Infer(ctx context.Context, tensor []float32) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := r.checkout()
	if err != nil {
		return nil, err
	}
	defer sess.release()

	in := sess.inputTensor.GetData()
	if len(tensor) != len(in) {
		return nil, errors.Wrapf(classify.ErrInvalidArgument,
			"model expects %d input values, got %d", len(in), len(tensor))
	}
	copy(in, tensor)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sess.session.Run(); err != nil {
		return nil, errors.Wrap(err, "session run")
	}

	out := sess.outputTensor.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

// Close drops this Runtime's reference on the environment. It is safe to
// call more than once.
func (r *Runtime) Close() error {
	var err error
	r.once.Do(func() { err = releaseEnv() })
	return err
}
