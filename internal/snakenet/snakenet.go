// snakenet.go SnakeNet model bundle specific code
package snakenet

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	tflite "github.com/tphakala/go-tflite"
	"github.com/tphakala/go-tflite/delegates/xnnpack"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/errors"
	"github.com/wgamage/snakeid-go/internal/logging"
	"github.com/wgamage/snakeid-go/internal/observability/metrics"
)

// Stage identifies one of the three model stages in the pipeline.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageReduce   Stage = "reduce"
	StageClassify Stage = "classify"
)

// Readiness is the tagged availability state of the model bundle.
type Readiness int

const (
	Ready Readiness = iota
	MissingExtractor
	MissingReducer
	MissingClassifier
)

// String returns a human-readable readiness state name.
func (r Readiness) String() string {
	switch r {
	case Ready:
		return "ready"
	case MissingExtractor:
		return "missing-extractor"
	case MissingReducer:
		return "missing-reducer"
	case MissingClassifier:
		return "missing-classifier"
	default:
		return "unknown"
	}
}

// SnakeNet holds the three TFLite interpreters of the identification model
// bundle. Stages are loaded once at startup; a stage that failed to load
// stays nil and the bundle reports itself as not ready.
type SnakeNet struct {
	Settings *conf.Settings

	mu         sync.Mutex // interpreters are not safe for concurrent Invoke
	extractor  *tflite.Interpreter
	reducer    *tflite.Interpreter
	classifier *tflite.Interpreter

	metrics *metrics.SnakeNetMetrics
}

// New initializes the model bundle from the configured artifact paths.
// A stage whose artifact cannot be loaded is logged and left unavailable;
// startup continues so curation keeps working without the models.
func New(settings *conf.Settings, m *metrics.SnakeNetMetrics) *SnakeNet {
	sn := &SnakeNet{
		Settings: settings,
		metrics:  m,
	}

	log := logging.ForService("snakenet")
	threads := sn.determineThreadCount(settings.SnakeNet.Threads)

	stages := []struct {
		stage Stage
		path  string
		dest  **tflite.Interpreter
	}{
		{StageExtract, settings.SnakeNet.ExtractorModelPath, &sn.extractor},
		{StageReduce, settings.SnakeNet.ReducerModelPath, &sn.reducer},
		{StageClassify, settings.SnakeNet.ClassifierModelPath, &sn.classifier},
	}

	for _, s := range stages {
		interp, err := sn.loadStage(s.stage, s.path, threads)
		if err != nil {
			log.Warn("Model stage unavailable",
				"stage", string(s.stage),
				"path", s.path,
				"error", err)
			sn.setLoadedGauge(s.stage, false)
			continue
		}
		*s.dest = interp
		sn.setLoadedGauge(s.stage, true)
		log.Info("Model stage initialized",
			"stage", string(s.stage),
			"threads", threads)
	}

	return sn
}

// loadStage reads a TFLite artifact from disk and builds its interpreter.
func (sn *SnakeNet) loadStage(stage Stage, modelPath string, threads int) (*tflite.Interpreter, error) {
	start := time.Now()

	data, err := sn.readModelFile(modelPath)
	if err != nil {
		return nil, errors.New(err).
			Component("snakenet").
			Category(errors.CategoryModelLoad).
			ModelContext(modelPath, string(stage)).
			Timing("model-load", time.Since(start)).
			Build()
	}

	model := tflite.NewModel(data)
	if model == nil {
		return nil, errors.Newf("cannot load TensorFlow Lite model").
			Component("snakenet").
			Category(errors.CategoryModelInit).
			ModelContext(modelPath, string(stage)).
			Context("model_size_kb", len(data)/1024).
			Build()
	}

	options := tflite.NewInterpreterOptions()
	log := logging.ForService("snakenet")
	if sn.Settings.SnakeNet.UseXNNPACK {
		delegate := xnnpack.New(xnnpack.DelegateOptions{NumThreads: int32(max(1, threads-1))}) //nolint:gosec // G115: thread count bounded by CPU count, safe conversion
		if delegate == nil {
			log.Warn("Failed to create XNNPACK delegate, falling back to default CPU")
			options.SetNumThread(threads)
		} else {
			options.AddDelegate(delegate)
			options.SetNumThread(1)
		}
	} else {
		options.SetNumThread(threads)
	}

	options.SetErrorReporter(func(msg string, user_data any) {
		logging.ForService("snakenet").Error("TFLite error", "message", msg)
	}, nil)

	interp := tflite.NewInterpreter(model, options)
	if interp == nil {
		return nil, errors.Newf("cannot create interpreter").
			Component("snakenet").
			Category(errors.CategoryModelInit).
			ModelContext(modelPath, string(stage)).
			Build()
	}
	if status := interp.AllocateTensors(); status != tflite.OK {
		interp.Delete()
		return nil, errors.Newf("tensor allocation failed: %v", status).
			Component("snakenet").
			Category(errors.CategoryModelInit).
			ModelContext(modelPath, string(stage)).
			Build()
	}

	// The model data is no longer needed, TFLite keeps its own copy
	runtime.GC()

	return interp, nil
}

// readModelFile loads a model artifact, expanding env vars and ~ in the path.
func (sn *SnakeNet) readModelFile(modelPath string) ([]byte, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("no model path configured")
	}

	modelPath = os.ExpandEnv(modelPath)
	if strings.HasPrefix(modelPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		modelPath = filepath.Join(homeDir, modelPath[2:])
	}

	return os.ReadFile(modelPath) //nolint:gosec // G304: modelPath is from application settings
}

// Readiness reports the bundle availability, checking stages in pipeline order.
func (sn *SnakeNet) Readiness() Readiness {
	switch {
	case sn.extractor == nil:
		return MissingExtractor
	case sn.reducer == nil:
		return MissingReducer
	case sn.classifier == nil:
		return MissingClassifier
	default:
		return Ready
	}
}

// determineThreadCount calculates the number of interpreter threads to use.
func (sn *SnakeNet) determineThreadCount(configuredThreads int) int {
	systemCpuCount := runtime.NumCPU()
	if configuredThreads <= 0 || configuredThreads > systemCpuCount {
		return systemCpuCount
	}
	return configuredThreads
}

func (sn *SnakeNet) setLoadedGauge(stage Stage, loaded bool) {
	if sn.metrics == nil {
		return
	}
	v := 0.0
	if loaded {
		v = 1.0
	}
	sn.metrics.ModelLoadedGauge.WithLabelValues(string(stage)).Set(v)
}

// Delete releases resources used by the TensorFlow Lite interpreters.
func (sn *SnakeNet) Delete() {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	for _, interp := range []*tflite.Interpreter{sn.extractor, sn.reducer, sn.classifier} {
		if interp != nil {
			interp.Delete()
		}
	}
	sn.extractor, sn.reducer, sn.classifier = nil, nil, nil
}

// Debug prints debug messages if debug mode is enabled.
func (sn *SnakeNet) Debug(format string, v ...any) {
	if sn.Settings.SnakeNet.Debug {
		logging.ForService("snakenet").Debug(fmt.Sprintf(format, v...))
	}
}
