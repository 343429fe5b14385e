package snakenet

import (
	"fmt"
	"time"

	tflite "github.com/tphakala/go-tflite"

	"github.com/wgamage/snakeid-go/internal/errors"
)

// Failure kinds of the inference pipeline. Callers distinguish them with
// errors.Is, never by matching message text.
var (
	ErrModelNotReady = errors.NewStd("model bundle not ready")
	ErrInvalidImage  = errors.NewStd("invalid image")
	ErrInference     = errors.NewStd("inference failed")
)

// Prediction is the outcome of one identification pass.
type Prediction struct {
	ClassIndex int
	Confidence float32
}

// wrapSentinel attaches detail to a sentinel so errors.Is keeps working.
func wrapSentinel(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// IdentifyImage runs the full pipeline over raw image bytes: decode and
// normalize, then extract, reduce and classify in strict sequence. It returns
// the argmax class index and its score. Stage failures are not retried.
func (sn *SnakeNet) IdentifyImage(data []byte) (Prediction, error) {
	start := time.Now()

	if state := sn.Readiness(); state != Ready {
		return Prediction{}, errors.New(wrapSentinel(ErrModelNotReady, "bundle state %s", state)).
			Component("snakenet").
			Category(errors.CategoryInference).
			Context("readiness", state.String()).
			Build()
	}

	tensor, err := DecodeToTensor(data, sn.Settings.SnakeNet.ImageSize)
	if err != nil {
		return Prediction{}, err
	}

	// Interpreters are stateful, one inference at a time.
	sn.mu.Lock()
	defer sn.mu.Unlock()

	features, err := sn.invokeStage(sn.extractor, StageExtract, tensor)
	if err != nil {
		return Prediction{}, err
	}

	reduced, err := sn.invokeStage(sn.reducer, StageReduce, features)
	if err != nil {
		return Prediction{}, err
	}

	scores, err := sn.invokeStage(sn.classifier, StageClassify, reduced)
	if err != nil {
		return Prediction{}, err
	}

	if len(scores) == 0 {
		return Prediction{}, errors.New(wrapSentinel(ErrInference, "classifier produced no scores")).
			Component("snakenet").
			Category(errors.CategoryInference).
			Context("stage", string(StageClassify)).
			Build()
	}

	idx, confidence := Argmax(scores)
	sn.Debug("identified class %d with confidence %.4f in %v", idx, confidence, time.Since(start))
	if sn.metrics != nil {
		sn.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}

	return Prediction{ClassIndex: idx, Confidence: confidence}, nil
}

// invokeStage feeds the input vector to the stage interpreter and returns a
// copy of the output vector. A shape mismatch or invoke failure is terminal
// and carries the offending stage for diagnostics.
func (sn *SnakeNet) invokeStage(interp *tflite.Interpreter, stage Stage, input []float32) ([]float32, error) {
	start := time.Now()

	inputTensor := interp.GetInputTensor(0)
	if inputTensor == nil {
		return nil, sn.stageError(stage, "cannot get input tensor")
	}

	in := inputTensor.Float32s()
	if len(in) != len(input) {
		return nil, sn.stageError(stage, "input shape mismatch: stage expects %d values, got %d", len(in), len(input))
	}
	copy(in, input)

	if status := interp.Invoke(); status != tflite.OK {
		return nil, sn.stageError(stage, "tensor invoke failed: %v", status)
	}

	outputTensor := interp.GetOutputTensor(0)
	if outputTensor == nil {
		return nil, sn.stageError(stage, "cannot get output tensor")
	}

	out := outputTensor.Float32s()
	result := make([]float32, len(out))
	copy(result, out)

	if sn.metrics != nil {
		sn.metrics.StageInvokeDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
	}

	return result, nil
}

func (sn *SnakeNet) stageError(stage Stage, format string, args ...any) error {
	return errors.New(wrapSentinel(ErrInference, "%s stage: %s", stage, fmt.Sprintf(format, args...))).
		Component("snakenet").
		Category(errors.CategoryInference).
		Context("stage", string(stage)).
		Build()
}

// Argmax returns the index and value of the maximum score. Ties resolve to
// the lowest index. An empty slice returns index -1 with zero score.
func Argmax(scores []float32) (int, float32) {
	if len(scores) == 0 {
		return -1, 0
	}
	best := 0
	bestScore := scores[0]
	for i, s := range scores[1:] {
		if s > bestScore {
			best = i + 1
			bestScore = s
		}
	}
	return best, bestScore
}
