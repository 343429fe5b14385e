// Package identify ties the inference pipeline to the taxonomy store: a raw
// image goes in, a resolved species with its lookalikes comes out.
package identify

import (
	"fmt"
	"log/slog"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/datastore"
	"github.com/wgamage/snakeid-go/internal/errors"
	"github.com/wgamage/snakeid-go/internal/observability/metrics"
	"github.com/wgamage/snakeid-go/internal/snakenet"
)

// ErrUnclassifiedResult means the pipeline ran but its answer does not map
// to a curated species. It is distinct from pipeline failures, which pass
// through unchanged.
var ErrUnclassifiedResult = errors.NewStd("prediction maps to no curated species")

// Pipeline is the inference surface the service needs. *snakenet.SnakeNet
// satisfies it.
type Pipeline interface {
	IdentifyImage(data []byte) (snakenet.Prediction, error)
}

// Result is a fully resolved identification.
type Result struct {
	Prediction     snakenet.Prediction
	ClassLabel     string
	Species        datastore.Species
	RelatedSpecies []datastore.Species
}

// Service resolves pipeline predictions against the species taxonomy.
type Service struct {
	settings *conf.Settings
	pipeline Pipeline
	store    datastore.Interface
	metrics  *metrics.SnakeNetMetrics
	log      *slog.Logger
}

// New creates an identification service. The metrics argument may be nil
// when observability is disabled.
func New(settings *conf.Settings, pipeline Pipeline, store datastore.Interface, m *metrics.SnakeNetMetrics) *Service {
	return &Service{
		settings: settings,
		pipeline: pipeline,
		store:    store,
		metrics:  m,
		log:      slog.Default().With("service", "identify"),
	}
}

// Identify runs the pipeline over raw image bytes and resolves the winning
// class to its species record and one-hop lookalikes. Pipeline errors
// propagate unchanged; a prediction outside the configured classes or with
// no matching species record fails with ErrUnclassifiedResult.
func (s *Service) Identify(data []byte) (Result, error) {
	pred, err := s.pipeline.IdentifyImage(data)
	if err != nil {
		s.countError(pipelineErrorKind(err))
		return Result{}, err
	}

	labels := s.settings.SnakeNet.ClassLabels
	if pred.ClassIndex < 0 || pred.ClassIndex >= len(labels) {
		s.countError("unclassified")
		return Result{}, s.unclassified(pred, "class index %d outside %d configured classes",
			pred.ClassIndex, len(labels))
	}
	label := labels[pred.ClassIndex]

	sp, err := s.store.FindByClassLabel(label)
	if err != nil {
		if errors.Is(err, datastore.ErrSpeciesNotFound) {
			s.countError("unclassified")
			return Result{}, s.unclassified(pred, "no species curated for label %q", label)
		}
		s.countError("database")
		return Result{}, err
	}

	related, err := s.store.RelatedOf(sp.ID)
	if err != nil {
		s.countError("database")
		return Result{}, err
	}

	if s.metrics != nil {
		s.metrics.IdentificationTotal.WithLabelValues(label).Inc()
	}
	s.log.Info("image identified",
		"class_label", label, "species_id", sp.ID,
		"confidence", pred.Confidence, "related", len(related))

	return Result{
		Prediction:     pred,
		ClassLabel:     label,
		Species:        sp,
		RelatedSpecies: related,
	}, nil
}

func (s *Service) unclassified(pred snakenet.Prediction, format string, args ...any) error {
	return errors.New(fmt.Errorf("%w: %s", ErrUnclassifiedResult, fmt.Sprintf(format, args...))).
		Component("identify").
		Category(errors.CategoryNotFound).
		Context("class_index", pred.ClassIndex).
		Context("confidence", pred.Confidence).
		Build()
}

func (s *Service) countError(kind string) {
	if s.metrics != nil {
		s.metrics.IdentificationErrors.WithLabelValues(kind).Inc()
	}
}

func pipelineErrorKind(err error) string {
	switch {
	case errors.Is(err, snakenet.ErrModelNotReady):
		return "not_ready"
	case errors.Is(err, snakenet.ErrInvalidImage):
		return "invalid_image"
	default:
		return "inference"
	}
}
