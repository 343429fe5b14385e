// Package curation guards taxonomy mutations behind admin authorization and
// class label validation.
package curation

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/datastore"
	"github.com/wgamage/snakeid-go/internal/errors"
	"github.com/wgamage/snakeid-go/internal/observability/metrics"
)

// Failure kinds of the curation layer, on top of the store's own sentinels.
var (
	ErrForbidden         = errors.NewStd("operation requires an administrator")
	ErrInvalidClassLabel = errors.NewStd("class label is not a known model class")
	ErrMissingClassLabel = errors.NewStd("primary species requires a class label")
	ErrIncompleteImage   = errors.NewStd("image bytes and MIME type must be set together")
)

// Actor identifies who is performing a curation call.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// Service applies authorization and validation in front of the taxonomy
// store. Every mutation requires an admin actor; reads other than
// AllRelations are open.
type Service struct {
	settings *conf.Settings
	store    datastore.Interface
	metrics  *metrics.TaxonomyMetrics
	log      *slog.Logger
}

// New creates a curation service. The metrics argument may be nil when
// observability is disabled.
func New(settings *conf.Settings, store datastore.Interface, m *metrics.TaxonomyMetrics) *Service {
	return &Service{
		settings: settings,
		store:    store,
		metrics:  m,
		log:      slog.Default().With("service", "curation"),
	}
}

// SetLogger overrides the service logger.
func (s *Service) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// AddPrimarySpecies stores a species that the model can identify. The class
// label is mandatory on this path and must name a configured model class.
func (s *Service) AddPrimarySpecies(actor Actor, sp *datastore.Species) error {
	defer s.observe("add_primary_species", time.Now())

	if err := s.requireAdmin(actor, "add_primary_species"); err != nil {
		return s.fail("add_primary_species", err)
	}
	if sp.ClassLabel == nil || *sp.ClassLabel == "" {
		return s.fail("add_primary_species", validationError(ErrMissingClassLabel,
			"add_primary_species", "species %q", sp.EnglishName))
	}
	if err := s.validateClassLabel(*sp.ClassLabel, "add_primary_species"); err != nil {
		return s.fail("add_primary_species", err)
	}
	if err := validateImagePairing(sp, "add_primary_species"); err != nil {
		return s.fail("add_primary_species", err)
	}
	if err := s.store.CreateSpecies(sp); err != nil {
		return s.fail("add_primary_species", err)
	}

	s.log.Info("primary species added",
		"species_id", sp.ID, "class_label", *sp.ClassLabel, "user_id", actor.UserID)
	return nil
}

// AddRelatedSpecies atomically stores a lookalike species together with the
// edge from its parent. Related species never carry a class label.
func (s *Service) AddRelatedSpecies(actor Actor, sp *datastore.Species, parentID uint) error {
	defer s.observe("add_related_species", time.Now())

	if err := s.requireAdmin(actor, "add_related_species"); err != nil {
		return s.fail("add_related_species", err)
	}
	if err := validateImagePairing(sp, "add_related_species"); err != nil {
		return s.fail("add_related_species", err)
	}
	if err := s.store.CreateSpeciesWithRelation(sp, parentID); err != nil {
		return s.fail("add_related_species", err)
	}

	s.log.Info("related species added",
		"species_id", sp.ID, "parent_id", parentID, "user_id", actor.UserID)
	return nil
}

// AddRelation creates a directed lookalike edge between two existing species.
func (s *Service) AddRelation(actor Actor, speciesID, relatedSpeciesID uint) error {
	defer s.observe("add_relation", time.Now())

	if err := s.requireAdmin(actor, "add_relation"); err != nil {
		return s.fail("add_relation", err)
	}
	if err := s.store.AddRelation(speciesID, relatedSpeciesID); err != nil {
		return s.fail("add_relation", err)
	}

	s.log.Info("relation added",
		"species_id", speciesID, "related_species_id", relatedSpeciesID, "user_id", actor.UserID)
	return nil
}

// RemoveRelation deletes a directed edge. Neither endpoint species is touched.
func (s *Service) RemoveRelation(actor Actor, speciesID, relatedSpeciesID uint) error {
	defer s.observe("remove_relation", time.Now())

	if err := s.requireAdmin(actor, "remove_relation"); err != nil {
		return s.fail("remove_relation", err)
	}
	if err := s.store.RemoveRelation(speciesID, relatedSpeciesID); err != nil {
		return s.fail("remove_relation", err)
	}

	s.log.Info("relation removed",
		"species_id", speciesID, "related_species_id", relatedSpeciesID, "user_id", actor.UserID)
	return nil
}

// BatchAddRelations imports relation pairs in one transaction, reporting
// per-item outcomes.
func (s *Service) BatchAddRelations(actor Actor, pairs []datastore.RelationPair) (datastore.BatchResult, error) {
	defer s.observe("batch_add_relations", time.Now())

	if err := s.requireAdmin(actor, "batch_add_relations"); err != nil {
		return datastore.BatchResult{}, s.fail("batch_add_relations", err)
	}
	res, err := s.store.BatchAddRelations(pairs)
	if err != nil {
		return datastore.BatchResult{}, s.fail("batch_add_relations", err)
	}

	s.log.Info("relation batch imported",
		"added", res.Added, "skipped", res.Skipped, "errors", len(res.Errors),
		"user_id", actor.UserID)
	return res, nil
}

// UpdateSpecies applies a partial update. A supplied non-empty class label
// must name a configured model class; an empty one clears the label.
func (s *Service) UpdateSpecies(actor Actor, id uint, upd datastore.SpeciesUpdate) (datastore.Species, error) {
	defer s.observe("update_species", time.Now())

	if err := s.requireAdmin(actor, "update_species"); err != nil {
		return datastore.Species{}, s.fail("update_species", err)
	}
	if upd.ClassLabel != nil && *upd.ClassLabel != "" {
		if err := s.validateClassLabel(*upd.ClassLabel, "update_species"); err != nil {
			return datastore.Species{}, s.fail("update_species", err)
		}
	}
	sp, err := s.store.UpdateSpecies(id, upd)
	if err != nil {
		return datastore.Species{}, s.fail("update_species", err)
	}

	s.log.Info("species updated", "species_id", id, "user_id", actor.UserID)
	return sp, nil
}

// DeleteSpecies removes a species and cascades its relation edges.
func (s *Service) DeleteSpecies(actor Actor, id uint) error {
	defer s.observe("delete_species", time.Now())

	if err := s.requireAdmin(actor, "delete_species"); err != nil {
		return s.fail("delete_species", err)
	}
	if err := s.store.DeleteSpecies(id); err != nil {
		return s.fail("delete_species", err)
	}

	s.log.Info("species deleted", "species_id", id, "user_id", actor.UserID)
	return nil
}

// GetSpecies is an open read.
func (s *Service) GetSpecies(id uint) (datastore.Species, error) {
	return s.store.GetSpecies(id)
}

// ListSpecies is an open read returning all species ordered by id.
func (s *Service) ListSpecies() ([]datastore.Species, error) {
	return s.store.ListSpecies()
}

// RelatedOf is an open read returning the one-hop lookalikes of a species.
func (s *Service) RelatedOf(id uint) ([]datastore.Species, error) {
	return s.store.RelatedOf(id)
}

// AllRelations dumps the full edge list with endpoint names. The dump is a
// curation surface, so it stays admin-only.
func (s *Service) AllRelations(actor Actor) ([]datastore.RelationInfo, error) {
	if err := s.requireAdmin(actor, "all_relations"); err != nil {
		return nil, err
	}
	return s.store.AllRelations()
}

func (s *Service) requireAdmin(actor Actor, operation string) error {
	if actor.IsAdmin {
		return nil
	}
	return errors.New(fmt.Errorf("%w: user %d", ErrForbidden, actor.UserID)).
		Component("curation").
		Category(errors.CategoryForbidden).
		Context("operation", operation).
		Context("user_id", actor.UserID).
		Build()
}

// validateImagePairing rejects a species whose image bytes and MIME type are
// not set together.
func validateImagePairing(sp *datastore.Species, operation string) error {
	if (len(sp.Image) > 0) != (sp.ImageType != "") {
		return validationError(ErrIncompleteImage, operation, "species %q", sp.EnglishName)
	}
	return nil
}

// validateClassLabel checks the label against the configured model classes.
func (s *Service) validateClassLabel(label, operation string) error {
	if slices.Contains(s.settings.SnakeNet.ClassLabels, label) {
		return nil
	}
	return validationError(ErrInvalidClassLabel, operation, "label %q", label)
}

func validationError(sentinel error, operation, format string, args ...any) error {
	return errors.New(fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))).
		Component("curation").
		Category(errors.CategoryValidation).
		Context("operation", operation).
		Build()
}

// observe records the operation count and duration when metrics are enabled.
func (s *Service) observe(operation string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.MutationTotal.WithLabelValues(operation).Inc()
	s.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// fail tags the failure kind on the error counter and passes the error
// through unchanged.
func (s *Service) fail(operation string, err error) error {
	if s.metrics != nil {
		s.metrics.MutationErrors.WithLabelValues(operation, errorKind(err)).Inc()
	}
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidClassLabel), errors.Is(err, ErrMissingClassLabel):
		return "invalid_label"
	case errors.Is(err, ErrIncompleteImage):
		return "incomplete_image"
	case errors.Is(err, datastore.ErrDuplicateClassLabel):
		return "duplicate_label"
	case errors.Is(err, datastore.ErrDuplicateRelation):
		return "duplicate_relation"
	case errors.Is(err, datastore.ErrSelfRelation):
		return "self_relation"
	case errors.Is(err, datastore.ErrUnknownSpecies),
		errors.Is(err, datastore.ErrSpeciesNotFound),
		errors.Is(err, datastore.ErrRelationNotFound):
		return "not_found"
	default:
		return "database"
	}
}
