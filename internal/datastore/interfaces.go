// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/errors"
)

// Failure kinds of the taxonomy store. Callers distinguish them with
// errors.Is, never by matching message text.
var (
	ErrSpeciesNotFound     = errors.NewStd("species not found")
	ErrRelationNotFound    = errors.NewStd("relation not found")
	ErrDuplicateClassLabel = errors.NewStd("class label already assigned")
	ErrUnknownSpecies      = errors.NewStd("unknown species")
	ErrSelfRelation        = errors.NewStd("species cannot relate to itself")
	ErrDuplicateRelation   = errors.NewStd("relation already exists")
)

// Interface abstracts the underlying database implementation and defines the
// contract for taxonomy operations.
type Interface interface {
	Open() error
	Close() error

	// Species
	CreateSpecies(sp *Species) error
	CreateSpeciesWithRelation(sp *Species, parentID uint) error
	GetSpecies(id uint) (Species, error)
	ListSpecies() ([]Species, error)
	UpdateSpecies(id uint, upd SpeciesUpdate) (Species, error)
	DeleteSpecies(id uint) error
	FindByClassLabel(label string) (Species, error)

	// Relations
	AddRelation(speciesID, relatedSpeciesID uint) error
	RemoveRelation(speciesID, relatedSpeciesID uint) error
	RelatedOf(speciesID uint) ([]Species, error)
	AllRelations() ([]RelationInfo, error)
	BatchAddRelations(pairs []RelationPair) (BatchResult, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB  *gorm.DB
	log *slog.Logger
}

// New creates a store instance based on the configured output database.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return nil
	}
}
