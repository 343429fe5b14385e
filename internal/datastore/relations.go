// relations.go species relation graph operations
package datastore

import (
	"gorm.io/gorm"

	"github.com/wgamage/snakeid-go/internal/errors"
)

// AddRelation creates the directed edge (speciesID, relatedSpeciesID).
// Self loops are rejected before any lookup; both endpoints must exist and
// the ordered pair must be new. The composite primary key is the
// authoritative duplicate guard.
func (ds *DataStore) AddRelation(speciesID, relatedSpeciesID uint) error {
	if speciesID == relatedSpeciesID {
		return validationError(ErrSelfRelation, "add_relation",
			"species %d", speciesID)
	}

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := speciesExists(tx, speciesID); err != nil {
			return err
		}
		if err := speciesExists(tx, relatedSpeciesID); err != nil {
			return err
		}

		if err := relationExists(tx, speciesID, relatedSpeciesID); err != nil {
			return err
		}

		rel := SpeciesRelation{SpeciesID: speciesID, RelatedSpeciesID: relatedSpeciesID}
		if err := tx.Select("SpeciesID", "RelatedSpeciesID").Create(&rel).Error; err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				return conflictError(ErrDuplicateRelation, "add_relation",
					"(%d,%d)", speciesID, relatedSpeciesID)
			case errors.Is(err, gorm.ErrForeignKeyViolated):
				return notFoundError(ErrUnknownSpecies, "add_relation", relatedSpeciesID)
			default:
				return dbError(err, "add_relation",
					"species_id", speciesID, "related_species_id", relatedSpeciesID)
			}
		}
		return nil
	})
}

// RemoveRelation deletes the directed edge (speciesID, relatedSpeciesID).
func (ds *DataStore) RemoveRelation(speciesID, relatedSpeciesID uint) error {
	result := ds.DB.
		Where("species_id = ? AND related_species_id = ?", speciesID, relatedSpeciesID).
		Delete(&SpeciesRelation{})
	if result.Error != nil {
		return dbError(result.Error, "remove_relation",
			"species_id", speciesID, "related_species_id", relatedSpeciesID)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrRelationNotFound, "remove_relation",
			[2]uint{speciesID, relatedSpeciesID})
	}
	return nil
}

// RelatedOf returns the one-hop outgoing neighbors of the species, each
// resolved to its full record. Dangling edges cannot occur: endpoints are
// validated on insert and cascades remove edges with their species.
func (ds *DataStore) RelatedOf(speciesID uint) ([]Species, error) {
	var out []Species
	err := ds.DB.Model(&Species{}).
		Joins("JOIN species_relations ON species_relations.related_species_id = species.id").
		Where("species_relations.species_id = ?", speciesID).
		Order("species.id").
		Find(&out).Error
	if err != nil {
		return nil, dbError(err, "related_of", "species_id", speciesID)
	}
	return out, nil
}

// AllRelations returns every edge with both endpoint names resolved.
func (ds *DataStore) AllRelations() ([]RelationInfo, error) {
	var out []RelationInfo
	err := ds.DB.Table("species_relations").
		Select("species_relations.species_id, parent.english_name AS species_name, " +
			"species_relations.related_species_id, related.english_name AS related_species_name").
		Joins("JOIN species parent ON parent.id = species_relations.species_id").
		Joins("JOIN species related ON related.id = species_relations.related_species_id").
		Order("species_relations.species_id, species_relations.related_species_id").
		Scan(&out).Error
	if err != nil {
		return nil, dbError(err, "all_relations")
	}
	return out, nil
}

// BatchAddRelations processes pairs independently inside one transaction.
// Invalid pairs are recorded as per-item errors and skipped; pairs whose
// edge already exists (in the store or earlier in the same batch) count as
// skipped. Valid new pairs commit together. The call itself only fails on
// transaction-level breakage.
func (ds *DataStore) BatchAddRelations(pairs []RelationPair) (BatchResult, error) {
	var res BatchResult

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		seen := make(map[[2]uint]struct{}, len(pairs))

		for _, pair := range pairs {
			if pair.SpeciesID == 0 || pair.RelatedSpeciesID == 0 {
				res.Errors = append(res.Errors, BatchItemError{
					Pair:   pair,
					Reason: "both snakeid and relatedsnakeid are required",
					Err:    ErrUnknownSpecies,
				})
				continue
			}
			if pair.SpeciesID == pair.RelatedSpeciesID {
				res.Errors = append(res.Errors, BatchItemError{
					Pair:   pair,
					Reason: "a species cannot be related to itself",
					Err:    ErrSelfRelation,
				})
				continue
			}
			if err := speciesExists(tx, pair.SpeciesID); err != nil {
				res.Errors = append(res.Errors, BatchItemError{
					Pair:   pair,
					Reason: "main species not found",
					Err:    ErrUnknownSpecies,
				})
				continue
			}
			if err := speciesExists(tx, pair.RelatedSpeciesID); err != nil {
				res.Errors = append(res.Errors, BatchItemError{
					Pair:   pair,
					Reason: "related species not found",
					Err:    ErrUnknownSpecies,
				})
				continue
			}

			key := [2]uint{pair.SpeciesID, pair.RelatedSpeciesID}
			if _, dup := seen[key]; dup {
				res.Skipped++
				continue
			}
			if err := relationExists(tx, pair.SpeciesID, pair.RelatedSpeciesID); err != nil {
				if errors.Is(err, ErrDuplicateRelation) {
					res.Skipped++
					seen[key] = struct{}{}
					continue
				}
				return err
			}

			rel := SpeciesRelation{SpeciesID: pair.SpeciesID, RelatedSpeciesID: pair.RelatedSpeciesID}
			if err := tx.Select("SpeciesID", "RelatedSpeciesID").Create(&rel).Error; err != nil {
				return dbError(err, "batch_add_relations",
					"species_id", pair.SpeciesID, "related_species_id", pair.RelatedSpeciesID)
			}
			res.Added++
			seen[key] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}
	return res, nil
}

// relationExists fails with ErrDuplicateRelation when the ordered pair is
// already stored.
func relationExists(tx *gorm.DB, speciesID, relatedSpeciesID uint) error {
	var rel SpeciesRelation
	err := tx.Select("species_id").
		Where("species_id = ? AND related_species_id = ?", speciesID, relatedSpeciesID).
		First(&rel).Error
	switch {
	case err == nil:
		return conflictError(ErrDuplicateRelation, "check_relation",
			"(%d,%d)", speciesID, relatedSpeciesID)
	case isRecordNotFound(err):
		return nil
	default:
		return dbError(err, "check_relation",
			"species_id", speciesID, "related_species_id", relatedSpeciesID)
	}
}
