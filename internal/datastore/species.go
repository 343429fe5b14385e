// species.go species table operations
package datastore

import (
	"gorm.io/gorm"

	"github.com/wgamage/snakeid-go/internal/errors"
)

// CreateSpecies stores a new species. A non-null class label must be free;
// the unique index is the authoritative guard, the pre-check only produces
// a precise error before the insert is attempted.
func (ds *DataStore) CreateSpecies(sp *Species) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		if sp.ClassLabel != nil {
			if err := ensureClassLabelFree(tx, *sp.ClassLabel, 0); err != nil {
				return err
			}
		}
		if err := tx.Create(sp).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictError(ErrDuplicateClassLabel, "create_species",
					"label %q", derefLabel(sp.ClassLabel))
			}
			return dbError(err, "create_species", "english_name", sp.EnglishName)
		}
		return nil
	})
}

// CreateSpeciesWithRelation atomically stores a related species and the edge
// from its parent. The new record never carries a class label on this path.
// If the parent does not exist, nothing is persisted.
func (ds *DataStore) CreateSpeciesWithRelation(sp *Species, parentID uint) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := speciesExists(tx, parentID); err != nil {
			return err
		}

		sp.ClassLabel = nil
		if err := tx.Create(sp).Error; err != nil {
			return dbError(err, "create_related_species", "parent_id", parentID)
		}

		rel := SpeciesRelation{SpeciesID: parentID, RelatedSpeciesID: sp.ID}
		if err := tx.Select("SpeciesID", "RelatedSpeciesID").Create(&rel).Error; err != nil {
			return dbError(err, "create_related_species", "parent_id", parentID)
		}
		return nil
	})
}

// GetSpecies retrieves a species by its ID.
func (ds *DataStore) GetSpecies(id uint) (Species, error) {
	var sp Species
	if err := ds.DB.First(&sp, id).Error; err != nil {
		if isRecordNotFound(err) {
			return Species{}, notFoundError(ErrSpeciesNotFound, "get_species", id)
		}
		return Species{}, dbError(err, "get_species", "species_id", id)
	}
	return sp, nil
}

// ListSpecies returns all species ordered by primary key for stable
// iteration.
func (ds *DataStore) ListSpecies() ([]Species, error) {
	var out []Species
	if err := ds.DB.Order("id").Find(&out).Error; err != nil {
		return nil, dbError(err, "list_species")
	}
	return out, nil
}

// UpdateSpecies applies a partial update; only supplied fields change. Image
// bytes and MIME type replace together. A supplied empty class label clears
// it to null, a non-empty one must be free.
func (ds *DataStore) UpdateSpecies(id uint, upd SpeciesUpdate) (Species, error) {
	var updated Species
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		var sp Species
		if err := tx.First(&sp, id).Error; err != nil {
			if isRecordNotFound(err) {
				return notFoundError(ErrSpeciesNotFound, "update_species", id)
			}
			return dbError(err, "update_species", "species_id", id)
		}

		changes := make(map[string]any)
		if upd.EnglishName != nil {
			changes["english_name"] = *upd.EnglishName
		}
		if upd.SinhalaName != nil {
			changes["sinhala_name"] = *upd.SinhalaName
		}
		if upd.EnglishDescription != nil {
			changes["english_description"] = *upd.EnglishDescription
		}
		if upd.SinhalaDescription != nil {
			changes["sinhala_description"] = *upd.SinhalaDescription
		}
		if upd.Image != nil {
			changes["image"] = upd.Image.Data
			changes["image_type"] = upd.Image.MimeType
		}
		if upd.ClassLabel != nil {
			if *upd.ClassLabel == "" {
				changes["class_label"] = nil
			} else {
				if err := ensureClassLabelFree(tx, *upd.ClassLabel, id); err != nil {
					return err
				}
				changes["class_label"] = *upd.ClassLabel
			}
		}

		if len(changes) > 0 {
			if err := tx.Model(&sp).Updates(changes).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return conflictError(ErrDuplicateClassLabel, "update_species",
						"label %q", derefLabel(upd.ClassLabel))
				}
				return dbError(err, "update_species", "species_id", id)
			}
		}

		return tx.First(&updated, id).Error
	})
	if err != nil {
		return Species{}, err
	}
	return updated, nil
}

// DeleteSpecies removes a species and every relation edge referencing it as
// either endpoint.
func (ds *DataStore) DeleteSpecies(id uint) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := speciesExists(tx, id); err != nil {
			if errors.Is(err, ErrUnknownSpecies) {
				return notFoundError(ErrSpeciesNotFound, "delete_species", id)
			}
			return err
		}

		if err := tx.Where("species_id = ? OR related_species_id = ?", id, id).
			Delete(&SpeciesRelation{}).Error; err != nil {
			return dbError(err, "delete_species", "species_id", id)
		}
		if err := tx.Delete(&Species{}, id).Error; err != nil {
			return dbError(err, "delete_species", "species_id", id)
		}
		return nil
	})
}

// FindByClassLabel resolves the unique species holding the given label.
func (ds *DataStore) FindByClassLabel(label string) (Species, error) {
	var sp Species
	if err := ds.DB.Where("class_label = ?", label).First(&sp).Error; err != nil {
		if isRecordNotFound(err) {
			return Species{}, notFoundError(ErrSpeciesNotFound, "find_by_class_label", label)
		}
		return Species{}, dbError(err, "find_by_class_label", "class_label", label)
	}
	return sp, nil
}

// ensureClassLabelFree fails when another species already holds the label.
func ensureClassLabelFree(tx *gorm.DB, label string, excludeID uint) error {
	var existing Species
	err := tx.Select("id").
		Where("class_label = ? AND id <> ?", label, excludeID).
		First(&existing).Error
	switch {
	case err == nil:
		return conflictError(ErrDuplicateClassLabel, "check_class_label",
			"label %q held by species %d", label, existing.ID)
	case isRecordNotFound(err):
		return nil
	default:
		return dbError(err, "check_class_label", "class_label", label)
	}
}

// speciesExists fails with ErrUnknownSpecies when the id has no row.
func speciesExists(tx *gorm.DB, id uint) error {
	var sp Species
	err := tx.Select("id").First(&sp, id).Error
	switch {
	case err == nil:
		return nil
	case isRecordNotFound(err):
		return notFoundError(ErrUnknownSpecies, "species_exists", id)
	default:
		return dbError(err, "species_exists", "species_id", id)
	}
}

func derefLabel(label *string) string {
	if label == nil {
		return ""
	}
	return *label
}
