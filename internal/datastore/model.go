// model.go this code defines the data model for the application
package datastore

// Species represents one curated taxonomy entry. A species with a non-null
// ClassLabel is a primary species, directly reachable from classifier output.
// A species with a null ClassLabel exists only as a node in the relation
// graph ("related" species).
type Species struct {
	ID                 uint    `gorm:"primaryKey"`
	EnglishName        string  `gorm:"size:255;not null"`
	SinhalaName        string  `gorm:"size:255"`
	EnglishDescription string  `gorm:"type:text"`
	SinhalaDescription string  `gorm:"type:text"`
	Image              []byte  `gorm:"type:blob"` // image payload, owned by the record
	ImageType          string  `gorm:"size:100"`  // MIME type, set iff Image is set
	ClassLabel         *string `gorm:"size:100;uniqueIndex"`
}

// IsPrimary reports whether the species is a direct classifier target.
func (s *Species) IsPrimary() bool {
	return s.ClassLabel != nil
}

// HasImage reports whether the species carries an image payload.
func (s *Species) HasImage() bool {
	return len(s.Image) > 0
}

// SpeciesRelation is a directed edge in the species relation graph. The
// ordered pair is the primary key; the graph is not symmetric by
// construction.
type SpeciesRelation struct {
	SpeciesID        uint `gorm:"primaryKey;autoIncrement:false"`
	RelatedSpeciesID uint `gorm:"primaryKey;autoIncrement:false"`

	Species        Species `gorm:"foreignKey:SpeciesID;references:ID;constraint:OnDelete:CASCADE"`
	RelatedSpecies Species `gorm:"foreignKey:RelatedSpeciesID;references:ID;constraint:OnDelete:CASCADE"`
}

// RelationPair is the external shape of one relation edge, matching the
// import file format.
type RelationPair struct {
	SpeciesID        uint `yaml:"snakeid" json:"snakeid"`
	RelatedSpeciesID uint `yaml:"relatedsnakeid" json:"relatedsnakeid"`
}

// RelationInfo is one edge with both endpoint names resolved, for admin
// listings.
type RelationInfo struct {
	SpeciesID          uint
	SpeciesName        string
	RelatedSpeciesID   uint
	RelatedSpeciesName string
}

// ImagePayload carries a replacement image; bytes and MIME type always
// travel together.
type ImagePayload struct {
	Data     []byte
	MimeType string
}

// SpeciesUpdate is a partial species mutation; nil fields are left
// unchanged. A non-nil empty ClassLabel clears the label to null.
type SpeciesUpdate struct {
	EnglishName        *string
	SinhalaName        *string
	EnglishDescription *string
	SinhalaDescription *string
	Image              *ImagePayload
	ClassLabel         *string
}

// BatchItemError records why a single pair in a batch import was rejected.
type BatchItemError struct {
	Pair   RelationPair
	Reason string
	Err    error
}

// BatchResult summarizes a batch relation import.
type BatchResult struct {
	Added   int
	Skipped int
	Errors  []BatchItemError
}
