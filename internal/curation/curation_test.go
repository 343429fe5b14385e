package curation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/datastore"
	"github.com/wgamage/snakeid-go/internal/errors"
)

var (
	admin  = Actor{UserID: 1, IsAdmin: true}
	viewer = Actor{UserID: 2, IsAdmin: false}
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	settings := &conf.Settings{}
	settings.SnakeNet.ClassLabels = []string{"0", "1", "2", "3", "4"}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "curation-test.db")

	store := &datastore.SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		_ = store.Close()
	})

	return New(settings, store, nil)
}

func strPtr(s string) *string { return &s }

func addPrimary(t *testing.T, svc *Service, name, label string) uint {
	t.Helper()
	sp := &datastore.Species{EnglishName: name, ClassLabel: strPtr(label)}
	require.NoError(t, svc.AddPrimarySpecies(admin, sp))
	return sp.ID
}

func TestAddPrimarySpeciesRequiresAdmin(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	err := svc.AddPrimarySpecies(viewer, &datastore.Species{
		EnglishName: "Indian Cobra",
		ClassLabel:  strPtr("0"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))

	all, err := svc.ListSpecies()
	require.NoError(t, err)
	assert.Empty(t, all, "a forbidden call must not persist anything")
}

func TestAddPrimarySpeciesRequiresLabel(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	err := svc.AddPrimarySpecies(admin, &datastore.Species{EnglishName: "Unlabeled"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingClassLabel))
}

func TestAddPrimarySpeciesRejectsUnknownLabel(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	err := svc.AddPrimarySpecies(admin, &datastore.Species{
		EnglishName: "Out Of Range",
		ClassLabel:  strPtr("17"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidClassLabel))
}

func TestAddPrimarySpeciesRejectsHalfSetImage(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	// Image bytes without a MIME type.
	err := svc.AddPrimarySpecies(admin, &datastore.Species{
		EnglishName: "Half Image",
		ClassLabel:  strPtr("0"),
		Image:       []byte{0x01, 0x02},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteImage))

	// MIME type without image bytes.
	err = svc.AddPrimarySpecies(admin, &datastore.Species{
		EnglishName: "Phantom Image",
		ClassLabel:  strPtr("0"),
		ImageType:   "image/png",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteImage))

	all, err := svc.ListSpecies()
	require.NoError(t, err)
	assert.Empty(t, all, "half-set images must not persist")

	// Both together is fine.
	require.NoError(t, svc.AddPrimarySpecies(admin, &datastore.Species{
		EnglishName: "Full Image",
		ClassLabel:  strPtr("0"),
		Image:       []byte{0x01, 0x02},
		ImageType:   "image/png",
	}))
}

func TestAddRelatedSpeciesRejectsHalfSetImage(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	parent := addPrimary(t, svc, "Common Krait", "1")

	err := svc.AddRelatedSpecies(admin, &datastore.Species{
		EnglishName: "Half Image",
		Image:       []byte{0x01, 0x02},
	}, parent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteImage))

	related, err := svc.RelatedOf(parent)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestAddPrimarySpeciesPropagatesDuplicateLabel(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	addPrimary(t, svc, "Indian Cobra", "0")

	err := svc.AddPrimarySpecies(admin, &datastore.Species{
		EnglishName: "Impostor",
		ClassLabel:  strPtr("0"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, datastore.ErrDuplicateClassLabel))
}

func TestAddRelatedSpecies(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	parent := addPrimary(t, svc, "Common Krait", "1")

	child := &datastore.Species{EnglishName: "Wolf Snake"}
	require.NoError(t, svc.AddRelatedSpecies(admin, child, parent))

	related, err := svc.RelatedOf(parent)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "Wolf Snake", related[0].EnglishName)
	assert.Nil(t, related[0].ClassLabel)
}

func TestAddRelatedSpeciesUnknownParent(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	err := svc.AddRelatedSpecies(admin, &datastore.Species{EnglishName: "Orphan"}, 777)
	require.Error(t, err)
	assert.True(t, errors.Is(err, datastore.ErrUnknownSpecies))

	all, err := svc.ListSpecies()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRelationMutationsRequireAdmin(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	a := addPrimary(t, svc, "A", "0")
	b := addPrimary(t, svc, "B", "1")

	assert.True(t, errors.Is(svc.AddRelation(viewer, a, b), ErrForbidden))
	assert.True(t, errors.Is(svc.RemoveRelation(viewer, a, b), ErrForbidden))
	assert.True(t, errors.Is(svc.DeleteSpecies(viewer, a), ErrForbidden))

	_, err := svc.BatchAddRelations(viewer, []datastore.RelationPair{
		{SpeciesID: a, RelatedSpeciesID: b},
	})
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = svc.AllRelations(viewer)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestUpdateSpeciesValidatesLabel(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	id := addPrimary(t, svc, "Russell's Viper", "3")

	_, err := svc.UpdateSpecies(admin, id, datastore.SpeciesUpdate{ClassLabel: strPtr("99")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidClassLabel))

	// Clearing the label bypasses enum validation.
	sp, err := svc.UpdateSpecies(admin, id, datastore.SpeciesUpdate{ClassLabel: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, sp.ClassLabel)
}

func TestBatchAddRelationsReportsOutcome(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	a := addPrimary(t, svc, "A", "0")
	b := addPrimary(t, svc, "B", "1")

	res, err := svc.BatchAddRelations(admin, []datastore.RelationPair{
		{SpeciesID: a, RelatedSpeciesID: b},
		{SpeciesID: a, RelatedSpeciesID: b},
		{SpeciesID: a, RelatedSpeciesID: a},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.Is(res.Errors[0].Err, datastore.ErrSelfRelation))
}

func TestAllRelationsForAdmin(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	a := addPrimary(t, svc, "Indian Cobra", "0")
	b := addPrimary(t, svc, "Rat Snake", "4")
	require.NoError(t, svc.AddRelation(admin, a, b))

	infos, err := svc.AllRelations(admin)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Indian Cobra", infos[0].SpeciesName)
	assert.Equal(t, "Rat Snake", infos[0].RelatedSpeciesName)
}
