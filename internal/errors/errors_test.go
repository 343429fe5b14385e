package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhancedErrorWrapsSentinel(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("species not found")
	ee := New(fmt.Errorf("%w: id 42", sentinel)).
		Component("datastore").
		Category(CategoryNotFound).
		Context("species_id", 42).
		Build()

	require.Error(t, ee)
	assert.True(t, Is(ee, sentinel), "errors.Is must see through the enhanced wrapper")
	assert.Equal(t, "datastore", ee.GetComponent())
	assert.Equal(t, string(CategoryNotFound), ee.GetCategory())
	assert.Equal(t, 42, ee.GetContext()["species_id"])
}

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	ee := Newf("stage %s failed", "reduce").Build()
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, string(CategoryGeneric), ee.GetCategory())
	assert.Nil(t, ee.GetContext())
}

func TestPriorityValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid critical", PriorityCritical, PriorityCritical},
		{"valid low", PriorityLow, PriorityLow},
		{"invalid falls back to medium", "urgent", PriorityMedium},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ee := Newf("boom").Priority(tt.in).Build()
			assert.Equal(t, tt.want, ee.Priority)
		})
	}
}

type captureReporter struct {
	got *EnhancedError
}

func (c *captureReporter) ReportError(ee *EnhancedError) { c.got = ee }

func TestReporterReceivesBuiltErrors(t *testing.T) {
	cap := &captureReporter{}
	SetReporter(cap)
	defer SetReporter(nil)

	ee := Newf("decode failed").Category(CategoryImageDecode).Build()
	require.NotNil(t, cap.got)
	assert.Same(t, ee, cap.got)
	assert.True(t, ee.IsReported())
}
