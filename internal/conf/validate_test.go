package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	s := &Settings{}
	s.SnakeNet.ImageSize = 224
	s.SnakeNet.ClassLabels = []string{"0", "1", "2", "3", "4"}
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "snakeid.db"
	return s
}

func TestValidateSettingsAcceptsDefaults(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSnakeNetSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{
			name:    "zero image size",
			mutate:  func(s *Settings) { s.SnakeNet.ImageSize = 0 },
			wantErr: "imagesize",
		},
		{
			name:    "negative threads",
			mutate:  func(s *Settings) { s.SnakeNet.Threads = -1 },
			wantErr: "threads",
		},
		{
			name:    "empty label set",
			mutate:  func(s *Settings) { s.SnakeNet.ClassLabels = nil },
			wantErr: "classlabels",
		},
		{
			name:    "duplicate label",
			mutate:  func(s *Settings) { s.SnakeNet.ClassLabels = []string{"0", "1", "0"} },
			wantErr: "duplicate",
		},
		{
			name:    "empty label",
			mutate:  func(s *Settings) { s.SnakeNet.ClassLabels = []string{"0", ""} },
			wantErr: "empty",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOutputSettings(t *testing.T) {
	t.Parallel()

	t.Run("both databases enabled", func(t *testing.T) {
		t.Parallel()
		s := validSettings()
		s.Output.MySQL.Enabled = true
		s.Output.MySQL.Host = "localhost"
		s.Output.MySQL.Port = "3306"
		s.Output.MySQL.Database = "snake_research"
		assert.Error(t, ValidateSettings(s))
	})

	t.Run("no database enabled", func(t *testing.T) {
		t.Parallel()
		s := validSettings()
		s.Output.SQLite.Enabled = false
		assert.Error(t, ValidateSettings(s))
	})

	t.Run("mysql missing database name", func(t *testing.T) {
		t.Parallel()
		s := validSettings()
		s.Output.SQLite.Enabled = false
		s.Output.MySQL.Enabled = true
		s.Output.MySQL.Host = "localhost"
		s.Output.MySQL.Port = "3306"
		assert.Error(t, ValidateSettings(s))
	})
}
