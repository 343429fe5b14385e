// config.go: settings struct and functions to load and save application settings.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// SnakeNetSettings contains settings for the identification model bundle.
type SnakeNetSettings struct {
	ExtractorModelPath  string   // path to the feature extractor .tflite artifact
	ReducerModelPath    string   // path to the dimensionality reducer .tflite artifact
	ClassifierModelPath string   // path to the classifier .tflite artifact
	ClassLabels         []string // closed set of classifier output labels
	ImageSize           int      // target edge length of the input tensor, pixels
	Threads             int      // 0 lets the runtime decide
	UseXNNPACK          bool     // enable the XNNPACK delegate
	Debug               bool     // verbose inference logging
}

// SQLiteSettings contains settings for the SQLite database output.
type SQLiteSettings struct {
	Enabled bool
	Path    string
}

// MySQLSettings contains settings for the MySQL database output.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Host     string
	Port     string
	Database string
}

// OutputSettings selects and configures the backing database.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// LogSettings contains settings for application log output.
type LogSettings struct {
	Enabled    bool
	Path       string
	MaxSize    int // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
}

// SentrySettings contains settings for error telemetry.
type SentrySettings struct {
	Enabled bool
	DSN     string
}

// MetricsSettings contains settings for the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool
	Listen  string
}

// Settings is the root configuration for the application.
type Settings struct {
	Debug bool

	Main struct {
		Name string
		Log  LogSettings
	}

	SnakeNet SnakeNetSettings
	Output   OutputSettings
	Sentry   SentrySettings
	Metrics  MetricsSettings
}

// Load reads the configuration from the config file and environment and
// returns the populated settings. A missing config file is not an error,
// defaults apply.
func Load() (*Settings, error) {
	setDefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "snakeid"))
	}
	viper.SetEnvPrefix("snakeid")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// SaveYAML writes the current settings to the given path as YAML.
func SaveYAML(settings *Settings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
