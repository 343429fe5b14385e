// validate.go: validation of loaded settings
package conf

import (
	"fmt"
)

// ValidateSettings checks the loaded settings for configuration errors that
// would otherwise surface later as confusing runtime failures.
func ValidateSettings(settings *Settings) error {
	if err := validateSnakeNetSettings(&settings.SnakeNet); err != nil {
		return err
	}
	return validateOutputSettings(&settings.Output)
}

func validateSnakeNetSettings(s *SnakeNetSettings) error {
	if s.ImageSize <= 0 {
		return fmt.Errorf("snakenet.imagesize must be positive, got %d", s.ImageSize)
	}
	if s.Threads < 0 {
		return fmt.Errorf("snakenet.threads must be >= 0, got %d", s.Threads)
	}
	if len(s.ClassLabels) == 0 {
		return fmt.Errorf("snakenet.classlabels must not be empty")
	}
	seen := make(map[string]struct{}, len(s.ClassLabels))
	for _, label := range s.ClassLabels {
		if label == "" {
			return fmt.Errorf("snakenet.classlabels must not contain empty labels")
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("snakenet.classlabels contains duplicate label %q", label)
		}
		seen[label] = struct{}{}
	}
	return nil
}

func validateOutputSettings(o *OutputSettings) error {
	if o.SQLite.Enabled && o.MySQL.Enabled {
		return fmt.Errorf("only one of output.sqlite and output.mysql may be enabled")
	}
	if !o.SQLite.Enabled && !o.MySQL.Enabled {
		return fmt.Errorf("one of output.sqlite and output.mysql must be enabled")
	}
	if o.SQLite.Enabled && o.SQLite.Path == "" {
		return fmt.Errorf("output.sqlite.path must be set when SQLite is enabled")
	}
	if o.MySQL.Enabled {
		if o.MySQL.Host == "" || o.MySQL.Port == "" || o.MySQL.Database == "" {
			return fmt.Errorf("output.mysql requires host, port and database")
		}
	}
	return nil
}
