// manage.go database schema management
package datastore

import (
	"fmt"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"gorm.io/gorm"

	"github.com/wgamage/snakeid-go/internal/logging"
)

// createGormLogger returns a GORM logger that is quiet unless debug is set.
// Slow queries are always reported.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		slogWriter{},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// slogWriter adapts the structured logger to GORM's printf-style interface.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	logging.ForService("datastore").Info(fmt.Sprintf(format, args...))
}

// performAutoMigration creates or updates the schema for the taxonomy tables.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Species{}, &SpeciesRelation{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		logging.ForService("datastore").Debug("Database schema migrated",
			"db_type", dbType,
			"connection", connectionInfo)
	}
	return nil
}
