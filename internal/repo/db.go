// Package repo implements the data persistence layer for diary entries and
// medications, backed by GORM. This file opens the database (SQLite through
// the pure Go driver, or PostgreSQL) and runs schema migrations.
package repo

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/headache-tracker/internal/domain"
)

// Supported values for Open's driver argument.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas are passed in the DSN so that every pooled connection gets
// them, not only the first one.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

type pool struct {
	maxOpen, maxIdle   int
	idleTime, lifetime time.Duration
}

var (
	sqlitePool   = pool{maxOpen: 10, maxIdle: 10, idleTime: 5 * time.Minute, lifetime: 30 * time.Minute}
	postgresPool = pool{maxOpen: 25, maxIdle: 5, idleTime: 5 * time.Minute, lifetime: 30 * time.Minute}
)

// Open dispatches on driver ("" means sqlite). For sqlite, target is a file
// path; for postgres it is a DSN or URL.
func Open(driver, target string) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		return OpenSQLite(target)
	case DriverPostgres:
		return OpenPostgres(target)
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", driver)
	}
}

// OpenSQLite opens or creates the database file at path. The parent
// directory must exist.
func OpenSQLite(path string) (*gorm.DB, error) {
	// sqlite reports a missing directory as "out of memory (14)" on Windows.
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	return open(sqlite.Open(sqliteDSN(path)), sqlitePool)
}

// OpenPostgres connects through the pgx-backed GORM driver.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN must not be empty")
	}
	return open(postgres.Open(dsn), postgresPool)
}

func sqliteDSN(path string) string {
	q := url.Values{"_pragma": sqlitePragmas}
	return path + "?" + q.Encode()
}

func open(d gorm.Dialector, p pool) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(p.maxOpen)
	sqlDB.SetMaxIdleConns(p.maxIdle)
	sqlDB.SetConnMaxIdleTime(p.idleTime)
	sqlDB.SetConnMaxLifetime(p.lifetime)

	// Spans for every statement; metrics come from the HTTP layer.
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm tracing plugin: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the diary, medication and idempotency tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.DiaryEntry{},
		&domain.Medication{},
		&domain.Idempotency{},
	)
}
