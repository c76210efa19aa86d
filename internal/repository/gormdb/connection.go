package gormdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqlitePragmas are applied by the modernc driver to every new connection.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// NewConnection opens the database named by databaseURL and migrates the
// schema. postgres:// and postgresql:// URLs go to PostgreSQL, everything else
// is treated as a SQLite location ("sqlite:db/db.sqlite3", "sqlite:///abs.db",
// a bare path or ":memory:").
func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	dialector, isSQLite, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db conn: %w", err)
	}
	if isSQLite {
		// SQLite serializes writers itself; one connection keeps it that way
		// and keeps ":memory:" databases alive across calls.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Generation{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}

func NewRepositories(db *gorm.DB, timeout time.Duration) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db, timeout),
		Generation: NewGenerationRepository(db, timeout),
	}
}

func dialectorFor(databaseURL string) (gorm.Dialector, bool, error) {
	if databaseURL == "" {
		return nil, false, errors.New("database url cannot be empty")
	}

	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.Open(databaseURL), false, nil
	}

	path := SQLitePath(databaseURL)
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, false, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	return sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        path + "?" + sqlitePragmas,
	}), true, nil
}

// SQLitePath strips the URL scheme dbmate style database URLs carry.
func SQLitePath(databaseURL string) string {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite3://"):
		return strings.TrimPrefix(databaseURL, "sqlite3://")
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return strings.TrimPrefix(databaseURL, "sqlite://")
	case strings.HasPrefix(databaseURL, "sqlite3:"):
		return strings.TrimPrefix(databaseURL, "sqlite3:")
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return strings.TrimPrefix(databaseURL, "sqlite:")
	}
	return databaseURL
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
	}

	return false
}
