package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/voxlearn/vox/internal/infrastructure/config"
)

// NewConnection opens the configured database and returns the handle with its
// cleanup function. sqlite3 is the default driver; postgres is selected via
// database.driver.
func NewConnection(cfg *config.Config) (*sqlx.DB, func(), error) {
	switch cfg.Database.Driver {
	case "", "sqlite3":
		return openSQLite(cfg.Database.Path)
	case "postgres":
		return openPostgres(cfg.DatabaseURL())
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openSQLite(path string) (*sqlx.DB, func(), error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, func() { db.Close() }, nil
}

func openPostgres(url string) (*sqlx.DB, func(), error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping postgres database: %w", err)
	}
	return db, func() { db.Close() }, nil
}
