package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"path/filepath"

	"github.com/lewtec/photoledger/internal/repository"
	_ "modernc.org/sqlite"
)

// databaseURI escapes filename so SQLite reads '?', '#' and '%' as part of
// the path
func databaseURI(filename string) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	uri := &url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}
	return uri.String(), nil
}

// GetDatabase opens the SQLite file backing an event registry
func GetDatabase(filename string) (*sql.DB, error) {
	dsn, err := databaseURI(filename)
	if err != nil {
		return nil, fmt.Errorf("while resolving database path '%s': %w", filename, err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every operation runs sequentially on one connection
	db.SetMaxOpenConns(1)
	return db, nil
}

// PrepareDatabase makes sure the registry tables exist
func PrepareDatabase(ctx context.Context, db *sql.DB) error {
	log.Printf("PrepareDatabase: applying migrations")
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("while connecting to database: %w", err)
	}
	if err := repository.Migrate(db); err != nil {
		return err
	}
	return nil
}

// ResetDatabase drops and recreates the registry tables
func ResetDatabase(db *sql.DB) error {
	log.Printf("ResetDatabase: dropping and recreating registry tables")
	return repository.Reset(db)
}
