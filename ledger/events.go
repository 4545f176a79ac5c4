package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/lewtec/photoledger/internal/domain"
	"github.com/lewtec/photoledger/internal/repository"
)

const eventSuffix = ".db"

// Events is the set of event registries kept in one directory, one SQLite
// file per event
type Events struct {
	Dir string
	fs  billy.Filesystem
}

// NewEvents creates dir if needed and returns the events stored in it
func NewEvents(dir string) (*Events, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("while creating events directory '%s': %w", dir, err)
	}
	return &Events{
		Dir: dir,
		fs:  osfs.New(dir),
	}, nil
}

// ValidateEventName rejects names that cannot be used as a file name
func ValidateEventName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("event name must not be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid event name '%s'", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("event name '%s' must not contain path separators", name)
	}
	return nil
}

// List returns the names of the existing events, sorted
func (e *Events) List() ([]string, error) {
	entries, err := e.fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("while listing events in '%s': %w", e.Dir, err)
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), eventSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), eventSuffix)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *Events) path(name string) string {
	return filepath.Join(e.Dir, name+eventSuffix)
}

// Exists reports whether the registry file of name is present
func (e *Events) Exists(name string) (bool, error) {
	if err := ValidateEventName(name); err != nil {
		return false, err
	}
	_, err := e.fs.Stat(name + eventSuffix)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Open opens the registry of name, creating and migrating it when needed
func (e *Events) Open(ctx context.Context, name string) (*Event, error) {
	if err := ValidateEventName(name); err != nil {
		return nil, err
	}
	path := e.path(name)
	db, err := GetDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("while opening event '%s': %w", name, err)
	}
	if err := PrepareDatabase(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("while preparing event '%s': %w", name, err)
	}
	return &Event{
		Name:     name,
		Path:     path,
		DB:       db,
		registry: repository.NewRegistry(db),
	}, nil
}

// Create initialises a new event right away so it shows up in List
func (e *Events) Create(ctx context.Context, name string) (*Event, error) {
	exists, err := e.Exists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("event '%s' already exists", name)
	}
	log.Printf("Events: creating event '%s'", name)
	return e.Open(ctx, name)
}

// Event is an open registry
type Event struct {
	Name     string
	Path     string
	DB       *sql.DB
	registry *repository.Registry
}

// Registry returns the registry of the event
func (ev *Event) Registry() domain.Registry {
	return ev.registry
}

// InTx runs fn with a registry bound to a transaction, committing when fn
// returns nil
func (ev *Event) InTx(ctx context.Context, fn func(domain.Registry) error) error {
	tx, err := ev.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("while starting transaction: %w", err)
	}
	defer tx.Rollback()
	if err := fn(repository.NewRegistryWithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// Reset wipes every photographer, photo and selection of the event
func (ev *Event) Reset(ctx context.Context) error {
	if err := ResetDatabase(ev.DB); err != nil {
		return fmt.Errorf("while resetting event '%s': %w", ev.Name, err)
	}
	return nil
}

// Close releases the database handle
func (ev *Event) Close() error {
	return ev.DB.Close()
}
