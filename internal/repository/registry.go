package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lewtec/photoledger/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Registry implements domain.Registry on top of SQLite
type Registry struct {
	db DBTX
}

// NewRegistry creates a new Registry
func NewRegistry(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// NewRegistryWithTx creates a new Registry bound to a transaction
func NewRegistryWithTx(tx *sql.Tx) *Registry {
	return &Registry{db: tx}
}

// isConflict reports whether err is a constraint violation raised by SQLite
func isConflict(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// insertOrIgnore runs an insert and maps a uniqueness conflict to false
func (r *Registry) insertOrIgnore(ctx context.Context, query string, args ...interface{}) (bool, error) {
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddPhotographer inserts a photographer unless the name is already taken
func (r *Registry) AddPhotographer(ctx context.Context, name string) (bool, error) {
	return r.insertOrIgnore(ctx, "INSERT INTO photographers (name) VALUES (?)", name)
}

// AddPhoto registers a file name for a known photographer. The first
// photographer to claim a file name keeps it.
func (r *Registry) AddPhoto(ctx context.Context, fileName string, photographerName string) (bool, error) {
	photographer, err := r.GetPhotographerByName(ctx, photographerName)
	if err != nil {
		return false, err
	}
	if photographer == nil {
		return false, nil
	}
	return r.insertOrIgnore(ctx,
		"INSERT INTO photos (file_name, photographer_id) VALUES (?, ?)",
		fileName, photographer.ID)
}

// RecordSelection stores that fileName of photographerID was selected
func (r *Registry) RecordSelection(ctx context.Context, photographerID int64, fileName string) (bool, error) {
	return r.insertOrIgnore(ctx,
		"INSERT INTO selected_photos (photographer_id, file_name) VALUES (?, ?)",
		photographerID, fileName)
}

// RecomputeSelectedCount derives selected_count from selected_photos
func (r *Registry) RecomputeSelectedCount(ctx context.Context, photographerID int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE photographers
SET selected_count = (
  SELECT COUNT(DISTINCT file_name) FROM selected_photos WHERE photographer_id = ?
)
WHERE id = ?`, photographerID, photographerID)
	return err
}

// FindPhotographerIDByPhoto returns the owner of fileName
func (r *Registry) FindPhotographerIDByPhoto(ctx context.Context, fileName string) (int64, bool, error) {
	var id sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT photographer_id FROM photos WHERE file_name = ?", fileName).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	if !id.Valid {
		return 0, false, nil
	}
	return id.Int64, true, nil
}

// ListPhotographerCounts returns the selection report in insertion order
func (r *Registry) ListPhotographerCounts(ctx context.Context) ([]domain.PhotographerCount, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, COALESCE(selected_count, 0) FROM photographers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.PhotographerCount{}
	for rows.Next() {
		var count domain.PhotographerCount
		if err := rows.Scan(&count.Name, &count.SelectedCount); err != nil {
			return nil, err
		}
		result = append(result, count)
	}
	return result, rows.Err()
}

// GetPhotographerByName retrieves a photographer by name
func (r *Registry) GetPhotographerByName(ctx context.Context, name string) (*domain.Photographer, error) {
	var p domain.Photographer
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(selected_count, 0) FROM photographers WHERE name = ?", name).
		Scan(&p.ID, &p.Name, &p.SelectedCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListPhotographers retrieves all photographers
func (r *Registry) ListPhotographers(ctx context.Context) ([]*domain.Photographer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(selected_count, 0) FROM photographers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Photographer{}
	for rows.Next() {
		var p domain.Photographer
		if err := rows.Scan(&p.ID, &p.Name, &p.SelectedCount); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// ListPhotos retrieves all photos
func (r *Registry) ListPhotos(ctx context.Context) ([]*domain.Photo, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, file_name, COALESCE(photographer_id, 0) FROM photos ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Photo{}
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.FileName, &p.PhotographerID); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// ListSelections retrieves all selection records
func (r *Registry) ListSelections(ctx context.Context) ([]*domain.SelectionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT COALESCE(photographer_id, 0), file_name FROM selected_photos ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.SelectionRecord{}
	for rows.Next() {
		var s domain.SelectionRecord
		if err := rows.Scan(&s.PhotographerID, &s.FileName); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

// Stats returns row counts for the registry tables
func (r *Registry) Stats(ctx context.Context) (*domain.RegistryStats, error) {
	var stats domain.RegistryStats
	err := r.db.QueryRowContext(ctx, `
SELECT
  (SELECT COUNT(*) FROM photographers),
  (SELECT COUNT(*) FROM photos),
  (SELECT COUNT(*) FROM selected_photos)`).
		Scan(&stats.Photographers, &stats.Photos, &stats.Selections)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Verify that Registry implements domain.Registry
var _ domain.Registry = (*Registry)(nil)
