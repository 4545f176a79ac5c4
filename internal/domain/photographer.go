package domain

import "context"

// Photographer is a contributor to an event, named after their folder
type Photographer struct {
	ID            int64
	Name          string
	SelectedCount int
}

// Photo is an image file name owned by exactly one photographer
type Photo struct {
	ID             int64
	FileName       string
	PhotographerID int64
}

// SelectionRecord states that a photographer's file was selected by a client
type SelectionRecord struct {
	PhotographerID int64
	FileName       string
}

// PhotographerCount is one line of the selection report
type PhotographerCount struct {
	Name          string
	SelectedCount int
}

// RegistryStats holds the row counts of an event registry
type RegistryStats struct {
	Photographers int64
	Photos        int64
	Selections    int64
}

// Registry defines the storage operations of an event registry
type Registry interface {
	// AddPhotographer inserts a photographer unless the name already exists.
	// It reports whether a row was inserted.
	AddPhotographer(ctx context.Context, name string) (bool, error)

	// AddPhoto registers fileName for an existing photographer. Unknown
	// photographers and file names already claimed are ignored.
	AddPhoto(ctx context.Context, fileName string, photographerName string) (bool, error)

	// RecordSelection stores a selection unless the same pair already exists
	RecordSelection(ctx context.Context, photographerID int64, fileName string) (bool, error)

	// RecomputeSelectedCount sets selected_count to the distinct selected file names
	RecomputeSelectedCount(ctx context.Context, photographerID int64) error

	// FindPhotographerIDByPhoto resolves the owner of a file name
	FindPhotographerIDByPhoto(ctx context.Context, fileName string) (int64, bool, error)

	// ListPhotographerCounts returns every photographer with its selected count, in id order
	ListPhotographerCounts(ctx context.Context) ([]PhotographerCount, error)

	// GetPhotographerByName retrieves a photographer, nil if missing
	GetPhotographerByName(ctx context.Context, name string) (*Photographer, error)

	// Stats returns row counts for the three collections
	Stats(ctx context.Context) (*RegistryStats, error)
}
