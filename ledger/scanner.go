package ledger

import (
	"context"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v6"
	"github.com/lewtec/photoledger/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// IsImage reports whether name ends in one of exts, ignoring case
func IsImage(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Scanner walks photographer and selection folders. Both layouts are a root
// folder with one level of subfolders holding image files.
type Scanner struct {
	FS         billy.Filesystem
	Extensions []string
}

func NewScanner(fs billy.Filesystem, extensions []string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Scanner{FS: fs, Extensions: extensions}
}

type entry struct {
	name  string
	isDir bool
}

// readDir lists dir sorted by name
func (s *Scanner) readDir(dir string) ([]entry, error) {
	items, err := s.FS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("while listing '%s': %w", dir, err)
	}
	ret := make([]entry, 0, len(items))
	for _, item := range items {
		ret = append(ret, entry{name: item.Name(), isDir: item.IsDir()})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].name < ret[j].name })
	return ret, nil
}

// IngestSummary describes what an ingestion run found
type IngestSummary struct {
	PhotographersSeen  int
	PhotographersAdded int
	PhotosSeen         int
	PhotosAdded        int
	Skipped            int
}

// Ingest registers every subfolder of root as a photographer and every image
// inside it as one of their photos. Running it again over the same tree
// changes nothing.
func (s *Scanner) Ingest(ctx context.Context, registry domain.Registry, root string) (*IngestSummary, error) {
	summary := &IngestSummary{}
	folders, err := s.readDir(root)
	if err != nil {
		return nil, err
	}
	for _, folder := range folders {
		if !folder.isDir {
			summary.Skipped++
			continue
		}
		photographer := norm.NFC.String(folder.name)
		log.Printf("Ingest: registering photographer '%s'", photographer)
		summary.PhotographersSeen++
		added, err := registry.AddPhotographer(ctx, photographer)
		if err != nil {
			return nil, fmt.Errorf("while registering photographer '%s': %w", photographer, err)
		}
		if added {
			summary.PhotographersAdded++
		}

		files, err := s.readDir(path.Join(root, folder.name))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if file.isDir || !IsImage(file.name, s.Extensions) {
				summary.Skipped++
				continue
			}
			fileName := norm.NFC.String(file.name)
			summary.PhotosSeen++
			added, err := registry.AddPhoto(ctx, fileName, photographer)
			if err != nil {
				return nil, fmt.Errorf("while registering photo '%s' of '%s': %w", fileName, photographer, err)
			}
			if added {
				summary.PhotosAdded++
			}
		}
	}
	log.Printf("Ingest: %d photographers (%d new), %d photos (%d new)",
		summary.PhotographersSeen, summary.PhotographersAdded, summary.PhotosSeen, summary.PhotosAdded)
	return summary, nil
}

// SelectedFileNames collects the distinct image names found in the
// subfolders of root, sorted. A name selected in several subfolders counts once.
func (s *Scanner) SelectedFileNames(root string) ([]string, error) {
	folders, err := s.readDir(root)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, folder := range folders {
		if !folder.isDir {
			continue
		}
		files, err := s.readDir(path.Join(root, folder.name))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if file.isDir || !IsImage(file.name, s.Extensions) {
				continue
			}
			seen[norm.NFC.String(file.name)] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Store is an event registry that can run grouped writes atomically
type Store interface {
	Registry() domain.Registry
	InTx(ctx context.Context, fn func(domain.Registry) error) error
}

// ReconcileSummary describes a reconciliation run
type ReconcileSummary struct {
	Selected     int
	Attributed   int
	Unattributed []string
	Counts       []domain.PhotographerCount
}

// Reconcile maps the selected file names under root back to their
// photographers, records the selections and refreshes the counts. Names no
// photographer owns are ignored.
func (s *Scanner) Reconcile(ctx context.Context, store Store, root string) (*ReconcileSummary, error) {
	names, err := s.SelectedFileNames(root)
	if err != nil {
		return nil, err
	}
	summary := &ReconcileSummary{
		Selected:     len(names),
		Unattributed: []string{},
	}
	for _, name := range names {
		photographerID, found, err := store.Registry().FindPhotographerIDByPhoto(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("while looking up '%s': %w", name, err)
		}
		if !found {
			log.Printf("Reconcile: '%s' does not belong to any photographer, skipping", name)
			summary.Unattributed = append(summary.Unattributed, name)
			continue
		}
		err = store.InTx(ctx, func(registry domain.Registry) error {
			if _, err := registry.RecordSelection(ctx, photographerID, name); err != nil {
				return err
			}
			return registry.RecomputeSelectedCount(ctx, photographerID)
		})
		if err != nil {
			return nil, fmt.Errorf("while recording selection '%s': %w", name, err)
		}
		summary.Attributed++
	}
	counts, err := store.Registry().ListPhotographerCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("while listing selection counts: %w", err)
	}
	summary.Counts = counts
	log.Printf("Reconcile: %d distinct selected files, %d attributed, %d unattributed",
		summary.Selected, summary.Attributed, len(summary.Unattributed))
	return summary, nil
}
