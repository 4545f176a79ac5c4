package ledger

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/lewtec/photoledger/internal/domain"
)

// writeTree creates root/<folder>/<file> for every entry of tree
func writeTree(t *testing.T, tree map[string][]string) string {
	t.Helper()
	root := t.TempDir()
	for folder, files := range tree {
		dir := filepath.Join(root, folder)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
		for _, file := range files {
			if err := os.WriteFile(filepath.Join(dir, file), []byte("x"), 0o644); err != nil {
				t.Fatalf("failed to create %s: %v", file, err)
			}
		}
	}
	return root
}

func openTestEvent(t *testing.T) *Event {
	t.Helper()
	events, err := NewEvents(t.TempDir())
	if err != nil {
		t.Fatalf("NewEvents() error = %v", err)
	}
	ev, err := events.Open(context.Background(), "wedding")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { ev.Close() })
	return ev
}

func scannerFor(root string) *Scanner {
	return NewScanner(osfs.New(root), DefaultExtensions)
}

func TestIsImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg":      true,
		"A.JPG":      true,
		"b.JpEg":     true,
		"c.png":      true,
		"d.gif":      false,
		"notes.txt":  false,
		"jpg":        false,
		"photo.jpg~": false,
	} {
		if got := IsImage(name, DefaultExtensions); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestScanner_Ingest(t *testing.T) {
	ctx := context.Background()
	root := writeTree(t, map[string][]string{
		"Alice": {"a1.jpg", "a2.png", "notes.txt"},
		"Bob":   {"b1.jpeg"},
	})
	if err := os.WriteFile(filepath.Join(root, "readme.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "Alice", "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "Alice", "nested", "deep.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := openTestEvent(t)
	scanner := scannerFor(root)

	summary, err := scanner.Ingest(ctx, ev.Registry(), ".")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if summary.PhotographersAdded != 2 {
		t.Errorf("PhotographersAdded = %v, want 2", summary.PhotographersAdded)
	}
	if summary.PhotosAdded != 3 {
		t.Errorf("PhotosAdded = %v, want 3", summary.PhotosAdded)
	}

	stats, err := ev.Registry().Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Photographers != 2 || stats.Photos != 3 || stats.Selections != 0 {
		t.Errorf("Stats() = %+v, want 2/3/0", stats)
	}

	counts, err := ev.Registry().ListPhotographerCounts(ctx)
	if err != nil {
		t.Fatalf("ListPhotographerCounts() error = %v", err)
	}
	want := []domain.PhotographerCount{{Name: "Alice"}, {Name: "Bob"}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	t.Run("second run changes nothing", func(t *testing.T) {
		before, _ := ev.registry.ListPhotos(ctx)
		summary, err := scanner.Ingest(ctx, ev.Registry(), ".")
		if err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
		if summary.PhotographersAdded != 0 || summary.PhotosAdded != 0 {
			t.Errorf("second run added rows: %+v", summary)
		}
		after, _ := ev.registry.ListPhotos(ctx)
		if !reflect.DeepEqual(before, after) {
			t.Errorf("photos changed: %+v -> %+v", before, after)
		}
	})
}

func TestScanner_IngestCollision(t *testing.T) {
	ctx := context.Background()
	root := writeTree(t, map[string][]string{
		"Alice": {"x.jpg"},
		"Bob":   {"x.jpg"},
	})
	ev := openTestEvent(t)

	if _, err := scannerFor(root).Ingest(ctx, ev.Registry(), "."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	photos, err := ev.registry.ListPhotos(ctx)
	if err != nil {
		t.Fatalf("ListPhotos() error = %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("len(photos) = %v, want 1", len(photos))
	}
	alice, _ := ev.Registry().GetPhotographerByName(ctx, "Alice")
	if photos[0].PhotographerID != alice.ID {
		t.Errorf("x.jpg owner = %v, want Alice (%v)", photos[0].PhotographerID, alice.ID)
	}
}

func TestScanner_IngestMissingRoot(t *testing.T) {
	ev := openTestEvent(t)
	_, err := scannerFor(t.TempDir()).Ingest(context.Background(), ev.Registry(), "does-not-exist")
	if err == nil {
		t.Fatal("Expected error for missing root")
	}
}

func TestScanner_SelectedFileNames(t *testing.T) {
	root := writeTree(t, map[string][]string{
		"client1": {"a1.jpg", "readme.txt"},
		"client2": {"a1.jpg", "B1.JPEG"},
	})
	names, err := scannerFor(root).SelectedFileNames(".")
	if err != nil {
		t.Fatalf("SelectedFileNames() error = %v", err)
	}
	want := []string{"B1.JPEG", "a1.jpg"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("SelectedFileNames() = %v, want %v", names, want)
	}
}

func TestScanner_Reconcile(t *testing.T) {
	ctx := context.Background()
	photos := writeTree(t, map[string][]string{
		"Alice": {"a1.jpg", "a2.png"},
		"Bob":   {"b1.jpeg"},
		"Carol": {"c1.jpg"},
	})
	selected := writeTree(t, map[string][]string{
		"client1": {"a1.jpg"},
		"client2": {"a1.jpg", "b1.jpeg", "stranger.jpg"},
	})
	ev := openTestEvent(t)

	if _, err := scannerFor(photos).Ingest(ctx, ev.Registry(), "."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	summary, err := scannerFor(selected).Reconcile(ctx, ev, ".")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if summary.Selected != 3 {
		t.Errorf("Selected = %v, want 3", summary.Selected)
	}
	if summary.Attributed != 2 {
		t.Errorf("Attributed = %v, want 2", summary.Attributed)
	}
	if !reflect.DeepEqual(summary.Unattributed, []string{"stranger.jpg"}) {
		t.Errorf("Unattributed = %v, want [stranger.jpg]", summary.Unattributed)
	}
	want := []domain.PhotographerCount{
		{Name: "Alice", SelectedCount: 1},
		{Name: "Bob", SelectedCount: 1},
		{Name: "Carol", SelectedCount: 0},
	}
	if !reflect.DeepEqual(summary.Counts, want) {
		t.Errorf("Counts = %+v, want %+v", summary.Counts, want)
	}

	t.Run("unattributed names are never stored", func(t *testing.T) {
		selections, err := ev.registry.ListSelections(ctx)
		if err != nil {
			t.Fatalf("ListSelections() error = %v", err)
		}
		if len(selections) != 2 {
			t.Errorf("len(selections) = %v, want 2", len(selections))
		}
		for _, s := range selections {
			if s.FileName == "stranger.jpg" {
				t.Error("stranger.jpg must not be recorded")
			}
		}
	})

	t.Run("second run leaves counts unchanged", func(t *testing.T) {
		again, err := scannerFor(selected).Reconcile(ctx, ev, ".")
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if !reflect.DeepEqual(again.Counts, want) {
			t.Errorf("Counts = %+v, want %+v", again.Counts, want)
		}
	})

	t.Run("counts match distinct selections", func(t *testing.T) {
		photographers, _ := ev.registry.ListPhotographers(ctx)
		selections, _ := ev.registry.ListSelections(ctx)
		for _, p := range photographers {
			distinct := map[string]bool{}
			for _, s := range selections {
				if s.PhotographerID == p.ID {
					distinct[s.FileName] = true
				}
			}
			if p.SelectedCount != len(distinct) {
				t.Errorf("%s: SelectedCount = %v, distinct selections = %v", p.Name, p.SelectedCount, len(distinct))
			}
		}
	})

	t.Run("later selections accumulate", func(t *testing.T) {
		more := writeTree(t, map[string][]string{
			"client3": {"a2.png"},
		})
		summary, err := scannerFor(more).Reconcile(ctx, ev, ".")
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if summary.Counts[0].SelectedCount != 2 {
			t.Errorf("Alice = %v, want 2", summary.Counts[0].SelectedCount)
		}
	})

	t.Run("reset empties the registry", func(t *testing.T) {
		if err := ev.Reset(ctx); err != nil {
			t.Fatalf("Reset() error = %v", err)
		}
		counts, err := ev.Registry().ListPhotographerCounts(ctx)
		if err != nil {
			t.Fatalf("ListPhotographerCounts() error = %v", err)
		}
		if len(counts) != 0 {
			t.Errorf("counts after reset = %+v, want empty", counts)
		}
		stats, _ := ev.Registry().Stats(ctx)
		if stats.Photos != 0 || stats.Selections != 0 {
			t.Errorf("Stats() after reset = %+v", stats)
		}
	})
}
