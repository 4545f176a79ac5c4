package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMenu(t *testing.T) {
	eventsDir := t.TempDir()
	photos := writeTree(t, map[string][]string{
		"Alice": {"a1.jpg", "a2.png"},
		"Bob":   {"b1.jpeg"},
	})
	selections := writeTree(t, map[string][]string{
		"client1": {"a1.jpg"},
		"client2": {"a1.jpg", "b1.jpeg", "unknown.jpg"},
	})

	t.Run("create, ingest, reconcile, exit", func(t *testing.T) {
		input := strings.Join([]string{
			"1",       // create new event (no events yet)
			"wedding", // event name
			"2",       // ingest
			photos,
			"3", // reconcile
			selections,
			"4", // report
			"5", // back
			"3", // exit (one event listed)
		}, "\n") + "\n"

		out, errOut, err := executeCommand(input, "menu", "--events-dir", eventsDir)
		if err != nil {
			t.Fatalf("menu failed: %v, output: %s", err, errOut)
		}
		for _, want := range []string{
			"No events available.",
			"Event in use: wedding",
			"Registered 2 photographers (2 new) and 3 photos (3 new)",
			"3 distinct selected photos, 1 not attributed to any photographer",
			"Alice: 1 selected",
			"Bob: 1 selected",
			"1. wedding",
			"Exiting.",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected menu output to contain %q, got: %s", want, out)
			}
		}
		if _, err := os.Stat(filepath.Join(eventsDir, "wedding.db")); err != nil {
			t.Errorf("expected event database: %v", err)
		}
	})

	t.Run("cancelled folder and declined reset", func(t *testing.T) {
		input := strings.Join([]string{
			"1", // wedding
			"2", // ingest
			"",  // cancel folder
			"1", // reset
			"n", // decline
			"4", // report still has data
		}, "\n") + "\n"

		out, _, err := executeCommand(input, "--events-dir", eventsDir)
		if err != nil {
			t.Fatalf("menu failed: %v", err)
		}
		for _, want := range []string{"No folder selected.", "Reset cancelled.", "Alice: 1 selected"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected menu output to contain %q, got: %s", want, out)
			}
		}
	})

	t.Run("confirmed reset and invalid options", func(t *testing.T) {
		input := strings.Join([]string{
			"9", // invalid
			"abc",
			"1", // wedding
			"7", // invalid
			"3", // reconcile
			filepath.Join(eventsDir, "missing"),
			"1", // reset
			"y",
			"4",
		}, "\n") + "\n"

		out, _, err := executeCommand(input, "--events-dir", eventsDir)
		if err != nil {
			t.Fatalf("menu failed: %v", err)
		}
		if strings.Count(out, "Invalid option. Try again.") != 3 {
			t.Errorf("expected three invalid option notices, got: %s", out)
		}
		if !strings.Contains(out, "Error:") {
			t.Errorf("expected a missing folder error, got: %s", out)
		}
		if !strings.Contains(out, "Registry of event 'wedding' reset.") {
			t.Errorf("expected reset confirmation, got: %s", out)
		}
		after := out[strings.LastIndex(out, "reset."):]
		if strings.Contains(after, "selected\n") {
			t.Errorf("expected empty report after reset, got: %s", after)
		}
	})
}
