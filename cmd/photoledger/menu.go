package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lewtec/photoledger/ledger"
	"github.com/spf13/cobra"
)

// errQuit ends the menu when the input runs out
var errQuit = errors.New("quit")

type menu struct {
	in     *bufio.Reader
	out    io.Writer
	events *ledger.Events
	config *ledger.Config
	picker Picker
}

func (m *menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	line, err := readLine(m.in)
	if errors.Is(err, io.EOF) {
		return "", errQuit
	}
	return line, err
}

func (m *menu) run(ctx context.Context) error {
	for {
		name, ok, err := m.selectEvent(ctx)
		if err == nil && ok {
			err = m.eventLoop(ctx, name)
		}
		if errors.Is(err, errQuit) {
			fmt.Fprintln(m.out)
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(m.out, "Exiting.")
			return nil
		}
	}
}

// selectEvent returns the chosen event name, ok is false when the user exits
func (m *menu) selectEvent(ctx context.Context) (string, bool, error) {
	for {
		names, err := m.events.List()
		if err != nil {
			return "", false, err
		}
		if len(names) == 0 {
			fmt.Fprintln(m.out, "\nNo events available.")
		} else {
			fmt.Fprintln(m.out, "\nAvailable events:")
			for i, name := range names {
				fmt.Fprintf(m.out, "%d. %s\n", i+1, name)
			}
		}
		fmt.Fprintf(m.out, "%d. Create new event\n", len(names)+1)
		fmt.Fprintf(m.out, "%d. Exit\n", len(names)+2)

		answer, err := m.ask("Choose an event or option: ")
		if err != nil {
			return "", false, err
		}
		option, err := strconv.Atoi(answer)
		switch {
		case err != nil:
		case option >= 1 && option <= len(names):
			return names[option-1], true, nil
		case option == len(names)+1:
			name, err := m.ask("New event name: ")
			if err != nil {
				return "", false, err
			}
			if name == "" {
				break
			}
			ev, err := m.events.Create(ctx, name)
			if err != nil {
				fmt.Fprintf(m.out, "Error: %v\n", err)
				continue
			}
			ev.Close()
			return name, true, nil
		case option == len(names)+2:
			return "", false, nil
		}
		fmt.Fprintln(m.out, "Invalid option. Try again.")
	}
}

func (m *menu) eventLoop(ctx context.Context, name string) error {
	ev, err := m.events.Open(ctx, name)
	if err != nil {
		return err
	}
	defer ev.Close()

	for {
		fmt.Fprintf(m.out, "\nEvent in use: %s\n", ev.Name)
		fmt.Fprintln(m.out, "1. Reset the event registry")
		fmt.Fprintln(m.out, "2. Ingest photographer folders")
		fmt.Fprintln(m.out, "3. Reconcile client selections")
		fmt.Fprintln(m.out, "4. Show report")
		fmt.Fprintln(m.out, "5. Back to event selection")

		option, err := m.ask("Choose an option: ")
		if err != nil {
			return err
		}
		switch option {
		case "1":
			answer, err := m.ask(fmt.Sprintf("This erases every photographer, photo and selection of '%s'. Continue? [y/N]: ", ev.Name))
			if err != nil {
				return err
			}
			if a := strings.ToLower(answer); a != "y" && a != "yes" {
				fmt.Fprintln(m.out, "Reset cancelled.")
				continue
			}
			if err := ev.Reset(ctx); err != nil {
				fmt.Fprintf(m.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(m.out, "Registry of event '%s' reset.\n", ev.Name)
		case "2":
			m.withFolder("Photographers folder", func(dir string) error {
				return runIngest(ctx, m.out, ev, m.config, dir)
			})
		case "3":
			m.withFolder("Selections folder", func(dir string) error {
				return runReconcile(ctx, m.out, ev, m.config, dir)
			})
		case "4":
			format, err := ledger.ParseFormat(m.config.Report.Format)
			if err != nil {
				return err
			}
			counts, err := ev.Registry().ListPhotographerCounts(ctx)
			if err != nil {
				fmt.Fprintf(m.out, "Error: %v\n", err)
				continue
			}
			if err := ledger.RenderReport(m.out, counts, format); err != nil {
				fmt.Fprintf(m.out, "Error: %v\n", err)
			}
		case "5":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Try again.")
		}
	}
}

// withFolder asks for a folder and runs fn on it. Failures end the current
// operation only.
func (m *menu) withFolder(prompt string, fn func(dir string) error) {
	dir, ok, err := m.picker.PickFolder(prompt)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	if !ok {
		fmt.Fprintln(m.out, "No folder selected.")
		return
	}
	if err := fn(dir); err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
	}
}

func runMenu(cmd *cobra.Command) error {
	events, config, err := loadEvents(cmd)
	if err != nil {
		return err
	}
	in := bufio.NewReader(cmd.InOrStdin())
	m := &menu{
		in:     in,
		out:    cmd.OutOrStdout(),
		events: events,
		config: config,
		picker: &promptPicker{in: in, out: cmd.OutOrStdout()},
	}
	return m.run(cmd.Context())
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu",
	Long: `Pick or create an event, then reset it, ingest photographer folders, reconcile
client selections or show the report. Folder paths are typed at the prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
