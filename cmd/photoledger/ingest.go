package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/lewtec/photoledger/ledger"
	"github.com/spf13/cobra"
)

// checkDir makes sure path is an existing directory
func checkDir(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fileInfo.IsDir() {
		return fmt.Errorf("'%s' must be a directory", path)
	}
	return nil
}

func runIngest(ctx context.Context, out io.Writer, ev *ledger.Event, config *ledger.Config, dir string) error {
	if err := checkDir(dir); err != nil {
		return err
	}
	scanner := ledger.NewScanner(osfs.New(dir), config.Extensions)
	summary, err := scanner.Ingest(ctx, ev.Registry(), ".")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Registered %d photographers (%d new) and %d photos (%d new) from %s\n",
		summary.PhotographersSeen, summary.PhotographersAdded,
		summary.PhotosSeen, summary.PhotosAdded, dir)
	return printStats(ctx, out, ev)
}

// printStats shows how many rows the event registry holds
func printStats(ctx context.Context, out io.Writer, ev *ledger.Event) error {
	stats, err := ev.Registry().Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Event '%s' now holds %d photographers, %d photos and %d selections\n",
		ev.Name, stats.Photographers, stats.Photos, stats.Selections)
	return nil
}

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <event> <photographers-folder>",
	Short: "Register photographers and their photos",
	Long: `Every subfolder of the photographers folder is a photographer, and every image
directly inside it is one of their photos. The event is created when missing.

A file name belongs to the first photographer it was registered for.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return err
		}
		if err := checkDir(args[1]); err != nil {
			return fmt.Errorf("on 2nd argument: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		events, config, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		ev, err := events.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer ev.Close()
		return runIngest(cmd.Context(), cmd.OutOrStdout(), ev, config, args[1])
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
