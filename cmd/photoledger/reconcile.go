package main

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/lewtec/photoledger/ledger"
	"github.com/spf13/cobra"
)

func runReconcile(ctx context.Context, out io.Writer, ev *ledger.Event, config *ledger.Config, dir string) error {
	if err := checkDir(dir); err != nil {
		return err
	}
	scanner := ledger.NewScanner(osfs.New(dir), config.Extensions)
	summary, err := scanner.Reconcile(ctx, ev, ".")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d distinct selected photos, %d not attributed to any photographer\n",
		summary.Selected, len(summary.Unattributed))
	if err := printStats(ctx, out, ev); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSelected photos per photographer:\n")
	return ledger.RenderReport(out, summary.Counts, ledger.FormatText)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <event> <selections-folder>",
	Short: "Match client selections against the registry",
	Long: `Every image inside the subfolders of the selections folder is a selected photo.
A file name selected in several subfolders counts once. Selected photos that no
photographer owns are ignored. Counts accumulate across runs until a reset.`,
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
		ev, err := openExistingEvent(cmd.Context(), events, args[0])
		if err != nil {
			return err
		}
		defer ev.Close()
		return runReconcile(cmd.Context(), cmd.OutOrStdout(), ev, config, args[1])
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
