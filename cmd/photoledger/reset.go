package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <event>",
	Short: "Erase every photographer, photo and selection of an event",
	Long:  `Drops and recreates the registry tables of the event. This cannot be undone, so --yes is required.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("refusing to reset event '%s' without --yes", args[0])
		}
		events, _, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		ev, err := openExistingEvent(cmd.Context(), events, args[0])
		if err != nil {
			return err
		}
		defer ev.Close()
		if err := ev.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry of event '%s' reset.\n", ev.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
}
