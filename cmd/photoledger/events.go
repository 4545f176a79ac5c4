package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage events",
	Long:  `Every event has its own registry, stored as <name>.db in the events directory.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, _, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		names, err := events.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No events available.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new event with an empty registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, _, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		ev, err := events.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer ev.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "Event '%s' created at %s\n", ev.Name, ev.Path)
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	rootCmd.AddCommand(eventsCmd)
}
