package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lewtec/photoledger/ledger"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photoledger",
	Short: "Count how many client selected photos came from each photographer",
	Long: strings.TrimSpace(`
Keep a registry of which photographer took which photo of an event, then match
the folders of photos selected by clients against it to know how many selected
photos each photographer contributed.

Without a subcommand an interactive menu is started.
    `),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatalf("Error executing command: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (yaml)")
	rootCmd.PersistentFlags().StringP("events-dir", "e", "", "Directory holding the event databases")
	rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	rootCmd.MarkPersistentFlagDirname("events-dir")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*ledger.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	config, err := ledger.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	eventsDir, err := cmd.Flags().GetString("events-dir")
	if err != nil {
		return nil, err
	}
	if eventsDir != "" {
		config.EventsDir = eventsDir
	}
	return config, nil
}

func loadEvents(cmd *cobra.Command) (*ledger.Events, *ledger.Config, error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	events, err := ledger.NewEvents(config.EventsDir)
	if err != nil {
		return nil, nil, err
	}
	return events, config, nil
}

// openExistingEvent opens name, failing when the event was never created
func openExistingEvent(ctx context.Context, events *ledger.Events, name string) (*ledger.Event, error) {
	exists, err := events.Exists(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("event '%s' not found in %s (create it with 'photoledger events create %s')", name, events.Dir, name)
	}
	return events.Open(ctx, name)
}
