package main

import (
	"fmt"

	"github.com/lewtec/photoledger/ledger"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <event>",
	Short: "Show how many selected photos each photographer has",
	Long: `Prints the selection count of every photographer, including those with none.

Formats: text, csv, markdown, html. With --output the report is written to a
file and the format defaults to the one matching its extension.

Example:
  photoledger report wedding --output wedding.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, config, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		formatName, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		format, err := ledger.ParseFormat(config.Report.Format)
		if err != nil {
			return err
		}
		if output != "" {
			format = ledger.FormatFromPath(output, format)
		}
		if formatName != "" {
			format, err = ledger.ParseFormat(formatName)
			if err != nil {
				return err
			}
		}

		ev, err := openExistingEvent(cmd.Context(), events, args[0])
		if err != nil {
			return err
		}
		defer ev.Close()

		counts, err := ev.Registry().ListPhotographerCounts(cmd.Context())
		if err != nil {
			return err
		}
		if output == "" {
			return ledger.RenderReport(cmd.OutOrStdout(), counts, format)
		}
		if err := ledger.ExportReport(output, counts, format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("format", "f", "", "Report format (text, csv, markdown, html)")
	reportCmd.Flags().StringP("output", "o", "", "Write the report to this file")
	reportCmd.MarkFlagFilename("output")
}
