package cmd

import (
	"fmt"
	"log"

	"github.com/chrisdamba/tablepos/internal/output"
	"github.com/chrisdamba/tablepos/internal/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the sales log as sale_events",
	Long: `export writes the (optionally filtered) sales log as sale_events rows.
Parquet files go to --output-path, or to the configured S3 bucket when
cloud_storage.provider is s3.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := reportFilter(cmd)
		if err != nil {
			return err
		}
		cfg, state, err := loadState(cmd.Context())
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		exportCfg := *cfg
		exportCfg.OutputFormat = format
		dest, err := output.New(&exportCfg)
		if err != nil {
			return err
		}

		sales := report.Summarize(state.Sales, filter).Sales
		messages, err := output.SaleMessages(sales)
		if err != nil {
			dest.Close()
			return err
		}

		bar := progressbar.Default(int64(len(messages)), "exporting sales")
		for _, msg := range messages {
			if err := dest.WriteMessage(msg.Topic, msg.Message); err != nil {
				dest.Close()
				return fmt.Errorf("failed to export sale: %w", err)
			}
			bar.Add(1)
		}
		bar.Finish()

		if err := dest.Close(); err != nil {
			return fmt.Errorf("failed to finish export: %w", err)
		}
		log.Printf("Exported %d sales as %s", len(messages), format)
		return nil
	},
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "parquet", "Export format: parquet, json, csv, kafka or postgres")
	rootCmd.AddCommand(exportCmd)
}
