package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/repositories"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tablepos",
	Short: "Order and inventory terminal for a single restaurant station",
	Long: `tablepos runs the order terminal of a restaurant: tables with open carts,
incremental kitchen tickets, sales that deduct ingredient stock atomically,
waste logging and shift reports. State is kept in a JSON file or Postgres,
and every sale, ticket and stock alert is published to the configured output.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.tablepos/config.yaml)")

	rootCmd.PersistentFlags().String("store-backend", "file", "State store: file or postgres")
	rootCmd.PersistentFlags().String("state-path", "tablepos-state.json", "State file used by the file store")
	rootCmd.PersistentFlags().String("output-format", "console", "Event output: console, json, csv, kafka, parquet, postgres or none")
	rootCmd.PersistentFlags().String("output-path", "output", "Base directory of file outputs")
	rootCmd.PersistentFlags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	bindFlag("store_backend", "store-backend")
	bindFlag("state_path", "state-path")
	bindFlag("output_format", "output-format")
	bindFlag("output_path", "output-path")
	bindFlag("kafka_broker_list", "kafka-broker-list")
}

func bindFlag(key, flag string) {
	cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)))
}

func loadConfig() (*models.Config, error) {
	cfg, err := models.LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
	return cfg, nil
}

// withSession opens the terminal, runs fn and closes it again.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *terminal.Session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := terminal.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// loadState reads the saved state without opening an output destination.
func loadState(ctx context.Context) (*models.Config, *models.State, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	repo, err := repositories.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	defer repo.Close()
	state, err := repositories.LoadOrInit(ctx, repo, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, state, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
