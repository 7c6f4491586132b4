package cmd

import (
	"fmt"
	"log"

	"github.com/chrisdamba/tablepos/internal/factories"
	"github.com/chrisdamba/tablepos/internal/repositories"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog with the demo seafood menu",
	Long: `seed writes a demo inventory and recipe book covering every kitchen station.
Stock levels and thresholds are randomised from --seed. Tables, sales and the
waste log are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		repo, err := repositories.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		state, err := repositories.LoadOrInit(ctx, repo, cfg)
		if err != nil {
			return err
		}
		if len(state.Sales) > 0 {
			log.Printf("Keeping %d logged sales", len(state.Sales))
		}

		factories.NewCatalogFactory(cfg.Seed).Seed(state)
		if err := repo.Save(ctx, state); err != nil {
			return fmt.Errorf("failed to save seeded state: %w", err)
		}
		log.Printf("Seeded %d ingredients and %d recipes", len(state.Inventory), len(state.Recipes))
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64("seed", 42, "Random seed for stock levels")
	cobra.CheckErr(viper.BindPFlag("seed", seedCmd.Flags().Lookup("seed")))
	rootCmd.AddCommand(seedCmd)
}
