package cmd

import (
	"fmt"

	"shelf/internal/db"

	"github.com/spf13/cobra"
)

var seedCount int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo products",
	Long: `Insert demo products spread over a few categories so the browser has
something to page through.

Examples:
  shelf seed
  shelf seed --count 120`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 {
			return fmt.Errorf("--count must be positive, got %d", seedCount)
		}
		database, err := db.Open(cfg.Data.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		if err := db.SeedProducts(database, seedCount); err != nil {
			return err
		}
		logger.Info().Int("count", seedCount).Str("db", cfg.Data.DBPath).Msg("seeded products")
		fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d products into %s\n", seedCount, cfg.Data.DBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 40, "number of products to insert")
}
