package main

import (
	"os"

	"github.com/itechcomputers/storefront/cache"
	"github.com/itechcomputers/storefront/models"
	"github.com/itechcomputers/storefront/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Load categories and products from a JSON fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		fixture, err := seed.Parse(f)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.close()

		res, err := seed.Apply(ctx,
			models.NewCategoriesRepository(e.db),
			models.NewProductsRepository(e.db),
			fixture, e.logger)
		if err != nil {
			return err
		}

		// Cached component lists of the touched categories are now stale.
		client := cache.NewClient(ctx, e.cfg.Redis, e.logger)
		if client != nil {
			defer client.Close()
			cache.NewComponents(client, e.cfg.Redis.TTL, e.logger).Invalidate(ctx, res.Touched...)
		}

		e.logger.Info("Seed applied",
			zap.Int("categories", res.Categories),
			zap.Int("products", res.Products),
			zap.Int("skipped", res.Skipped),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
