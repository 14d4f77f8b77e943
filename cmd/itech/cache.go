package main

import (
	"errors"

	"github.com/itechcomputers/storefront/cache"
	"github.com/itechcomputers/storefront/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the PC-builder component cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [category...]",
	Short: "Drop cached component lists (all builder categories when none are given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.close()

		client := cache.NewClient(ctx, e.cfg.Redis, e.logger)
		if client == nil {
			return errors.New("redis is not configured or not reachable")
		}
		defer client.Close()

		slugs := args
		if len(slugs) == 0 {
			cats, err := models.NewCategoriesRepository(e.db).GetBuilderCategories(ctx)
			if err != nil {
				return err
			}
			for _, c := range cats {
				slugs = append(slugs, c.Slug)
			}
		}

		cache.NewComponents(client, e.cfg.Redis.TTL, e.logger).Invalidate(ctx, slugs...)
		e.logger.Info("Component cache cleared", zap.Strings("categories", slugs))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
