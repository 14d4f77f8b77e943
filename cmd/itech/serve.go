package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itechcomputers/storefront/app"
	"github.com/itechcomputers/storefront/app/catalog"
	"github.com/itechcomputers/storefront/app/categories"
	"github.com/itechcomputers/storefront/app/pcbuilder"
	"github.com/itechcomputers/storefront/cache"
	"github.com/itechcomputers/storefront/models"
	"github.com/itechcomputers/storefront/quotes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Run database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	logger := e.logger

	logger.Info("Starting storefront server",
		zap.String("port", e.cfg.Port),
		zap.String("environment", e.cfg.Environment),
	)

	if migrateOnStart {
		if err := models.Migrate(e.db); err != nil {
			return err
		}
		logger.Info("Database migrated")
	}

	redisClient := cache.NewClient(ctx, e.cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	componentCache := cache.NewComponents(redisClient, e.cfg.Redis.TTL, logger)

	prodRepo := models.NewProductsRepository(e.db)
	catRepo := models.NewCategoriesRepository(e.db)
	quoteRepo := models.NewQuotesRepository(e.db)

	var sender quotes.Sender
	if e.cfg.QuoteService.BaseURL != "" {
		sender = quotes.NewForwarder(e.cfg.QuoteService.BaseURL, e.cfg.QuoteService.APIKey, e.cfg.QuoteService.Timeout, logger)
		logger.Info("Quote forwarding enabled", zap.String("url", e.cfg.QuoteService.BaseURL))
	}
	quoteService := quotes.NewService(catRepo, prodRepo, quoteRepo, sender, logger)

	router := app.NewRouter(app.Handlers{
		Catalog:    catalog.NewCatalogHandler(prodRepo, logger),
		Categories: categories.NewCategoryHandler(catRepo, logger),
		PCBuilder:  pcbuilder.NewHandler(catRepo, prodRepo, quoteRepo, quoteService, componentCache, logger),
	}, logger)

	srv := &http.Server{
		Addr:         ":" + e.cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}
