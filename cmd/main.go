package main

import (
	"MeatFresh-Backend/cmd/config"
	migration "MeatFresh-Backend/cmd/database/migrate"
	"MeatFresh-Backend/internal/utils"
	"MeatFresh-Backend/internal/utils/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	migrateRun bool
)

var rootCmd = &cobra.Command{
	Use:   "meatfresh",
	Short: "MeatFresh backend",
	Long: `MeatFresh grades raw meat from a photo, refines the verdict with a sensory
survey and tracks storage deadlines per user.

Run without a subcommand to start the HTTP server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
				return err
			}
		}
		utils.LoadConfig()
		logger.Init(utils.GetConfig("LOG_LEVEL"))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}
		return migration.Migrate(db, logger.L())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (or set CONFIG_PATH)")
	rootCmd.Flags().BoolVar(&migrateRun, "migrate", false, "Run migrations before serving")
	serveCmd.Flags().BoolVar(&migrateRun, "migrate", false, "Run migrations before serving")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if migrateRun {
		if err := migration.Migrate(db, log); err != nil {
			return err
		}
	}

	app, err := config.NewApp(ctx, db, log)
	if err != nil {
		return err
	}

	addr := ":" + utils.GetConfig("PORT")
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
