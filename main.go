package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/logging"
)

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libratrack",
		Short:         "LibraTrack library management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", db.DefaultConfigPath, "path to config.yaml")

	root.AddCommand(serveCmd(), migrateCmd(), staffCmd())
	return root
}

// bootstrap loads the config, installs the process logger and opens the database.
func bootstrap() (*db.Config, *db.DB, *slog.Logger, error) {
	cfg, err := db.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.New(cfg.Mode)
	slog.SetDefault(logger)
	logger.Info("config loaded", "mode", cfg.Mode, "driver", cfg.DB.Driver)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, conn, logger, nil
}
