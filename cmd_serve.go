package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

func serveCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, conn, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer conn.Close()

			if cfg.Auth.Enabled && cfg.Auth.Secret == "" {
				return errors.New("auth.enabled requires auth.secret (or LIBRATRACK_JWT_SECRET)")
			}
			if !skipMigrate {
				if err := db.Migrate(cmd.Context(), conn); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           newRouter(cfg, conn, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			certFile, keyFile := tlsFiles(cfg)
			errCh := make(chan error, 1)
			go func() {
				var err error
				if certFile != "" {
					logger.Info("listening", "addr", "https://"+cfg.Server.Addr)
					err = srv.ListenAndServeTLS(certFile, keyFile)
				} else {
					logger.Info("listening", "addr", "http://"+cfg.Server.Addr)
					err = srv.ListenAndServe()
				}
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			// Graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			select {
			case err, ok := <-errCh:
				if ok {
					return err
				}
				return nil
			case <-quit:
			}
			logger.Info("shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not create missing tables on start")
	return cmd
}

// tlsFiles resolves config/tls/<mode>/<file>. Empty when no certificate is configured.
func tlsFiles(cfg *db.Config) (string, string) {
	if cfg.Certificate.Cert == "" || cfg.Certificate.Key == "" {
		return "", ""
	}
	return fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Cert),
		fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Key)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, conn, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(cmd.Context(), conn); err != nil {
				return err
			}
			logger.Info("schema is up to date")
			return nil
		},
	}
}
