/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/campusboard/server/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the campusboard web server",
	Long: `Starts the campusboard web server. Usage:

	campusboard server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		if err := cfg.Validate(); err != nil {
			log.WithError(err).Error("invalid configuration")
			return err
		}
		if cfg.Session.Generated {
			log.Warn("SESSION_SECRET is not set; using a random secret, sessions will not survive a restart")
		}

		srv, err := server.New(cmd.Context(), cfg, log)
		if err != nil {
			log.WithError(err).Error("failed to start server")
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithField("addr", srv.Addr()).Info("server listening")
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.WithError(err).Error("server error")
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
		}

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
			return err
		}
		return <-errCh
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
