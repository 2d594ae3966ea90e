/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusboard/server/config"
	"github.com/campusboard/server/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "campusboard",
	Short: "Campus community board server",
	Long: `campusboard serves the campus community site: accounts, the personal
and bulletin boards, comments, building pages and Gemini search.

It also ships the operational commands that go with it, such as
database migrations and account removal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and builds the process logger.
func loadConfig() (config.Config, *logrus.Logger) {
	cfg := config.LoadConfig()
	log := logging.New(cfg.AppEnv, cfg.LogLevel)
	return cfg, log
}
