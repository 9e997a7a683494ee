package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/crudforge/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "crudserver",
	Short:         "Inventory API with generated CRUD endpoints",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CRUDSERVER_CONFIG"), "Path to the YAML configuration file")
	rootCmd.Version = Version + " (" + Commit + ")"
}

// loadConfig reads --config, or returns the defaults when none is given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
