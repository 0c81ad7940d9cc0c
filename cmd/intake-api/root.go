package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "intake-api",
	Short: "Lead intake endpoint: validate, store, notify",
	Long: `intake-api accepts project-intake submissions over HTTP, writes each one
to the configured record table and then notifies the configured downstream
targets on a best-effort basis.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command; with no subcommand it serves.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config YAML file (default: configs/config.yaml)")
}
