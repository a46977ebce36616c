package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:          "dashboard",
	Short:        "Health dashboard for service endpoints",
	Long:         "dashboard polls configured health and keyword checks and serves their latest status as an HTML page and a JSON API.",
	Version:      Version,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "dashboard document (overrides CONFIG_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
