// Package commands implements the motormony command line: the HTTP server
// and a one-shot terminal search against the recommendation service.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-motormony/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X ...commands.version=".
var version = "dev"

var (
	envFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "motormony",
	Short: "Vehicle results explorer",
	Long: `motormony asks a recommendation service for vehicles matching a natural
language query and lets you sort, filter by year, page through and compare
the results, either over HTTP (serve) or directly in the terminal (search).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; the environment and defaults still apply.
		if envFile != "" {
			return godotenv.Load(envFile)
		}
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file instead of ./.env")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logLevel lets --verbose override the configured level.
func logLevel(configured string) string {
	if verbose {
		return "debug"
	}
	return sysutil.FirstNonEmpty(configured, "info")
}
