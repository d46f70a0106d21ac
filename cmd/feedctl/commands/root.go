// Package commands implements the feedctl CLI.
package commands

import (
	"fmt"

	"github.com/Sternrassler/newsfeed-client/pkg/config"
	"github.com/Sternrassler/newsfeed-client/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
)

var (
	configPath string
	logLevel   string

	// cfg is loaded once before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Browse and serve a paginated news feed",
	Long: `feedctl pages through the news API, resolves title images through a
shared in-memory cache and exposes the feed over HTTP.

Configuration is read from ./feedctl.yaml (or --config) and FEEDCTL_*
environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			if _, err := logging.ParseLevel(logLevel); err != nil {
				return err
			}
			loaded.Logging.Level = logLevel
		}

		logging.Setup(logging.Config{
			Level:  logging.LogLevel(loaded.Logging.Level),
			Pretty: loaded.Logging.Pretty,
			Output: cmd.ErrOrStderr(),
		})

		cfg = loaded
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "feedctl %s (%s)\n", Version, Commit)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./feedctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug|info|warn|error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}
