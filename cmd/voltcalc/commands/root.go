package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltcalc/voltcalc/pkg/params"
	"github.com/voltcalc/voltcalc/pkg/telemetry"
)

var (
	// Global flags
	configPath      string
	credentialsPath string
	rootDir         string
	verbose         bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voltcalc",
		Short: "Voltcalc - electrical catalog and short-circuit calculation backend",
		Long: `Voltcalc manages the catalog database and typed configuration for
electrical short-circuit calculations.

The catalog lives in a MySQL database when credentials are available and
falls back to a local SQLite database otherwise. All runtime parameters
are kept in a flat, human-editable configuration file and round-trip
with their exact types.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.cfg", "configuration file path")
	rootCmd.PersistentFlags().StringVar(&credentialsPath, "credentials", "credentials.json", "MySQL credentials file path")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "directory holding the local SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newDBCommand())

	return rootCmd
}

// newLogger builds the logger honoring the --verbose flag.
func newLogger() (*telemetry.Logger, error) {
	cfg := telemetry.DefaultLoggingConfig()
	if verbose {
		cfg.Level = "debug"
	}
	return telemetry.NewLogger(cfg)
}

// newStore builds the parameter store from the global flags.
func newStore(logger *telemetry.Logger, metrics *telemetry.Metrics) (*params.Store, error) {
	return params.New(params.Config{
		Path:    configPath,
		Logger:  logger,
		Metrics: metrics,
	})
}
