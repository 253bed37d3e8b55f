package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltcalc/voltcalc/pkg/dbaccess"
	"github.com/voltcalc/voltcalc/pkg/params"
	"github.com/voltcalc/voltcalc/pkg/telemetry"
	"github.com/voltcalc/voltcalc/pkg/typeconv"
)

func newDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database backend management",
		Long: `Resolve and probe the catalog database backend.

MySQL is preferred whenever the credentials file is present; otherwise
voltcalc falls back to the local SQLite database named by the
SQLITE_DB_NAME parameter. The selection is recorded in
DB_EXISTING_CONNECTION and cached for the process lifetime.`,
	}

	cmd.AddCommand(newDBStatusCommand())

	return cmd
}

func newDBStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Resolve the backend and verify connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			metrics := telemetry.NewMetrics(telemetry.MetricsConfig{Enabled: true})

			store, err := newStore(logger, metrics)
			if err != nil {
				return err
			}

			// ENGINE_ECHO turns on verbose engine logging for the session.
			echo, err := store.Get(params.EngineEcho)
			if err != nil {
				return err
			}
			if echo.Kind() == typeconv.KindBool && echo.Bool() {
				cfg := telemetry.DefaultLoggingConfig()
				cfg.Level = "debug"
				if logger, err = telemetry.NewLogger(cfg); err != nil {
					return err
				}
			}

			resolver, err := dbaccess.NewResolver(dbaccess.ResolverConfig{
				Store:           store,
				CredentialsPath: credentialsPath,
				RootDir:         rootDir,
				Logger:          logger,
				Metrics:         metrics,
			})
			if err != nil {
				return err
			}

			factory := dbaccess.NewSessionFactory(resolver, logger, metrics)
			defer factory.Close()

			conn, err := factory.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\nstatus: ok\n", conn.Backend)
			return nil
		},
	}
}
