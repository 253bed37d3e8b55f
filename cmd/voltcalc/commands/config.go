package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltcalc/voltcalc/pkg/typeconv"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change configuration parameters",
		Long: `Read and write single parameters of the flat configuration file.

Values keep their exact type across a round trip: text, booleans,
integers, floats, and arbitrary-precision decimals written as
Decimal('...') literals.`,
	}

	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Print the typed value of a parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			store, err := newStore(logger, nil)
			if err != nil {
				return err
			}

			value, err := store.Get(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", value.String(), value.Kind())
			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Change the value of a pre-declared parameter",
		Example: `  # switch the local database file
  voltcalc config set SQLITE_DB_NAME config_test.db

  # decimals keep arbitrary precision
  voltcalc config set SYSTEM_VOLTAGE_IN_KILOVOLTS "Decimal('0.4')"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			store, err := newStore(logger, nil)
			if err != nil {
				return err
			}

			value, err := typeconv.NewCodec(logger).Decode(args[1])
			if err != nil {
				return err
			}
			return store.Set(args[0], value)
		},
	}
}
