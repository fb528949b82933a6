package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"uffetcher/internal/coordinator"
)

var getDecimal bool

var getCmd = &cobra.Command{
	Use:   "get DATE [DATE...]",
	Short: "Prints the UF value for each date (YYYY-MM-DD).",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, source, service, err := setup()
		if err != nil {
			return err
		}
		defer source.Close()

		coord := coordinator.New(service, cmd.OutOrStdout()).WithDecimal(getDecimal)
		results, err := coord.Run(cmd.Context(), args)
		if err != nil {
			return err
		}

		if failed := coordinator.Failed(results); failed > 0 {
			return fmt.Errorf("%d of %d lookups failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	getCmd.Flags().BoolVar(&getDecimal, "decimal", false, "Print values as plain decimals (36123.45) instead of the SII notation.")
	rootCmd.AddCommand(getCmd)
}
