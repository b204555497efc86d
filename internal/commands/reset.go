package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every transaction and asset, keeping the rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes the whole ledger; pass --yes to confirm")
			}
			return withProject(cmd.Context(), opts, func(p *project) error {
				p.svc.Reset(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Ledger cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	return cmd
}
