package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand(opts *globalOptions) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the ledger's tax and fee rates",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(opts), newSettingsSetCommand(opts))
	return settingsCmd
}

func newSettingsShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), opts, func(p *project) error {
				return printMarkdown(cmd.OutOrStdout(), opts, reportSettings(p))
			})
		},
	}
}

func newSettingsSetCommand(opts *globalOptions) *cobra.Command {
	var stateTax, federalTax, feeRate string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more rates, given as percentages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("state-tax") && !flags.Changed("federal-se-tax") && !flags.Changed("marketplace-fee") {
				return fmt.Errorf("nothing to change; pass --state-tax, --federal-se-tax or --marketplace-fee")
			}
			return withProject(cmd.Context(), opts, func(p *project) error {
				s := p.svc.Settings()
				var err error
				if flags.Changed("state-tax") {
					if s.StateTaxRate, err = parseAmount("state-tax", stateTax); err != nil {
						return err
					}
				}
				if flags.Changed("federal-se-tax") {
					if s.FederalSETaxRate, err = parseAmount("federal-se-tax", federalTax); err != nil {
						return err
					}
				}
				if flags.Changed("marketplace-fee") {
					if s.MarketplaceFeeRate, err = parseAmount("marketplace-fee", feeRate); err != nil {
						return err
					}
				}
				if err := p.svc.UpdateSettings(cmd.Context(), s); err != nil {
					return err
				}
				return printMarkdown(cmd.OutOrStdout(), opts, reportSettings(p))
			})
		},
	}

	cmd.Flags().StringVar(&stateTax, "state-tax", "", "state income tax rate, percent")
	cmd.Flags().StringVar(&federalTax, "federal-se-tax", "", "federal self-employment tax rate, percent")
	cmd.Flags().StringVar(&feeRate, "marketplace-fee", "", "marketplace fee rate, percent")

	return cmd
}
