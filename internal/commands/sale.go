package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/id"
	"github.com/floraledger/flora/internal/ledger"
	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/report"
)

func newSaleCommand(opts *globalOptions) *cobra.Command {
	var assetRef, memo, amount, basisStr, source, dateStr string

	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record a sale with its marketplace fee and basis allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ledger.SaleParams{Memo: memo}
			var err error
			if params.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if params.Basis, err = parseAmount("basis", basisStr); err != nil {
				return err
			}
			if params.Source, err = parseSource(source); err != nil {
				return err
			}
			if params.Date, err = parseDate(dateStr); err != nil {
				return err
			}

			return withProject(cmd.Context(), opts, func(p *project) error {
				if assetRef != "" {
					if params.AssetID, err = p.svc.ResolveAssetID(assetRef); err != nil {
						return err
					}
				}
				res, err := p.svc.RecordSale(cmd.Context(), params)
				if err != nil {
					return err
				}
				printSale(cmd, res)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&assetRef, "asset", "", "asset id or unique prefix the sale came from")
	cmd.Flags().StringVar(&memo, "memo", "", "sale description (required)")
	_ = cmd.MarkFlagRequired("memo")
	cmd.Flags().StringVar(&amount, "amount", "", "sale amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&basisStr, "basis", "0", "basis to allocate from the asset")
	cmd.Flags().StringVar(&source, "source", string(model.SourcePalmstreet), "sales channel")
	cmd.Flags().StringVar(&dateStr, "date", "", "sale date, YYYY-MM-DD (default today)")

	return cmd
}

func printSale(cmd *cobra.Command, res ledger.SaleResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Recorded sale %s %s\n", id.Short(res.Sale.ID), report.USD(res.Sale.Amount))
	if res.Fee != nil {
		fmt.Fprintf(w, "  marketplace fee %s\n", report.USD(res.Fee.Amount))
	}
	if res.COGS != nil {
		fmt.Fprintf(w, "  basis allocated %s\n", report.USD(res.COGS.Amount))
	}
	if res.Clamped() {
		fmt.Fprintf(w, "  requested basis %s reduced to the %s remaining\n",
			report.USD(res.Requested), report.USD(res.Allocated))
	}
}
