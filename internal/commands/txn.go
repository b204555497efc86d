package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/id"
	"github.com/floraledger/flora/internal/ledger"
	"github.com/floraledger/flora/internal/metrics"
	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/report"
)

func newTxnCommand(opts *globalOptions) *cobra.Command {
	txnCmd := &cobra.Command{
		Use:     "txn",
		Aliases: []string{"transaction"},
		Short:   "Add, list and delete ledger transactions",
	}
	txnCmd.AddCommand(
		newTxnAddCommand(opts),
		newTxnListCommand(opts),
		newTxnDeleteCommand(opts),
	)
	return txnCmd
}

func newTxnAddCommand(opts *globalOptions) *cobra.Command {
	var category, typ, desc, amount, source, dateStr, assetRef string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a manual income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ledger.TransactionParams{Description: desc}
			var err error
			if params.Category, err = parseCategory(category); err != nil {
				return err
			}
			if params.Type, err = parseType(typ); err != nil {
				return err
			}
			if params.Amount, err = parseAmount("amount", amount); err != nil {
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
				rows, err := p.svc.RecordTransaction(cmd.Context(), params)
				if err != nil {
					return err
				}
				for _, t := range rows {
					fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s %s %s\n",
						id.Short(t.ID), t.Type, t.Category, report.USD(t.Amount))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&typ, "type", "", "INCOME or EXPENSE (default from category)")
	cmd.Flags().StringVar(&desc, "desc", "", "description (required)")
	_ = cmd.MarkFlagRequired("desc")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&source, "source", string(model.SourceOther), "channel")
	cmd.Flags().StringVar(&dateStr, "date", "", "date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&assetRef, "asset", "", "link to an asset id or unique prefix")

	return cmd
}

func newTxnListCommand(opts *globalOptions) *cobra.Command {
	var category, typ, assetRef, from, to, search string
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f metrics.Filter
			if year != 0 {
				f = metrics.Year(year)
			}
			f.Search = search
			var err error
			if category != "" {
				if f.Category, err = parseCategory(category); err != nil {
					return err
				}
			}
			if f.Type, err = parseType(typ); err != nil {
				return err
			}
			if from != "" {
				if f.From, err = parseDate(from); err != nil {
					return err
				}
			}
			if to != "" {
				if f.To, err = parseDate(to); err != nil {
					return err
				}
			}

			return withProject(cmd.Context(), opts, func(p *project) error {
				if assetRef != "" {
					if f.AssetID, err = p.svc.ResolveAssetID(assetRef); err != nil {
						return err
					}
				}
				var b strings.Builder
				report.Transactions(&b, p.svc.Transactions(f))
				return printMarkdown(cmd.OutOrStdout(), opts, b.String())
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&typ, "type", "", "only INCOME or EXPENSE")
	cmd.Flags().StringVar(&assetRef, "asset", "", "only rows linked to this asset")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().IntVar(&year, "year", 0, "only this calendar year")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive description filter")

	return cmd
}

func newTxnDeleteCommand(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <txn-id>",
		Short: "Delete a transaction (related fee and basis rows are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}
			return withProject(cmd.Context(), opts, func(p *project) error {
				txID, err := p.svc.ResolveTransactionID(args[0])
				if errors.Is(err, id.ErrNoMatch) {
					fmt.Fprintf(cmd.OutOrStdout(), "No transaction %s; nothing to delete\n", args[0])
					return nil
				}
				if err != nil {
					return err
				}
				if p.svc.DeleteTransaction(cmd.Context(), txID) {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id.Short(txID))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	return cmd
}
