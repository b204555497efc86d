package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/basis"
	"github.com/floraledger/flora/internal/id"
	"github.com/floraledger/flora/internal/ledger"
	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/report"
)

func newAssetCommand(opts *globalOptions) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:     "asset",
		Aliases: []string{"plant"},
		Short:   "Manage mother plants and other basis-carrying assets",
	}
	assetCmd.AddCommand(
		newAssetAddCommand(opts),
		newAssetListCommand(opts),
		newAssetStatusCommand(opts),
	)
	return assetCmd
}

func newAssetAddCommand(opts *globalOptions) *cobra.Command {
	var name, price, fees, dateStr, source, status, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an acquired asset and capitalize its cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ledger.AssetParams{Name: name, Notes: notes}
			var err error
			if params.AcquisitionPrice, err = parseAmount("price", price); err != nil {
				return err
			}
			if params.ImportFees, err = parseAmount("fees", fees); err != nil {
				return err
			}
			if params.Date, err = parseDate(dateStr); err != nil {
				return err
			}
			if params.Source, err = parseSource(source); err != nil {
				return err
			}
			if status != "" {
				if params.Status, err = parseStatus(status); err != nil {
					return err
				}
			}

			return withProject(cmd.Context(), opts, func(p *project) error {
				asset, err := p.svc.RecordAsset(cmd.Context(), params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded asset %s %q (basis %s)\n",
					id.Short(asset.ID), asset.Name, report.USD(asset.InitialBasis))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "asset name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&price, "price", "0", "acquisition price")
	cmd.Flags().StringVar(&fees, "fees", "0", "import / phytosanitary fees")
	cmd.Flags().StringVar(&dateStr, "date", "", "acquisition date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&source, "source", string(model.SourceOnline), "acquisition channel")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default MOTHER)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

func newAssetListCommand(opts *globalOptions) *cobra.Command {
	var status, source, search string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets with their basis and ROI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ledger.AssetQuery{Name: search, IncludeArchived: all}
			var err error
			if status != "" {
				if q.Status, err = parseStatus(status); err != nil {
					return err
				}
			}
			if source != "" {
				if q.Source, err = parseSource(source); err != nil {
					return err
				}
			}

			return withProject(cmd.Context(), opts, func(p *project) error {
				assets := p.svc.Assets(q)
				if len(assets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No assets.")
					return nil
				}
				txs := p.svc.State().Transactions
				summaries := make([]basis.Summary, len(assets))
				for i, a := range assets {
					summaries[i] = basis.Summarize(a, txs)
				}
				var b strings.Builder
				report.Assets(&b, summaries)
				return printMarkdown(cmd.OutOrStdout(), opts, b.String())
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only assets in this status")
	cmd.Flags().StringVar(&source, "source", "", "only assets from this channel")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	cmd.Flags().BoolVar(&all, "all", false, "include archived assets")

	return cmd
}

func newAssetStatusCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <asset-id> <status>",
		Short: "Move an asset to MOTHER, FOR_SALE, SOLD or ARCHIVED",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			return withProject(cmd.Context(), opts, func(p *project) error {
				assetID, err := p.svc.ResolveAssetID(args[0])
				if errors.Is(err, id.ErrNoMatch) {
					fmt.Fprintf(cmd.OutOrStdout(), "No asset %s; status unchanged\n", args[0])
					return nil
				}
				if err != nil {
					return err
				}
				if err := p.svc.SetAssetStatus(cmd.Context(), assetID, status); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Asset %s is %s\n", id.Short(assetID), status)
				return nil
			})
		},
	}
}
