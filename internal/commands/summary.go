package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/metrics"
	"github.com/floraledger/flora/internal/report"
)

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard: revenue, profit, tax reserve and asset ROI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), opts, func(p *project) error {
				f, title := periodFilter(p, year)
				md := report.Summary(title, p.svc.TotalsFor(f), p.svc.TaxEstimateFor(f), p.svc.AssetSummaries())
				return printMarkdown(cmd.OutOrStdout(), opts, md)
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "limit totals to one calendar year")

	return cmd
}

func newTaxesCommand(opts *globalOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "taxes",
		Short: "Estimate the tax reserve on net profit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), opts, func(p *project) error {
				f, title := periodFilter(p, year)
				md := report.Taxes(title, p.svc.TaxEstimateFor(f), p.svc.Settings())
				return printMarkdown(cmd.OutOrStdout(), opts, md)
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "limit the estimate to one calendar year")

	return cmd
}

// periodFilter returns the filter and report title for an optional year.
func periodFilter(p *project, year int) (metrics.Filter, string) {
	title := p.cfg.Business.Name
	if year == 0 {
		return metrics.Filter{}, title
	}
	return metrics.Year(year), fmt.Sprintf("%s %d", title, year)
}

func reportSettings(p *project) string {
	return report.Settings(p.svc.Settings())
}
