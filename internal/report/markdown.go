// Package report renders ledger figures as markdown for the terminal.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/floraledger/flora/internal/basis"
	"github.com/floraledger/flora/internal/id"
	"github.com/floraledger/flora/internal/metrics"
	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/tax"
)

const dateFormat = "2006-01-02"

// ConditionalBlock writes a block to w only if block returns true.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	var bw bytes.Buffer
	if block(&bw) {
		_, _ = io.Copy(w, &bw)
	}
}

// Summary renders the dashboard: profit and loss, tax reserve and the
// asset basis overview.
func Summary(title string, totals metrics.Totals, est tax.Estimate, assets []basis.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	renderTotals(&b, totals)
	fmt.Fprintf(&b, "**Estimated tax reserve:** %s  \n", USD(est.TotalTaxReserve))
	fmt.Fprintf(&b, "**Net after tax:** %s\n\n", USD(est.NetAfterTax))
	ConditionalBlock(&b, func(w io.Writer) bool { return renderAssets(w, assets) })
	return b.String()
}

func renderTotals(w io.Writer, t metrics.Totals) {
	fmt.Fprintln(w, "## Profit and loss")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| | Amount |")
	fmt.Fprintln(w, "|:--|--:|")
	fmt.Fprintf(w, "| Gross revenue | %s |\n", USD(t.GrossRevenue))
	fmt.Fprintf(w, "| Cost of goods sold | %s |\n", USD(t.COGS.Neg()))
	fmt.Fprintf(w, "| Marketplace fees | %s |\n", USD(t.MarketplaceFees.Neg()))
	fmt.Fprintf(w, "| Shipping | %s |\n", USD(t.ShippingCosts.Neg()))
	fmt.Fprintf(w, "| **Gross profit** | **%s** |\n", USD(t.GrossProfit))
	fmt.Fprintf(w, "| Operating expenses | %s |\n", USD(t.OperatingExpenses.Neg()))
	fmt.Fprintf(w, "| **Net profit before tax** | **%s** |\n", USD(t.NetProfitBeforeTax))
	fmt.Fprintln(w)
}

func renderAssets(w io.Writer, assets []basis.Summary) bool {
	if len(assets) == 0 {
		return false
	}
	fmt.Fprintln(w, "## Assets")
	fmt.Fprintln(w)
	Assets(w, assets)
	return true
}

// Assets writes the basis table of the given assets.
func Assets(w io.Writer, assets []basis.Summary) {
	fmt.Fprintln(w, "| ID | Name | Status | Basis | Used | Remaining | Revenue | ROI |")
	fmt.Fprintln(w, "|:--|:--|:--|--:|--:|--:|--:|--:|")
	for _, s := range assets {
		roi := "n/a"
		if s.HasROI {
			roi = Percent(s.ROI)
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			id.Short(s.Asset.ID), cell(s.Asset.Name), s.Asset.Status,
			USD(s.Asset.InitialBasis), USD(s.Used), USD(s.Remaining), USD(s.Revenue), roi)
	}
	fmt.Fprintln(w)
}

// Transactions writes a transaction table, newest first as given.
func Transactions(w io.Writer, txs []model.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "_No transactions._")
		return
	}
	fmt.Fprintln(w, "| ID | Date | Category | Description | Source | Amount |")
	fmt.Fprintln(w, "|:--|:--|:--|:--|:--|--:|")
	for _, t := range txs {
		amount := t.Amount
		if t.Type == model.TxExpense {
			amount = amount.Neg()
		}
		desc := cell(t.Description)
		if t.LinkedAssetID != "" {
			desc += " (" + id.Short(t.LinkedAssetID) + ")"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			id.Short(t.ID), t.Date.Format(dateFormat), t.Category, desc, t.Source, SignedUSD(amount))
	}
	fmt.Fprintln(w)
}

// Taxes renders the tax estimate worksheet.
func Taxes(title string, est tax.Estimate, settings model.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintln(&b, "| | Rate | Amount |")
	fmt.Fprintln(&b, "|:--|--:|--:|")
	fmt.Fprintf(&b, "| Net profit before tax | | %s |\n", USD(est.NetProfitBeforeTax))
	fmt.Fprintf(&b, "| Taxable SE base | %s | %s |\n", Percent(tax.SEAdjustment), USD(est.TaxableSEBase))
	fmt.Fprintf(&b, "| Federal self-employment tax | %s | %s |\n", Rate(settings.FederalSETaxRate), USD(est.FederalTax))
	fmt.Fprintf(&b, "| State income tax | %s | %s |\n", Rate(settings.StateTaxRate), USD(est.StateTax))
	fmt.Fprintf(&b, "| **Total tax reserve** | %s | **%s** |\n", Percent(est.EffectiveRate()), USD(est.TotalTaxReserve))
	fmt.Fprintf(&b, "| **Net after tax** | | **%s** |\n", USD(est.NetAfterTax))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "_Simplified estimate; not tax advice._")
	return b.String()
}

// Settings renders the current rates.
func Settings(s model.Settings) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| Setting | Value |")
	fmt.Fprintln(&b, "|:--|--:|")
	fmt.Fprintf(&b, "| State tax rate | %s |\n", Rate(s.StateTaxRate))
	fmt.Fprintf(&b, "| Federal SE tax rate | %s |\n", Rate(s.FederalSETaxRate))
	fmt.Fprintf(&b, "| Marketplace fee rate | %s |\n", Rate(s.MarketplaceFeeRate))
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
