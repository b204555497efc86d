package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/buildinfo"
	"github.com/floraledger/flora/internal/report"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	dir   string
	style string
	width int
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "flora",
		Short:   "Bookkeeping and cost-basis ledger for a plant resale business",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.style, "style", report.StylePlain, "report style: plain, auto, dark, light or notty")
	rootCmd.PersistentFlags().IntVar(&opts.width, "width", 100, "report word wrap width")

	rootCmd.AddCommand(
		newInitCommand(),
		newAssetCommand(opts),
		newSaleCommand(opts),
		newTxnCommand(opts),
		newSettingsCommand(opts),
		newSummaryCommand(opts),
		newTaxesCommand(opts),
		newExportCommand(opts),
		newRestoreCommand(opts),
		newBackupCommand(opts),
		newImportCommand(opts),
		newResetCommand(opts),
	)

	return rootCmd
}
