package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/importer"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format, expenseCategory, incomeCategory, source string

	cmd := &cobra.Command{
		Use:   "import [statement.csv]",
		Short: "Import a bank statement, or every CSV waiting in statements/",
		Long: "Import books each statement row as a manual entry: money out as an expense,\n" +
			"money in as income. A file's rows are committed together or not at all.\n" +
			"Without an argument, CSVs in the project's statements/ directory are imported\n" +
			"and moved to statements/imported/.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(registry.Formats(), ", "))
			}
			mapping := importer.DefaultMapping()
			var err error
			if mapping.ExpenseCategory, err = parseCategory(expenseCategory); err != nil {
				return err
			}
			if mapping.IncomeCategory, err = parseCategory(incomeCategory); err != nil {
				return err
			}
			if mapping.Source, err = parseSource(source); err != nil {
				return err
			}

			return withProject(cmd.Context(), opts, func(p *project) error {
				importFile := func(path string) (int, error) {
					f, err := os.Open(path)
					if err != nil {
						return 0, err
					}
					defer f.Close()
					lines, err := parser.Parse(f)
					if err != nil {
						return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
					}
					rows, err := p.svc.ImportTransactions(cmd.Context(), mapping.Params(lines))
					if err != nil {
						return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
					}
					return len(rows), nil
				}

				if len(args) == 1 {
					n, err := importFile(args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", n, args[0])
					return nil
				}

				files, err := importer.Scan(p.dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No statements in %s\n", importer.InboxDir)
					return nil
				}
				for _, fi := range files {
					n, err := importFile(fi.Path)
					if err != nil {
						return err
					}
					if err := importer.MarkProcessed(p.dir, fi.Name); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", n, fi.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "statement format: chase or simple")
	cmd.Flags().StringVar(&expenseCategory, "expense-category", "OTHER", "category for money out")
	cmd.Flags().StringVar(&incomeCategory, "income-category", "OTHER", "category for money in")
	cmd.Flags().StringVar(&source, "source", "OTHER", "channel recorded on every row")

	return cmd
}
