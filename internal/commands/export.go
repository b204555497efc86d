package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/export"
	"github.com/floraledger/flora/internal/model"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV or a JSON snapshot",
	}
	exportCmd.AddCommand(
		newExportFormatCommand(opts, "csv", "Export transactions as CSV for a spreadsheet or accountant",
			export.CSVFileName, func(w io.Writer, s model.BusinessState) error {
				return export.WriteCSV(w, s.Transactions)
			}),
		newExportFormatCommand(opts, "json", "Export a full snapshot that 'flora restore' can read",
			export.SnapshotFileName, export.WriteSnapshot),
	)
	return exportCmd
}

func newExportFormatCommand(
	opts *globalOptions,
	name, short string,
	fileName func(d time.Time) string,
	write func(io.Writer, model.BusinessState) error,
) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), opts, func(p *project) error {
				state := p.svc.State()
				if out == "-" {
					return write(cmd.OutOrStdout(), state)
				}
				path := out
				if path == "" {
					path = filepath.Join(p.dir, fileName(today()))
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				if err := write(f, state); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, '-' for stdout (default a dated file in the project)")

	return cmd
}

func newRestoreCommand(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <snapshot.json>",
		Short: "Replace the ledger with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("restore replaces every transaction, asset and setting; pass --yes to confirm")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			state, err := export.ReadSnapshot(f)
			if err != nil {
				return err
			}
			return withProject(cmd.Context(), opts, func(p *project) error {
				if err := p.svc.Restore(cmd.Context(), state); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d transactions and %d assets\n",
					len(state.Transactions), len(state.Assets))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm replacing the ledger")

	return cmd
}
