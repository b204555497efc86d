package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/config"
	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var backend string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Flora Ledger project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(cmd.Context(), absDir, name, backend); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized Flora Ledger project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "storage backend: file or mongo")

	return cmd
}

func runInit(ctx context.Context, dir, name, backend string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default(name)
	cfg.Storage.Backend = backend
	// A mongo URI comes from the environment and is checked on first use.
	if backend != config.BackendMongo {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// Create directory structure.
	dirs := []string{cfg.Backup.Dir}
	if backend != config.BackendMongo {
		dirs = append(dirs, cfg.Storage.Path)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write flora.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\n" + cfg.Backup.Dir + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write an empty ledger so the first backup has something to read.
	if backend != config.BackendMongo {
		repo := store.NewRepository(store.NewFileBackend(filepath.Join(dir, cfg.Storage.Path)),
			store.WithNamespace(cfg.Storage.Namespace))
		if err := repo.Save(ctx, model.NewBusinessState(cfg.Settings.LedgerSettings())); err != nil {
			return fmt.Errorf("writing ledger: %w", err)
		}
	}
	return nil
}
