package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/floraledger/flora/internal/backup"
)

func newBackupCommand(opts *globalOptions) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Write dated JSON snapshots of the ledger",
	}
	backupCmd.AddCommand(newBackupRunCommand(opts), newBackupScheduleCommand(opts))
	return backupCmd
}

func newBackup(p *project) *backup.Backup {
	dir := p.cfg.Backup.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.dir, dir)
	}
	return backup.New(p.repo, dir, p.cfg.Backup.Keep, backup.WithLogger(p.log))
}

func newBackupRunCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Write today's snapshot and prune old ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), opts, func(p *project) error {
				path, err := newBackup(p).RunOnce(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}
}

func newBackupScheduleCommand(opts *globalOptions) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run backups on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withProject(ctx, opts, func(p *project) error {
				spec := schedule
				if spec == "" {
					spec = p.cfg.Backup.Schedule
				}
				s := backup.NewScheduler(newBackup(p), p.log)
				if err := s.Start(spec); err != nil {
					return err
				}
				defer s.Stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Backing up on %q, next run %s\n", spec, s.Next().Format("2006-01-02 15:04"))
				<-ctx.Done()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression (default from flora.yaml)")

	return cmd
}
