package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playback/internal/repositories"
	"github.com/desertthunder/playback/internal/shared"
	"github.com/desertthunder/playback/internal/tasks"
	"github.com/urfave/cli/v3"
)

// BackupRun backs up the playlist library: fetches playlists with their
// tracks, records snapshots to the local database, and writes an export file.
func (r *Runner) BackupRun(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")
	limit := cmd.Int("limit")
	noDB := cmd.Bool("no-db")

	svc, err := r.requireService()
	if err != nil {
		return err
	}

	if err := svc.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	var snapshots tasks.SnapshotStore
	if !noDB {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		snapshots = repositories.NewSnapshotWriter(db, r.logger)
	}

	engine := tasks.NewBackupEngine(svc, snapshots, r.logger)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Run(ctx, progress, tasks.BackupOpts{
		Format:     format,
		OutputPath: output,
		Limit:      limit,
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	r.writePlainln("✓ Backup complete")
	r.writePlain("Playlists: %d\n", result.TotalPlaylists)
	r.writePlain("Backed up: %d\n", result.SuccessfulBackups)
	if result.DegradedBackups > 0 {
		r.writePlain("Without tracks: %d\n", result.DegradedBackups)
	}
	if result.FailedBackups > 0 {
		r.writePlain("Failed: %d\n", result.FailedBackups)
	}
	if result.OutputPath != "" {
		r.writePlain("Export: %s\n", result.OutputPath)
	}

	return nil
}
