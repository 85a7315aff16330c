package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/playback/internal/formatter"
	"github.com/desertthunder/playback/internal/shared"
	"golang.org/x/time/rate"
)

// BackupOpts contains configuration for a backup run.
type BackupOpts struct {
	Format      string   // Export format: csv, json, text (empty skips the export file)
	OutputPath  string   // Export file path (default: timestamped name in the working directory)
	Limit       int      // Maximum playlists to back up, 0 for all
	RateLimit   float64  // Detail requests per second (default: 5)
	PlaylistIDs []string // Back up only these playlists, empty for the whole library
}

// Run backs up the playlist library sequentially, preserving library order.
//
// When PlaylistIDs is set, each playlist is fetched individually with rate
// limiting; a failed fetch degrades to a recorded failure and the run
// continues. An expired token aborts the run since every later fetch would
// fail the same way.
func (e *BackupEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts) (*BackupResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if !e.service.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &BackupResult{}

	var err error
	if len(opts.PlaylistIDs) > 0 {
		err = e.fetchSelected(ctx, progress, opts, result)
	} else {
		err = e.fetchLibrary(ctx, progress, opts, result)
	}
	if err != nil {
		return nil, err
	}

	result.TotalPlaylists = len(result.Results)

	if e.snapshots != nil {
		e.recordSnapshots(progress, result)
	}

	if opts.Format != "" && len(result.Playlists) > 0 {
		path, err := formatter.WriteExport(result.Playlists, opts.Format, opts.OutputPath)
		if err != nil {
			return result, fmt.Errorf("backup completed but export failed: %w", err)
		}
		result.OutputPath = path
		e.sendProgress(progress, writeExportUpdate(path))
	}

	return result, nil
}

// fetchLibrary retrieves the whole library in one paginated walk. Per-playlist
// track failures were already degraded to empty track lists by the service.
func (e *BackupEngine) fetchLibrary(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts, result *BackupResult) error {
	e.sendProgress(progress, fetchLibraryUpdate(0, 0))

	playlists, err := e.service.Playlists(ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist library: %w", err)
	}

	for i := range playlists {
		p := &playlists[i]
		degraded := len(p.Tracks) == 0 && p.TrackCount > 0

		result.Playlists = append(result.Playlists, *p)
		result.Results = append(result.Results, PlaylistBackupResult{
			PlaylistID:   p.ID,
			PlaylistName: p.Name,
			TrackCount:   len(p.Tracks),
			Degraded:     degraded,
		})

		if degraded {
			result.DegradedBackups++
		} else {
			result.SuccessfulBackups++
		}
		e.sendProgress(progress, playlistDoneUpdate(i+1, len(playlists), p.Name, len(p.Tracks)))
	}

	return nil
}

// fetchSelected retrieves only the chosen playlists, pacing detail requests
// with the rate limiter.
func (e *BackupEngine) fetchSelected(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts, result *BackupResult) error {
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	total := len(opts.PlaylistIDs)

	for i, id := range opts.PlaylistIDs {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		e.sendProgress(progress, fetchPlaylistUpdate(i+1, total, id))

		playlist, err := e.service.PlaylistDetails(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrTokenExpired) {
				return err
			}

			e.logger.Warn("skipping playlist", "id", id, "error", err)
			result.Results = append(result.Results, PlaylistBackupResult{
				PlaylistID:   id,
				PlaylistName: fmt.Sprintf("Unknown (%s)", id),
				Error:        err,
			})
			result.FailedBackups++
			e.sendProgress(progress, playlistFailedUpdate(i+1, total, id, err))
			continue
		}

		degraded := len(playlist.Tracks) == 0 && playlist.TrackCount > 0
		result.Playlists = append(result.Playlists, *playlist)
		result.Results = append(result.Results, PlaylistBackupResult{
			PlaylistID:   playlist.ID,
			PlaylistName: playlist.Name,
			TrackCount:   len(playlist.Tracks),
			Degraded:     degraded,
		})

		if degraded {
			result.DegradedBackups++
		} else {
			result.SuccessfulBackups++
		}
		e.sendProgress(progress, playlistDoneUpdate(i+1, total, playlist.Name, len(playlist.Tracks)))
	}

	return nil
}

// recordSnapshots writes captured playlists to local storage. A failed write
// marks the playlist's result but does not stop the run.
func (e *BackupEngine) recordSnapshots(progress chan<- ProgressUpdate, result *BackupResult) {
	total := len(result.Playlists)
	for i := range result.Playlists {
		p := &result.Playlists[i]
		e.sendProgress(progress, recordSnapshotUpdate(i+1, total, p.Name))

		if err := e.snapshots.Record(*p); err != nil {
			e.logger.Warn("failed to record snapshot", "playlist", p.Name, "error", err)
			for j := range result.Results {
				if result.Results[j].PlaylistID == p.ID && result.Results[j].Error == nil {
					result.Results[j].Error = err
					break
				}
			}
		}
	}
}

var _ Engine = (*BackupEngine)(nil)
