package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/services"
)

// PlaylistBackupResult holds the outcome of backing up a single playlist.
type PlaylistBackupResult struct {
	PlaylistID   string // Service playlist id
	PlaylistName string // Display name at backup time
	TrackCount   int    // Tracks captured
	Degraded     bool   // Track fetch failed, playlist recorded without tracks
	Error        error  // Failure cause, nil on success
}

// BackupResult contains all data from a full backup run.
type BackupResult struct {
	TotalPlaylists    int                    // Playlists processed
	SuccessfulBackups int                    // Fully captured playlists
	DegradedBackups   int                    // Playlists recorded without tracks
	FailedBackups     int                    // Playlists skipped entirely
	OutputPath        string                 // Export file written, empty when export was skipped
	Playlists         []models.Playlist      // Captured playlists in library order
	Results           []PlaylistBackupResult // Per-playlist outcomes
}

// SnapshotStore records captured playlists into local storage.
type SnapshotStore interface {
	Record(playlist models.Playlist) error
}

// Engine defines the backup operation.
type Engine interface {
	// Run backs up the user's playlist library: fetches playlists and their
	// tracks, records snapshots, and writes an export file.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts) (*BackupResult, error)
}

// BackupEngine implements Engine against a single music service.
type BackupEngine struct {
	service   services.Service
	snapshots SnapshotStore
	logger    *log.Logger
}

// NewBackupEngine creates a BackupEngine. The snapshot store may be nil, in
// which case no rows are recorded locally.
func NewBackupEngine(service services.Service, snapshots SnapshotStore, logger *log.Logger) *BackupEngine {
	return &BackupEngine{
		service:   service,
		snapshots: snapshots,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *BackupEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
