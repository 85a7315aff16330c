package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/shared"
)

// SnapshotWriter records playlists and their tracks into the local database,
// one row set per playlist snapshot. Re-running a backup against an unchanged
// playlist is a no-op because the (service_id, snapshot_id) pair already
// exists.
type SnapshotWriter struct {
	playlists *PlaylistRepository
	tracks    *TrackRepository
	logger    *log.Logger
}

// NewSnapshotWriter creates a SnapshotWriter over the given database connection
func NewSnapshotWriter(db *sql.DB, logger *log.Logger) *SnapshotWriter {
	return &SnapshotWriter{
		playlists: NewPlaylistRepository(db),
		tracks:    NewTrackRepository(db),
		logger:    logger,
	}
}

// Record persists a playlist and its tracks. When the same snapshot was
// already recorded, the existing rows are kept and the stored row is
// refreshed with the latest metadata.
func (w *SnapshotWriter) Record(playlist models.Playlist) error {
	existing, err := w.playlists.GetBySnapshot(playlist.ID, playlist.SnapshotID)
	if err != nil && !errors.Is(err, shared.ErrPlaylistNotFound) {
		return fmt.Errorf("failed to look up snapshot: %w", err)
	}

	if existing != nil {
		existing.SetName(playlist.Name)
		existing.SetDescription(playlist.Description)
		existing.SetTrackCount(playlist.TrackCount)
		existing.SetType(playlist.Type)
		if err := w.playlists.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh snapshot: %w", err)
		}
		w.logger.Debug("snapshot already recorded", "playlist", playlist.Name, "snapshot", playlist.SnapshotID)
		return w.recordTracks(existing.ID(), playlist)
	}

	row := models.NewPersistedPlaylist(playlist)
	if err := w.playlists.Create(row); err != nil {
		return fmt.Errorf("failed to record playlist: %w", err)
	}

	return w.recordTracks(row.ID(), playlist)
}

// recordTracks inserts the playlist's tracks in order, skipping rows that
// were already written for this playlist.
func (w *SnapshotWriter) recordTracks(playlistID string, playlist models.Playlist) error {
	var recorded int
	for position, track := range playlist.Tracks {
		row := models.NewPersistedTrack(playlistID, position, track)
		if err := w.tracks.Create(row); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("failed to record track %q: %w", track.Name, err)
		}
		recorded++
	}

	w.logger.Debug("recorded tracks", "playlist", playlist.Name, "count", recorded, "total", len(playlist.Tracks))
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
