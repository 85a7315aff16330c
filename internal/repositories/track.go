package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/shared"
)

// TrackRepository implements models.Repository[*models.PersistedTrack] for
// backed-up tracks tied to a playlist snapshot.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

const trackColumns = "id, sequence, playlist_id, service_id, position, name, uri, duration_ms, explicit, isrc, artist_names, album_name, added_at, created_at, updated_at, deleted_at"

// Create inserts a new track snapshot with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	track.SetID(shared.GenerateID())
	track.SetSequence(sequence)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (` + trackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = r.db.Exec(query,
		track.ID(),
		track.Sequence(),
		track.PlaylistID(),
		track.ServiceID(),
		track.Position(),
		track.Name(),
		track.URI(),
		track.DurationMS(),
		track.Explicit(),
		track.ISRC(),
		track.ArtistNames(),
		track.AlbumName(),
		track.AddedAt(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM tracks
		WHERE id = ? AND deleted_at IS NULL
	`

	row := r.db.QueryRow(query, id)
	track, err := scanTrackRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found: %s", id)
	}
	return track, err
}

// Update modifies an existing track snapshot
func (r *TrackRepository) Update(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	track.SetUpdatedAt(time.Now())

	query := `
		UPDATE tracks
		SET position = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, track.Position(), track.UpdatedAt(), track.ID())
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found: %s", track.ID())
	}

	return nil
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	query := `UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found: %s", id)
	}

	return nil
}

// List retrieves tracks matching the given criteria, ordered by playlist position
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE deleted_at IS NULL`

	var args []any
	if playlistID, ok := criteria["playlist_id"]; ok {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}
	query += " ORDER BY position"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := scanTrackRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	return tracks, rows.Err()
}

// scanTrackRow scans a track row through the given scan function.
func scanTrackRow(scan func(dest ...any) error) (*models.PersistedTrack, error) {
	var tr models.TrackRow
	var isrc sql.NullString
	var addedAt, deletedAt sql.NullTime

	err := scan(
		&tr.ID, &tr.Sequence, &tr.PlaylistID, &tr.ServiceID, &tr.Position,
		&tr.Name, &tr.URI, &tr.DurationMS, &tr.Explicit, &isrc,
		&tr.ArtistNames, &tr.AlbumName, &addedAt, &tr.CreatedAt, &tr.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if isrc.Valid {
		tr.ISRC = &isrc.String
	}
	if addedAt.Valid {
		tr.AddedAt = &addedAt.Time
	}
	if deletedAt.Valid {
		tr.DeletedAt = &deletedAt.Time
	}

	return tr.Track(), nil
}
