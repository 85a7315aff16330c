package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.PersistedPlaylist]
// for backup snapshots, with soft delete support and service-id lookups.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistColumns = "id, sequence, service_id, snapshot_id, owner_id, name, description, playlist_type, public, collaborative, track_count, created_at, updated_at, deleted_at"

// Create inserts a new playlist snapshot with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.PersistedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	playlist.SetID(shared.GenerateID())
	playlist.SetSequence(sequence)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (` + playlistColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = r.db.Exec(query,
		playlist.ID(),
		playlist.Sequence(),
		playlist.ServiceID(),
		playlist.SnapshotID(),
		playlist.OwnerID(),
		playlist.Name(),
		playlist.Description(),
		string(playlist.PlaylistType()),
		playlist.Public(),
		playlist.Collaborative(),
		playlist.TrackCount(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := `
		SELECT ` + playlistColumns + `
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySnapshot retrieves a playlist by service id and snapshot id
func (r *PlaylistRepository) GetBySnapshot(serviceID, snapshotID string) (*models.PersistedPlaylist, error) {
	query := `
		SELECT ` + playlistColumns + `
		FROM playlists
		WHERE service_id = ? AND snapshot_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, serviceID, snapshotID))
}

// Update modifies an existing playlist snapshot
func (r *PlaylistRepository) Update(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	playlist.SetUpdatedAt(time.Now())

	query := `
		UPDATE playlists
		SET name = ?, description = ?, snapshot_id = ?, playlist_type = ?, public = ?, collaborative = ?, track_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Name(),
		playlist.Description(),
		playlist.SnapshotID(),
		string(playlist.PlaylistType()),
		playlist.Public(),
		playlist.Collaborative(),
		playlist.TrackCount(),
		playlist.UpdatedAt(),
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	query := `UPDATE playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// List retrieves playlists matching the given criteria, ordered by sequence
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE deleted_at IS NULL`

	var args []any
	var conditions []string
	for key, value := range criteria {
		switch key {
		case "service_id", "owner_id", "playlist_type":
			conditions = append(conditions, fmt.Sprintf("%s = ?", key))
			args = append(args, value)
		}
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sequence"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	return playlists, rows.Err()
}

func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.PersistedPlaylist, error) {
	var pr models.PlaylistRow
	var deletedAt sql.NullTime

	err := row.Scan(
		&pr.ID, &pr.Sequence, &pr.ServiceID, &pr.SnapshotID, &pr.OwnerID,
		&pr.Name, &pr.Description, &pr.Type, &pr.Public, &pr.Collaborative,
		&pr.TrackCount, &pr.CreatedAt, &pr.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w", shared.ErrPlaylistNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	if deletedAt.Valid {
		pr.DeletedAt = &deletedAt.Time
	}

	return pr.Playlist(), nil
}

func scanPlaylist(rows *sql.Rows) (*models.PersistedPlaylist, error) {
	var pr models.PlaylistRow
	var deletedAt sql.NullTime

	err := rows.Scan(
		&pr.ID, &pr.Sequence, &pr.ServiceID, &pr.SnapshotID, &pr.OwnerID,
		&pr.Name, &pr.Description, &pr.Type, &pr.Public, &pr.Collaborative,
		&pr.TrackCount, &pr.CreatedAt, &pr.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	if deletedAt.Valid {
		pr.DeletedAt = &deletedAt.Time
	}

	return pr.Playlist(), nil
}
