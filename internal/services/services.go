package services

import (
	"context"

	"github.com/desertthunder/playback/internal/models"
)

// Service defines the interface for music service providers that can back up
// a user's playlist library.
type Service interface {
	// Authenticate ensures a valid session with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context) error

	// UserProfile retrieves the authenticated user's profile.
	UserProfile(ctx context.Context) (*models.UserProfile, error)

	// Playlists retrieves the user's playlists with their full track lists.
	// A limit of 0 means no cap.
	Playlists(ctx context.Context, limit int) ([]models.Playlist, error)

	// PlaylistDetails retrieves a single playlist by ID with all tracks.
	PlaylistDetails(ctx context.Context, playlistID string) (*models.Playlist, error)

	// PlaylistTracks retrieves all tracks of a playlist in order.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string

	// Authenticated reports whether a valid session is currently held.
	Authenticated() bool
}
