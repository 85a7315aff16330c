// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/shared"
)

// MockService is a test double for [services.Service] backed by deterministic
// in-memory fixtures.
type MockService struct {
	authenticated bool
	profile       models.UserProfile
	playlists     []models.Playlist

	AuthErr error // Returned by Authenticate when set
	ListErr error // Returned by Playlists when set
}

// NewMockService creates a MockService preloaded with the fixture library.
func NewMockService() *MockService {
	return &MockService{
		profile:   FixtureProfile(),
		playlists: FixturePlaylists(),
	}
}

func (m *MockService) Authenticate(ctx context.Context) error {
	if m.AuthErr != nil {
		return m.AuthErr
	}
	m.authenticated = true
	return nil
}

func (m *MockService) UserProfile(ctx context.Context) (*models.UserProfile, error) {
	if !m.authenticated {
		return nil, shared.ErrNotAuthenticated
	}
	profile := m.profile
	return &profile, nil
}

func (m *MockService) Playlists(ctx context.Context, limit int) ([]models.Playlist, error) {
	if !m.authenticated {
		return nil, shared.ErrNotAuthenticated
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	playlists := m.playlists
	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}
	out := make([]models.Playlist, len(playlists))
	copy(out, playlists)
	return out, nil
}

func (m *MockService) PlaylistDetails(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if !m.authenticated {
		return nil, shared.ErrNotAuthenticated
	}
	for i := range m.playlists {
		if m.playlists[i].ID == playlistID {
			playlist := m.playlists[i]
			return &playlist, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	playlist, err := m.PlaylistDetails(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return playlist.Tracks, nil
}

func (m *MockService) Name() string        { return "mock" }
func (m *MockService) Authenticated() bool { return m.authenticated }

// FixtureProfile returns the deterministic test user.
func FixtureProfile() models.UserProfile {
	return models.UserProfile{
		ID:            "mock_user_123",
		DisplayName:   "Test User",
		Email:         "test@example.com",
		Country:       "US",
		FollowerCount: 42,
		URI:           "spotify:user:mock_user_123",
		Product:       "premium",
	}
}

// FixturePlaylists returns a small deterministic library: one owned public
// playlist with three tracks, one collaborative playlist, and one followed
// playlist from another user.
func FixturePlaylists() []models.Playlist {
	owner := models.Owner{
		ID:          "mock_user_123",
		DisplayName: "Test User",
		URI:         "spotify:user:mock_user_123",
	}
	other := models.Owner{
		ID:          "curator_456",
		DisplayName: "Curator",
		URI:         "spotify:user:curator_456",
	}

	taylor := models.Artist{ID: "06HL4z0CvFAxyc27GXpf02", Name: "Taylor Swift", URI: "spotify:artist:06HL4z0CvFAxyc27GXpf02"}
	beatles := models.Artist{ID: "3WrFJ7ztbogyGnTHbHJFl2", Name: "The Beatles", URI: "spotify:artist:3WrFJ7ztbogyGnTHbHJFl2"}
	radiohead := models.Artist{ID: "4Z8W4fKeB5YxbusRsdQVPb", Name: "Radiohead", URI: "spotify:artist:4Z8W4fKeB5YxbusRsdQVPb"}

	cardigan := models.Track{
		ID:          "4R2kfaDFhslZEMSK0SuBjU",
		Name:        "cardigan",
		URI:         "spotify:track:4R2kfaDFhslZEMSK0SuBjU",
		Type:        models.TrackTypeTrack,
		DurationMS:  239560,
		Popularity:  85,
		TrackNumber: 1,
		DiscNumber:  1,
		Artists:     []models.Artist{taylor},
		Album: models.Album{
			ID:          "2fenSS68JI1h4Fo296JfGr",
			Name:        "folklore",
			URI:         "spotify:album:2fenSS68JI1h4Fo296JfGr",
			ReleaseDate: "2020-07-24",
			AlbumType:   "album",
			Artists:     []models.Artist{taylor},
		},
		ISRC: ptr("USUG22001234"),
	}
	comeTogether := models.Track{
		ID:          "2EqlS6tkEnglzr7tkKAAYD",
		Name:        "Come Together",
		URI:         "spotify:track:2EqlS6tkEnglzr7tkKAAYD",
		Type:        models.TrackTypeTrack,
		DurationMS:  259893,
		Popularity:  90,
		TrackNumber: 1,
		DiscNumber:  1,
		Artists:     []models.Artist{beatles},
		Album: models.Album{
			ID:          "0ETFjACtuP2ADo6LFhL6HN",
			Name:        "Abbey Road",
			URI:         "spotify:album:0ETFjACtuP2ADo6LFhL6HN",
			ReleaseDate: "1969-09-26",
			AlbumType:   "album",
			Artists:     []models.Artist{beatles},
		},
		ISRC: ptr("GBUMB7700123"),
	}
	paranoidAndroid := models.Track{
		ID:          "6LgJvl0Xdtc73RJ1WBKQYY",
		Name:        "Paranoid Android",
		URI:         "spotify:track:6LgJvl0Xdtc73RJ1WBKQYY",
		Type:        models.TrackTypeTrack,
		DurationMS:  383066,
		Popularity:  88,
		TrackNumber: 2,
		DiscNumber:  1,
		Artists:     []models.Artist{radiohead},
		Album: models.Album{
			ID:          "6dVIqQ8qmQ5GBnJ9shOYGE",
			Name:        "OK Computer",
			URI:         "spotify:album:6dVIqQ8qmQ5GBnJ9shOYGE",
			ReleaseDate: "1997-07-01",
			AlbumType:   "album",
			Artists:     []models.Artist{radiohead},
		},
		ISRC: ptr("GBAJE9700456"),
	}

	return []models.Playlist{
		{
			ID:            "playlist_1",
			Name:          "My Favorite Songs",
			Description:   "A collection of my all-time favorite tracks",
			URI:           "spotify:playlist:playlist_1",
			Type:          models.PlaylistOwned,
			Public:        true,
			Owner:         owner,
			FollowerCount: 23,
			TrackCount:    3,
			Tracks:        []models.Track{cardigan, comeTogether, paranoidAndroid},
			SnapshotID:    "MTY4ODA5NDg4NSwwMDAwMDAwMDAwMDA=",
		},
		{
			ID:            "playlist_2",
			Name:          "Road Trip Vibes",
			Description:   "Perfect songs for long drives",
			URI:           "spotify:playlist:playlist_2",
			Type:          models.PlaylistCollaborative,
			Public:        false,
			Collaborative: true,
			Owner:         owner,
			FollowerCount: 5,
			TrackCount:    2,
			Tracks:        []models.Track{comeTogether, paranoidAndroid},
			SnapshotID:    "MTY4ODA5NDg4NSwwMDAwMDAwMDAwMDE=",
		},
		{
			ID:            "playlist_3",
			Name:          "Chill Indie Folk",
			Description:   "Relaxing indie folk for quiet moments",
			URI:           "spotify:playlist:playlist_3",
			Type:          models.PlaylistFollowed,
			Public:        true,
			Owner:         other,
			FollowerCount: 1042,
			TrackCount:    1,
			Tracks:        []models.Track{cardigan},
			SnapshotID:    "MTY4ODA5NDg4NSwwMDAwMDAwMDAwMDI=",
		},
	}
}

func ptr(s string) *string { return &s }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
