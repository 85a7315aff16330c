// Spotify API implementation of [Service]
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playback/internal/auth"
	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// maxPageSize is the service maximum for collection endpoints.
	maxPageSize = 50

	// defaultRetryAfter is used when a 429 response omits the Retry-After header.
	defaultRetryAfter = 60 * time.Second

	// trackFields narrows the playlist-tracks response to the fields the
	// parser consumes.
	trackFields = "items(track(id,name,uri,type,duration_ms,explicit,popularity,preview_url,track_number,disc_number,is_local,artists(id,name,uri,external_urls),album(id,name,uri,release_date,album_type,artists(id,name,uri,external_urls),images,external_urls),external_urls,external_ids),added_at,added_by(id)),next"
)

// SpotifyService implements the [Service] interface against the Spotify Web API.
type SpotifyService struct {
	auth       *auth.Authenticator
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger

	mu      sync.Mutex
	profile *models.UserProfile
}

// SpotifyOption configures a SpotifyService.
type SpotifyOption func(*SpotifyService)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.httpClient = c }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = u }
}

// NewSpotifyService creates a Spotify service backed by the given authenticator.
func NewSpotifyService(authenticator *auth.Authenticator, logger *log.Logger, opts ...SpotifyOption) *SpotifyService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &SpotifyService{
		auth:       authenticator,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate runs the cheapest authentication path that works and loads the
// user profile for ownership classification.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if err := s.auth.Authenticate(ctx); err != nil {
		return err
	}

	if _, err := s.currentUser(ctx); err != nil {
		s.logger.Warn("could not load user profile", "error", err)
	}

	return nil
}

// Authenticated reports whether a valid access token is currently held.
func (s *SpotifyService) Authenticated() bool {
	_, err := s.auth.AccessToken()
	return err == nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*models.UserProfile, error) {
	var user wireUser
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}

	profile := parseUser(user)

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()

	return profile, nil
}

// currentUser returns the cached profile, fetching it on first use.
func (s *SpotifyService) currentUser(ctx context.Context) (*models.UserProfile, error) {
	s.mu.Lock()
	profile := s.profile
	s.mu.Unlock()

	if profile != nil {
		return profile, nil
	}
	return s.UserProfile(ctx)
}

// Playlists retrieves the user's playlists with full track lists.
//
// The page size is min(service maximum, limit); the loop stops when the
// response has no next cursor or the accumulated count reaches the limit, so a
// limit never triggers requests beyond what satisfies it. A per-playlist track
// fetch failure degrades that playlist's tracks to empty and the listing
// continues; an expired token aborts, since every later fetch would fail the
// same way.
func (s *SpotifyService) Playlists(ctx context.Context, limit int) ([]models.Playlist, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	batch := maxPageSize
	if limit > 0 && limit < maxPageSize {
		batch = limit
	}

	var playlists []models.Playlist
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", batch, offset)

		var page wirePage[wirePlaylist]
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			playlists = append(playlists, parsePlaylist(item, user.ID))
		}

		if page.Next == nil || (limit > 0 && len(playlists) >= limit) {
			break
		}
		offset += batch
	}

	if limit > 0 && len(playlists) > limit {
		playlists = playlists[:limit]
	}

	for i := range playlists {
		tracks, err := s.PlaylistTracks(ctx, playlists[i].ID)
		if err != nil {
			if errors.Is(err, shared.ErrTokenExpired) {
				return nil, err
			}
			s.logger.Warn("could not load tracks for playlist",
				"playlist", playlists[i].Name, "error", err)
			playlists[i].Tracks = []models.Track{}
			continue
		}
		playlists[i].Tracks = tracks
	}

	return playlists, nil
}

// PlaylistDetails retrieves a single playlist with all its tracks.
func (s *SpotifyService) PlaylistDetails(ctx context.Context, playlistID string) (*models.Playlist, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	var wp wirePlaylist
	if err := s.doRequest(ctx, "/playlists/"+playlistID, &wp); err != nil {
		return nil, err
	}

	playlist := parsePlaylist(wp, user.ID)

	tracks, err := s.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	playlist.Tracks = tracks

	return &playlist, nil
}

// PlaylistTracks walks the playlist's track pages in order. Null and local
// entries are skipped without affecting pagination bookkeeping.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	tracks := []models.Track{}
	offset := 0

	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d&fields=%s",
			playlistID, maxPageSize, offset, url.QueryEscape(trackFields))

		var page wirePage[wirePlaylistTrack]
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			tracks = append(tracks, parseTrack(item))
		}

		if page.Next == nil {
			break
		}
		offset += maxPageSize
	}

	return tracks, nil
}

// doRequest performs an authenticated GET against the Spotify API and decodes
// the JSON response into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	token, err := s.auth.AccessToken()
	if err != nil {
		return fmt.Errorf("%w: authenticate first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// checkStatus maps non-2xx responses into the fetch-boundary error taxonomy.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &shared.RateLimitError{RetryAfter: retryAfter}

	case resp.StatusCode == http.StatusUnauthorized:
		return shared.ErrTokenExpired

	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(resp.Body)
		return &shared.APIError{Status: resp.StatusCode, Body: string(body)}
	}

	return nil
}
