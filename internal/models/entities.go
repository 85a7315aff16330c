package models

import (
	"sort"
	"time"
)

// PlaylistType classifies a playlist's relationship to the current user.
type PlaylistType string

const (
	PlaylistOwned         PlaylistType = "owned"
	PlaylistFollowed      PlaylistType = "followed"
	PlaylistCollaborative PlaylistType = "collaborative"
)

// TrackType distinguishes regular tracks from episodes and local files.
type TrackType string

const (
	TrackTypeTrack   TrackType = "track"
	TrackTypeEpisode TrackType = "episode"
	TrackTypeLocal   TrackType = "local"
)

// Image represents an image resource attached to a playlist, album, or profile.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Owner identifies the user a playlist belongs to.
type Owner struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	URI          string            `json:"uri"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// Artist represents a performing artist.
type Artist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// Album represents the album a track appears on.
type Album struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	ReleaseDate  string            `json:"release_date"`
	AlbumType    string            `json:"album_type"`
	Artists      []Artist          `json:"artists"`
	Images       []Image           `json:"images,omitempty"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// Track represents a song within a playlist. Optional fields are nil when the
// wire record omits them.
type Track struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	Type         TrackType         `json:"type"`
	DurationMS   int               `json:"duration_ms"`
	Explicit     bool              `json:"explicit"`
	Popularity   int               `json:"popularity"`
	PreviewURL   *string           `json:"preview_url,omitempty"`
	TrackNumber  int               `json:"track_number"`
	DiscNumber   int               `json:"disc_number"`
	Artists      []Artist          `json:"artists"`
	Album        Album             `json:"album"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
	ISRC         *string           `json:"isrc,omitempty"`
	AddedAt      *time.Time        `json:"added_at,omitempty"`
	AddedBy      *string           `json:"added_by,omitempty"`
}

// Playlist represents a playlist in the user's library with its ordered tracks.
//
// TrackCount and len(Tracks) may diverge while tracks are still being fetched,
// or when a per-playlist fetch failure degraded Tracks to empty.
type Playlist struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	URI           string            `json:"uri"`
	Type          PlaylistType      `json:"type"`
	Public        bool              `json:"public"`
	Collaborative bool              `json:"collaborative"`
	Owner         Owner             `json:"owner"`
	FollowerCount int               `json:"follower_count"`
	TrackCount    int               `json:"track_count"`
	Tracks        []Track           `json:"tracks"`
	SnapshotID    string            `json:"snapshot_id"`
	Images        []Image           `json:"images,omitempty"`
	ExternalURLs  map[string]string `json:"external_urls,omitempty"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
	ModifiedAt    *time.Time        `json:"modified_at,omitempty"`
}

// TotalDurationMS returns the summed duration of all fetched tracks.
func (p *Playlist) TotalDurationMS() int {
	total := 0
	for _, t := range p.Tracks {
		total += t.DurationMS
	}
	return total
}

// UniqueArtists returns the sorted, deduplicated artist names across all tracks.
func (p *Playlist) UniqueArtists() []string {
	seen := make(map[string]struct{})
	for _, t := range p.Tracks {
		for _, a := range t.Artists {
			seen[a.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UserProfile represents the authenticated user's profile.
type UserProfile struct {
	ID            string            `json:"id"`
	DisplayName   string            `json:"display_name"`
	Email         string            `json:"email,omitempty"`
	Country       string            `json:"country,omitempty"`
	FollowerCount int               `json:"follower_count"`
	URI           string            `json:"uri"`
	Product       string            `json:"product,omitempty"`
	Images        []Image           `json:"images,omitempty"`
	ExternalURLs  map[string]string `json:"external_urls,omitempty"`
}
