// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

// wirePage is a cursor-paginated collection response.
type wirePage[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

type wireFollowers struct {
	Total int `json:"total"`
}

type wireImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type wireExternalIDs struct {
	ISRC string `json:"isrc"`
}

// wireUser represents a Spotify user profile.
type wireUser struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	Email        string            `json:"email"`
	Country      string            `json:"country"`
	Product      string            `json:"product"` // premium, free, etc.
	URI          string            `json:"uri"`
	Followers    wireFollowers     `json:"followers"`
	Images       []wireImage       `json:"images"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// wireOwner represents a playlist owner reference.
type wireOwner struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	URI          string            `json:"uri"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// wireArtist represents a Spotify artist.
type wireArtist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// wireAlbum represents a Spotify album.
type wireAlbum struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	ReleaseDate  string            `json:"release_date"`
	AlbumType    string            `json:"album_type"`
	Artists      []wireArtist      `json:"artists"`
	Images       []wireImage       `json:"images"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// wireTrack represents a Spotify track.
type wireTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	Type         string            `json:"type"`
	DurationMS   int               `json:"duration_ms"`
	Explicit     bool              `json:"explicit"`
	Popularity   int               `json:"popularity"`
	PreviewURL   *string           `json:"preview_url"`
	TrackNumber  int               `json:"track_number"`
	DiscNumber   int               `json:"disc_number"`
	IsLocal      bool              `json:"is_local"`
	Artists      []wireArtist      `json:"artists"`
	Album        wireAlbum         `json:"album"`
	ExternalIDs  wireExternalIDs   `json:"external_ids"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// wirePlaylistTrack represents a track within a playlist context.
//
// Track is nil for deleted items; local files carry no id. Both are skipped
// during parsing without affecting pagination bookkeeping.
type wirePlaylistTrack struct {
	AddedAt string     `json:"added_at"`
	AddedBy *wireOwner `json:"added_by"`
	Track   *wireTrack `json:"track"`
}

type wireTrackRef struct {
	Total int `json:"total"`
}

// wirePlaylist represents a playlist object; in list responses Tracks carries
// only the total.
type wirePlaylist struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	URI           string            `json:"uri"`
	Owner         wireOwner         `json:"owner"`
	Public        bool              `json:"public"`
	Collaborative bool              `json:"collaborative"`
	SnapshotID    string            `json:"snapshot_id"`
	Followers     wireFollowers     `json:"followers"`
	Tracks        wireTrackRef      `json:"tracks"`
	Images        []wireImage       `json:"images"`
	ExternalURLs  map[string]string `json:"external_urls"`
}
