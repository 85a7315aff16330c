package services

import (
	"time"

	"github.com/desertthunder/playback/internal/models"
)

// classifyPlaylist applies the ownership rule:
// the current user's collaborative playlists are COLLABORATIVE, the current
// user's other playlists are OWNED, and everyone else's are FOLLOWED
// regardless of the collaborative flag.
func classifyPlaylist(ownerID, currentUserID string, collaborative bool) models.PlaylistType {
	if ownerID != currentUserID {
		return models.PlaylistFollowed
	}
	if collaborative {
		return models.PlaylistCollaborative
	}
	return models.PlaylistOwned
}

// parseTimestamp parses the service's canonical RFC3339 date-time text.
// Unparsable or empty input fails soft to nil rather than aborting the record.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func parseImages(images []wireImage) []models.Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]models.Image, 0, len(images))
	for _, img := range images {
		out = append(out, models.Image{URL: img.URL, Height: img.Height, Width: img.Width})
	}
	return out
}

func parseOwner(o wireOwner) models.Owner {
	displayName := o.DisplayName
	if displayName == "" {
		displayName = o.ID
	}
	return models.Owner{
		ID:           o.ID,
		DisplayName:  displayName,
		URI:          o.URI,
		ExternalURLs: o.ExternalURLs,
	}
}

func parseArtists(artists []wireArtist) []models.Artist {
	out := make([]models.Artist, 0, len(artists))
	for _, a := range artists {
		out = append(out, models.Artist{
			ID:           a.ID,
			Name:         a.Name,
			URI:          a.URI,
			ExternalURLs: a.ExternalURLs,
		})
	}
	return out
}

func parseAlbum(a wireAlbum) models.Album {
	return models.Album{
		ID:           a.ID,
		Name:         a.Name,
		URI:          a.URI,
		ReleaseDate:  a.ReleaseDate,
		AlbumType:    a.AlbumType,
		Artists:      parseArtists(a.Artists),
		Images:       parseImages(a.Images),
		ExternalURLs: a.ExternalURLs,
	}
}

func parseTrackType(s string, isLocal bool) models.TrackType {
	if isLocal {
		return models.TrackTypeLocal
	}
	if s == "episode" {
		return models.TrackTypeEpisode
	}
	return models.TrackTypeTrack
}

// parseTrack maps a playlist track item into a domain Track. Optional wire
// fields map to nil, not sentinel values.
func parseTrack(item wirePlaylistTrack) models.Track {
	t := item.Track

	var isrc *string
	if t.ExternalIDs.ISRC != "" {
		v := t.ExternalIDs.ISRC
		isrc = &v
	}

	var addedBy *string
	if item.AddedBy != nil && item.AddedBy.ID != "" {
		v := item.AddedBy.ID
		addedBy = &v
	}

	return models.Track{
		ID:           t.ID,
		Name:         t.Name,
		URI:          t.URI,
		Type:         parseTrackType(t.Type, t.IsLocal),
		DurationMS:   t.DurationMS,
		Explicit:     t.Explicit,
		Popularity:   t.Popularity,
		PreviewURL:   t.PreviewURL,
		TrackNumber:  t.TrackNumber,
		DiscNumber:   t.DiscNumber,
		Artists:      parseArtists(t.Artists),
		Album:        parseAlbum(t.Album),
		ExternalURLs: t.ExternalURLs,
		ISRC:         isrc,
		AddedAt:      parseTimestamp(item.AddedAt),
		AddedBy:      addedBy,
	}
}

// parsePlaylist maps a playlist record into a domain Playlist with an empty
// track list; tracks are filled in by the nested pagination.
func parsePlaylist(p wirePlaylist, currentUserID string) models.Playlist {
	return models.Playlist{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		URI:           p.URI,
		Type:          classifyPlaylist(p.Owner.ID, currentUserID, p.Collaborative),
		Public:        p.Public,
		Collaborative: p.Collaborative,
		Owner:         parseOwner(p.Owner),
		FollowerCount: p.Followers.Total,
		TrackCount:    p.Tracks.Total,
		Tracks:        []models.Track{},
		SnapshotID:    p.SnapshotID,
		Images:        parseImages(p.Images),
		ExternalURLs:  p.ExternalURLs,
	}
}

func parseUser(u wireUser) *models.UserProfile {
	displayName := u.DisplayName
	if displayName == "" {
		displayName = u.ID
	}
	return &models.UserProfile{
		ID:            u.ID,
		DisplayName:   displayName,
		Email:         u.Email,
		Country:       u.Country,
		FollowerCount: u.Followers.Total,
		URI:           u.URI,
		Product:       u.Product,
		Images:        parseImages(u.Images),
		ExternalURLs:  u.ExternalURLs,
	}
}
