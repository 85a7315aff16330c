// package formatter exports playlist libraries to CSV, JSON, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/shared"
)

// FormatVersion identifies the JSON export document layout.
const FormatVersion = "1.0"

var csvHeaders = []string{
	"playlist_id", "playlist_name", "playlist_description", "playlist_type",
	"playlist_public", "playlist_collaborative", "playlist_owner",
	"playlist_follower_count", "playlist_track_count", "playlist_duration_ms",
	"track_id", "track_name", "track_uri", "track_duration_ms", "track_explicit",
	"track_popularity", "track_number", "disc_number", "track_isrc",
	"track_added_at", "artist_names", "album_name", "album_release_date",
	"album_type", "spotify_playlist_url", "spotify_track_url",
}

// ExportToCSV flattens playlists into one row per track, repeating the
// playlist metadata columns on every row.
func ExportToCSV(playlists []models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i := range playlists {
		playlist := &playlists[i]
		duration := strconv.Itoa(playlist.TotalDurationMS())

		for _, track := range playlist.Tracks {
			record := []string{
				playlist.ID,
				playlist.Name,
				playlist.Description,
				string(playlist.Type),
				strconv.FormatBool(playlist.Public),
				strconv.FormatBool(playlist.Collaborative),
				playlist.Owner.DisplayName,
				strconv.Itoa(playlist.FollowerCount),
				strconv.Itoa(playlist.TrackCount),
				duration,
				track.ID,
				track.Name,
				track.URI,
				strconv.Itoa(track.DurationMS),
				strconv.FormatBool(track.Explicit),
				strconv.Itoa(track.Popularity),
				strconv.Itoa(track.TrackNumber),
				strconv.Itoa(track.DiscNumber),
				stringOrEmpty(track.ISRC),
				timeOrEmpty(track.AddedAt),
				joinArtists(track.Artists),
				track.Album.Name,
				track.Album.ReleaseDate,
				track.Album.AlbumType,
				playlist.ExternalURLs["spotify"],
				track.ExternalURLs["spotify"],
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportInfo describes a JSON export document.
type ExportInfo struct {
	ExportedAt    time.Time `json:"exported_at"`
	PlaylistCount int       `json:"playlist_count"`
	FormatVersion string    `json:"format_version"`
}

// ExportDocument is the top-level JSON export shape.
type ExportDocument struct {
	ExportInfo ExportInfo       `json:"export_info"`
	Playlists  []exportPlaylist `json:"playlists"`
}

// exportPlaylist augments a playlist with derived totals for the JSON export.
type exportPlaylist struct {
	models.Playlist
	TotalDurationMS int      `json:"total_duration_ms"`
	UniqueArtists   []string `json:"unique_artists"`
}

// ExportToJSON serializes playlists into a pretty-printed export document
// with derived per-playlist totals.
func ExportToJSON(playlists []models.Playlist, exportedAt time.Time) ([]byte, error) {
	doc := ExportDocument{
		ExportInfo: ExportInfo{
			ExportedAt:    exportedAt,
			PlaylistCount: len(playlists),
			FormatVersion: FormatVersion,
		},
		Playlists: make([]exportPlaylist, 0, len(playlists)),
	}

	for i := range playlists {
		p := &playlists[i]
		doc.Playlists = append(doc.Playlists, exportPlaylist{
			Playlist:        *p,
			TotalDurationMS: p.TotalDurationMS(),
			UniqueArtists:   p.UniqueArtists(),
		})
	}

	return shared.MarshalJSON(doc, true)
}

// ExportToText renders a readable library summary with per-playlist track
// listings.
func ExportToText(playlists []models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists: %d\n\n", len(playlists)))

	for i := range playlists {
		playlist := &playlists[i]

		buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
		if playlist.Description != "" {
			buf.WriteString(fmt.Sprintf("Description: %s\n", playlist.Description))
		}
		buf.WriteString(fmt.Sprintf("Type: %s\n", playlist.Type))
		buf.WriteString(fmt.Sprintf("Visibility: %s\n", shared.VisibilityString(playlist.Public)))
		buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", playlist.TrackCount))

		for j, track := range playlist.Tracks {
			duration := shared.FormatDuration(track.DurationMS)
			buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", j+1, joinArtists(track.Artists), track.Name, duration))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// WriteExport renders playlists in the given format ("csv", "json", or
// "text") and writes the result to path, returning the path written.
func WriteExport(playlists []models.Playlist, format string, path string) (string, error) {
	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(playlists)
	case "json":
		data, err = ExportToJSON(playlists, time.Now())
	case "text":
		data, err = ExportToText(playlists)
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if path == "" {
		path = fmt.Sprintf("playback_export_%s.%s", time.Now().Format("20060102_150405"), Extension(format))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// Extension returns the file extension for a supported export format.
func Extension(format string) string {
	if format == "text" {
		return "txt"
	}
	return format
}

func joinArtists(artists []models.Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
