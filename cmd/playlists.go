package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/playback/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList lists the user's playlists with their tracks.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	svc, err := r.requireService()
	if err != nil {
		return err
	}

	if err := svc.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.logger.Infof("listing playlists with limit %v", limit)

	playlists, err := svc.Playlists(ctx, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if save {
		saveFile := "playback_playlists.json"
		data, err := shared.MarshalJSON(playlists, true)
		if err != nil {
			return fmt.Errorf("failed to marshal playlists: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save playlists", "error", err)
		} else {
			r.logger.Info("playlists saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Type: %s\n", p.Type)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(p.Public))
		r.writePlain("\n")
	}

	return nil
}

// PlaylistsShow prints a single playlist with all tracks.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	svc, err := r.requireService()
	if err != nil {
		return err
	}

	if err := svc.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.logger.Infof("fetching playlist %v", playlistID)

	playlist, err := svc.PlaylistDetails(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(playlist, pretty)
	}

	r.writePlain("%s\n", playlist.Name)
	if playlist.Description != "" {
		r.writePlain("Description: %s\n", playlist.Description)
	}
	r.writePlain("Owner: %s\n", playlist.Owner.DisplayName)
	r.writePlain("Type: %s\n", playlist.Type)
	r.writePlain("Visibility: %s\n", shared.VisibilityString(playlist.Public))
	r.writePlain("Duration: %s\n", shared.FormatDuration(playlist.TotalDurationMS()))
	r.writePlain("Tracks: %d\n\n", len(playlist.Tracks))

	for i, track := range playlist.Tracks {
		artists := ""
		for j, a := range track.Artists {
			if j > 0 {
				artists += ", "
			}
			artists += a.Name
		}
		r.writePlain("%d. %s - %s [%s]\n", i+1, artists, track.Name, shared.FormatDuration(track.DurationMS))
	}

	return nil
}
