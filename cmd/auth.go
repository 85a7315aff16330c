package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/playback/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the OAuth2 authorization flow.
//
// Starts a local callback listener, opens the browser for user authorization,
// and exchanges the returned code for tokens. Skips the flow entirely when a
// valid token is already stored.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.requireService()
	if err != nil {
		return err
	}
	r.noBrowser = cmd.Bool("no-browser")

	if err := svc.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Authorization successful\n")
	if r.tokens != nil {
		r.writePlain("✓ Tokens saved to %s\n\n", r.tokens.Path())
	}
	r.writePlain("You can now use: playback playlists list\n")
	return nil
}

// AuthStatus reports the stored token state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.tokens == nil {
		return fmt.Errorf("%w: set Spotify credentials in config.toml", shared.ErrNotConfigured)
	}

	if r.tokens.Valid() {
		r.writePlain("✓ Authenticated\n")
		r.writePlain("Access token valid until: %s\n", r.tokens.ExpiresAt().Format(time.RFC1123))
	} else if r.tokens.HasRefreshToken() {
		r.writePlain("Access token expired, refresh token available\n")
		r.writePlain("The next command will refresh automatically\n")
	} else {
		r.writePlain("✗ Not authenticated\n")
		r.writePlain("Run 'playback auth login' to authorize\n")
	}
	return nil
}

// AuthLogout discards stored tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.tokens == nil {
		return fmt.Errorf("%w: set Spotify credentials in config.toml", shared.ErrNotConfigured)
	}

	if err := r.tokens.Clear(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}

	r.logger.Info("tokens cleared", "path", r.tokens.Path())
	return r.writePlain("✓ Logged out\n")
}
