package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/playback/internal/auth"
	"github.com/desertthunder/playback/internal/services"
	"github.com/desertthunder/playback/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var runner *Runner
	var spotifyService services.Service
	var tokens *auth.TokenStore

	if config.Credentials.Spotify.Configured() {
		store, err := auth.NewTokenStore(config.Tokens.Path)
		if err != nil {
			logger.Fatalf("failed to open token store: %v", err)
		}
		tokens = store

		authenticator, err := auth.NewAuthenticator(
			config.Credentials.Spotify,
			config.Server.Addr(),
			tokens,
			logger,
			auth.WithURLPrompt(func(url string) {
				runner.writePlain("Open this URL to authorize:\n\n  %s\n\n", url)
				if !runner.noBrowser {
					if err := shared.OpenBrowser(url); err != nil {
						logger.Warn("failed to open browser", "error", err)
					}
				}
			}),
		)
		if err != nil {
			logger.Fatalf("failed to create authenticator: %v", err)
		}

		spotifyService = services.NewSpotifyService(authenticator, logger)
	}

	runner = NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Tokens:  tokens,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "playback",
		Usage:    "Back up your Spotify playlist library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
