package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "playback.db" {
			t.Errorf("expected database path playback.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8000 {
			t.Errorf("expected server port 8000, got %d", config.Server.Port)
		}

		if config.Tokens.Path != "spotify_tokens.json" {
			t.Errorf("expected tokens path spotify_tokens.json, got %s", config.Tokens.Path)
		}

		if len(config.Credentials.Spotify.Scopes) == 0 {
			t.Error("expected default scopes to be present")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:8080/callback"
scopes = ["playlist-read-private"]

[tokens]
path = "/custom/tokens.json"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected server addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Tokens.Path != "/custom/tokens.json" {
			t.Errorf("expected tokens path /custom/tokens.json, got %s", config.Tokens.Path)
		}
	})

	t.Run("EnvironmentOverridesFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "file_client_id"
client_secret = "file_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv("SPOTIFY_CLIENT_ID", "env_client_id")
		t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:9999/callback")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_client_id" {
			t.Errorf("environment should win over file, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "file_secret" {
			t.Errorf("unset environment should leave file value, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.Spotify.RedirectURI != "http://localhost:9999/callback" {
			t.Errorf("redirect uri should come from environment, got %s", config.Credentials.Spotify.RedirectURI)
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Configured", func(t *testing.T) {
		creds := SpotifyConfig{ClientID: "id", ClientSecret: "secret"}
		if !creds.Configured() {
			t.Error("credentials with id and secret should be configured")
		}

		if (SpotifyConfig{ClientID: "id"}).Configured() {
			t.Error("missing secret should not be configured")
		}
		if (SpotifyConfig{ClientSecret: "secret"}).Configured() {
			t.Error("missing id should not be configured")
		}
	})

	t.Run("ScopeString", func(t *testing.T) {
		creds := SpotifyConfig{Scopes: []string{"playlist-read-private", "user-read-email"}}
		if got := creds.ScopeString(); got != "playlist-read-private user-read-email" {
			t.Errorf("scope string = %q, want space-joined scopes", got)
		}
	})
}
