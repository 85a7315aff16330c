package tasks

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/shared"
	internaltesting "github.com/desertthunder/playback/internal/testing"
)

// recordingStore captures every playlist handed to Record.
type recordingStore struct {
	recorded []models.Playlist
	err      error
}

func (s *recordingStore) Record(playlist models.Playlist) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, playlist)
	return nil
}

func newTestEngine(t *testing.T, store SnapshotStore) (*BackupEngine, *internaltesting.MockService) {
	t.Helper()
	svc := internaltesting.NewMockService()
	if err := svc.Authenticate(context.Background()); err != nil {
		t.Fatalf("failed to authenticate mock service: %v", err)
	}
	return NewBackupEngine(svc, store, shared.NewLogger(io.Discard)), svc
}

func TestBackupEngineRun(t *testing.T) {
	t.Run("FullLibrary", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)

		result, err := engine.Run(context.Background(), nil, BackupOpts{})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.TotalPlaylists != 3 {
			t.Errorf("total = %d, want 3", result.TotalPlaylists)
		}
		if result.SuccessfulBackups != 3 {
			t.Errorf("successful = %d, want 3", result.SuccessfulBackups)
		}
		if result.FailedBackups != 0 || result.DegradedBackups != 0 {
			t.Errorf("unexpected failure counts: failed=%d degraded=%d",
				result.FailedBackups, result.DegradedBackups)
		}

		// Library order must be preserved.
		for i, wantID := range []string{"playlist_1", "playlist_2", "playlist_3"} {
			if result.Playlists[i].ID != wantID {
				t.Errorf("playlist %d = %s, want %s", i, result.Playlists[i].ID, wantID)
			}
		}
	})

	t.Run("LimitAppliesToLibrary", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)

		result, err := engine.Run(context.Background(), nil, BackupOpts{Limit: 2})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if result.TotalPlaylists != 2 {
			t.Errorf("total = %d, want 2", result.TotalPlaylists)
		}
	})

	t.Run("NotAuthenticated", func(t *testing.T) {
		svc := internaltesting.NewMockService()
		engine := NewBackupEngine(svc, nil, shared.NewLogger(io.Discard))

		if _, err := engine.Run(context.Background(), nil, BackupOpts{}); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("NilService", func(t *testing.T) {
		engine := NewBackupEngine(nil, nil, shared.NewLogger(io.Discard))

		if _, err := engine.Run(context.Background(), nil, BackupOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("SelectedPlaylists", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)

		result, err := engine.Run(context.Background(), nil, BackupOpts{
			PlaylistIDs: []string{"playlist_1", "playlist_3"},
			RateLimit:   1000, // keep the test fast
		})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.TotalPlaylists != 2 {
			t.Errorf("total = %d, want 2", result.TotalPlaylists)
		}
		if result.Playlists[0].ID != "playlist_1" || result.Playlists[1].ID != "playlist_3" {
			t.Errorf("selection order not preserved: %s, %s",
				result.Playlists[0].ID, result.Playlists[1].ID)
		}
	})

	t.Run("UnknownPlaylistRecordedAndSkipped", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)

		result, err := engine.Run(context.Background(), nil, BackupOpts{
			PlaylistIDs: []string{"playlist_1", "no_such_playlist", "playlist_2"},
			RateLimit:   1000,
		})
		if err != nil {
			t.Fatalf("a missing playlist should not abort the run: %v", err)
		}

		if result.FailedBackups != 1 {
			t.Errorf("failed = %d, want 1", result.FailedBackups)
		}
		if result.SuccessfulBackups != 2 {
			t.Errorf("successful = %d, want 2", result.SuccessfulBackups)
		}
		if len(result.Results) != 3 {
			t.Fatalf("got %d results, want 3", len(result.Results))
		}
		if result.Results[1].Error == nil {
			t.Error("failed playlist should carry its error")
		}
		if len(result.Playlists) != 2 {
			t.Errorf("failed playlist should not appear in captured playlists, got %d", len(result.Playlists))
		}
	})

	t.Run("ExpiredTokenAborts", func(t *testing.T) {
		engine, svc := newTestEngine(t, nil)
		svc.ListErr = shared.ErrTokenExpired

		if _, err := engine.Run(context.Background(), nil, BackupOpts{}); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("RecordsSnapshots", func(t *testing.T) {
		store := &recordingStore{}
		engine, _ := newTestEngine(t, store)

		result, err := engine.Run(context.Background(), nil, BackupOpts{})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if len(store.recorded) != 3 {
			t.Errorf("recorded %d snapshots, want 3", len(store.recorded))
		}
		for _, r := range result.Results {
			if r.Error != nil {
				t.Errorf("playlist %s should have recorded cleanly: %v", r.PlaylistID, r.Error)
			}
		}
	})

	t.Run("SnapshotFailureDoesNotStopRun", func(t *testing.T) {
		store := &recordingStore{err: errors.New("disk full")}
		engine, _ := newTestEngine(t, store)

		result, err := engine.Run(context.Background(), nil, BackupOpts{})
		if err != nil {
			t.Fatalf("snapshot failures should not abort the run: %v", err)
		}

		for _, r := range result.Results {
			if r.Error == nil {
				t.Errorf("playlist %s should carry the snapshot error", r.PlaylistID)
			}
		}
	})

	t.Run("WritesExportFile", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)
		path := filepath.Join(t.TempDir(), "backup.json")

		result, err := engine.Run(context.Background(), nil, BackupOpts{
			Format:     "json",
			OutputPath: path,
		})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.OutputPath != path {
			t.Errorf("output path = %s, want %s", result.OutputPath, path)
		}
		internaltesting.AssertFileExists(t, path)

		content := internaltesting.MustReadFile(t, path)
		if !strings.Contains(content, "My Favorite Songs") {
			t.Error("export should contain the backed up playlists")
		}
	})

	t.Run("EmptyFormatSkipsExport", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)

		result, err := engine.Run(context.Background(), nil, BackupOpts{})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if result.OutputPath != "" {
			t.Errorf("no format should mean no export, got %s", result.OutputPath)
		}
	})

	t.Run("EmitsProgressUpdates", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)
		progress := make(chan ProgressUpdate, 100)

		if _, err := engine.Run(context.Background(), progress, BackupOpts{}); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) == 0 {
			t.Fatal("expected progress updates")
		}
		if phases[0] != FetchLibrary {
			t.Errorf("first phase = %s, want %s", phases[0], FetchLibrary)
		}
	})

	t.Run("FullProgressNeverBlocks", func(t *testing.T) {
		engine, _ := newTestEngine(t, nil)
		progress := make(chan ProgressUpdate) // unbuffered, never drained

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := engine.Run(context.Background(), progress, BackupOpts{}); err != nil {
				t.Errorf("run failed: %v", err)
			}
		}()
		<-done
	})
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		FetchLibrary:   "fetch_library",
		FetchPlaylist:  "fetch_playlist",
		RecordSnapshot: "record_snapshot",
		WriteExport:    "write_export",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %s, want %s", phase, got, want)
		}
	}
}
