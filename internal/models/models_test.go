package models

import (
	"testing"
	"time"
)

func samplePlaylist() Playlist {
	return Playlist{
		ID:         "pl-1",
		Name:       "Mix",
		SnapshotID: "snap-1",
		Type:       PlaylistOwned,
		Owner:      Owner{ID: "user-1", DisplayName: "Me"},
		TrackCount: 3,
		Tracks: []Track{
			{
				ID: "t1", Name: "One", DurationMS: 1000,
				Artists: []Artist{{Name: "Zeta"}, {Name: "Alpha"}},
			},
			{
				ID: "t2", Name: "Two", DurationMS: 2000,
				Artists: []Artist{{Name: "Alpha"}},
			},
			{
				ID: "t3", Name: "Three", DurationMS: 3000,
				Artists: []Artist{{Name: "Mid"}},
			},
		},
	}
}

func TestPlaylistTotalDurationMS(t *testing.T) {
	p := samplePlaylist()
	if got := p.TotalDurationMS(); got != 6000 {
		t.Errorf("total duration = %d, want 6000", got)
	}

	empty := Playlist{}
	if got := empty.TotalDurationMS(); got != 0 {
		t.Errorf("empty playlist duration = %d, want 0", got)
	}
}

func TestPlaylistUniqueArtists(t *testing.T) {
	p := samplePlaylist()

	got := p.UniqueArtists()
	want := []string{"Alpha", "Mid", "Zeta"}

	if len(got) != len(want) {
		t.Fatalf("got %d artists %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("artist %d = %s, want %s (sorted, deduplicated)", i, got[i], want[i])
		}
	}
}

func TestPersistedPlaylistValidate(t *testing.T) {
	valid := func() *PersistedPlaylist {
		return NewPersistedPlaylist(samplePlaylist())
	}

	t.Run("Valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("expected valid playlist, got %v", err)
		}
	})

	t.Run("MissingServiceID", func(t *testing.T) {
		p := valid()
		p.SetServiceID("")
		if err := p.Validate(); err == nil {
			t.Error("expected validation error for missing service id")
		}
	})

	t.Run("MissingSnapshotID", func(t *testing.T) {
		p := valid()
		p.SetSnapshot("")
		if err := p.Validate(); err == nil {
			t.Error("expected validation error for missing snapshot id")
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		p := valid()
		p.SetName("")
		if err := p.Validate(); err == nil {
			t.Error("expected validation error for missing name")
		}
	})

	t.Run("InvalidType", func(t *testing.T) {
		p := valid()
		p.SetType(PlaylistType("bogus"))
		if err := p.Validate(); err == nil {
			t.Error("expected validation error for invalid type")
		}
	})
}

func TestPersistedTrack(t *testing.T) {
	isrc := "USUG12002843"
	addedAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	track := Track{
		ID:         "t1",
		Name:       "cardigan",
		URI:        "spotify:track:t1",
		DurationMS: 239560,
		ISRC:       &isrc,
		AddedAt:    &addedAt,
		Artists:    []Artist{{Name: "Taylor Swift"}, {Name: "Aaron Dessner"}},
		Album:      Album{Name: "folklore"},
	}

	t.Run("FromDomainTrack", func(t *testing.T) {
		persisted := NewPersistedTrack("pl-row-1", 4, track)

		if persisted.ServiceID() != "t1" {
			t.Errorf("service id = %s, want t1", persisted.ServiceID())
		}
		if persisted.Position() != 4 {
			t.Errorf("position = %d, want 4", persisted.Position())
		}
		if persisted.ArtistNames() != "Taylor Swift, Aaron Dessner" {
			t.Errorf("artist names = %q, want comma-joined list", persisted.ArtistNames())
		}
		if persisted.AlbumName() != "folklore" {
			t.Errorf("album = %s, want folklore", persisted.AlbumName())
		}
		if persisted.ISRC() == nil || *persisted.ISRC() != isrc {
			t.Errorf("isrc = %v, want %s", persisted.ISRC(), isrc)
		}
		if err := persisted.Validate(); err != nil {
			t.Errorf("expected valid track, got %v", err)
		}
	})

	t.Run("ValidateMissingFields", func(t *testing.T) {
		if err := NewPersistedTrack("", 0, track).Validate(); err == nil {
			t.Error("expected validation error for missing playlist id")
		}
		if err := NewPersistedTrack("pl-1", 0, Track{Name: "x"}).Validate(); err == nil {
			t.Error("expected validation error for missing service id")
		}
		if err := NewPersistedTrack("pl-1", -1, track).Validate(); err == nil {
			t.Error("expected validation error for negative position")
		}
	})
}

func TestRowConversions(t *testing.T) {
	t.Run("PlaylistRow", func(t *testing.T) {
		now := time.Now()
		row := PlaylistRow{
			ID:         "row-1",
			Sequence:   7,
			ServiceID:  "pl-1",
			SnapshotID: "snap-1",
			OwnerID:    "user-1",
			Name:       "Mix",
			Type:       "collaborative",
			TrackCount: 12,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		p := row.Playlist()
		if p.ID() != "row-1" || p.Sequence() != 7 {
			t.Errorf("identity mismatch: %s / %d", p.ID(), p.Sequence())
		}
		if p.PlaylistType() != PlaylistCollaborative {
			t.Errorf("type = %s, want collaborative", p.PlaylistType())
		}
		if p.TrackCount() != 12 {
			t.Errorf("track count = %d, want 12", p.TrackCount())
		}
	})

	t.Run("TrackRow", func(t *testing.T) {
		isrc := "GBAYE0601498"
		row := TrackRow{
			ID:          "row-t1",
			PlaylistID:  "row-1",
			ServiceID:   "t1",
			Position:    3,
			Name:        "Come Together",
			URI:         "spotify:track:t1",
			DurationMS:  259000,
			ISRC:        &isrc,
			ArtistNames: "The Beatles",
			AlbumName:   "Abbey Road",
		}

		track := row.Track()
		if track.Position() != 3 {
			t.Errorf("position = %d, want 3", track.Position())
		}
		if track.ISRC() == nil || *track.ISRC() != isrc {
			t.Errorf("isrc = %v, want %s", track.ISRC(), isrc)
		}
		if track.ArtistNames() != "The Beatles" {
			t.Errorf("artist names = %s, want The Beatles", track.ArtistNames())
		}
	})
}
