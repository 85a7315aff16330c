package models

import (
	"fmt"
	"strings"
	"time"
)

var (
	_ Model = (*PersistedPlaylist)(nil)
	_ Model = (*PersistedTrack)(nil)
)

// PersistedPlaylist is a backed-up playlist row keyed by the service playlist
// id and the snapshot id current at backup time.
type PersistedPlaylist struct {
	id            string
	sequence      int
	serviceID     string
	snapshotID    string
	ownerID       string
	name          string
	description   string
	playlistType  PlaylistType
	public        bool
	collaborative bool
	trackCount    int
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewPersistedPlaylist builds a snapshot row from a domain playlist.
func NewPersistedPlaylist(p Playlist) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		serviceID:     p.ID,
		snapshotID:    p.SnapshotID,
		ownerID:       p.Owner.ID,
		name:          p.Name,
		description:   p.Description,
		playlistType:  p.Type,
		public:        p.Public,
		collaborative: p.Collaborative,
		trackCount:    p.TrackCount,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (p *PersistedPlaylist) ID() string                 { return p.id }
func (p *PersistedPlaylist) Sequence() int              { return p.sequence }
func (p *PersistedPlaylist) ServiceID() string          { return p.serviceID }
func (p *PersistedPlaylist) SnapshotID() string         { return p.snapshotID }
func (p *PersistedPlaylist) OwnerID() string            { return p.ownerID }
func (p *PersistedPlaylist) Name() string               { return p.name }
func (p *PersistedPlaylist) Description() string        { return p.description }
func (p *PersistedPlaylist) PlaylistType() PlaylistType { return p.playlistType }
func (p *PersistedPlaylist) Public() bool               { return p.public }
func (p *PersistedPlaylist) Collaborative() bool        { return p.collaborative }
func (p *PersistedPlaylist) TrackCount() int            { return p.trackCount }
func (p *PersistedPlaylist) CreatedAt() time.Time       { return p.createdAt }
func (p *PersistedPlaylist) UpdatedAt() time.Time       { return p.updatedAt }
func (p *PersistedPlaylist) DeletedAt() *time.Time      { return p.deletedAt }

func (p *PersistedPlaylist) SetID(id string)            { p.id = id }
func (p *PersistedPlaylist) SetSequence(seq int)        { p.sequence = seq }
func (p *PersistedPlaylist) SetName(name string)        { p.name = name }
func (p *PersistedPlaylist) SetDescription(d string)    { p.description = d }
func (p *PersistedPlaylist) SetTrackCount(n int)        { p.trackCount = n }
func (p *PersistedPlaylist) SetUpdatedAt(t time.Time)   { p.updatedAt = t }
func (p *PersistedPlaylist) SetDeletedAt(t *time.Time)  { p.deletedAt = t }
func (p *PersistedPlaylist) SetCreatedAt(t time.Time)   { p.createdAt = t }
func (p *PersistedPlaylist) SetSnapshot(snap string)    { p.snapshotID = snap }
func (p *PersistedPlaylist) SetPublic(public bool)      { p.public = public }
func (p *PersistedPlaylist) SetCollaborative(col bool)  { p.collaborative = col }
func (p *PersistedPlaylist) SetType(t PlaylistType)     { p.playlistType = t }
func (p *PersistedPlaylist) SetOwnerID(owner string)    { p.ownerID = owner }
func (p *PersistedPlaylist) SetServiceID(id string)     { p.serviceID = id }

// Validate checks required snapshot fields.
func (p *PersistedPlaylist) Validate() error {
	if p.serviceID == "" {
		return fmt.Errorf("persisted playlist requires a service id")
	}
	if p.snapshotID == "" {
		return fmt.Errorf("persisted playlist requires a snapshot id")
	}
	if p.name == "" {
		return fmt.Errorf("persisted playlist requires a name")
	}
	switch p.playlistType {
	case PlaylistOwned, PlaylistFollowed, PlaylistCollaborative:
	default:
		return fmt.Errorf("invalid playlist type: %q", p.playlistType)
	}
	return nil
}

// PlaylistRow mirrors the playlists table for scanning.
type PlaylistRow struct {
	ID            string
	Sequence      int
	ServiceID     string
	SnapshotID    string
	OwnerID       string
	Name          string
	Description   string
	Type          string
	Public        bool
	Collaborative bool
	TrackCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Playlist converts a scanned row into a PersistedPlaylist.
func (r PlaylistRow) Playlist() *PersistedPlaylist {
	return &PersistedPlaylist{
		id:            r.ID,
		sequence:      r.Sequence,
		serviceID:     r.ServiceID,
		snapshotID:    r.SnapshotID,
		ownerID:       r.OwnerID,
		name:          r.Name,
		description:   r.Description,
		playlistType:  PlaylistType(r.Type),
		public:        r.Public,
		collaborative: r.Collaborative,
		trackCount:    r.TrackCount,
		createdAt:     r.CreatedAt,
		updatedAt:     r.UpdatedAt,
		deletedAt:     r.DeletedAt,
	}
}

// PersistedTrack is a backed-up track row tied to a playlist snapshot.
type PersistedTrack struct {
	id          string
	sequence    int
	playlistID  string
	serviceID   string
	position    int
	name        string
	uri         string
	durationMS  int
	explicit    bool
	isrc        *string
	artistNames string
	albumName   string
	addedAt     *time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewPersistedTrack builds a snapshot row from a domain track at the given
// playlist position.
func NewPersistedTrack(playlistID string, position int, t Track) *PersistedTrack {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	now := time.Now()
	return &PersistedTrack{
		playlistID:  playlistID,
		serviceID:   t.ID,
		position:    position,
		name:        t.Name,
		uri:         t.URI,
		durationMS:  t.DurationMS,
		explicit:    t.Explicit,
		isrc:        t.ISRC,
		artistNames: strings.Join(names, ", "),
		albumName:   t.Album.Name,
		addedAt:     t.AddedAt,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (t *PersistedTrack) ID() string            { return t.id }
func (t *PersistedTrack) Sequence() int         { return t.sequence }
func (t *PersistedTrack) PlaylistID() string    { return t.playlistID }
func (t *PersistedTrack) ServiceID() string     { return t.serviceID }
func (t *PersistedTrack) Position() int         { return t.position }
func (t *PersistedTrack) Name() string          { return t.name }
func (t *PersistedTrack) URI() string           { return t.uri }
func (t *PersistedTrack) DurationMS() int       { return t.durationMS }
func (t *PersistedTrack) Explicit() bool        { return t.explicit }
func (t *PersistedTrack) ISRC() *string         { return t.isrc }
func (t *PersistedTrack) ArtistNames() string   { return t.artistNames }
func (t *PersistedTrack) AlbumName() string     { return t.albumName }
func (t *PersistedTrack) AddedAt() *time.Time   { return t.addedAt }
func (t *PersistedTrack) CreatedAt() time.Time  { return t.createdAt }
func (t *PersistedTrack) UpdatedAt() time.Time  { return t.updatedAt }
func (t *PersistedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *PersistedTrack) SetID(id string)           { t.id = id }
func (t *PersistedTrack) SetSequence(seq int)       { t.sequence = seq }
func (t *PersistedTrack) SetPosition(pos int)       { t.position = pos }
func (t *PersistedTrack) SetUpdatedAt(ts time.Time) { t.updatedAt = ts }
func (t *PersistedTrack) SetDeletedAt(ts *time.Time) {
	t.deletedAt = ts
}

// TrackRow mirrors the tracks table for scanning.
type TrackRow struct {
	ID          string
	Sequence    int
	PlaylistID  string
	ServiceID   string
	Position    int
	Name        string
	URI         string
	DurationMS  int
	Explicit    bool
	ISRC        *string
	ArtistNames string
	AlbumName   string
	AddedAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Track converts a scanned row into a PersistedTrack.
func (r TrackRow) Track() *PersistedTrack {
	return &PersistedTrack{
		id:          r.ID,
		sequence:    r.Sequence,
		playlistID:  r.PlaylistID,
		serviceID:   r.ServiceID,
		position:    r.Position,
		name:        r.Name,
		uri:         r.URI,
		durationMS:  r.DurationMS,
		explicit:    r.Explicit,
		isrc:        r.ISRC,
		artistNames: r.ArtistNames,
		albumName:   r.AlbumName,
		addedAt:     r.AddedAt,
		createdAt:   r.CreatedAt,
		updatedAt:   r.UpdatedAt,
		deletedAt:   r.DeletedAt,
	}
}

// Validate checks required snapshot fields.
func (t *PersistedTrack) Validate() error {
	if t.playlistID == "" {
		return fmt.Errorf("persisted track requires a playlist id")
	}
	if t.serviceID == "" {
		return fmt.Errorf("persisted track requires a service id")
	}
	if t.name == "" {
		return fmt.Errorf("persisted track requires a name")
	}
	if t.position < 0 {
		return fmt.Errorf("persisted track position must be non-negative")
	}
	return nil
}
