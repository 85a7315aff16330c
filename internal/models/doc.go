// Package models defines domain entities and persistence interfaces for the playback backup service.
//
// The package contains two categories of types:
//
// 1. Domain entities: typed representations of Spotify library data
//   - [Playlist] : Playlist with ownership classification and ordered tracks
//   - [Track] : Song metadata with artists, album, and ISRC
//   - [Artist], [Album], [Owner], [UserProfile]
//
// 2. Persistent entities: database-backed snapshot rows
//   - [PersistedPlaylist] : Backed-up playlists keyed by service id and snapshot id
//   - [PersistedTrack] : Backed-up tracks with playlist position
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
