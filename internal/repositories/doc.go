// Package repositories provides the persistence layer for backup snapshots.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations, soft deletes, and sequence generation. The
// [SnapshotWriter] adapter records a full playlist backup (playlist row plus
// ordered track rows) and deduplicates repeated backups of an unchanged
// snapshot via the (service_id, snapshot_id) unique constraint.
package repositories
