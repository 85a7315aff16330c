// Package tasks implements the playlist library backup operation.
//
// BackupEngine walks the library sequentially, paces detail fetches with a
// rate limiter, and emits progress updates via channels for non-blocking
// status reporting to CLI/UI layers. Per-playlist failures degrade rather
// than aborting the run.
package tasks
