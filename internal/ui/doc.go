// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for backing up a playlist library:
//  1. [SelectView] : Browse playlists and mark the ones to back up
//  2. [BackupView] : Monitor real-time progress updates
//  3. [ResultView] : Display backup outcomes
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Progress updates flow through a channel from the BackupEngine,
// providing non-blocking status reporting during the run.
//
// Keyboard navigation uses vim-style bindings (j/k, space, a, enter, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
