package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playback/internal/models"
	"github.com/desertthunder/playback/internal/services"
	"github.com/desertthunder/playback/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SelectView ViewState = iota
	BackupView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	service      services.Service
	engine       tasks.Engine
	opts         tasks.BackupOpts
	width        int
	height       int
	playlistList list.Model
	playlists    []models.Playlist
	progressChan chan tasks.ProgressUpdate
	done         chan backupCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.BackupResult
	err          error
	help         help.Model
	keys         keyMap
}

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type progressUpdateMsg tasks.ProgressUpdate

type backupCompleteMsg struct {
	result *tasks.BackupResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, service services.Service, engine tasks.Engine, opts tasks.BackupOpts) *Model {
	return &Model{
		ctx:     ctx,
		view:    SelectView,
		service: service,
		engine:  engine,
		opts:    opts,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the playlist library.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SelectView:
			return m.handleSelectKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlist Library"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case backupCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == SelectView {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SelectView:
		return m.renderSelect()
	case BackupView:
		return m.renderBackup()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			item.selected = !item.selected
			return m, m.playlistList.SetItem(m.playlistList.Index(), item)
		}
		return m, nil

	case key.Matches(msg, m.keys.all):
		items := m.playlistList.Items()
		all := m.allSelected()
		next := make([]list.Item, len(items))
		for i, it := range items {
			pi := it.(playlistItem)
			pi.selected = !all
			next[i] = pi
		}
		return m, m.playlistList.SetItems(next)

	case key.Matches(msg, m.keys.confirm):
		ids := m.selectedIDs()
		if len(ids) == 0 {
			return m, nil
		}
		m.view = BackupView
		return m, m.startBackup(ids)
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = SelectView
		m.result = nil
		m.err = nil
		return m, m.fetchPlaylists()
	}
	return m, nil
}

func (m *Model) allSelected() bool {
	for _, it := range m.playlistList.Items() {
		if pi, ok := it.(playlistItem); ok && !pi.selected {
			return false
		}
	}
	return true
}

func (m *Model) selectedIDs() []string {
	var ids []string
	for _, it := range m.playlistList.Items() {
		if pi, ok := it.(playlistItem); ok && pi.selected {
			ids = append(ids, pi.playlist.ID)
		}
	}
	return ids
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.service.Playlists(m.ctx, m.opts.Limit)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) startBackup(ids []string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	done := make(chan backupCompleteMsg, 1)
	go func() {
		opts := m.opts
		opts.PlaylistIDs = ids
		result, err := m.engine.Run(m.ctx, progress, opts)
		done <- backupCompleteMsg{result: result, err: err}
		close(progress)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return backupCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSelect() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.confirm, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderBackup() string {
	title := styles.title.Render("Backing Up Playlists")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchPlaylist:
		phase = fmt.Sprintf("Fetching playlists (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.RecordSnapshot:
		phase = fmt.Sprintf("Recording snapshots (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteExport:
		phase = "Writing export file..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Backup failed: %v\n\nPress r to restart, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to restart, q to quit")
	}

	title := styles.ok.Render("✓ Backup Complete")
	info := fmt.Sprintf(
		"\nPlaylists: %d\nBacked up: %d\nDegraded: %d\nFailed: %d\n",
		m.result.TotalPlaylists,
		m.result.SuccessfulBackups,
		m.result.DegradedBackups,
		m.result.FailedBackups,
	)
	if m.result.OutputPath != "" {
		info += fmt.Sprintf("Export: %s\n", m.result.OutputPath)
	}

	var degraded string
	if m.result.DegradedBackups > 0 || m.result.FailedBackups > 0 {
		degraded = fmt.Sprintf("\n%s", styles.warn.Render("Incomplete playlists:"))
		for _, res := range m.result.Results {
			if res.Degraded || res.Error != nil {
				degraded += fmt.Sprintf("\n  • %s", res.PlaylistName)
			}
		}
		degraded += "\n"
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, degraded, helpView)
}
