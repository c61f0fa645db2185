// package ui provides the interactive terminal frontend for device syncs.
//
// The flow is: pick playlists from the catalog, confirm the destination, then
// watch the sync run with a live progress bar. Pressing q during a running
// sync requests cooperative cancellation instead of quitting outright; files
// already placed stay on the device.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/tasks"
)

// PlaylistSource lists playlists with their member songs for syncing.
type PlaylistSource interface {
	List() ([]models.Playlist, error)
	Get(id string) (*models.Playlist, error)
}

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	source       PlaylistSource
	engine       *tasks.DeviceEngine
	root         string
	width        int
	height       int
	playlistList list.Model
	selected     map[string]bool
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	enter  key.Binding
	back   key.Binding
	yes    key.Binding
	no     key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sync"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.enter, k.back, k.quit},
	}
}

// playlistItem wraps [models.Playlist] to implement list.Item.
type playlistItem struct {
	playlist models.Playlist
	selected func(id string) bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string {
	if i.selected(i.playlist.ID) {
		return "[x] " + i.playlist.Name
	}
	return "[ ] " + i.playlist.Name
}
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d songs", len(i.playlist.Songs))
}

type playlistsLoadedMsg struct {
	playlists []models.Playlist
	err       error
}

type syncProgressMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}

// NewModel creates a new TUI model syncing to the given destination root.
func NewModel(ctx context.Context, source PlaylistSource, engine *tasks.DeviceEngine, root string) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		view:     PlaylistListView,
		source:   source,
		engine:   engine,
		root:     root,
		selected: make(map[string]bool),
		bar:      progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by loading playlists from the catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadPlaylists()
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
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl, selected: m.isSelected}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists to Sync"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case syncProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) isSelected(id string) bool { return m.selected[id] }

func (m *Model) selectedCount() int {
	count := 0
	for _, on := range m.selected {
		if on {
			count++
		}
	}
	return count
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selected[item.playlist.ID] = !m.selected[item.playlist.ID]
		}
		return m, nil
	case "enter":
		if m.selectedCount() > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = PlaylistListView
		return m, nil
	case "y":
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		// Request cancellation; the engine stops at the next item boundary
		// and a completion message follows.
		m.cancel()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == PlaylistListView {
		m.playlistList, cmd = m.playlistList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		shallow, err := m.source.List()
		if err != nil {
			return playlistsLoadedMsg{err: err}
		}

		playlists := make([]models.Playlist, 0, len(shallow))
		for _, p := range shallow {
			full, err := m.source.Get(p.ID)
			if err != nil {
				return playlistsLoadedMsg{err: err}
			}
			playlists = append(playlists, *full)
		}
		return playlistsLoadedMsg{playlists: playlists}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	var chosen []models.Playlist
	for _, item := range m.playlistList.Items() {
		if pl, ok := item.(playlistItem); ok && m.selected[pl.playlist.ID] {
			chosen = append(chosen, pl.playlist)
		}
	}

	progressChan := m.progressChan
	go func() {
		result, err := m.engine.Sync(m.ctx, progressChan, chosen, m.root)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return syncCompleteMsg{result: m.result, err: m.err}
		}
		return syncProgressMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Sync %d playlists to %s?", m.selectedCount(), m.root))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Device")
	bar := m.bar.ViewAs(m.progress.Fraction())
	cancelHint := styles.help.Render("press q to cancel")
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", title, bar, m.progress.Message, cancelHint)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	var title string
	switch m.result.State {
	case tasks.SyncCancelled:
		title = styles.warn.Render("Sync Cancelled")
	default:
		title = styles.ok.Render("✓ Sync Complete")
	}

	info := fmt.Sprintf(
		"\nItems: %d\nTransferred: %d\nSkipped: %d\nFailed: %d",
		m.result.TotalItems,
		m.result.Transferred,
		m.result.Skipped,
		len(m.result.Failures),
	)

	var failed string
	if len(m.result.Failures) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render("Failed items:"))
		for _, failure := range m.result.Failures {
			failed += fmt.Sprintf("\n  • %s - %s: %v", failure.Song.Artist, failure.Song.Title, failure.Err)
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s%s%s\n\n%s", title, info, failed, helpView)
}
