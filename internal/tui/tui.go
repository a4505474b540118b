// Package tui provides a Bubble Tea terminal user interface for ytmgrab.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ytmgrab/ytmgrab/internal/config"
	"github.com/ytmgrab/ytmgrab/internal/download"
	"github.com/ytmgrab/ytmgrab/internal/model"
	"github.com/ytmgrab/ytmgrab/internal/ytdlp"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StateInput
	StateResults
	StateConfirm
	StateDownloading
	StateComplete
	StateError
)

// Mode is the download mode chosen from the main menu.
type Mode int

const (
	ModeSingle Mode = iota
	ModePlaylist
	ModeSearch
	ModeFolder
	ModeExit
)

// menuItem pairs a menu label with its mode.
type menuItem struct {
	label string
	mode  Mode
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// eventLog collects progress events from the download goroutine. The UI
// drains it on every tick; the callback never touches the Bubble Tea model
// directly.
type eventLog struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (l *eventLog) add(event download.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) drain() []download.ProgressEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	drained := l.events
	l.events = nil
	return drained
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	mode      Mode
	menu      []menuItem
	cursor    int
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model

	settings     *config.Settings
	settingsPath string

	logs    []LogEntry
	results []download.SearchResult
	err     error

	preview    *download.PlaylistPreview
	pendingURL string

	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  *eventLog

	doneTracks  int32
	totalTracks int32
	downloaded  []string

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. Settings changes made in the UI are
// persisted to settingsPath.
func NewModel(settings *config.Settings, settingsPath string) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	events := &eventLog{}

	return Model{
		state:        StateMenu,
		menu:         buildMenu(),
		textInput:    ti,
		spinner:      sp,
		progress:     prog,
		settings:     settings,
		settingsPath: settingsPath,
		logs:         make([]LogEntry, 0),
		ctx:          ctx,
		cancel:       cancel,
		events:       events,
		manager:      download.NewManager(settings, events.add),
	}
}

func buildMenu() []menuItem {
	return []menuItem{
		{label: "Download a track (URL)", mode: ModeSingle},
		{label: "Download a playlist (URL)", mode: ModePlaylist},
		{label: "Search YouTube", mode: ModeSearch},
		{label: "Change downloads folder", mode: ModeFolder},
		{label: "Exit", mode: ModeExit},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// SearchDoneMsg carries search results back to the UI.
	SearchDoneMsg struct {
		Results []download.SearchResult
		Err     error
	}

	// DownloadDoneMsg is sent when a download request finishes.
	DownloadDoneMsg struct {
		Paths []string
		Err   error
	}

	// PreviewDoneMsg carries a playlist preview back to the UI.
	PreviewDoneMsg struct {
		Preview *download.PlaylistPreview
		URL     string
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case SearchDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if len(msg.Results) == 0 {
			m.state = StateError
			m.err = fmt.Errorf("no results")
		} else {
			m.results = msg.Results
			m.cursor = 0
			m.state = StateResults
		}

	case PreviewDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.preview = msg.Preview
			m.pendingURL = msg.URL
			m.state = StateConfirm
		}

	case DownloadDoneMsg:
		m.appendEvents()
		m.downloaded = msg.Paths
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateDownloading {
			m.appendEvents()
			done, total := m.manager.GetProgress()
			m.doneTracks = done
			m.totalTracks = total

			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses per state. The bool result reports
// whether the key was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return tea.Quit, true

	case "esc":
		switch m.state {
		case StateMenu:
			return tea.Quit, true
		case StateInput, StateResults:
			m.state = StateMenu
			m.cursor = 0
			return nil, true
		case StateConfirm:
			m.preview = nil
			m.pendingURL = ""
			m.state = StateMenu
			m.cursor = 0
			return nil, true
		case StateDownloading:
			m.cancel()
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
			return nil, true
		}

	case "up", "k":
		if m.state == StateMenu && m.cursor > 0 {
			m.cursor--
			return nil, true
		}
		if m.state == StateResults && m.cursor > 0 {
			m.cursor--
			return nil, true
		}

	case "down", "j":
		if m.state == StateMenu && m.cursor < len(m.menu)-1 {
			m.cursor++
			return nil, true
		}
		if m.state == StateResults && m.cursor < len(m.results)-1 {
			m.cursor++
			return nil, true
		}

	case "f":
		if m.state == StateMenu {
			m.cycleFormat()
			return nil, true
		}

	case "v":
		if m.state == StateMenu {
			m.verbose = !m.verbose
			return nil, true
		}

	case "enter":
		switch m.state {
		case StateMenu:
			m.mode = m.menu[m.cursor].mode
			if m.mode == ModeExit {
				return tea.Quit, true
			}
			m.enterInput()
			return textinput.Blink, true
		case StateInput:
			return m.submitInput(), true
		case StateResults:
			chosen := m.results[m.cursor]
			m.startDownloading()
			return tea.Batch(m.downloadURL(chosen.URL), m.tickProgress(), m.spinner.Tick), true
		case StateConfirm:
			url := m.pendingURL
			m.preview = nil
			m.pendingURL = ""
			m.startDownloading()
			return tea.Batch(m.downloadURL(url), m.tickProgress(), m.spinner.Tick), true
		}

	case "q":
		if m.state == StateComplete || m.state == StateError {
			return tea.Quit, true
		}

	case "r":
		if m.state == StateComplete || m.state == StateError {
			m.reset()
			return nil, true
		}
	}

	return nil, false
}

// cycleFormat rotates through the output formats and persists the choice.
func (m *Model) cycleFormat() {
	order := []model.Format{model.FormatBest, model.FormatMP3, model.FormatM4A, model.FormatFLAC}
	current := m.settings.OutputFormat()
	for i, format := range order {
		if format == current {
			m.settings.Format = string(order[(i+1)%len(order)])
			break
		}
	}
	m.saveSettings()
}

func (m *Model) enterInput() {
	m.state = StateInput
	m.textInput.SetValue("")
	switch m.mode {
	case ModeSingle:
		m.textInput.Placeholder = "https://music.youtube.com/watch?v=..."
	case ModePlaylist:
		m.textInput.Placeholder = "https://www.youtube.com/playlist?list=..."
	case ModeSearch:
		m.textInput.Placeholder = "artist and title to search for"
	case ModeFolder:
		m.textInput.Placeholder = m.settings.DownloadsPath
	}
	m.textInput.Focus()
}

func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.textInput.Value())
	if value == "" {
		return nil
	}

	switch m.mode {
	case ModeFolder:
		m.settings.DownloadsPath = value
		m.saveSettings()
		m.state = StateMenu
		m.cursor = 0
		return nil

	case ModeSearch:
		m.state = StateDownloading
		m.logs = nil
		return tea.Batch(m.runSearch(value), m.spinner.Tick)

	case ModePlaylist:
		if err := ytdlp.ValidateURL(value); err != nil {
			m.state = StateError
			m.err = err
			return nil
		}
		// Playlists are previewed first; the download starts after the
		// preview is confirmed.
		m.state = StateDownloading
		m.logs = nil
		return tea.Batch(m.runPreview(value), m.spinner.Tick)

	default:
		if err := ytdlp.ValidateURL(value); err != nil {
			m.state = StateError
			m.err = err
			return nil
		}
		m.startDownloading()
		return tea.Batch(m.downloadURL(value), m.tickProgress(), m.spinner.Tick)
	}
}

func (m *Model) startDownloading() {
	m.state = StateDownloading
	m.logs = nil
	m.doneTracks = 0
	m.totalTracks = 0
	m.downloaded = nil
}

func (m *Model) reset() {
	m.state = StateMenu
	m.cursor = 0
	m.logs = nil
	m.results = nil
	m.err = nil
	m.preview = nil
	m.pendingURL = ""
	m.downloaded = nil
	m.doneTracks = 0
	m.totalTracks = 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.events.drain()
}

func (m *Model) saveSettings() {
	if m.settingsPath == "" {
		return
	}
	if err := m.settings.Save(m.settingsPath); err != nil {
		m.logs = append(m.logs, LogEntry{
			Message: fmt.Sprintf("Error saving settings: %v", err),
			Level:   download.LevelWarning,
		})
	}
}

// appendEvents drains pending progress events into the visible log.
func (m *Model) appendEvents() {
	for _, event := range m.events.drain() {
		if event.Level == download.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	}
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m *Model) runPreview(rawURL string) tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	return func() tea.Msg {
		preview, err := manager.PreviewPlaylist(ctx, rawURL)
		return PreviewDoneMsg{Preview: preview, URL: rawURL, Err: err}
	}
}

func (m *Model) runSearch(query string) tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	return func() tea.Msg {
		results, err := manager.Search(ctx, query)
		return SearchDoneMsg{Results: results, Err: err}
	}
}

func (m *Model) downloadURL(rawURL string) tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	playlist := m.mode == ModePlaylist
	return func() tea.Msg {
		if playlist {
			results, err := manager.DownloadPlaylist(ctx, rawURL)
			paths := make([]string, 0, len(results))
			for _, result := range results {
				paths = append(paths, result.Path)
			}
			return DownloadDoneMsg{Paths: paths, Err: err}
		}

		result, err := manager.DownloadSingle(ctx, rawURL)
		if err != nil {
			return DownloadDoneMsg{Err: err}
		}
		return DownloadDoneMsg{Paths: []string{result.Path}}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ytmgrab"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download music from YouTube"))
	b.WriteString("\n\n")

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StateInput:
		b.WriteString(m.viewInput())
	case StateResults:
		b.WriteString(m.viewResults())
	case StateConfirm:
		b.WriteString(m.viewConfirm())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	for i, item := range m.menu {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + item.label))
		} else {
			b.WriteString("  " + item.label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Format: %s | Folder: %s", m.settings.OutputFormat(), m.settings.DownloadsPath)))
	b.WriteString("\n")

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	switch m.mode {
	case ModeSingle:
		b.WriteString(subtitleStyle.Render("Enter a video URL:"))
	case ModePlaylist:
		b.WriteString(subtitleStyle.Render("Enter a playlist URL:"))
	case ModeSearch:
		b.WriteString(subtitleStyle.Render("Enter a search query:"))
	case ModeFolder:
		b.WriteString(subtitleStyle.Render("Enter the downloads folder:"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Search results:"))
	b.WriteString("\n\n")
	for i, result := range m.results {
		line := fmt.Sprintf("%s (%s, %s)", result.Title, result.Uploader, formatDuration(result.Duration))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// previewMaxEntries limits how many playlist tracks the confirmation
// screen lists individually.
const previewMaxEntries = 10

func (m Model) viewConfirm() string {
	if m.preview == nil {
		return ""
	}

	var b strings.Builder

	header := m.preview.Title
	if m.preview.Uploader != "" {
		header += " (" + m.preview.Uploader + ")"
	}
	b.WriteString(subtitleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"%d tracks, %s, about %s as %s",
		len(m.preview.Entries),
		formatDuration(m.preview.TotalDuration),
		formatBytes(m.preview.EstimatedBytes),
		m.settings.OutputFormat(),
	)))
	b.WriteString("\n\n")

	shown := m.preview.Entries
	if len(shown) > previewMaxEntries {
		shown = shown[:previewMaxEntries]
	}
	for i, entry := range shown {
		b.WriteString(fmt.Sprintf("  %2d. %s (%s)\n", i+1, entry.Title, formatDuration(entry.Duration)))
	}
	if rest := len(m.preview.Entries) - len(shown); rest > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", rest)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Working..."))
	b.WriteString("\n\n")

	if m.totalTracks > 1 {
		var percent float64
		if m.totalTracks > 0 {
			percent = float64(m.doneTracks) / float64(m.totalTracks)
		}
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d", m.doneTracks, m.totalTracks)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"Download complete\n\nTracks: %d\nFolder: %s",
		len(m.downloaded),
		m.settings.DownloadsPath,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateMenu:
		return "enter: select • up/down: move • f: format • v: verbose • esc: quit"
	case StateInput:
		return "enter: confirm • esc: back"
	case StateResults:
		return "enter: download • up/down: move • esc: back"
	case StateConfirm:
		return "enter: download • esc: back"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: menu • q: quit"
	}
	return ""
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "?:??"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatBytes(n int64) string {
	const mb = 1000 * 1000
	if n < mb {
		return fmt.Sprintf("%d kB", n/1000)
	}
	return fmt.Sprintf("%.0f MB", float64(n)/mb)
}

// Run starts the TUI application.
func Run(settings *config.Settings, settingsPath string) error {
	p := tea.NewProgram(NewModel(settings, settingsPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
