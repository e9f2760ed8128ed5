// ABOUTME: Bubbletea model for player TUI
// ABOUTME: Defines application state, update logic and rendering
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sendspin/earwax-go/internal/version"
)

const contentWidth = 52

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8BC34A")).
			Padding(0, 1).
			Width(contentWidth + 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#616161"))
)

// Model represents the TUI state
type Model struct {
	// Track
	path       string
	trackIndex int
	trackTotal int
	sessionID  string

	// Stream
	codec      string
	sampleRate int
	channels   int
	bitRate    int

	// Position
	position time.Duration
	duration time.Duration

	// Playback
	state  string
	volume int
	muted  bool
	err    string

	// Debug
	showDebug bool

	control  *Control
	keys     keyMap
	progress progress.Model

	// Dimensions
	width  int
	height int
}

// StatusMsg updates TUI state. Zero fields are ignored.
type StatusMsg struct {
	Path       string
	TrackIndex int // zero-based
	TrackTotal int
	SessionID  string

	Codec      string
	SampleRate int
	Channels   int
	BitRate    int

	Position *time.Duration
	Duration time.Duration

	State  string
	Volume int
	Err    error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderTrack(),
		m.renderPosition(),
		m.renderControls(),
	}
	if m.showDebug {
		sections = append(sections, m.renderDebug())
	}
	if m.err != "" {
		sections = append(sections, errorStyle.Render(truncate(m.err, contentWidth)))
	}
	sections = append(sections, m.renderHelp())

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...)) + "\n"
}

// renderHeader renders the product line and playback state
func (m Model) renderHeader() string {
	return fmt.Sprintf("%s  %s", titleStyle.Render(version.String()), labelStyle.Render(m.state))
}

// renderTrack renders the current file and its format
func (m Model) renderTrack() string {
	if m.path == "" {
		return "No track"
	}

	s := fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("Track %d/%d:", m.trackIndex+1, m.trackTotal)),
		truncate(filepath.Base(m.path), contentWidth-12))

	format := fmt.Sprintf("%s %dHz %s", strings.ToUpper(m.codec), m.sampleRate, channelName(m.channels))
	if m.bitRate > 0 {
		format += fmt.Sprintf(" %d kbps", m.bitRate/1000)
	}
	return s + labelStyle.Render("Format: ") + format
}

// renderPosition renders the progress bar and clock
func (m Model) renderPosition() string {
	clock := fmt.Sprintf(" %s / %s", formatClock(m.position), formatClock(m.duration))
	if m.duration <= 0 {
		return labelStyle.Render("Position:") + clock
	}
	return m.progress.ViewAs(fraction(m.position, m.duration)) + clock
}

// renderControls renders volume status
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " (muted)"
	}
	return fmt.Sprintf("%s [%s] %d%%%s", labelStyle.Render("Volume:"), renderBar(m.volume, 100, 10), m.volume, muteIcon)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.bindings() {
		parts = append(parts, b.Help().Key+":"+b.Help().Desc)
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf("%s session %s", labelStyle.Render("DEBUG:"), m.sessionID)
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.control != nil {
			select {
			case m.control.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.SeekBack):
		m.sendSeek(-seekStep)
	case key.Matches(msg, m.keys.SeekForward):
		m.sendSeek(seekStep)
	case key.Matches(msg, m.keys.VolumeUp):
		m.volume = min(m.volume+volumeStep, 100)
		m.sendVolume()
	case key.Matches(msg, m.keys.VolumeDown):
		m.volume = max(m.volume-volumeStep, 0)
		m.sendVolume()
	case key.Matches(msg, m.keys.Mute):
		m.muted = !m.muted
		m.sendVolume()
	case key.Matches(msg, m.keys.Debug):
		m.showDebug = !m.showDebug
	}

	return m, nil
}

func (m Model) sendSeek(seconds int64) {
	if m.control == nil {
		return
	}
	select {
	case m.control.Seek <- SeekMsg{Seconds: seconds}:
	default:
	}
}

func (m Model) sendVolume() {
	if m.control == nil {
		return
	}
	select {
	case m.control.Volume <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Path != "" {
		m.path = msg.Path
		m.trackIndex = msg.TrackIndex
		m.trackTotal = msg.TrackTotal
		m.sessionID = msg.SessionID
		m.position = 0
		m.err = ""
	}
	if msg.Codec != "" {
		m.codec = msg.Codec
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.bitRate = msg.BitRate
	}
	if msg.Position != nil {
		m.position = *msg.Position
	}
	if msg.Duration != 0 {
		m.duration = msg.Duration
	}
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Volume != 0 {
		m.volume = msg.Volume
	}
	if msg.Err != nil {
		m.err = msg.Err.Error()
	}
}

// Utility functions
func newProgressBar() progress.Model {
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = contentWidth - 16
	return p
}

func fraction(position, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	f := float64(position) / float64(duration)
	return max(0, min(f, 1))
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func renderBar(value, max, width int) string {
	filled := (value * width) / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}
