// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the channels it reports key presses on
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeChangeMsg carries a volume or mute change requested from the keyboard
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// SeekMsg asks playback to move by Seconds relative to the current position
type SeekMsg struct {
	Seconds int64
}

// QuitMsg signals that the user asked to quit
type QuitMsg struct{}

// Control holds channels the TUI uses to talk to the player
type Control struct {
	Volume chan VolumeChangeMsg
	Seek   chan SeekMsg
	Quit   chan QuitMsg
}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Volume: make(chan VolumeChangeMsg, 10),
		Seek:   make(chan SeekMsg, 10),
		Quit:   make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		volume:   100,
		state:    "idle",
		control:  ctrl,
		keys:     defaultKeyMap(),
		progress: newProgressBar(),
	}
}

// Run creates the TUI program. The caller runs it.
func Run(ctrl *Control, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return tea.NewProgram(NewModel(ctrl), opts...)
}
