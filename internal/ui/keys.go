// ABOUTME: Key bindings for the player TUI
// ABOUTME: Seek, volume, mute, debug and quit keys with their help text
package ui

import "github.com/charmbracelet/bubbles/key"

// Seconds moved by one press of a seek key
const seekStep = 5

// Volume change for one press of a volume key
const volumeStep = 5

type keyMap struct {
	SeekBack    key.Binding
	SeekForward key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Mute        key.Binding
	Debug       key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SeekBack:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-5s")),
		SeekForward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+5s")),
		VolumeUp:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "vol+")),
		VolumeDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "vol-")),
		Mute:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Debug:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.SeekBack, k.SeekForward, k.VolumeUp, k.VolumeDown, k.Mute, k.Debug, k.Quit}
}
