package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap resolves key presses for the two supported binding modes,
// "vim" (default) and "standard".
type KeyMap struct {
	mode string
}

// NewKeyMap creates a keymap for the given mode.
func NewKeyMap(mode string) *KeyMap {
	if mode == "" {
		mode = "vim"
	}
	return &KeyMap{mode: mode}
}

// Mode returns the current keybinding mode.
func (k *KeyMap) Mode() string {
	return k.mode
}

// IsUp returns true if the key is an "up" navigation key.
func (k *KeyMap) IsUp(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyUp {
		return true
	}
	return k.mode == "vim" && msg.String() == "k"
}

// IsDown returns true if the key is a "down" navigation key.
func (k *KeyMap) IsDown(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyDown {
		return true
	}
	return k.mode == "vim" && msg.String() == "j"
}

// IsConfirm returns true if the key is a confirm/select key.
func (k *KeyMap) IsConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter
}

// IsCancel returns true if the key is a cancel/back key.
func (k *KeyMap) IsCancel(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc
}

// IsQuit returns true if the key is a quit key.
func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return msg.String() == "q" || msg.Type == tea.KeyCtrlC
}

// IsToggle returns true if the key toggles the selected mod.
func (k *KeyMap) IsToggle(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeySpace || msg.String() == " "
}

// IsDelete returns true if the key is a delete key.
func (k *KeyMap) IsDelete(msg tea.KeyMsg) bool {
	return msg.String() == "d" || msg.Type == tea.KeyDelete
}

// IsSearch returns true if the key should focus search.
func (k *KeyMap) IsSearch(msg tea.KeyMsg) bool {
	return msg.String() == "/"
}

// IsHome returns true if the key should go to the first item.
func (k *KeyMap) IsHome(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyHome {
		return true
	}
	return k.mode == "vim" && msg.String() == "g"
}

// IsEnd returns true if the key should go to the last item.
func (k *KeyMap) IsEnd(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEnd {
		return true
	}
	return k.mode == "vim" && msg.String() == "G"
}

// IsRaise returns true if the key should move the selected mod earlier
// in the load order (lower pak number).
func (k *KeyMap) IsRaise(msg tea.KeyMsg) bool {
	return msg.String() == "K"
}

// IsLower returns true if the key should move the selected mod later in
// the load order (higher pak number).
func (k *KeyMap) IsLower(msg tea.KeyMsg) bool {
	return msg.String() == "J"
}

// NavigationHelp returns help text for navigation keys.
func (k *KeyMap) NavigationHelp() string {
	if k.mode == "vim" {
		return "j/k: navigate  K/J: load order"
	}
	return "↑/↓: navigate  shift+↑/↓: load order"
}
