package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	next     key.Binding
	prev     key.Binding
	left     key.Binding
	right    key.Binding
	up       key.Binding
	down     key.Binding
	start    key.Binding
	drop     key.Binding
	empty    key.Binding
	pool     key.Binding
	withdraw key.Binding
	reveal   key.Binding
	again    key.Binding
	back     key.Binding
	quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "tile")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "tile")),
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "zone")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "zone")),
		start:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		drop:     key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "drop tile")),
		empty:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "no tiles needed")),
		pool:     key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "pool tile")),
		withdraw: key.NewBinding(key.WithKeys("backspace", "x"), key.WithHelp("x", "take back")),
		reveal:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show sum")),
		again:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play again")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to setup")),
		quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// screenHelp adapts one screen's bindings to help.KeyMap.
type screenHelp []key.Binding

func (s screenHelp) ShortHelp() []key.Binding  { return s }
func (s screenHelp) FullHelp() [][]key.Binding { return [][]key.Binding{s} }
