package runtime

import (
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// Message represents an event flowing into the UI loop.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key   terminal.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyMsg) isMessage() {}

// Event returns the key as a terminal event.
func (m KeyMsg) Event() terminal.KeyEvent {
	return terminal.KeyEvent{Key: m.Key, Rune: m.Rune, Alt: m.Alt, Ctrl: m.Ctrl, Shift: m.Shift}
}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseMsg represents a pointer event in cell coordinates.
type MouseMsg struct {
	X, Y   int
	Button terminal.MouseButton
	Action terminal.MouseAction
	Shift  bool
}

func (MouseMsg) isMessage() {}

// PasteMsg represents pasted text from bracketed paste mode.
type PasteMsg struct {
	Text string
}

func (PasteMsg) isMessage() {}

// CallbackMsg runs a callback on the loop goroutine.
type CallbackMsg struct {
	Callback Callback
}

func (CallbackMsg) isMessage() {}

// messageFor converts a backend event. It returns nil for events the loop
// does not handle.
func messageFor(ev terminal.Event) Message {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return KeyMsg{Key: e.Key, Rune: e.Rune, Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift}
	case terminal.ResizeEvent:
		return ResizeMsg{Width: e.Width, Height: e.Height}
	case terminal.MouseEvent:
		return MouseMsg{X: e.X, Y: e.Y, Button: e.Button, Action: e.Action, Shift: e.Shift}
	case terminal.PasteEvent:
		return PasteMsg{Text: e.Text}
	default:
		return nil
	}
}
