// Package tcell provides the Backend and Canvas implementation on tcell.
package tcell

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// Backend implements backend.Backend and backend.Canvas using tcell.
type Backend struct {
	screen tcell.Screen

	// Bracketed paste state
	inPaste     bool
	pasteBuffer strings.Builder

	// Buttons held at the previous mouse event, used to tell presses,
	// releases and motion apart.
	held tcell.ButtonMask
}

// New creates a new tcell backend.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen creates a backend with an existing tcell screen (for testing).
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Screen exposes the wrapped tcell screen.
func (b *Backend) Screen() tcell.Screen {
	return b.screen
}

// Init initializes the backend with mouse motion reporting enabled.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse(tcell.MouseMotionEvents)
	b.screen.EnablePaste()
	return nil
}

func (b *Backend) Fini() {
	b.screen.Fini()
}

func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

func (b *Backend) Show() {
	b.screen.Show()
}

// Clear clears the screen. It also satisfies backend.Canvas.
func (b *Backend) Clear() {
	b.screen.Clear()
}

func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// PollEvent blocks until an event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}

		case *tcell.EventKey:
			if b.inPaste {
				// Form fields are single paragraphs, so line breaks in
				// pasted text collapse to spaces.
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter, tcell.KeyTab:
					b.pasteBuffer.WriteRune(' ')
				}
				continue
			}
		}

		if out := b.convertEvent(ev); out != nil {
			return out
		}
	}
}

func (b *Backend) Sync() {
	b.screen.Sync()
}

// convertColor converts backend.Color to tcell.Color.
func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.Canvas  = (*Backend)(nil)
)
