// Package sim provides a simulation backend for testing.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/backend/tcell"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// Backend is a testable backend using tcell's simulation screen. Input is
// queued on a channel so tests can inject keys and clicks without going
// through terminal escape sequences.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex
	width  int
	height int

	events  chan terminal.Event
	closed  chan struct{}
	once    sync.Once
	pointer backend.PointerKind
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
		width:   width,
		height:  height,
		events:  make(chan terminal.Event, 256),
		closed:  make(chan struct{}),
	}
}

// Init starts the screen at the size given to New. Initializing a tcell
// simulation screen resets it to 80x25.
func (s *Backend) Init() error {
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.SetSize(s.width, s.height)
	return nil
}

// Fini finalizes the screen and unblocks PollEvent.
func (s *Backend) Fini() {
	s.once.Do(func() { close(s.closed) })
	s.Backend.Fini()
}

// PollEvent returns the next injected event, or nil once finalized.
func (s *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-s.events:
		return ev
	case <-s.closed:
		return nil
	}
}

// PostEvent queues an event for PollEvent.
func (s *Backend) PostEvent(ev terminal.Event) error {
	select {
	case s.events <- ev:
	default:
	}
	return nil
}

// SetPointer records the requested pointer icon.
func (s *Backend) SetPointer(kind backend.PointerKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = kind
}

// Pointer returns the last pointer icon set by the runtime.
func (s *Backend) Pointer() backend.PointerKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// Resize changes the simulation screen size.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.screen.SetSize(width, height)
}

// InjectKey injects a key event into the simulation.
func (s *Backend) InjectKey(key terminal.Key, r rune) {
	s.PostEvent(terminal.KeyEvent{Key: key, Rune: r})
}

// InjectKeyString injects a string as a sequence of rune key events.
func (s *Backend) InjectKeyString(str string) {
	for _, r := range str {
		s.InjectKey(terminal.KeyRune, r)
	}
}

// InjectClick injects a left press and release at a cell.
func (s *Backend) InjectClick(x, y int) {
	s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
	s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
}

// Capture captures the current screen content as a string.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	return s.captureLocked(0, 0, w, h)
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureLocked(x, y, w, h)
}

func (s *Backend) captureLocked(x, y, w, h int) string {
	lines := make([]string, 0, h)
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, comb, _, _ := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CellReversed reports whether the cell at (x, y) is drawn in reverse video.
func (s *Backend) CellReversed(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _, style, _ := s.screen.GetContent(x, y)
	_, _, attrs := style.Decompose()
	return attrs&tcellv2.AttrReverse != 0
}

// FindText searches for text on the screen and returns its cell position.
// Positions count runes, so text after wide glyphs may be off by their
// extra width.
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if col := strings.Index(line, text); col >= 0 {
			return len([]rune(line[:col])), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, y := s.FindText(text)
	return x >= 0 && y >= 0
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.Canvas        = (*Backend)(nil)
	_ backend.PointerSetter = (*Backend)(nil)
)
