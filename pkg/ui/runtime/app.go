package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/odvcencio/tradelog/pkg/logging"
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// EventLogger receives debug events from the loop. *logging.Logger
// satisfies it.
type EventLogger interface {
	Debug(category logging.Category, eventType string, message string, details map[string]any) error
}

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend backend.Backend
	// Canvas defaults to Backend when it also implements backend.Canvas.
	Canvas backend.Canvas
	Root   *Node
	// Origin is where the root is drawn. Pointer positions are taken
	// relative to it.
	Origin        geom.Point
	Logger        EventLogger
	MessageBuffer int
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// App owns the widget tree, its Selection and the canvas, and applies the
// responses of routed events.
type App struct {
	backend   backend.Backend
	canvas    backend.Canvas
	root      *Node
	selection *Selection
	origin    geom.Point
	logger    EventLogger
	now       func() time.Time
	messages  chan Message

	running   bool
	needsDraw bool
	pointer   backend.PointerKind
}

// NewApp creates an App and flattens the tree's selection entries. The
// tree is measured when a canvas is available.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	root := cfg.Root
	if root == nil {
		root = NewContainer(VStack(0))
	}
	canvas := cfg.Canvas
	if canvas == nil {
		if c, ok := cfg.Backend.(backend.Canvas); ok {
			canvas = c
		}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	a := &App{
		backend:   cfg.Backend,
		canvas:    canvas,
		root:      root,
		selection: NewSelection(root),
		origin:    cfg.Origin,
		logger:    cfg.Logger,
		now:       clock,
		messages:  make(chan Message, bufferSize),
		needsDraw: true,
	}
	a.remeasure()
	return a
}

func (a *App) Root() *Node { return a.root }
func (a *App) Selection() *Selection { return a.selection }
func (a *App) Canvas() backend.Canvas { return a.canvas }
func (a *App) Origin() geom.Point { return a.origin }
func (a *App) Pointer() backend.PointerKind { return a.pointer }

// NeedsDraw reports whether the next Render will draw.
func (a *App) NeedsDraw() bool { return a.needsDraw }

// Document serializes the tree, stamped with the current time.
func (a *App) Document() Document {
	var doc Document
	a.root.Serialize(&doc)
	doc.Date = a.now()
	return doc
}

// Post sends a message to the event loop. Messages are dropped when the
// buffer is full.
func (a *App) Post(msg Message) {
	select {
	case a.messages <- msg:
	default:
	}
}

// Quit stops Run after the current message. It must be called on the loop
// goroutine, typically from a Callback; other goroutines post a
// CallbackMsg.
func (a *App) Quit() {
	a.running = false
}

// Run starts the event loop until quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("backend is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if a.canvas == nil {
		return errors.New("backend does not provide a canvas")
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	a.remeasure()
	a.running = true
	a.needsDraw = true

	go a.pollEvents()

	a.Render()
	for a.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-a.messages:
			a.HandleMessage(msg)
		}
		a.Render()
	}
	return nil
}

func (a *App) pollEvents() {
	for {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}
		if msg := messageFor(ev); msg != nil {
			a.Post(msg)
		}
	}
}

// HandleMessage dispatches one message synchronously.
func (a *App) HandleMessage(msg Message) {
	start := time.Now()
	defer func() { metricDispatchSeconds.Observe(time.Since(start).Seconds()) }()

	switch m := msg.(type) {
	case KeyMsg:
		recordEvent("key")
		a.handleKey(m.Event())
	case MouseMsg:
		recordEvent("mouse")
		a.handleMouse(m)
	case PasteMsg:
		recordEvent("paste")
		a.handlePaste(m.Text)
	case ResizeMsg:
		recordEvent("resize")
		if a.backend != nil {
			a.backend.Sync()
		}
		a.needsDraw = true
	case CallbackMsg:
		if m.Callback != nil {
			m.Callback(a)
		}
	}
}

// handleKey offers the key to the selected entry first. Tab and Shift-Tab
// move the selection and Escape clears it when the entry declines them.
func (a *App) handleKey(ev terminal.KeyEvent) {
	if ev.Key == terminal.KeyCtrlC {
		a.Quit()
		return
	}

	before, _ := a.selection.Current()
	ctx := a.newEventCtx()
	if !a.selection.HandleKey(ev, ctx) {
		switch ev.Key {
		case terminal.KeyTab:
			if ev.Shift {
				a.selection.SelectPrev(ctx)
			} else {
				a.selection.SelectNext(ctx)
			}
		case terminal.KeyEscape:
			a.selection.SetSelect(-1, ctx)
		}
	}
	a.noteSelection(before)
	a.HandleResult(ctx.Response())
}

func (a *App) handleMouse(m MouseMsg) {
	p := geom.Pt(float32(m.X), float32(m.Y)).Sub(a.origin)
	ctx := a.newEventCtx()
	switch m.Action {
	case terminal.MousePress:
		if m.Button != terminal.MouseLeft {
			return
		}
		if !a.root.Click(p, ctx) {
			ctx.Deselect()
		}
	case terminal.MouseMove:
		a.root.Hover(p, ctx)
	default:
		return
	}
	a.setPointer(ctx.Pointer())
	a.HandleResult(ctx.Response())
}

// handlePaste types the pasted text into the selected entry.
func (a *App) handlePaste(text string) {
	if _, ok := a.selection.Current(); !ok {
		return
	}
	ctx := a.newEventCtx()
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		a.selection.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r}, ctx)
	}
	a.HandleResult(ctx.Response())
}

// SetSelect moves keyboard focus to selection entry idx, or clears it when
// idx is -1.
func (a *App) SetSelect(idx int) {
	before, _ := a.selection.Current()
	ctx := a.newEventCtx()
	a.selection.SetSelect(idx, ctx)
	a.noteSelection(before)
	a.HandleResult(ctx.Response())
}

// HandleResult applies a dispatch response: deselect, remeasure, redraw,
// then the deferred callbacks in order.
func (a *App) HandleResult(resp Response) {
	if resp.Status.Has(StatusDeselect) {
		a.SetSelect(-1)
		ctx := a.newEventCtx()
		a.root.Deselect(ctx)
		resp = resp.Merge(ctx.Response())
		a.debug(logging.CategorySelection, "deselect_all", "selection cleared and open widgets closed", nil)
	}
	if resp.Status.Has(StatusRemeasure) || a.root.NeedsRemeasure() {
		a.remeasure()
	}
	if resp.Status.Has(StatusRedraw) {
		a.needsDraw = true
	}
	if n := len(resp.Callbacks); n > 0 {
		recordCallbacks(n)
		a.debug(logging.CategoryDispatch, "callbacks", "running deferred callbacks", map[string]any{"count": n})
	}
	for _, cb := range resp.Callbacks {
		cb(a)
	}
}

// Render draws the tree if anything changed since the last frame.
func (a *App) Render() {
	if !a.needsDraw || a.canvas == nil {
		return
	}
	a.canvas.Clear()
	a.root.Draw(a.origin, NewDrawCtx(a.canvas, a.selection))
	if a.backend != nil {
		a.backend.Show()
	}
	a.needsDraw = false
	recordRender()
}

func (a *App) remeasure() {
	if a.canvas == nil {
		return
	}
	size := a.root.Remeasure(a.canvas)
	a.needsDraw = true
	recordRemeasure()
	a.debug(logging.CategoryLayout, "remeasure", "tree remeasured", map[string]any{
		"width":  size.Width,
		"height": size.Height,
	})
}

func (a *App) newEventCtx() *EventCtx {
	return NewEventCtx(a.canvas, a.selection, a.now())
}

func (a *App) setPointer(kind backend.PointerKind) {
	if kind == a.pointer {
		return
	}
	a.pointer = kind
	if setter, ok := a.backend.(backend.PointerSetter); ok {
		setter.SetPointer(kind)
	}
}

func (a *App) noteSelection(before int) {
	after, _ := a.selection.Current()
	if after == before {
		return
	}
	recordSelectionChange()
	a.debug(logging.CategorySelection, "select", "selection moved", map[string]any{
		"from": before,
		"to":   after,
	})
}

func (a *App) debug(category logging.Category, eventType, message string, details map[string]any) {
	if a.logger != nil {
		_ = a.logger.Debug(category, eventType, message, details)
	}
}
