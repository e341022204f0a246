package tcell

import (
	"github.com/gdamore/tcell/v2"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// convertEvent translates a tcell event, returning nil for events the
// form ignores.
func (b *Backend) convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return keyEvent(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := e.Position()
		button, action := b.classifyMouse(e.Buttons())
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: button,
			Action: action,
			Shift:  e.Modifiers()&tcell.ModShift != 0,
		}
	}
	return nil
}

func keyEvent(e *tcell.EventKey) terminal.Event {
	key := convertKey(e.Key())
	if key == terminal.KeyNone {
		return nil
	}
	mods := e.Modifiers()
	out := terminal.KeyEvent{
		Key:   key,
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0 || e.Key() == tcell.KeyBacktab,
	}
	if key == terminal.KeyRune {
		out.Rune = e.Rune()
	}
	return out
}

const pointerButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// classifyMouse derives press, release and motion from successive button
// masks. tcell reports the held set on every event, including motion.
func (b *Backend) classifyMouse(buttons tcell.ButtonMask) (terminal.MouseButton, terminal.MouseAction) {
	if buttons&(tcell.WheelUp|tcell.WheelDown) != 0 {
		return convertMouseButton(buttons), terminal.MousePress
	}
	held := buttons & pointerButtons
	prev := b.held
	b.held = held

	switch {
	case held&^prev != 0:
		return convertMouseButton(held &^ prev), terminal.MousePress
	case prev&^held != 0:
		return convertMouseButton(prev &^ held), terminal.MouseRelease
	default:
		return convertMouseButton(held), terminal.MouseMove
	}
}

var keys = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyTab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
}

// convertKey maps keys the form reacts to. Everything else is KeyNone and
// dropped before dispatch.
func convertKey(k tcell.Key) terminal.Key {
	return keys[k]
}

func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}
