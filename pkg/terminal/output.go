// Package terminal provides styled command-line output for the tradelog
// subcommands: status lines, markdown pages and entry tables.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// Writer provides styled terminal output with markdown rendering. Output
// that is not a terminal gets no color and plain markdown.
type Writer struct {
	out      io.Writer
	renderer *glamour.TermRenderer
	width    int
	tty      bool
	mu       sync.Mutex

	errorStyle    lipgloss.Style
	warnStyle     lipgloss.Style
	successStyle  lipgloss.Style
	infoStyle     lipgloss.Style
	dimStyle      lipgloss.Style
	headerStyle   lipgloss.Style
	boxStyle      lipgloss.Style
	cellStyle     lipgloss.Style
	headCellStyle lipgloss.Style
}

// New creates a Writer on stdout.
func New() *Writer {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput creates a Writer with a custom output destination.
func NewWithOutput(out io.Writer) *Writer {
	tty, width := detectTerminal(out)

	profile := termenv.Ascii
	if tty {
		profile = termenv.EnvColorProfile()
	}
	lg := lipgloss.NewRenderer(out, termenv.WithProfile(profile))

	style := glamour.WithAutoStyle()
	if !tty {
		style = glamour.WithStandardStyle("notty")
	}
	renderer, _ := glamour.NewTermRenderer(style, glamour.WithWordWrap(min(width, 100)))

	border := lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"}
	return &Writer{
		out:      out,
		renderer: renderer,
		width:    width,
		tty:      tty,

		errorStyle: lg.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true),
		warnStyle: lg.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"}),
		successStyle: lg.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),
		infoStyle: lg.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}),
		dimStyle: lg.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		headerStyle: lg.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border),
		boxStyle: lg.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		cellStyle:     lg.NewStyle().Padding(0, 1),
		headCellStyle: lg.NewStyle().Padding(0, 1).Bold(true),
	}
}

// detectTerminal reports whether out is a terminal and its width.
func detectTerminal(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return true, defaultWidth
	}
	return true, width
}

// IsTerminal reports whether the Writer is attached to a terminal.
func (w *Writer) IsTerminal() bool { return w.tty }

// Print writes text to the terminal.
func (w *Writer) Print(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

// Println writes text with a newline.
func (w *Writer) Println(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Write passes raw bytes through, for HTML and other generated output.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}

// Markdown renders a markdown page.
func (w *Writer) Markdown(md string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.renderer == nil {
		fmt.Fprintln(w.out, md)
		return nil
	}
	rendered, err := w.renderer.Render(md)
	if err != nil {
		fmt.Fprintln(w.out, md)
		return err
	}
	fmt.Fprint(w.out, rendered)
	return nil
}

func (w *Writer) styled(style lipgloss.Style, prefix, format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, style.Render(prefix+fmt.Sprintf(format, args...)))
}

// Error prints an error message in red.
func (w *Writer) Error(format string, args ...any) {
	w.styled(w.errorStyle, "error: ", format, args...)
}

// Warn prints a warning message in yellow.
func (w *Writer) Warn(format string, args ...any) {
	w.styled(w.warnStyle, "warning: ", format, args...)
}

// Success prints a success message in green.
func (w *Writer) Success(format string, args ...any) {
	w.styled(w.successStyle, "✓ ", format, args...)
}

// Info prints an info message in blue.
func (w *Writer) Info(format string, args ...any) {
	w.styled(w.infoStyle, "", format, args...)
}

// Dim prints dimmed/secondary text.
func (w *Writer) Dim(format string, args ...any) {
	w.styled(w.dimStyle, "", format, args...)
}

// Header prints a section header.
func (w *Writer) Header(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.headerStyle.Render(title))
}

// Box renders content in a rounded box no wider than the terminal.
func (w *Writer) Box(title, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	body := content
	if title != "" {
		body = title + "\n\n" + content
	}
	fmt.Fprintln(w.out, w.boxStyle.Width(min(w.width-4, 76)).Render(body))
}

// Table prints rows under a bold header row.
func (w *Writer) Table(headers []string, rows [][]string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return w.headCellStyle
			}
			return w.cellStyle
		})
	fmt.Fprintln(w.out, t.String())
}

// List prints a bulleted list.
func (w *Writer) List(items []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, item := range items {
		fmt.Fprintln(w.out, "  • "+item)
	}
}

// Divider prints a horizontal divider.
func (w *Writer) Divider() {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.dimStyle.Render(strings.Repeat("─", min(w.width, 60))))
}
