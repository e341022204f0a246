// Package journal stores submitted trade forms and renders them as
// markdown, HTML and spreadsheets.
package journal

import (
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

// Entry is one submitted form.
type Entry struct {
	ID        string
	Symbol    string
	Strategy  string
	Portfolio string
	Date      time.Time
	Fields    []runtime.Field
	// MarkdownPath is set once the entry has been written to disk.
	MarkdownPath string
	CreatedAt    time.Time
}

// NewEntry converts a serialized form. IDs sort by entry date.
func NewEntry(doc runtime.Document) *Entry {
	date := doc.Date
	if date.IsZero() {
		date = time.Now()
	}
	return &Entry{
		ID:        ulid.MustNew(ulid.Timestamp(date), ulid.DefaultEntropy()).String(),
		Symbol:    doc.Symbol,
		Strategy:  doc.Strategy,
		Portfolio: doc.Portfolio,
		Date:      date,
		Fields:    slices.Clone(doc.Fields),
	}
}

// Document converts the entry back into its serialized form.
func (e *Entry) Document() runtime.Document {
	return runtime.Document{
		Symbol:    e.Symbol,
		Strategy:  e.Strategy,
		Portfolio: e.Portfolio,
		Date:      e.Date,
		Fields:    slices.Clone(e.Fields),
	}
}

// Title is "<symbol> - <strategy>".
func (e *Entry) Title() string {
	doc := e.Document()
	return doc.Title()
}

// Field returns the value of the field with label.
func (e *Entry) Field(label string) (string, bool) {
	for _, f := range e.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}
