package journal

import (
	"context"
	"maps"

	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/logging"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

// EventLogger receives journal events. *logging.Logger satisfies it.
type EventLogger interface {
	Info(category logging.Category, eventType string, message string, details map[string]any) error
	Error(category logging.Category, eventType string, message string, details map[string]any) error
}

// Recorder persists submitted forms: a database row always, and a
// markdown file when MarkdownDir is set.
type Recorder struct {
	Store       *Store
	MarkdownDir string
	Logger      EventLogger
}

// Record stores doc and returns the saved entry. A failed markdown write
// is reported after the entry has been saved.
func (r *Recorder) Record(ctx context.Context, doc runtime.Document) (*Entry, error) {
	entry := NewEntry(doc)
	if err := r.Store.Save(ctx, entry); err != nil {
		recordEntry("error")
		r.logError("save_failed", err, entry)
		return nil, err
	}
	recordEntry("saved")
	r.logInfo("saved", "journal entry saved", entry)

	if r.MarkdownDir == "" {
		return entry, nil
	}
	path, err := WriteMarkdownFile(r.MarkdownDir, entry.Document())
	if err != nil {
		recordMarkdown("error")
		r.logError("markdown_failed", err, entry)
		return entry, err
	}
	if err := r.Store.SetMarkdownPath(ctx, entry.ID, path); err != nil {
		r.logError("markdown_path_failed", err, entry)
		return entry, err
	}
	entry.MarkdownPath = path
	recordMarkdown("written")
	r.logInfo("markdown_written", path, entry)
	return entry, nil
}

func (r *Recorder) logInfo(eventType, message string, e *Entry) {
	if r.Logger == nil {
		return
	}
	_ = r.Logger.Info(logging.CategoryJournal, eventType, message, entryDetails(e))
}

func (r *Recorder) logError(eventType string, err error, e *Entry) {
	if r.Logger == nil {
		return
	}
	details := entryDetails(e)
	if coded, ok := errors.As(err); ok {
		maps.Copy(details, coded.LogDetails())
	}
	_ = r.Logger.Error(logging.CategoryJournal, eventType, err.Error(), details)
}

func entryDetails(e *Entry) map[string]any {
	return map[string]any{
		logging.EntryIDKey: e.ID,
		"symbol":           e.Symbol,
		"portfolio":        e.Portfolio,
	}
}
