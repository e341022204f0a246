package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewLogger tests logger construction with temp directories
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		baseDir   string
		sessionID string
	}{
		{
			name:      "valid directory and session ID",
			baseDir:   t.TempDir(),
			sessionID: "test-session-123",
		},
		{
			name:      "creates directories if not exist",
			baseDir:   filepath.Join(t.TempDir(), "nested", "path"),
			sessionID: "session-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.baseDir, tt.sessionID)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			defer logger.Close()

			if logger.SessionID() != tt.sessionID {
				t.Errorf("sessionID = %v, want %v", logger.SessionID(), tt.sessionID)
			}
			if logger.minLevel != LevelInfo {
				t.Errorf("minLevel = %v, want %v", logger.minLevel, LevelInfo)
			}
			if _, err := os.Stat(logger.SessionPath()); err != nil {
				t.Errorf("session log file not created: %v", err)
			}
			if _, err := os.Stat(filepath.Join(tt.baseDir, "errors.jsonl")); err != nil {
				t.Errorf("errors.jsonl not created: %v", err)
			}
		})
	}
}

func TestNewLogger_GeneratesSessionID(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if len(logger.SessionID()) != 26 {
		t.Errorf("session ID %q is not a ULID", logger.SessionID())
	}
}

// TestNewLoggerInvalidDirectory tests error handling for invalid directories
func TestNewLoggerInvalidDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file-not-dir")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := NewLogger(filePath, "test-session"); err == nil {
		t.Fatal("expected error when baseDir is a file, got nil")
	}
}

func TestLogEvent(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	before := time.Now()
	details := map[string]any{"index": 2, EntryIDKey: "entry-1"}
	if err := logger.Info(CategorySelection, "select", "selection moved", details); err != nil {
		t.Fatalf("Info() failed: %v", err)
	}

	events, err := ReadRecentEvents(logger.SessionPath(), 1)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	logged := events[0]
	if logged.Category != CategorySelection || logged.EventType != "select" {
		t.Errorf("logged %s/%s, want selection/select", logged.Category, logged.EventType)
	}
	if logged.SessionID != "test-session" {
		t.Errorf("SessionID = %v, want test-session", logged.SessionID)
	}
	if logged.EntryID != "entry-1" {
		t.Errorf("EntryID = %v, want entry-1", logged.EntryID)
	}
	if logged.Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("Timestamp %v not set", logged.Timestamp)
	}
	if logged.Details["index"] != float64(2) {
		t.Errorf("Details = %v", logged.Details)
	}
	if _, ok := logged.Details[EntryIDKey]; ok {
		t.Errorf("entry_id should be lifted out of details: %v", logged.Details)
	}
	if _, ok := details[EntryIDKey]; !ok {
		t.Error("caller's details map was modified")
	}
}

func TestLogErrorEventGoesToErrorLog(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if err := logger.Error(CategoryJournal, "write_failed", "disk full", nil); err != nil {
		t.Fatalf("Error() failed: %v", err)
	}
	if err := logger.Info(CategoryJournal, "saved", "entry saved", nil); err != nil {
		t.Fatalf("Info() failed: %v", err)
	}

	errorEvents, err := ReadRecentEvents(filepath.Join(baseDir, "errors.jsonl"), 10)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(errorEvents) != 1 || errorEvents[0].Message != "disk full" {
		t.Errorf("error log = %+v, want the single error event", errorEvents)
	}
}

func TestMinLevelFilters(t *testing.T) {
	tests := []struct {
		min  Level
		want int
	}{
		{LevelDebug, 4},
		{LevelInfo, 3},
		{LevelWarn, 2},
		{LevelError, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.min), func(t *testing.T) {
			logger, err := NewLogger(t.TempDir(), "levels")
			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}
			defer logger.Close()
			logger.SetMinLevel(tt.min)

			logger.Debug(CategoryDispatch, "d", "", nil)
			logger.Info(CategoryDispatch, "i", "", nil)
			logger.Warn(CategoryDispatch, "w", "", nil)
			logger.Error(CategoryDispatch, "e", "", nil)

			events, err := ReadRecentEvents(logger.SessionPath(), 10)
			if err != nil {
				t.Fatalf("ReadRecentEvents failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestReadRecentEventsKeepsTail(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "tail")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	for _, typ := range []string{"a", "b", "c", "d"} {
		logger.Info(CategoryLayout, typ, "", nil)
	}

	events, err := ReadRecentEvents(logger.SessionPath(), 2)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].EventType != "c" || events[1].EventType != "d" {
		t.Errorf("tail = %+v, want c, d", events)
	}
}

func TestReadRecentEventsMissingFile(t *testing.T) {
	if _, err := ReadRecentEvents(filepath.Join(t.TempDir(), "nope.jsonl"), 5); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLatestSession(t *testing.T) {
	baseDir := t.TempDir()
	if _, err := LatestSession(baseDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LatestSession on empty dir = %v, want ErrNotExist", err)
	}

	for _, id := range []string{"01HZZ0000000000000000000AA", "01HZZ0000000000000000000BB"} {
		logger, err := NewLogger(baseDir, id)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.Close()
	}

	path, err := LatestSession(baseDir)
	if err != nil {
		t.Fatalf("LatestSession failed: %v", err)
	}
	if filepath.Base(path) != "01HZZ0000000000000000000BB.jsonl" {
		t.Errorf("LatestSession = %s, want the BB session", path)
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel(" DEBUG "); !ok || l != LevelDebug {
		t.Errorf("ParseLevel(DEBUG) = %v, %v", l, ok)
	}
	if _, ok := ParseLevel("verbose"); ok {
		t.Error("ParseLevel(verbose) should fail")
	}
}

func TestCloseTwice(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "close")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
