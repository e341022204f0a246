// Package logging writes JSONL event logs for form sessions. Each run of
// the form gets its own file under sessions/, and error events are also
// appended to a shared errors.jsonl.
package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a level name to a Level.
func ParseLevel(name string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(name)))
	_, ok := levelRank[l]
	return l, ok
}

// Category is the part of the program that produced an event.
type Category string

const (
	CategoryDispatch  Category = "dispatch"
	CategoryLayout    Category = "layout"
	CategorySelection Category = "selection"
	CategoryJournal   Category = "journal"
	CategoryConfig    Category = "config"
	CategoryForm      Category = "form"
	CategorySession   Category = "session"
)

// EntryIDKey in an event's details is lifted into Event.EntryID so log
// lines can be joined against the journal.
const EntryIDKey = "entry_id"

// Event is one line of a session log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Category  Category       `json:"category"`
	EventType string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	EntryID   string         `json:"entry_id,omitempty"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Logger appends events for one form session.
type Logger struct {
	sessionID string
	baseDir   string

	mu          sync.Mutex
	sessionFile *os.File
	errorFile   *os.File
	minLevel    Level
}

// NewLogger opens the session log under baseDir. An empty sessionID gets a
// fresh ULID, so session files sort by start time.
func NewLogger(baseDir, sessionID string) (*Logger, error) {
	sessionsDir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}
	if sessionID == "" {
		sessionID = ulid.Make().String()
	}

	sessionFile, err := openAppend(filepath.Join(sessionsDir, sessionID+".jsonl"))
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}
	errorFile, err := openAppend(filepath.Join(baseDir, "errors.jsonl"))
	if err != nil {
		sessionFile.Close()
		return nil, fmt.Errorf("open error log: %w", err)
	}

	return &Logger{
		sessionID:   sessionID,
		baseDir:     baseDir,
		sessionFile: sessionFile,
		errorFile:   errorFile,
		minLevel:    LevelInfo,
	}, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func (l *Logger) SessionID() string {
	return l.sessionID
}

// SessionPath returns the path of this session's log file.
func (l *Logger) SessionPath() string {
	return filepath.Join(l.baseDir, "sessions", l.sessionID+".jsonl")
}

func (l *Logger) SetMinLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// Log writes event to the session log, and to errors.jsonl when it is an
// error. Events below the minimum level are dropped.
func (l *Logger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelRank[event.Level] < levelRank[l.minLevel] {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}
	if id, ok := event.Details[EntryIDKey].(string); ok && event.EntryID == "" {
		event.EntryID = id
		details := make(map[string]any, len(event.Details)-1)
		for k, v := range event.Details {
			if k != EntryIDKey {
				details[k] = v
			}
		}
		event.Details = details
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	data = append(data, '\n')

	if l.sessionFile != nil {
		if _, err := l.sessionFile.Write(data); err != nil {
			return fmt.Errorf("write session log: %w", err)
		}
	}
	if event.Level == LevelError && l.errorFile != nil {
		if _, err := l.errorFile.Write(data); err != nil {
			return fmt.Errorf("write error log: %w", err)
		}
	}
	return nil
}

func (l *Logger) emit(level Level, category Category, eventType, message string, details map[string]any) error {
	return l.Log(Event{
		Level:     level,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

func (l *Logger) Debug(category Category, eventType, message string, details map[string]any) error {
	return l.emit(LevelDebug, category, eventType, message, details)
}

func (l *Logger) Info(category Category, eventType, message string, details map[string]any) error {
	return l.emit(LevelInfo, category, eventType, message, details)
}

func (l *Logger) Warn(category Category, eventType, message string, details map[string]any) error {
	return l.emit(LevelWarn, category, eventType, message, details)
}

func (l *Logger) Error(category Category, eventType, message string, details map[string]any) error {
	return l.emit(LevelError, category, eventType, message, details)
}

// Close closes both log files. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, f := range []**os.File{&l.sessionFile, &l.errorFile} {
		if *f == nil {
			continue
		}
		if err := (*f).Close(); err != nil {
			errs = append(errs, err)
		}
		*f = nil
	}
	return errors.Join(errs...)
}

// LatestSession returns the path of the most recent session log under
// baseDir, or os.ErrNotExist when there is none.
func LatestSession(baseDir string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(baseDir, "sessions"))
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", os.ErrNotExist
	}
	sort.Strings(names)
	return filepath.Join(baseDir, "sessions", names[len(names)-1]), nil
}

// ReadRecentEvents returns the last count events of a log file, or all of
// them when count is zero. Lines that do not decode are skipped.
func ReadRecentEvents(logPath string, count int) ([]Event, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		events = append(events, event)
		if count > 0 && len(events) > count {
			events = events[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", logPath, err)
	}
	return events, nil
}
