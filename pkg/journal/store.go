package journal

import (
	"context"
	"database/sql"
	_ "embed"
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

//go:embed schema.sql
var schemaSQL string

// Store keeps journal entries in SQLite.
type Store struct {
	db *sql.DB
}

// ErrStoreClosed indicates the underlying database connection is unavailable.
var ErrStoreClosed = stderrors.New("journal: closed")

const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
	timeLayout  = time.RFC3339Nano
)

// Open creates or opens the journal database at dbPath.
func Open(dbPath string) (*Store, error) {
	filePath, onDisk := sqliteFilePathFromDSN(dbPath)
	if onDisk {
		if dir := filepath.Dir(filePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeStorageWrite, "create database directory").
					WithContext("path", dir)
			}
		}
		if err := ensurePrivateSQLiteFile(filePath); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorageWrite, "create database file")
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "open database")
	}

	// One writer; the UI submits at human speed.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrap(err, errors.ErrCodeStorageWrite, "configure database").
				WithContext("pragma", pragma)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageWrite, "run migrations")
	}
	return &Store{db: db}, nil
}

func sqliteFilePathFromDSN(dsn string) (string, bool) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || dsn == ":memory:" {
		return "", false
	}
	if strings.HasPrefix(dsn, "file:") {
		u, err := url.Parse(dsn)
		if err != nil || !strings.EqualFold(u.Scheme, "file") {
			return "", false
		}
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" || path == ":memory:" || u.Query().Get("mode") == "memory" {
			return "", false
		}
		return path, true
	}
	if strings.Contains(dsn, "://") {
		return "", false
	}
	return dsn, true
}

func ensurePrivateSQLiteFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat db path: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create db file: %w", err)
	}
	return f.Close()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts e and its fields.
func (s *Store) Save(ctx context.Context, e *Entry) error {
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	err := withBusyRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, symbol, strategy, portfolio, entry_date, created_at, markdown_path)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Symbol, e.Strategy, e.Portfolio,
			e.Date.Format(timeLayout), e.CreatedAt.Format(timeLayout), e.MarkdownPath,
		); err != nil {
			return err
		}
		for i, f := range e.Fields {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO entry_fields (entry_id, position, label, value) VALUES (?, ?, ?, ?)`,
				e.ID, i, f.Label, f.Value,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageWrite, "save entry").WithContext("id", e.ID)
	}
	return nil
}

// SetMarkdownPath records where the entry's markdown file was written.
func (s *Store) SetMarkdownPath(ctx context.Context, id, path string) error {
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}
	var res sql.Result
	err := withBusyRetry(ctx, func() error {
		var err error
		res, err = s.db.ExecContext(ctx, `UPDATE entries SET markdown_path = ? WHERE id = ?`, path, id)
		return err
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageWrite, "update entry").WithContext("id", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeNotFound, "entry %s not found", id)
	}
	return nil
}

const entryColumns = `id, symbol, strategy, portfolio, entry_date, created_at, markdown_path`

// Get loads one entry with its fields.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreClosed
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrCodeNotFound, "entry %s not found", id).
			WithRemediation("run `tradelog list` to see entry IDs")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "load entry").WithContext("id", id)
	}
	if err := s.loadFields(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListOptions filters List. Zero values match everything.
type ListOptions struct {
	Symbol    string
	Portfolio string
	// Limit caps the result count when positive.
	Limit int
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreClosed
	}
	query := `SELECT ` + entryColumns + ` FROM entries`
	var where []string
	var args []any
	if opts.Symbol != "" {
		where = append(where, "symbol = ?")
		args = append(args, opts.Symbol)
	}
	if opts.Portfolio != "" {
		where = append(where, "portfolio = ?")
		args = append(args, opts.Portfolio)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list entries")
	}
	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "scan entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list entries")
	}
	rows.Close()

	for _, e := range entries {
		if err := s.loadFields(ctx, e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var date, created string
	var mdPath sql.NullString
	if err := row.Scan(&e.ID, &e.Symbol, &e.Strategy, &e.Portfolio, &date, &created, &mdPath); err != nil {
		return nil, err
	}
	var err error
	if e.Date, err = time.Parse(timeLayout, date); err != nil {
		return nil, fmt.Errorf("entry_date: %w", err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	e.MarkdownPath = mdPath.String
	return &e, nil
}

func (s *Store) loadFields(ctx context.Context, e *Entry) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, value FROM entry_fields WHERE entry_id = ? ORDER BY position`, e.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageRead, "load fields").WithContext("id", e.ID)
	}
	defer rows.Close()

	e.Fields = e.Fields[:0]
	for rows.Next() {
		var label, value string
		if err := rows.Scan(&label, &value); err != nil {
			return errors.Wrap(err, errors.ErrCodeStorageRead, "scan field").WithContext("id", e.ID)
		}
		e.Fields = append(e.Fields, runtime.Field{Label: label, Value: value})
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageRead, "load fields").WithContext("id", e.ID)
	}
	return nil
}

func withBusyRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := range busyRetries {
		if err = fn(); !isBusyError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(busyBackoff * time.Duration(attempt+1)):
		}
	}
	return err
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if stderrors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}
