package journal

import (
	"context"
	"os"
	"path/filepath"
	goruntime "runtime"
	"testing"
	"time"

	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

var est = time.FixedZone("EST", -5*3600)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func tradeDoc(symbol, portfolio string, date time.Time) runtime.Document {
	return runtime.Document{
		Symbol:    symbol,
		Strategy:  "Trend",
		Portfolio: portfolio,
		Date:      date,
		Fields: []runtime.Field{
			{Label: "Symbol", Value: symbol},
			{Label: "Strategy", Value: "Trend"},
			{Label: "Pattern", Value: ""},
		},
	}
}

func TestOpen_CreatesPrivateSQLiteFile(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("file mode bits are not stable on Windows")
	}

	dbPath := filepath.Join(t.TempDir(), "nested", "journal.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_ = store.Close()

	info, err := os.Stat(dbPath)
	if err != nil {
		t.Fatalf("stat db: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("db perms = %o, want 600", got)
	}
}

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	for range 2 {
		store, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		version, err := store.SchemaVersion()
		if err != nil {
			t.Fatalf("SchemaVersion() error = %v", err)
		}
		if version != len(migrations) {
			t.Fatalf("schema version = %d, want %d", version, len(migrations))
		}
		store.Close()
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	date := time.Date(2019, 11, 26, 1, 0, 0, 0, est)

	entry := NewEntry(tradeDoc("AMD", "A", date))
	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title() != "AMD - Trend" || got.Portfolio != "A" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date = %v, want %v", got.Date, date)
	}
	if len(got.Fields) != 3 || got.Fields[2].Label != "Pattern" {
		t.Fatalf("fields = %+v", got.Fields)
	}
	if v, ok := got.Field("Symbol"); !ok || v != "AMD" {
		t.Fatalf("Field(Symbol) = %q, %v", v, ok)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStore_SaveDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entry := NewEntry(tradeDoc("AMD", "A", time.Now()))
	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, entry); !errors.IsCode(err, errors.ErrCodeStorageWrite) {
		t.Fatalf("expected STORAGE_WRITE on duplicate, got %v", err)
	}
}

func TestStore_ListNewestFirstWithFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	for i, doc := range []runtime.Document{
		tradeDoc("AAPL", "A", base),
		tradeDoc("TSLA", "B", base.Add(time.Hour)),
		tradeDoc("AAPL", "B", base.Add(2*time.Hour)),
	} {
		if err := store.Save(ctx, NewEntry(doc)); err != nil {
			t.Fatalf("Save(%d) error = %v", i, err)
		}
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all", ListOptions{}, []string{"AAPL/B", "TSLA/B", "AAPL/A"}},
		{"symbol", ListOptions{Symbol: "AAPL"}, []string{"AAPL/B", "AAPL/A"}},
		{"portfolio", ListOptions{Portfolio: "B"}, []string{"AAPL/B", "TSLA/B"}},
		{"both", ListOptions{Symbol: "AAPL", Portfolio: "A"}, []string{"AAPL/A"}},
		{"limit", ListOptions{Limit: 1}, []string{"AAPL/B"}},
		{"none", ListOptions{Symbol: "MSFT"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.List(ctx, tt.opts)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Symbol+"/"+e.Portfolio)
				if len(e.Fields) != 3 {
					t.Fatalf("entry %s has %d fields", e.ID, len(e.Fields))
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("List() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestStore_SetMarkdownPath(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entry := NewEntry(tradeDoc("AMD", "A", time.Now()))
	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.SetMarkdownPath(ctx, entry.ID, "/notes/A/AMD.md"); err != nil {
		t.Fatalf("SetMarkdownPath() error = %v", err)
	}
	got, err := store.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.MarkdownPath != "/notes/A/AMD.md" {
		t.Fatalf("markdown path = %q", got.MarkdownPath)
	}
	if err := store.SetMarkdownPath(ctx, "missing", "x"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStore_Closed(t *testing.T) {
	var store *Store
	if err := store.Save(context.Background(), &Entry{}); err != ErrStoreClosed {
		t.Fatalf("Save on nil store = %v", err)
	}
	if _, err := store.List(context.Background(), ListOptions{}); err != ErrStoreClosed {
		t.Fatalf("List on nil store = %v", err)
	}
}

func TestSQLiteFilePathFromDSN(t *testing.T) {
	tests := []struct {
		dsn    string
		want   string
		onDisk bool
	}{
		{"", "", false},
		{":memory:", "", false},
		{"/tmp/j.db", "/tmp/j.db", true},
		{"file:/tmp/j.db?_pragma=busy_timeout(5000)", "/tmp/j.db", true},
		{"file::memory:?cache=shared", "", false},
		{"file:j?mode=memory", "", false},
		{"libsql://host/db", "", false},
	}
	for _, tt := range tests {
		got, onDisk := sqliteFilePathFromDSN(tt.dsn)
		if got != tt.want || onDisk != tt.onDisk {
			t.Errorf("sqliteFilePathFromDSN(%q) = (%q, %v), want (%q, %v)", tt.dsn, got, onDisk, tt.want, tt.onDisk)
		}
	}
}

func TestIsBusyError(t *testing.T) {
	if isBusyError(nil) {
		t.Fatal("nil is not busy")
	}
	if isBusyError(os.ErrNotExist) {
		t.Fatal("foreign errors are not busy")
	}
}
