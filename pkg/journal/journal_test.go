package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sambeau/cplx/pkg/logging"
)

func openTestJournal(t *testing.T, maxEntries int) *Journal {
	t.Helper()
	cfg := Config{
		Driver:     "sqlite",
		DSN:        filepath.Join(t.TempDir(), "nested", "journal.db"),
		MaxEntries: maxEntries,
	}
	j, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown driver", Config{Driver: "oracle", DSN: "x"}, "unsupported journal driver"},
		{"missing dsn", Config{Driver: "sqlite"}, "dsn is required"},
		{"negative max", Config{DSN: "x.db", MaxEntries: -1}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(ctx, tt.cfg, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Open() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLookupDialect(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"", "sqlite"},
		{"sqlite3", "sqlite"},
		{"SQLite", "sqlite"},
		{"postgresql", "postgres"},
		{"pg", "postgres"},
		{"mariadb", "mysql"},
		{"mysql", "mysql"},
	}

	for _, tt := range tests {
		d, err := lookupDialect(tt.driver)
		if err != nil {
			t.Fatalf("lookupDialect(%q) error = %v", tt.driver, err)
		}
		if d.name != tt.want {
			t.Errorf("lookupDialect(%q) = %q, want %q", tt.driver, d.name, tt.want)
		}
	}
}

func TestRebind(t *testing.T) {
	pg, _ := lookupDialect("postgres")
	if got, want := pg.rebind("INSERT INTO t VALUES (?, ?, ?)"), "INSERT INTO t VALUES ($1, $2, $3)"; got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}

	my, _ := lookupDialect("mysql")
	if got := my.rebind("SELECT ? "); got != "SELECT ? " {
		t.Errorf("mysql rebind = %q, want unchanged", got)
	}
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, 0)

	if j.Driver() != "sqlite" {
		t.Errorf("Driver() = %q, want sqlite", j.Driver())
	}

	at := time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)
	entries := []Entry{
		{Time: at, Input: "sum 5 2 5 2", Output: "10.0+4.0i"},
		{Input: "divide 1 1 0 0", Output: "divide: division by zero", Failed: true},
		{Input: "sqrt -4 0", Output: "2.0i"},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(got))
	}

	// Newest first
	if got[0].Input != "sqrt -4 0" || got[2].Input != "sum 5 2 5 2" {
		t.Errorf("Recent() order = %q, %q, %q", got[0].Input, got[1].Input, got[2].Input)
	}
	if !got[1].Failed || got[0].Failed {
		t.Error("Failed flag did not round trip")
	}
	if got[1].Output != "divide: division by zero" {
		t.Errorf("Output = %q", got[1].Output)
	}
	if !got[2].Time.Equal(at.Truncate(time.Microsecond)) {
		t.Errorf("Time = %v, want %v", got[2].Time, at)
	}
	if got[0].Time.IsZero() {
		t.Error("zero Time should be stamped on Record")
	}
	if got[0].ID <= got[1].ID {
		t.Errorf("IDs should increase: %d, %d", got[1].ID, got[0].ID)
	}

	limited, _ := j.Recent(ctx, 2)
	if len(limited) != 2 {
		t.Errorf("Recent(2) returned %d entries", len(limited))
	}
}

func TestCountAndClear(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, 0)

	for i := range 5 {
		if err := j.Record(ctx, Entry{Input: fmt.Sprintf("real %d", i), Output: fmt.Sprintf("%d.0", i)}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := j.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Count() = %d, want 5", n)
	}

	if err := j.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n, _ := j.Count(ctx); n != 0 {
		t.Errorf("Count() after Clear = %d, want 0", n)
	}
}

func TestMaxEntries(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, 3)

	for i := range 7 {
		if err := j.Record(ctx, Entry{Input: fmt.Sprintf("real %d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	n, _ := j.Count(ctx)
	if n != 3 {
		t.Fatalf("Count() = %d, want 3", n)
	}

	got, _ := j.Recent(ctx, 0)
	want := []string{"real 6", "real 5", "real 4"}
	for i := range want {
		if got[i].Input != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i].Input, want[i])
		}
	}
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, Config{DSN: path}, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(ctx, Entry{Input: "exp 0 0", Output: "1.0"}); err != nil {
		t.Fatal(err)
	}
	j.Close()

	j, err = Open(ctx, Config{DSN: path}, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer j.Close()

	if n, _ := j.Count(ctx); n != 1 {
		t.Errorf("Count() after reopen = %d, want 1", n)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, ts := range []string{
		"2026-01-02 03:04:05.000000",
		"2026-01-02 03:04:05",
		"2026-01-02T03:04:05Z",
		"2026-01-02T03:04:05",
	} {
		if got := parseTimestamp(ts); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", ts, got, want)
		}
	}
	if !parseTimestamp("yesterday").IsZero() {
		t.Error("unparseable timestamp should give the zero time")
	}
}
