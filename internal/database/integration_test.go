package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "academy.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	fsys, err := db.Migrations("")
	if err != nil {
		t.Fatalf("Failed to load migrations: %v", err)
	}
	if _, err := db.RunMigrations(ctx, fsys, zap.NewNop()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestMigrationsCreateTables(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"profiles", "lessons", "blocked_words", "migrations"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	fsys, err := db.Migrations("")
	if err != nil {
		t.Fatal(err)
	}
	applied, err := db.RunMigrations(ctx, fsys, zap.NewNop())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second run applied %d migrations, want 0", applied)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO blocked_words (word) VALUES (?)", "kept"); err != nil {
			return err
		}
		return context.Canceled
	})
	if err == nil {
		t.Fatal("expected error from transaction body")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blocked_words").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected rollback, found %d rows", count)
	}
}

func TestExecReturningID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.ExecReturningID(ctx,
		"INSERT INTO profiles (name, pin_hash, friend_code) VALUES (?, ?, ?)", "Nova", "hash", "NO-1234")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("id = %d, want positive", id)
	}

	_, err = db.ExecReturningID(ctx,
		"INSERT INTO profiles (name, pin_hash, friend_code) VALUES (?, ?, ?)", "nova", "hash", "NO-9999")
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("case-insensitive duplicate name: err = %v, want unique violation", err)
	}
}

func TestNameFilter(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Badword\nbadword\n\nrude\n"))
	}))
	defer srv.Close()

	added, err := db.SeedBlockedWords(ctx, srv.Client(), srv.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	again, err := db.SeedBlockedWords(ctx, srv.Client(), srv.URL, zap.NewNop())
	if err != nil || again != 0 {
		t.Errorf("reseed added %d (err %v), want 0", again, err)
	}

	tests := []struct {
		name    string
		blocked bool
	}{
		{"Rude", true},
		{"Captain Rude", true},
		{"rude_bot", true},
		{"Prudent", false},
		{"Nova", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := db.IsBlockedName(ctx, tt.name)
		if err != nil {
			t.Fatalf("IsBlockedName(%q): %v", tt.name, err)
		}
		if got != tt.blocked {
			t.Errorf("IsBlockedName(%q) = %v, want %v", tt.name, got, tt.blocked)
		}
	}
}

func TestSeedBlockedWordsBadStatus(t *testing.T) {
	db := openTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := db.SeedBlockedWords(context.Background(), srv.Client(), srv.URL, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v, want status error", err)
	}
}
