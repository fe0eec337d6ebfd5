package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestRunMigrationsCreatesSlots(t *testing.T) {
	db := openTestDB(t)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if !tableExists(t, db, "slots") {
		t.Fatal("expected slots table")
	}
	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", got)
	}

	if err := RunMigrations(db); err != nil {
		t.Fatalf("re-run migrations: %v", err)
	}
	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("expected replay to be a no-op, got %d rows", got)
	}
}

func TestApplyRunsInVersionOrder(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"002_add_column.sql": &fstest.MapFile{Data: []byte("ALTER TABLE items ADD COLUMN label TEXT;")},
		"001_create.sql":     &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"notes.txt":          &fstest.MapFile{Data: []byte("ignored")},
	}

	if err := Apply(db, fsys); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO items (id, label) VALUES ('a', 'b')`); err != nil {
		t.Fatalf("expected migrated schema: %v", err)
	}
}

func TestApplyDoesNotRecordFailedMigration(t *testing.T) {
	db := openTestDB(t)
	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("CREAT TABLE broken(id INT);")},
	}

	if err := Apply(db, bad); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countRows(t, db, "schema_migrations"); got != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d", got)
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;")
	if got != "\nSELECT 1;\n" {
		t.Fatalf("unexpected up section %q", got)
	}
	if got := upSection("SELECT 3;"); got != "SELECT 3;" {
		t.Fatalf("expected whole file without markers, got %q", got)
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("lookup table %s: %v", name, err)
	}
	return true
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
