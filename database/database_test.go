package database

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestSplitStatements(t *testing.T) {
	sql := `-- yorum; noktalı virgül
CREATE TABLE a (x TEXT DEFAULT 'a;b');
INSERT INTO a VALUES ('it''s; fine');

`
	got := splitStatements(sql)
	if len(got) != 2 {
		t.Fatalf("got %d statements: %q", len(got), got)
	}
	if got[0] != "CREATE TABLE a (x TEXT DEFAULT 'a;b')" {
		t.Errorf("stmt 0 = %q", got[0])
	}
	if got[1] != "INSERT INTO a VALUES ('it''s; fine')" {
		t.Errorf("stmt 1 = %q", got[1])
	}
}

func TestMigrationsAppliedOnce(t *testing.T) {
	migrations, err := fs.Sub(EmbeddedMigrations, "migrations")
	if err != nil {
		t.Fatal(err)
	}

	db, err := New(MemoryPath, migrations)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	// Aynı bağlantıda tekrar çalıştırmak hiçbir şeyi yeniden uygulamamalı.
	extra := fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE should_not_run (x INTEGER);")},
		"002_extra.sql": {Data: []byte("CREATE TABLE extra (x INTEGER);")},
	}
	if err := db.migrate(extra); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var n int
	db.Conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='should_not_run'`).Scan(&n)
	if n != 0 {
		t.Error("already applied migration ran again")
	}
	db.Conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='extra'`).Scan(&n)
	if n != 1 {
		t.Error("new migration was not applied")
	}

	for _, table := range []string{"admins", "sessions", "events", "blog_posts", "newsletter_subscribers"} {
		db.Conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func newTxTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(MemoryPath, fstest.MapFS{
		"001_items.sql": {Data: []byte("CREATE TABLE items (name TEXT NOT NULL);")},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countItems(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	if err := db.Conn.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func insertItem(q TxQuerier) error {
	_, err := q.ExecContext(context.Background(), "INSERT INTO items (name) VALUES ('x')")
	return err
}

func TestWithTx(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("commits on success", func(t *testing.T) {
		db := newTxTestDB(t)
		if err := WithTx(context.Background(), db.Conn, insertItem); err != nil {
			t.Fatalf("WithTx: %v", err)
		}
		if n := countItems(t, db); n != 1 {
			t.Errorf("items = %d, want 1", n)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := newTxTestDB(t)
		err := WithTx(context.Background(), db.Conn, func(q TxQuerier) error {
			if err := insertItem(q); err != nil {
				return err
			}
			return errBoom
		})
		if !errors.Is(err, errBoom) {
			t.Fatalf("err = %v, want errBoom", err)
		}
		if n := countItems(t, db); n != 0 {
			t.Errorf("items = %d, want 0", n)
		}
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db := newTxTestDB(t)
		func() {
			defer func() {
				if recover() == nil {
					t.Error("panic should propagate")
				}
			}()
			WithTx(context.Background(), db.Conn, func(q TxQuerier) error {
				if err := insertItem(q); err != nil {
					return err
				}
				panic("boom")
			})
		}()
		if n := countItems(t, db); n != 0 {
			t.Errorf("items = %d, want 0", n)
		}
	})
}

func TestFailedMigrationNotRecorded(t *testing.T) {
	db := newTxTestDB(t)

	broken := fstest.MapFS{
		"001_items.sql":  {Data: []byte("CREATE TABLE items (name TEXT NOT NULL);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE half (x INTEGER);\nNOT VALID SQL;")},
	}
	if err := db.migrate(broken); err == nil {
		t.Fatal("broken migration should fail")
	}

	var n int
	db.Conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE filename='002_broken.sql'`).Scan(&n)
	if n != 0 {
		t.Error("failed migration was recorded")
	}
	db.Conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='half'`).Scan(&n)
	if n != 0 {
		t.Error("partial migration was not rolled back")
	}
}
