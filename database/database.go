// Package database, SQLite bağlantısını açar ve gömülü migration'ları uygular.
//
// Driver modernc.org/sqlite'tır (pure Go, CGO yok). Migration dosyaları
// isim sırasıyla çalıştırılır ve schema_migrations tablosuna kaydedilir;
// bir dosya bir kere uygulandıktan sonra tekrar çalışmaz.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// MemoryPath, test ve geçici kurulumlar için bellek içi veritabanı.
const MemoryPath = ":memory:"

// Yarım kalmış bir migration tekrar çalıştığında atlanabilecek hatalar.
var recoverableErrors = []string{
	"duplicate column name",
}

// DB, *sql.DB connection pool'unu sarar.
type DB struct {
	Conn *sql.DB
}

// New, veritabanını açar ve migration'ları çalıştırır.
// dbPath MemoryPath ise pool tek bağlantıya indirilir; aksi halde her
// bağlantı ayrı, boş bir bellek veritabanı görür.
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)"

	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}
	if err := db.migrate(migrationsFS); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("[database] connected (%s), migrations applied", dbPath)
	return db, nil
}

// Close, connection pool'u kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// migrate, henüz uygulanmamış .sql dosyalarını sırayla çalıştırır.
//
// schema_migrations boş ama admins tablosu zaten varsa (tracking öncesi kurulum),
// mevcut dosyalar uygulanmış sayılır ve hiçbiri tekrar çalıştırılmaz.
func (db *DB) migrate(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	files, err := migrationFiles(migrationsFS)
	if err != nil {
		return err
	}

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		var existing int
		if err := db.Conn.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='admins'",
		).Scan(&existing); err != nil {
			return fmt.Errorf("failed to check existing tables: %w", err)
		}

		if existing > 0 {
			for _, file := range files {
				if err := recordMigration(db.Conn, file); err != nil {
					return err
				}
			}
			log.Printf("[database] bootstrapped %d existing migrations", len(files))
			return nil
		}
	}

	for _, file := range files {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		// Dosya ve kaydı birlikte uygulanır; yarım kalan dosya kaydedilmez.
		err = WithTx(context.Background(), db.Conn, func(q TxQuerier) error {
			if err := execStatements(q, file, string(content)); err != nil {
				return err
			}
			return recordMigration(q, file)
		})
		if err != nil {
			return err
		}

		log.Printf("[database] migration applied: %s", file)
	}

	return nil
}

func migrationFiles(migrationsFS fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.Conn.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate migration rows: %w", err)
	}
	return applied, nil
}

func recordMigration(q TxQuerier, file string) error {
	if _, err := q.ExecContext(context.Background(), "INSERT INTO schema_migrations (filename) VALUES (?)", file); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", file, err)
	}
	return nil
}

// execStatements, dosyayı ';' ile bölüp her statement'ı ayrı çalıştırır.
func execStatements(q TxQuerier, filename, content string) error {
	for i, stmt := range splitStatements(content) {
		if _, err := q.ExecContext(context.Background(), stmt); err != nil {
			if isRecoverable(err) {
				log.Printf("[database] %s: statement %d skipped (recoverable: %v)", filename, i+1, err)
				continue
			}
			return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
		}
	}
	return nil
}

func isRecoverable(err error) bool {
	msg := err.Error()
	for _, pattern := range recoverableErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// splitStatements, tek tırnaklı string literal içindeki ';' karakterlerini
// ve "--" satır yorumlarını dikkate alarak SQL'i böler.
func splitStatements(sql string) []string {
	var (
		statements []string
		current    strings.Builder
		inString   bool
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if !inString && ch == '-' && i+1 < len(sql) && sql[i+1] == '-' {
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		}

		if ch == '\'' {
			if inString && i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteString("''")
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			flush()
			continue
		}

		current.WriteByte(ch)
	}
	flush()

	return statements
}
