// Package repository, SQLite erişim katmanı.
//
// Her koleksiyon için bir interface ve sqlite_*.go'da onun implementasyonu
// vardır. Service'ler yalnızca interface'lere bağımlıdır; testlerde
// in-memory SQLite ya da fake kullanılır.
//
// Kurallar:
//   - Bulunamayan kayıt → pkg.ErrNotFound
//   - UNIQUE index ihlali → pkg.ErrAlreadyExists
//   - UPDATE/DELETE 0 satır etkilerse → pkg.ErrNotFound
package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ieeeestu/site/pkg"
)

// isUniqueViolation, SQLite UNIQUE constraint hatasını tanır.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// newID, kayıtlar için rastgele id üretir.
func newID() string {
	return uuid.NewString()
}

// now, DB'ye yazılan zaman damgaları. Hep UTC.
func now() time.Time {
	return time.Now().UTC()
}

// checkAffected, UPDATE/DELETE sonucunda satır etkilenmediyse ErrNotFound döner.
func checkAffected(result sql.Result, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", pkg.ErrNotFound, what)
	}
	return nil
}

// likePattern, LIKE sorgusu için % ve _ karakterlerini escape eder.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
