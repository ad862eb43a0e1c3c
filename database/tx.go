package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, repository'lerin ihtiyaç duyduğu sorgu yüzü.
// *sql.DB ve *sql.Tx ikisi de bunu karşılar.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx, fn'e transaction'a bağlı bir TxQuerier verir.
// fn hata dönmezse commit edilir; aksi halde (panic dahil) değişiklikler geri alınır.
func WithTx(ctx context.Context, db *sql.DB, fn func(q TxQuerier) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Commit'ten sonra Rollback ErrTxDone döner, zararsız.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
