package store

import (
	"context"
	"database/sql"
	"fmt"

	"legacyvault/internal/will/ports"
	dErrors "legacyvault/pkg/domain-errors"
	txcontext "legacyvault/pkg/platform/tx"
)

// TxRunner runs a callback inside one SQL transaction. Stores that read the
// transaction from the context (PostgresStore) commit or roll back with it.
//
// The content store need not be SQL-backed. With a Redis content store only
// the record side is transactional; writes to content are not undone on
// rollback and the caller orders writes so that a rollback leaves at worst
// unreferenced content behind.
type TxRunner struct {
	db       *sql.DB
	records  ports.RecordStore
	contents ports.ContentStore
}

func NewTxRunner(db *sql.DB, records ports.RecordStore, contents ports.ContentStore) *TxRunner {
	return &TxRunner{db: db, records: records, contents: contents}
}

func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) (err error) {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(txcontext.WithTx(ctx, tx), ports.Stores{Records: r.records, Contents: r.contents}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
