package sqlite

import (
	"context"
	"database/sql"

	"github.com/prometheusfi/prometheus/internal/api/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op; the connection is held by the transaction.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) Invites() store.Invites             { return &invitesRepo{db: t.tx} }
func (t *txStore) Funds() store.Funds                 { return &fundsRepo{db: t.tx} }
func (t *txStore) Companies() store.Companies         { return &companiesRepo{db: t.tx} }
func (t *txStore) Posts() store.Posts                 { return &postsRepo{db: t.tx} }
func (t *txStore) Notifications() store.Notifications { return &notificationsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // applied before any tx starts
