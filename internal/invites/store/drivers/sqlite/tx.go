package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite/gen"
)

type txStore struct {
	tx *sql.Tx
	q  *gen.Queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{
		tx: tx,
		q:  gen.New(tx),
	}
}

func (t *txStore) Commit() error { return mapErr(t.tx.Commit()) }

func (t *txStore) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// nothing to close; the outer DB stays open
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Invites() store.Invites       { return &invitesRepo{q: t.q} }
func (t *txStore) Identities() store.Identities { return &identitiesRepo{q: t.q} }
func (t *txStore) Resources() store.Resources   { return &resourcesRepo{q: t.q} }
func (t *txStore) Links() store.Links           { return &linksRepo{q: t.q} }

// migrations must be applied before starting a tx
func (t *txStore) ApplyMigrations() error { return nil }
