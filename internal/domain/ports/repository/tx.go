package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside one database transaction and hands the
// transaction handle to fn as tx.
//
// Repositories accept that handle in their tx argument. When it is a live
// transaction they bind their statements to it and lock rows they read
// (SELECT ... FOR UPDATE); NoTX runs against the pool.
//
//	tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
//		u, err := users.FindByID(ctx, tx, id)
//		...
//		return orders.Create(ctx, tx, o)
//	})
//
// Returning an error from fn rolls everything back.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
