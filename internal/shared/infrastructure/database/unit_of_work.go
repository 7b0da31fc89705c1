package database

import (
	"context"
	"errors"
)

var errNoTransaction = errors.New("no transaction in context")

type txKey struct{}

// txScope is the transaction on a context. Only the scope that began the
// transaction may end it, so a handler calling another handler inside its
// own unit of work joins the outer transaction.
type txScope struct {
	tx    Transaction
	owner bool
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	s, ok := ctx.Value(txKey{}).(txScope)
	return s, ok && s.tx != nil
}

// ExecutorFromContext returns the transaction on ctx, or conn outside one.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if s, ok := scopeFrom(ctx); ok {
		return s.tx
	}
	return conn
}

// GenericUnitOfWork opens transactions on a Connection of either driver.
type GenericUnitOfWork struct {
	conn Connection
}

func NewUnitOfWork(conn Connection) *GenericUnitOfWork {
	return &GenericUnitOfWork{conn: conn}
}

// Begin opens a transaction, or joins the one already on ctx.
func (u *GenericUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if s, ok := scopeFrom(ctx); ok {
		return context.WithValue(ctx, txKey{}, txScope{tx: s.tx}), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txKey{}, txScope{tx: tx, owner: true}), nil
}

// Commit commits a transaction begun by this scope; joined scopes no-op.
func (u *GenericUnitOfWork) Commit(ctx context.Context) error {
	s, ok := scopeFrom(ctx)
	if !ok {
		return errNoTransaction
	}
	if !s.owner {
		return nil
	}
	return s.tx.Commit(ctx)
}

// Rollback rolls back a transaction begun by this scope; joined scopes no-op
// and leave the decision to the outer scope.
func (u *GenericUnitOfWork) Rollback(ctx context.Context) error {
	s, ok := scopeFrom(ctx)
	if !ok {
		return errNoTransaction
	}
	if !s.owner {
		return nil
	}
	return s.tx.Rollback(ctx)
}
