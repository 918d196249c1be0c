package utils

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Recovery turns a panic raised by any handler further down the stack into
// an ErrPanic error. The panic is logged together with the message path.
type Recovery struct{}

var _ vault.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (_ *vault.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicked(ctx, tx, r)
		}
	}()
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (_ *vault.DeliverResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicked(ctx, tx, r)
		}
	}()
	return next.Deliver(ctx, db, tx)
}

func panicked(ctx vault.Context, tx vault.Tx, r interface{}) error {
	path := "(none)"
	if tx != nil {
		path = vault.GetPath(tx)
	}
	vault.GetLogger(ctx).Error("handler panicked", "path", path, "panic", r)
	return errors.Wrapf(errors.ErrPanic, "%v", r)
}
