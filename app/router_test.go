package app

import (
	"context"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestRouter(t *testing.T) {
	var (
		r   = NewRouter()
		ctx = context.Background()
		db  = store.MemStore()
	)

	good := &vaulttest.Handler{}
	bad := &vaulttest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	r.Handle("multisig/good", good)
	r.Handle("multisig/bad", bad)

	assert.Panics(t, func() { r.Handle("multisig/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	goodTx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "multisig/good"}}
	_, err := r.Check(ctx, db, goodTx)
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, db, goodTx)
	assert.Nil(t, err)
	assert.Equal(t, 2, good.CallCount())

	badTx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "multisig/bad"}}
	_, err = r.Deliver(ctx, db, badTx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, bad.CallCount())

	missingTx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "multisig/missing"}}
	_, err = r.Check(ctx, db, missingTx)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, db, missingTx)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(ctx, db, &vaulttest.Tx{Err: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = r.Check(ctx, db, &vaulttest.Tx{})
	assert.IsErr(t, errors.ErrInput, err)

	assert.Equal(t, 2, good.CallCount())
}
