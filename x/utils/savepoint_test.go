package utils

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDecorator writes a key/value pair before calling the next handler.
type writeDecorator struct {
	key, value []byte
}

var _ vault.Decorator = writeDecorator{}

func (d writeDecorator) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	if err := db.Set(d.key, d.value); err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d writeDecorator) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	if err := db.Set(d.key, d.value); err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func TestSavepoint(t *testing.T) {
	var (
		balance  = []byte("balance")
		proposal = []byte("proposal")
		failure  = errors.Wrap(errors.ErrHuman, "vault is empty")
	)

	failing := func() vault.Handler {
		return &vaulttest.WriteHandler{Key: proposal, Value: []byte("fulfilled"), Err: failure}
	}
	succeeding := func() vault.Handler {
		return &vaulttest.WriteHandler{Key: proposal, Value: []byte("fulfilled")}
	}

	cases := map[string]struct {
		stack   vault.Decorator
		handler vault.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"disabled savepoint keeps partial writes": {
			stack:   NewSavepoint(),
			handler: failing(),
			check:   true,
			wantErr: true,
			written: [][]byte{proposal},
		},
		"check failure is rolled back": {
			stack:   NewSavepoint().OnCheck(),
			handler: failing(),
			check:   true,
			wantErr: true,
			missing: [][]byte{proposal},
		},
		"deliver failure is rolled back": {
			stack:   NewSavepoint().OnDeliver(),
			handler: failing(),
			wantErr: true,
			missing: [][]byte{proposal},
		},
		"both phases can be enabled": {
			stack:   NewSavepoint().OnDeliver().OnCheck(),
			handler: failing(),
			wantErr: true,
			missing: [][]byte{proposal},
		},
		"check savepoint does not cover deliver": {
			stack:   NewSavepoint().OnCheck(),
			handler: failing(),
			wantErr: true,
			written: [][]byte{proposal},
		},
		"success is written": {
			stack:   NewSavepoint().OnCheck().OnDeliver(),
			handler: succeeding(),
			written: [][]byte{proposal},
		},
		"writes before the savepoint are kept": {
			stack:   writeDecorator{key: balance, value: []byte{1}},
			handler: vaulttest.Decorate(failing(), NewSavepoint().OnDeliver()),
			wantErr: true,
			written: [][]byte{balance},
			missing: [][]byte{proposal},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()

			var err error
			if tc.check {
				_, err = tc.stack.Check(ctx, db, nil, tc.handler)
			} else {
				_, err = tc.stack.Deliver(ctx, db, nil, tc.handler)
			}
			if tc.wantErr {
				assert.True(t, errors.ErrHuman.Is(err), "%+v", err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := db.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%s", k)
			}
			for _, k := range tc.missing {
				has, err := db.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%s", k)
			}
		})
	}
}
