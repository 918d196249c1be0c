package cash

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestGenesis(t *testing.T) {
	a := vaulttest.NewCondition().Address()
	b := vaulttest.NewCondition().Address()

	cases := map[string]struct {
		genesis  string
		wantErr  *errors.Error
		balances map[string]uint64
	}{
		"no cash section": {
			genesis: `{}`,
		},
		"two accounts": {
			genesis: fmt.Sprintf(`{"cash": [
				{"address": %q, "amount": 150},
				{"address": %q, "amount": 7}
			]}`, a, b),
			balances: map[string]uint64{a.String(): 150, b.String(): 7},
		},
		"missing address": {
			genesis: `{"cash": [{"amount": 1}]}`,
			wantErr: errors.ErrEmpty,
		},
		"invalid json": {
			genesis: `{"cash": {"address": 1}}`,
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var opts vault.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("cannot unmarshal genesis: %s", err)
			}
			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			assert.IsErr(t, tc.wantErr, err)

			c := NewController()
			for _, addr := range []vault.Address{a, b} {
				got, err := c.Balance(db, addr)
				assert.Nil(t, err)
				assert.Equal(t, tc.balances[addr.String()], got)
			}
		})
	}
}
