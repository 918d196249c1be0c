package sigs

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		user      UserData
		wantField string
		wantErr   *errors.Error
	}{
		"fresh user": {
			user: UserData{Metadata: &vault.Metadata{Schema: 1}},
		},
		"user with key": {
			user: UserData{Metadata: &vault.Metadata{Schema: 1}, Sequence: 4, Pubkey: pub},
		},
		"missing metadata": {
			user:      UserData{},
			wantField: "Metadata",
			wantErr:   errors.ErrEmpty,
		},
		"negative sequence": {
			user:      UserData{Metadata: &vault.Metadata{Schema: 1}, Sequence: -1},
			wantField: "Sequence",
			wantErr:   ErrInvalidSequence,
		},
		"sequence without key": {
			user:      UserData{Metadata: &vault.Metadata{Schema: 1}, Sequence: 2},
			wantField: "Sequence",
			wantErr:   ErrInvalidSequence,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestAdvance(t *testing.T) {
	u := UserData{Sequence: 7}
	assert.IsErr(t, ErrInvalidSequence, u.Advance(6))
	assert.IsErr(t, ErrInvalidSequence, u.Advance(8))
	assert.Nil(t, u.Advance(7))
	assert.Equal(t, int64(8), u.Sequence)

	u.Sequence = maxSequence
	assert.IsErr(t, errors.ErrOverflow, u.Advance(maxSequence))
	assert.Equal(t, int64(maxSequence), u.Sequence)
}

func TestUserDataPersisted(t *testing.T) {
	db := store.MemStore()
	pub := crypto.GenPrivKeyEd25519().PublicKey()
	b := NewBucket()

	user, err := loadUser(db, b, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), user.Sequence)

	user.Sequence = 3
	assert.Nil(t, b.Put(db, pub.Address(), user))

	loaded, err := loadUser(db, b, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), loaded.Sequence)
	assert.Equal(t, pub.Ed25519, loaded.Pubkey.Ed25519)

	qr := vault.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/auth").Query(db, vault.KeyQueryMod, pub.Address())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
}
