package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const BucketName = "sigs"

// The greatest sequence a JavaScript client can represent exactly,
// Number.MAX_SAFE_INTEGER.
const maxSequence = 1<<53 - 1

// UserData is the persisted state of a signer: the public key and the
// sequence expected in the next signature.
type UserData struct {
	Metadata *vault.Metadata   `json:"metadata"`
	Sequence int64             `json:"sequence"`
	Pubkey   *crypto.PublicKey `json:"pubkey"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error)   { return vault.MarshalBinary(u) }
func (u *UserData) Unmarshal(raw []byte) error { return vault.UnmarshalBinary(raw, u) }

// Validate requires a public key once the first signature was counted.
func (u *UserData) Validate() error {
	errs := errors.AppendField(nil, "Metadata", u.Metadata.Validate())
	switch {
	case u.Sequence < 0:
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	case u.Sequence > 0 && u.Pubkey == nil:
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

func (u *UserData) Copy() orm.Model {
	cpy := *u
	cpy.Metadata = u.Metadata.Copy()
	return &cpy
}

// Advance consumes seq, which must be the expected sequence.
func (u *UserData) Advance(seq int64) error {
	if seq != u.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "want %d, got %d", u.Sequence, seq)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// NewBucket holds the signers keyed by the address of their public key.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// loadUser returns the stored signer or a new one at sequence zero.
func loadUser(db vault.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	user := UserData{Metadata: &vault.Metadata{Schema: 1}, Pubkey: pubkey}
	if err := b.One(db, pubkey.Address(), &user); err != nil && !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	return &user, nil
}

// RegisterQuery exposes the signers under "/auth".
func RegisterQuery(qr vault.QueryRouter) {
	NewBucket().Register("auth", qr)
}
