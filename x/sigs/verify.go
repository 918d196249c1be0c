package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// accounts verifies signatures against the stored signer sequences.
type accounts struct {
	bucket orm.ModelBucket
}

func newAccounts() accounts {
	return accounts{bucket: NewBucket()}
}

// verifyTx checks every signature of tx in order and returns the signers.
// A signer may sign more than once with consecutive sequences.
func (a accounts) verifyTx(db vault.KVStore, tx SignedTx, chainID string) ([]vault.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]vault.Condition, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := a.verify(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// verify checks a single signature and consumes the sequence it was made
// with.
func (a accounts) verify(db vault.KVStore, sig *StdSignature, payload []byte, chainID string) (vault.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	user, err := loadUser(db, a.bucket, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	bz, err := digest(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(bz, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.Advance(sig.Sequence); err != nil {
		return nil, err
	}
	if err := a.bucket.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save signer")
	}
	return user.Pubkey.Condition(), nil
}

// NextNonce returns the sequence the next signature of signer must use.
// Unknown signers start at zero.
func NextNonce(db vault.ReadOnlyKVStore, signer vault.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
