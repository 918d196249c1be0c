package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// signatureVerifyCost is charged in check for every valid signature.
const signatureVerifyCost = 500

// Decorator verifies the signatures of a transaction and passes the
// signers down the stack in the context. Transactions that cannot carry
// signatures are passed through untouched.
type Decorator struct {
	accounts  accounts
	allowNone bool
}

var _ vault.Decorator = Decorator{}

// NewDecorator returns a decorator that requires at least one signature.
func NewDecorator() Decorator {
	return Decorator{accounts: newAccounts()}
}

// AllowMissingSigs returns a copy accepting signed transactions with no
// signature at all.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowNone = true
	return d
}

func (d Decorator) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	ctx, n, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(n) * signatureVerifyCost
	return res, nil
}

func (d Decorator) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) authenticate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (vault.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := d.accounts.verifyTx(db, stx, vault.GetChainID(ctx))
	if err != nil {
		return nil, 0, err
	}
	if len(signers) == 0 && !d.allowNone {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}
