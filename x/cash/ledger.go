package cash

import (
	"sync"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Ledger exposes the balance of a single account, the vault, and pays out
// of it.
//
// Transfers are serialized, so that two payments executed at the same time
// cannot both spend the same funds.
type Ledger struct {
	control Controller
	vault   vault.Address

	mu sync.Mutex
}

// NewLedger returns a ledger paying out of the given account.
func NewLedger(control Controller, account vault.Address) *Ledger {
	return &Ledger{control: control, vault: account}
}

// Account returns the address funds are paid from.
func (l *Ledger) Account() vault.Address {
	return l.vault
}

// Balance returns the funds currently held by the vault.
func (l *Ledger) Balance(db vault.ReadOnlyKVStore) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.control.Balance(db, l.vault)
}

// Transfer moves amount from the vault to the recipient. When the store
// supports it, the payment is applied in a cache that is written only on
// success, so a failed transfer leaves the store untouched.
func (l *Ledger) Transfer(db vault.KVStore, recipient vault.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cacheable, ok := db.(vault.CacheableKVStore)
	if !ok {
		return l.move(db, recipient, amount)
	}
	cache := cacheable.CacheWrap()
	if err := l.move(cache, recipient, amount); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (l *Ledger) move(db vault.KVStore, recipient vault.Address, amount uint64) error {
	if err := l.control.MoveCoins(db, l.vault, recipient, amount); err != nil {
		return errors.Wrapf(err, "pay %d to %s", amount, recipient)
	}
	return nil
}
