package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Controller is the functionality needed by cash.Handler and cash.Ledger.
// Extensions that move tokens use it to compose functionality.
type Controller interface {
	// Balance returns the amount held by the account. Unknown accounts
	// hold nothing.
	Balance(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error)
	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db vault.KVStore, src, dest vault.Address, amount uint64) error
	// IssueCoins attempts to add the given amount of coins to the
	// destination address. Fails if it overflows the wallet.
	IssueCoins(db vault.KVStore, dest vault.Address, amount uint64) error
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller storing balances in the default
// bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Amount, nil
}

func (c BaseController) MoveCoins(db vault.KVStore, src, dest vault.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) IssueCoins(db vault.KVStore, dest vault.Address, amount uint64) error {
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, recipient)
}

// load returns the wallet of given address or an empty one.
func (c BaseController) load(db vault.ReadOnlyKVStore, addr vault.Address) (*Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &vault.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}
