package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single account.
type Wallet struct {
	Metadata *vault.Metadata `json:"metadata"`
	Amount   uint64          `json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return vault.MarshalBinary(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, w)
}

// Validate returns an error if the wallet has no metadata.
func (w *Wallet) Validate() error {
	return errors.AppendField(nil, "Metadata", w.Metadata.Validate())
}

// Copy returns an independent copy.
func (w *Wallet) Copy() orm.Model {
	return &Wallet{
		Metadata: w.Metadata.Copy(),
		Amount:   w.Amount,
	}
}

// Add increases the balance, failing on overflow.
func (w *Wallet) Add(amount uint64) error {
	sum := w.Amount + amount
	if sum < w.Amount {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Amount = sum
	return nil
}

// Subtract decreases the balance, failing when the funds are insufficient.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Amount < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: have %d, need %d", w.Amount, amount)
	}
	w.Amount -= amount
	return nil
}

// NewBucket returns the bucket holding all wallets, keyed by the account
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
