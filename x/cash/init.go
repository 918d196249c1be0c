package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// The app_state section holding the initial balances.
const genesisKey = "cash"

// GenesisAccount is an initial balance. The address is given in any form
// accepted by vault.ParseAddress.
type GenesisAccount struct {
	Address vault.Address `json:"address"`
	Amount  uint64        `json:"amount"`
}

// Initializer issues the initial balances.
type Initializer struct{}

var _ vault.Initializer = Initializer{}

// FromGenesis credits every listed account. An address listed twice is
// credited twice.
func (Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(genesisKey, &accounts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, a := range accounts {
		err := a.Address.Validate()
		if err == nil {
			err = ctrl.IssueCoins(db, a.Address, a.Amount)
		}
		if err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
	}
	return nil
}
