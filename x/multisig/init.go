package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const optKey = "multisig"

// VaultCondition is the condition owning the vault funds. No signature can
// satisfy it, so the funds can leave the vault only through an executed
// proposal.
func VaultCondition() vault.Condition {
	return vault.NewCondition("multisig", "vault", []byte("funds"))
}

// VaultAddress returns the account holding the vault funds.
func VaultAddress() vault.Address {
	return VaultCondition().Address()
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ vault.Initializer = Initializer{}

// FromGenesis will parse the administrator roster from genesis and save it
// in the database. The roster is required and can be set only once.
func (Initializer) FromGenesis(opts vault.Options, kv vault.KVStore) error {
	var conf struct {
		Administrators []vault.Address `json:"administrators"`
	}
	if err := opts.ReadOptions(optKey, &conf); err != nil {
		return err
	}
	set, err := NewAdministratorSet(conf.Administrators...)
	if err != nil {
		return errors.Wrap(err, "administrators")
	}
	return SaveAdministrators(kv, set)
}
