package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
)

// Genesis is the part of the tendermint genesis file the application
// reads. Everything else in the file is left to tendermint.
type Genesis struct {
	ChainID  string        `json:"chain_id"`
	AppState vault.Options `json:"app_state"`
}

// LoadGenesis reads the chain ID and the application state from given
// genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return &gen, nil
}

// ValidateGenesis runs the initializer against an in memory store, so that
// a broken app_state is found before the chain is started.
func ValidateGenesis(init vault.Initializer, gen *Genesis) error {
	if !vault.IsValidChainID(gen.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", gen.ChainID)
	}
	if len(gen.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}
	if err := init.FromGenesis(gen.AppState, store.MemStore()); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
