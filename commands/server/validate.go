package server

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
)

// ValidateGenesis starts the initializer from every genesis file against
// an in memory store. The returned error lists the failure of each file.
func ValidateGenesis(ini vault.Initializer, genesisPaths []string) error {
	var errs error
	for _, path := range genesisPaths {
		errs = errors.Append(errs, errors.Wrap(validateFile(ini, path), path))
	}
	return errs
}

func validateFile(ini vault.Initializer, path string) error {
	gen, err := app.LoadGenesis(path)
	if err != nil {
		return err
	}
	return app.ValidateGenesis(ini, gen)
}
