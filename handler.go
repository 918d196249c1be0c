package vault

import (
	"encoding/json"

	"github.com/iov-one/vault/errors"
)

// Checker validates a transaction before it enters the mempool. It must
// not rely on writes made by other transactions being final.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction included in a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages of one route, for example approving a
// proposal.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs around the next handler of a chain and may change the
// context, the store or the result, or stop the processing altogether.
// Authentication, logging and savepoints are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message routes.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state, with the raw configuration of every
// extension under its own key.
type Options map[string]json.RawMessage

// ReadOptions decodes the configuration stored under key into obj. A
// missing key leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers returns an initializer running all given ones in
// order. It stops on the first failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (all initializers) FromGenesis(opts Options, kv KVStore) error {
	for _, init := range all {
		if err := init.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
