package app

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

func hexHash(hash []byte) string {
	return fmt.Sprintf("%X", hash)
}

// ABCIStore reads the committed state of an application through its raw
// "/" query path. It lets the buckets used by handlers read the state of a
// running node, for example from tests or tools.
type ABCIStore struct {
	app abci.Application
}

var _ vault.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

func (a *ABCIStore) query(path string, data []byte) ([]vault.Model, error) {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.Wrapf(errors.ErrDatabase, "query %s: code %d: %s", path, res.Code, res.Log)
	}
	return DecodeModels(res.Key, res.Value)
}

func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a single key", len(models))
	}
}

func (a *ABCIStore) Has(key []byte) (bool, error) {
	val, err := a.Get(key)
	return val != nil, err
}

// Iterator lists the whole state. Bounded ranges are not supported.
func (a *ABCIStore) Iterator(start, end []byte) (vault.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "only the entire range can be iterated")
	}
	models, err := a.query("/?"+vault.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is not supported.
func (a *ABCIStore) ReverseIterator(start, end []byte) (vault.Iterator, error) {
	return nil, errors.Wrap(errors.ErrInput, "reverse iteration not supported")
}
