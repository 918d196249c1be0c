package orm

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// RegisterQuery exposes the whole store content under "/". Key queries
// return a single entry, prefix queries all entries starting with data.
func RegisterQuery(qr vault.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	switch mod {
	case vault.KeyQueryMod:
		return queryKey(db, data)
	case vault.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mode %q", mod)
	}
}

// queryKey returns the entry stored under key, or nothing.
func queryKey(db vault.ReadOnlyKVStore, key []byte) ([]vault.Model, error) {
	value, err := db.Get(key)
	if err != nil || value == nil {
		return nil, err
	}
	return []vault.Model{vault.Pair(key, value)}, nil
}

// queryPrefix returns all entries whose key starts with prefix, in key
// order.
func queryPrefix(db vault.ReadOnlyKVStore, prefix []byte) ([]vault.Model, error) {
	start, end := prefixRange(prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []vault.Model
	for {
		key, value, err := it.Next()
		switch {
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		case err != nil:
			return nil, err
		}
		res = append(res, vault.Pair(key, value))
	}
}

// prefixRange returns the iterator range of all keys starting with prefix.
// The end is nil when no key greater than every prefixed key exists.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
