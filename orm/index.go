package orm

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// index keeps one store entry for every indexed model:
//
//   _i.<name>:<value length><value><primary key> -> <primary key>
//
// so that all models sharing an index value are found with a single prefix
// iteration, ordered by their primary key.
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
	// modelKey returns the store key of the model with given primary key.
	modelKey func([]byte) []byte
}

var _ vault.QueryHandler = (*index)(nil)

func newIndex(name string, indexer Indexer, unique bool, modelKey func([]byte) []byte) *index {
	return &index{
		name:     name,
		prefix:   []byte("_i." + name + ":"),
		indexer:  indexer,
		unique:   unique,
		modelKey: modelKey,
	}
}

// valuePrefix returns the common prefix of all entries for value.
func (i *index) valuePrefix(value []byte) ([]byte, error) {
	if len(value) > math.MaxUint16 {
		return nil, errors.Wrapf(errors.ErrInput, "%s index value too long: %d bytes", i.name, len(value))
	}
	out := make([]byte, len(i.prefix)+2, len(i.prefix)+2+len(value))
	copy(out, i.prefix)
	binary.BigEndian.PutUint16(out[len(i.prefix):], uint16(len(value)))
	return append(out, value...), nil
}

func (i *index) entryKey(value, pk []byte) ([]byte, error) {
	prefix, err := i.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	return append(prefix, pk...), nil
}

// value returns the index value of the model or nil if it is not indexed.
func (i *index) value(pk []byte, m Model) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	v, err := i.indexer(NewObject(pk, m))
	if err != nil {
		return nil, errors.Wrapf(err, "%s index", i.name)
	}
	return v, nil
}

// update moves the primary key from the entry of prev to the entry of
// next. Both models are stored under pk and either can be nil.
func (i *index) update(db vault.KVStore, pk []byte, prev, next Model) error {
	before, err := i.value(pk, prev)
	if err != nil {
		return err
	}
	after, err := i.value(pk, next)
	if err != nil {
		return err
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}

	if len(after) > 0 && i.unique {
		refs, err := i.refs(db, after)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if !bytes.Equal(ref, pk) {
				return errors.Wrapf(errors.ErrDuplicate, "%s index: %X", i.name, after)
			}
		}
	}
	if len(before) > 0 {
		key, err := i.entryKey(before, pk)
		if err != nil {
			return err
		}
		if err := db.Delete(key); err != nil {
			return err
		}
	}
	if len(after) > 0 {
		key, err := i.entryKey(after, pk)
		if err != nil {
			return err
		}
		if err := db.Set(key, pk); err != nil {
			return err
		}
	}
	return nil
}

// refs returns the primary keys of all models indexed under value.
func (i *index) refs(db vault.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix, err := i.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	entries, err := queryPrefix(db, prefix)
	if err != nil {
		return nil, err
	}
	refs := make([][]byte, len(entries))
	for j, e := range entries {
		refs[j] = e.Value
	}
	return refs, nil
}

// Query returns the raw models indexed under the value given as data.
// Only key queries are supported.
func (i *index) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	if mod != vault.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "%s index supports key queries only", i.name)
	}
	refs, err := i.refs(db, data)
	if err != nil {
		return nil, err
	}
	var res []vault.Model
	for _, ref := range refs {
		found, err := queryKey(db, i.modelKey(ref))
		if err != nil {
			return nil, err
		}
		res = append(res, found...)
	}
	return res, nil
}
