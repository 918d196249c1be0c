package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type under their primary key.
type ModelBucket interface {
	// One loads the model stored under key into dest. It returns
	// ErrNotFound if there is none and ErrType if dest cannot hold the
	// stored model.
	One(db vault.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns ErrNotFound if nothing is stored under key.
	Has(db vault.ReadOnlyKVStore, key []byte) error

	// ByIndex loads all models that the named index maps key to into
	// dest, which must be a pointer to a slice of models or of model
	// pointers. The primary keys of the loaded models are returned in the
	// same order. It returns ErrNotFound if nothing is indexed under key.
	ByIndex(db vault.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error)

	// Put validates and stores the model, updating all indexes.
	Put(db vault.KVStore, key []byte, m Model) error

	// Delete removes the model stored under key. It returns ErrNotFound
	// if there is none.
	Delete(db vault.KVStore, key []byte) error

	// Register exposes the bucket as "/<name>" and each of its indexes
	// as "/<name>/<index name>".
	Register(name string, r vault.QueryRouter)
}

// ModelBucketOption configures a bucket on creation.
type ModelBucketOption func(*modelBucket)

// WithIndex adds a secondary index. A unique index refuses to map one value
// to more than one model. It panics if the name is already taken.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(b *modelBucket) {
		if _, ok := b.indexes[name]; ok {
			panic(fmt.Sprintf("index %q registered twice", name))
		}
		b.indexes[name] = newIndex(b.name+"_"+name, indexer, unique, b.dbKey)
	}
}

// NewModelBucket returns a bucket holding models of the same type as
// example. It panics if name is not 3 to 10 lowercase letters or
// underscores.
func NewModelBucket(name string, example Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	b := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   reflect.TypeOf(example),
		indexes: make(map[string]*index),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]*index
}

var _ vault.QueryHandler = (*modelBucket)(nil)

// dbKey returns a new slice holding the prefixed key.
func (b *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// load returns the model stored under key, or nil.
func (b *modelBucket) load(db vault.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(b.dbKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	m := reflect.New(b.model.Elem()).Interface().(Model)
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "%s bucket", b.name)
	}
	return m, nil
}

func (b *modelBucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != b.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot load into %T", b.name, dest)
	}
	m, err := b.load(db, key)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s bucket: %X", b.name, key)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(m).Elem())
	return nil
}

func (b *modelBucket) Has(db vault.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s bucket: %X", b.name, key)
	}
	return nil
}

func (b *modelBucket) Put(db vault.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != b.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot store %T", b.name, m)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if err := b.reindex(db, key, prev, m); err != nil {
		return err
	}
	return db.Set(b.dbKey(key), raw)
}

func (b *modelBucket) Delete(db vault.KVStore, key []byte) error {
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s bucket: %X", b.name, key)
	}
	if err := b.reindex(db, key, prev, nil); err != nil {
		return err
	}
	return db.Delete(b.dbKey(key))
}

// reindex moves the key from the index values of prev to those of next.
// Either model can be nil.
func (b *modelBucket) reindex(db vault.KVStore, key []byte, prev, next Model) error {
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, next); err != nil {
			return err
		}
	}
	return nil
}

func (b *modelBucket) ByIndex(db vault.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error) {
	idx, ok := b.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "%s bucket: %s", b.name, indexName)
	}

	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "want a pointer to a slice, got %T", dest)
	}
	slice = slice.Elem()
	elem := slice.Type().Elem()
	pointers := elem == b.model
	if !pointers && elem != b.model.Elem() {
		return nil, errors.Wrapf(errors.ErrType, "%s bucket cannot load into %s", b.name, elem)
	}

	refs, err := idx.refs(db, key)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s index: %X", idx.name, key)
	}
	for _, ref := range refs {
		m, err := b.load(db, ref)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrState, "%s index points to missing %X", idx.name, ref)
		}
		v := reflect.ValueOf(m)
		if !pointers {
			v = v.Elem()
		}
		slice.Set(reflect.Append(slice, v))
	}
	return refs, nil
}

func (b *modelBucket) Register(name string, r vault.QueryRouter) {
	root := "/" + name
	r.Register(root, b)
	for indexName, idx := range b.indexes {
		r.Register(root+"/"+indexName, idx)
	}
}

// Query returns the raw stored models. Keys in the result include the
// bucket prefix.
func (b *modelBucket) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	switch mod {
	case vault.KeyQueryMod:
		return queryKey(db, b.dbKey(data))
	case vault.PrefixQueryMod:
		return queryPrefix(db, b.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mode %q", mod)
	}
}
