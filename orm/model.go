/*
Package orm stores models in named buckets on top of a key value store.

Every bucket owns the keys starting with its name followed by a colon and
holds a single model type. Secondary indexes map a value computed from the
model to the primary keys of all models producing it.
*/
package orm

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ErrInvalidIndex is returned when a bucket has no index of given name.
var ErrInvalidIndex = errors.Register(100, "invalid index")

// Model is an entity that can be stored in a bucket.
type Model interface {
	vault.Persistent
	// Validate is called before every write.
	Validate() error
	// Copy returns a deep copy.
	Copy() Model
}

// Object is a model together with the primary key it is stored under.
type Object interface {
	Key() []byte
	Value() Model
}

// NewObject returns an Object for given key and model.
func NewObject(key []byte, value Model) Object {
	return object{key: key, value: value}
}

type object struct {
	key   []byte
	value Model
}

func (o object) Key() []byte  { return o.key }
func (o object) Value() Model { return o.value }

// Indexer computes the secondary index value of an object. An empty value
// means the object is not indexed.
type Indexer func(Object) ([]byte, error)
