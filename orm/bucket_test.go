package orm

import (
	"strings"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = []byte("alice")
	bob   = []byte("bob")
)

func newCounterBucket() ModelBucket {
	return NewModelBucket("cnts", &counter{},
		WithIndex("count", byCount, true),
		WithIndex("owner", byOwner, false),
	)
}

func TestModelBucketStorage(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	key := []byte("a")

	assert.IsErr(t, errors.ErrNotFound, b.Has(db, key))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, nil))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, key, &counter{}))

	require.NoError(t, b.Put(db, key, &counter{Count: 5, Owner: alice}))
	require.NoError(t, b.Has(db, key))

	var c counter
	require.NoError(t, b.One(db, key, &c))
	require.Equal(t, counter{Count: 5, Owner: alice}, c)

	assert.IsErr(t, errors.ErrType, b.One(db, key, &notCounter{}))
	assert.IsErr(t, errors.ErrType, b.Put(db, key, &notCounter{}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, newCounter(1)))
	assert.IsErr(t, errors.ErrState, b.Put(db, []byte("b"), newCounter(-1)))

	// Overwrite.
	require.NoError(t, b.Put(db, key, &counter{Count: 7, Owner: bob}))
	require.NoError(t, b.One(db, key, &c))
	require.Equal(t, int64(7), c.Count)

	require.NoError(t, b.Delete(db, key))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, key))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, key))
}

func TestModelBucketIndexes(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	require.NoError(t, b.Put(db, []byte("a"), &counter{Count: 1, Owner: alice}))
	require.NoError(t, b.Put(db, []byte("b"), &counter{Count: 2, Owner: alice}))
	require.NoError(t, b.Put(db, []byte("c"), &counter{Count: 3, Owner: bob}))

	var ptrs []*counter
	refs, err := b.ByIndex(db, "owner", alice, &ptrs)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, refs)
	require.Len(t, ptrs, 2)
	require.Equal(t, int64(1), ptrs[0].Count)
	require.Equal(t, int64(2), ptrs[1].Count)

	var values []counter
	refs, err = b.ByIndex(db, "count", encodeCount(3), &values)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("c")}, refs)
	require.Equal(t, []counter{{Count: 3, Owner: bob}}, values)

	// A unique index refuses a second model with the same value, but
	// storing the same model again is fine.
	assert.IsErr(t, errors.ErrDuplicate, b.Put(db, []byte("d"), &counter{Count: 2, Owner: bob}))
	require.NoError(t, b.Put(db, []byte("a"), &counter{Count: 1, Owner: alice}))

	// Changing the owner moves the model between index entries.
	require.NoError(t, b.Put(db, []byte("a"), &counter{Count: 1, Owner: bob}))
	ptrs = nil
	refs, err = b.ByIndex(db, "owner", alice, &ptrs)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("b")}, refs)
	ptrs = nil
	refs, err = b.ByIndex(db, "owner", bob, &ptrs)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("a"), []byte("c")}, refs)

	// Deleting drops the index entries.
	require.NoError(t, b.Delete(db, []byte("b")))
	_, err = b.ByIndex(db, "owner", alice, &ptrs)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = b.ByIndex(db, "count", encodeCount(2), &ptrs)
	assert.IsErr(t, errors.ErrNotFound, err)

	// An empty index value is not indexed.
	require.NoError(t, b.Put(db, []byte("e"), newCounter(9)))
	_, err = b.ByIndex(db, "owner", nil, &ptrs)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = b.ByIndex(db, "color", alice, &ptrs)
	assert.IsErr(t, ErrInvalidIndex, err)
	_, err = b.ByIndex(db, "owner", bob, ptrs)
	assert.IsErr(t, errors.ErrType, err)
	var names []string
	_, err = b.ByIndex(db, "owner", bob, &names)
	assert.IsErr(t, errors.ErrType, err)
}

func TestIndexValueTooLong(t *testing.T) {
	long := func(Object) ([]byte, error) {
		return []byte(strings.Repeat("x", 1<<16)), nil
	}
	b := NewModelBucket("cnts", &counter{}, WithIndex("long", long, false))
	err := b.Put(store.MemStore(), []byte("a"), newCounter(1))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestModelBucketPanics(t *testing.T) {
	for _, name := range []string{"ab", "Cnts", "with-dash", "muchtoolongname"} {
		assert.Panics(t, func() { NewModelBucket(name, &counter{}) })
	}
	assert.Panics(t, func() {
		NewModelBucket("cnts", &counter{},
			WithIndex("owner", byOwner, false),
			WithIndex("owner", byOwner, true))
	})
}

func TestModelBucketQueries(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	require.NoError(t, b.Put(db, []byte("a"), &counter{Count: 1, Owner: alice}))
	require.NoError(t, b.Put(db, []byte("b"), &counter{Count: 2, Owner: alice}))
	require.NoError(t, b.Put(db, []byte("c"), &counter{Count: 3, Owner: bob}))

	qr := vault.NewQueryRouter()
	b.Register("counters", qr)

	h := qr.Handler("/counters")
	require.NotNil(t, h)
	res, err := h.Query(db, vault.KeyQueryMod, []byte("b"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, []byte("cnts:b"), res[0].Key)
	var c counter
	require.NoError(t, c.Unmarshal(res[0].Value))
	require.Equal(t, int64(2), c.Count)

	res, err = h.Query(db, vault.KeyQueryMod, []byte("x"))
	require.NoError(t, err)
	require.Empty(t, res)

	// Index entries are not part of the bucket content.
	res, err = h.Query(db, vault.PrefixQueryMod, nil)
	require.NoError(t, err)
	require.Len(t, res, 3)

	_, err = h.Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInput, err)

	h = qr.Handler("/counters/owner")
	require.NotNil(t, h)
	res, err = h.Query(db, vault.KeyQueryMod, alice)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, []byte("cnts:a"), res[0].Key)
	require.Equal(t, []byte("cnts:b"), res[1].Key)

	res, err = h.Query(db, vault.KeyQueryMod, []byte("carol"))
	require.NoError(t, err)
	require.Empty(t, res)

	_, err = h.Query(db, vault.PrefixQueryMod, alice)
	assert.IsErr(t, errors.ErrInput, err)

	require.NotNil(t, qr.Handler("/counters/count"))
}
