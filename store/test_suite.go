package store

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the checks every CacheableKVStore implementation must
// pass. Store packages call it from their own tests with a constructor of
// the store under test.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that cache layers see the data below them and that their
// own writes reach the base only on Write.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	proposal, pending := []byte("proposal"), []byte("pending")
	admin, alice := []byte("admin"), []byte("alice")
	wallet, amount := []byte("wallet"), []byte("150")

	s.AssertGetHas(t, base, proposal, nil, false)
	require.NoError(t, base.Set(proposal, pending))
	s.AssertGetHas(t, base, proposal, pending, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, proposal, pending, true)
	require.NoError(t, cache.Set(admin, alice))
	s.AssertGetHas(t, cache, admin, alice, true)
	s.AssertGetHas(t, base, admin, nil, false)
	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, admin, alice, true)

	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set(wallet, amount))
	discarded.Discard()
	s.AssertGetHas(t, base, wallet, nil, false)

	deleting := base.CacheWrap()
	require.NoError(t, deleting.Delete(proposal))
	s.AssertGetHas(t, deleting, proposal, nil, false)
	s.AssertGetHas(t, base, proposal, pending, true)
	require.NoError(t, deleting.Write())
	s.AssertGetHas(t, base, proposal, nil, false)
	s.AssertGetHas(t, base, admin, alice, true)
}

// CacheConflicts checks that cached writes shadow the data below and that
// writing the cache makes the base look like the cache did.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		base  []Op
		cache []Op
		// A nil value means the key must be missing.
		wantBase  []Model
		wantCache []Model
	}{
		"overwrite, delete and add": {
			base:      []Op{SetOp(testKey("p1"), testValue("open")), SetOp(testKey("p2"), testValue("open"))},
			cache:     []Op{SetOp(testKey("p1"), testValue("approved")), SetOp(testKey("p3"), testValue("open")), DelOp(testKey("p2"))},
			wantBase:  []Model{Pair(testKey("p1"), testValue("open")), Pair(testKey("p2"), testValue("open")), Pair(testKey("p3"), nil)},
			wantCache: []Model{Pair(testKey("p1"), testValue("approved")), Pair(testKey("p2"), nil), Pair(testKey("p3"), testValue("open"))},
		},
		"delete and set again": {
			base:      []Op{SetOp(testKey("p4"), testValue("open"))},
			cache:     []Op{DelOp(testKey("p4")), SetOp(testKey("p4"), testValue("fulfilled"))},
			wantBase:  []Model{Pair(testKey("p4"), testValue("open"))},
			wantCache: []Model{Pair(testKey("p4"), testValue("fulfilled"))},
		},
		"set and delete": {
			cache:     []Op{SetOp(testKey("p5"), testValue("open")), DelOp(testKey("p5"))},
			wantCache: []Model{Pair(testKey("p5"), nil)},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			applyAll(t, base, tc.base)
			cache := base.CacheWrap()
			applyAll(t, cache, tc.cache)

			for _, m := range tc.wantBase {
				s.AssertGetHas(t, base, m.Key, m.Value, m.Value != nil)
			}
			for _, m := range tc.wantCache {
				s.AssertGetHas(t, cache, m.Key, m.Value, m.Value != nil)
			}
			require.NoError(t, cache.Write())
			for _, m := range tc.wantCache {
				s.AssertGetHas(t, base, m.Key, m.Value, m.Value != nil)
			}
		})
	}
}

// IteratorWithConflicts checks that iterating over a cache merges the data
// below with the cached writes and deletes, in both directions.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	var (
		a  = Pair(testKey("a"), testValue("1"))
		a2 = Pair(testKey("a"), testValue("11"))
		b  = Pair(testKey("b"), testValue("2"))
		b2 = Pair(testKey("b"), testValue("22"))
		c  = Pair(testKey("c"), testValue("3"))
		d  = Pair(testKey("d"), testValue("4"))
	)

	type query struct {
		start, end []byte
		reverse    bool
		want       []Model
	}
	cases := map[string]struct {
		base    []Op
		cache   []Op
		queries []query
	}{
		"cache only": {
			cache: sets(a, b, c),
			queries: []query{
				{want: []Model{a, b, c}},
				{start: b.Key, end: c.Key, want: []Model{b}},
				{reverse: true, want: []Model{c, b, a}},
			},
		},
		"base only": {
			base: sets(a, b, c),
			queries: []query{
				{want: []Model{a, b, c}},
				{start: b.Key, end: c.Key, want: []Model{b}},
				{reverse: true, want: []Model{c, b, a}},
			},
		},
		"merged": {
			base:  sets(a, b),
			cache: sets(c),
			queries: []query{
				{want: []Model{a, b, c}},
				{start: b.Key, want: []Model{b, c}},
				{end: c.Key, reverse: true, want: []Model{b, a}},
			},
		},
		"cache shadows base": {
			base:  sets(a, b, c),
			cache: sets(a2, b2, d),
			queries: []query{
				{want: []Model{a2, b2, c, d}},
				{start: b.Key, end: d.Key, want: []Model{b2, c}},
				{reverse: true, want: []Model{d, c, b2, a2}},
			},
		},
		"deleted are skipped": {
			base:  sets(a, c, d),
			cache: dels(a, b, d),
			queries: []query{
				{want: []Model{c}},
				{end: c.Key, want: nil},
				{reverse: true, want: []Model{c}},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			applyAll(t, base, tc.base)
			cache := base.CacheWrap()
			applyAll(t, cache, tc.cache)

			for _, q := range tc.queries {
				var (
					it  Iterator
					err error
				)
				if q.reverse {
					it, err = cache.ReverseIterator(q.start, q.end)
				} else {
					it, err = cache.Iterator(q.start, q.end)
				}
				require.NoError(t, err)
				var got []Model
				for {
					key, value, err := it.Next()
					if errors.ErrIteratorDone.Is(err) {
						break
					}
					require.NoError(t, err)
					got = append(got, Pair(key, value))
				}
				it.Release()
				require.Equal(t, q.want, got)
			}
		})
	}
}

// AssertGetHas checks both the value and the presence of key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

func testKey(s string) []byte { return []byte("key:" + s) }
func testValue(s string) []byte { return []byte(s) }

func applyAll(t testing.TB, db SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, op.Apply(db))
	}
}

func sets(ms ...Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = SetOp(m.Key, m.Value)
	}
	return ops
}

func dels(ms ...Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = DelOp(m.Key)
	}
	return ops
}
