package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

// btreeDegree is small because a cache layer lives for a single block or
// transaction and rarely holds many entries.
const btreeDegree = 2

// entry is a cached write. A deleted entry hides the key of the layer
// below.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

// probe returns an item usable to search the tree for key.
func probe(key []byte) entry {
	return entry{key: key}
}

// BTreeCacheable gives any KVStore a btree based cache layer.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a layer whose writes reach the store only on Write.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty store held in memory only.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// ShowOpser lists the operations run on a store, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns a memory store together with the log of writes
// made to it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	var empty EmptyKVStore
	batch := NewNonAtomicBatch(empty)
	return NewBTreeCacheWrap(empty, batch, nil), batch
}

// BTreeCacheWrap caches the writes to a store in a btree. Reads see the
// cached writes first. All writes are also recorded in the batch, which
// applies them to the store below on Write.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over back. Nested layers share the
// free list when it is given.
func NewBTreeCacheWrap(back ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  back,
		batch: batch,
	}
}

// CacheWrap stacks another layer on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies the cached writes to the store below and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops the cached writes. Nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// cached returns the cached write of key, if any.
func (b BTreeCacheWrap) cached(key []byte) (entry, bool) {
	it := b.tree.Get(probe(key))
	if it == nil {
		return entry{}, false
	}
	return it.(entry), true
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := b.cached(key)
	switch {
	case !ok:
		return b.back.Get(key)
	case e.deleted:
		return nil, nil
	default:
		return e.value, nil
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok := b.cached(key)
	if !ok {
		return b.back.Has(key)
	}
	return !e.deleted, nil
}

// Iterator returns the keys in [start, end) in ascending order. A nil
// bound is unlimited.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	return newMergedIterator(ascendBtree(b.tree, start, end), parent, true), nil
}

// ReverseIterator returns the keys in [start, end) in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	return newMergedIterator(descendBtree(b.tree, start, end), parent, false), nil
}
