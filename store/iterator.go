package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

// ascendBtree collects all cached items within [start, end) in ascending
// order. The items are copied out, so the btree may be modified while the
// result is consumed.
func ascendBtree(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	insert := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(probe(end), insert)
	case end == nil:
		bt.AscendGreaterOrEqual(probe(start), insert)
	default:
		bt.AscendRange(probe(start), probe(end), insert)
	}
	return res
}

// descendBtree collects all cached items within [start, end) in descending
// order.
func descendBtree(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	insert := func(item btree.Item) bool {
		key := item.(entry).key
		// end is exclusive, start inclusive
		if end != nil && bytes.Compare(key, end) >= 0 {
			return true
		}
		if start != nil && bytes.Compare(key, start) < 0 {
			return false
		}
		res = append(res, item.(entry))
		return true
	}
	if end == nil {
		bt.Descend(insert)
	} else {
		bt.DescendLessOrEqual(probe(end), insert)
	}
	return res
}

// mergedIterator combines the cached btree items with the parent iterator.
// Cached items shadow the parent values with the same key, and deleted items
// hide them.
type mergedIterator struct {
	cache     []entry
	parent    Iterator
	ascending bool

	// next value from the parent, read ahead
	pKey, pValue []byte
	pDone        bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(cache []entry, parent Iterator, ascending bool) *mergedIterator {
	return &mergedIterator{
		cache:     cache,
		parent:    parent,
		ascending: ascending,
	}
}

func (m *mergedIterator) readParent() error {
	if m.pDone || m.pKey != nil {
		return nil
	}
	k, v, err := m.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		m.pDone = true
		return nil
	}
	if err != nil {
		return err
	}
	m.pKey, m.pValue = k, v
	return nil
}

// before returns true if a comes before b in the iteration order.
func (m *mergedIterator) before(a, b []byte) bool {
	if m.ascending {
		return bytes.Compare(a, b) < 0
	}
	return bytes.Compare(a, b) > 0
}

// Next returns the next visible key and value.
func (m *mergedIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.readParent(); err != nil {
			return nil, nil, err
		}
		if len(m.cache) == 0 {
			if m.pDone {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merged iterator")
			}
			key, value = m.pKey, m.pValue
			m.pKey, m.pValue = nil, nil
			return key, value, nil
		}

		item := m.cache[0]
		if !m.pDone && m.before(m.pKey, item.key) {
			key, value = m.pKey, m.pValue
			m.pKey, m.pValue = nil, nil
			return key, value, nil
		}

		// the cache shadows a parent entry with the same key
		if !m.pDone && bytes.Equal(m.pKey, item.key) {
			m.pKey, m.pValue = nil, nil
		}
		m.cache = m.cache[1:]
		if !item.deleted {
			return item.key, item.value, nil
		}
	}
}

// Release releases the parent iterator and the cached snapshot.
func (m *mergedIterator) Release() {
	m.parent.Release()
	m.cache = nil
}
