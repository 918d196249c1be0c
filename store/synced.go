package store

import (
	"sync"

	"github.com/iov-one/vault/errors"
)

// SyncedStore guards a KVStore with a read-write mutex, so that it can be
// shared by goroutines processing different proposals at the same time.
//
// Iterators are materialized while holding the read lock. They are
// independent of writes that happen after the iterator was created.
type SyncedStore struct {
	mu *sync.RWMutex
	kv KVStore
}

var _ CacheableKVStore = SyncedStore{}

// NewSyncedStore wraps given store.
func NewSyncedStore(kv KVStore) SyncedStore {
	return SyncedStore{mu: &sync.RWMutex{}, kv: kv}
}

func (s SyncedStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kv.Get(key)
}

func (s SyncedStore) Has(key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kv.Has(key)
}

func (s SyncedStore) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(key, value)
}

func (s SyncedStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(key)
}

func (s SyncedStore) Iterator(start, end []byte) (Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.kv.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return drain(it)
}

func (s SyncedStore) ReverseIterator(start, end []byte) (Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.kv.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return drain(it)
}

// NewBatch returns a batch that applies all operations under a single
// write lock.
func (s SyncedStore) NewBatch() Batch {
	return &syncedBatch{NonAtomicBatch: NewNonAtomicBatch(s.kv), mu: s.mu}
}

// CacheWrap returns a cache that is private to the caller. Writing it back
// takes the store lock once.
func (s SyncedStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

type syncedBatch struct {
	*NonAtomicBatch
	mu *sync.RWMutex
}

func (b *syncedBatch) Write() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.NonAtomicBatch.Write()
}

func drain(it Iterator) (Iterator, error) {
	defer it.Release()
	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return NewSliceIterator(res), nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, Pair(k, v))
	}
}
