package multisig

import "sync"

// keyLocks hands out one mutex per proposal key. Operations on different
// keys never wait for each other. A mutex is dropped once nobody holds or
// waits for it, so the set does not grow with the number of proposals.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

// Lock blocks until the exclusive access to the key is acquired. The
// returned function releases it and must be called exactly once.
func (l *keyLocks) Lock(key []byte) (unlock func()) {
	name := string(key)

	l.mu.Lock()
	kl, ok := l.locks[name]
	if !ok {
		kl = &keyLock{}
		l.locks[name] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.Lock()
	return func() {
		kl.Unlock()

		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, name)
		}
		l.mu.Unlock()
	}
}

// size returns the number of keys currently locked or waited for.
func (l *keyLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
