package app

import "sync"

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex is a lock table: Lock(key) serializes critical sections
// that share a key while leaving other keys independent. Locks are
// created on demand and dropped once no goroutine holds or awaits
// them. The zero value is ready to use.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// Lock acquires the mutex for key and returns the matching unlock.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
