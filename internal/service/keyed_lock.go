package service

import "sync"

// keyedMutex serializes work per key. Recomputes for one (user, module)
// pair must not interleave; pairs for other users or modules proceed in
// parallel. Entries are never evicted: the key space is bounded by
// users x modules and a mutex is two words.
type keyedMutex struct {
	mus sync.Map
}

func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
