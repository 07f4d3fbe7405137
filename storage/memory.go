package storage

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	values  map[string]string
	touched time.Time
}

// MemoryStore keeps sessions in process memory. Sessions idle for longer
// than the TTL are dropped by a janitor goroutine. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its janitor.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.janitor(janitorInterval(ttl))
	return s
}

func janitorInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > time.Minute {
		return time.Minute
	}
	return ttl
}

func (s *MemoryStore) Session(id string) KV {
	return &memoryKV{store: s, id: id}
}

// Close stops the janitor. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

func (s *MemoryStore) janitor(every time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.purgeExpired()
		}
	}
}

func (s *MemoryStore) purgeExpired() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	purged := 0
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

func (s *MemoryStore) expired(sess *memorySession) bool {
	return s.ttl > 0 && sess.touched.Before(s.now().Add(-s.ttl))
}

type memoryKV struct {
	store *MemoryStore
	id    string
}

func (kv *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.store.mu.RLock()
	defer kv.store.mu.RUnlock()

	sess, ok := kv.store.sessions[kv.id]
	if !ok || kv.store.expired(sess) {
		return "", false, nil
	}
	val, ok := sess.values[key]
	return val, ok, nil
}

func (kv *memoryKV) Set(_ context.Context, key, value string) error {
	kv.store.mu.Lock()
	defer kv.store.mu.Unlock()

	sess, ok := kv.store.sessions[kv.id]
	if !ok || kv.store.expired(sess) {
		sess = &memorySession{values: make(map[string]string)}
		kv.store.sessions[kv.id] = sess
	}
	sess.values[key] = value
	sess.touched = kv.store.now()
	return nil
}
