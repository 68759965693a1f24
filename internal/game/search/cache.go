package search

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// Cache is a concurrent map split into shards by key hash.
type Cache[T any] struct {
	shards [shardCount]cacheShard[T]
}

type cacheShard[T any] struct {
	mu sync.RWMutex
	m  map[string]T
}

// NewCache creates an empty cache.
func NewCache[T any]() *Cache[T] {
	c := &Cache[T]{}
	for i := range c.shards {
		c.shards[i].m = make(map[string]T)
	}
	return c
}

func (c *Cache[T]) shard(key string) *cacheShard[T] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &c.shards[h.Sum32()%shardCount]
}

// Get returns the value stored under key.
func (c *Cache[T]) Get(key string) (T, bool) {
	s := c.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Put stores v under key unless the key is already present.
// It returns true if v was stored.
func (c *Cache[T]) Put(key string, v T) bool {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; ok {
		return false
	}
	s.m[key] = v
	return true
}

// Len returns the number of entries.
func (c *Cache[T]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}
