/*
Package kv provides an expiring key-value store for ephemeral
keyed state such as one-time sign-in codes.

The in-memory implementation is process local; multi-instance
deployments can swap in a shared cache behind the same interface.
*/
package kv

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Expiring is a key-value store whose entries vanish after their TTL
type Expiring interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration)
	Delete(key string)
}

type memory struct {
	c *gocache.Cache
}

// NewInMemory returns a go-cache backed Expiring store
func NewInMemory(defaultTTL time.Duration) Expiring {
	return &memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *memory) Get(key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

func (m *memory) Set(key string, value string, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}

func (m *memory) Delete(key string) {
	m.c.Delete(key)
}
