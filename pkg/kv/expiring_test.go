package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetDelete(t *testing.T) {
	assert := assert.New(t)
	store := NewInMemory(time.Minute)

	_, ok := store.Get("missing")
	assert.False(ok)

	store.Set("code:someone@example.com", "12345678", time.Minute)
	v, ok := store.Get("code:someone@example.com")
	assert.True(ok)
	assert.Equal("12345678", v)

	store.Delete("code:someone@example.com")
	_, ok = store.Get("code:someone@example.com")
	assert.False(ok)
}

func TestEntriesExpire(t *testing.T) {
	assert := assert.New(t)
	store := NewInMemory(time.Minute)
	store.Set("short", "x", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	_, ok := store.Get("short")
	assert.False(ok)
}
