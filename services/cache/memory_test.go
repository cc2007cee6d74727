package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryServiceSetGet(t *testing.T) {
	svc := NewMemoryService()

	err := svc.Set("blocked:https://example.com", []byte("1"), 0)
	assert.NoError(t, err)

	val, err := svc.Get("blocked:https://example.com")
	assert.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
}

func TestMemoryServiceMiss(t *testing.T) {
	svc := NewMemoryService()

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryServiceExpiration(t *testing.T) {
	svc := NewMemoryService()

	err := svc.Set("key", []byte("v"), 10*time.Millisecond)
	assert.NoError(t, err)

	val, err := svc.Get("key")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	time.Sleep(20 * time.Millisecond)

	_, err = svc.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryServiceDelete(t *testing.T) {
	svc := NewMemoryService()

	assert.NoError(t, svc.Set("key", []byte("v"), 0))
	assert.NoError(t, svc.Delete("key"))

	_, err := svc.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
