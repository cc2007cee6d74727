package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRegistry(t *testing.T) {
	reg := NewMemoryRegistry()

	assert.False(t, reg.Cancelled("run-1"))

	assert.NoError(t, reg.Cancel("run-1"))
	assert.True(t, reg.Cancelled("run-1"))
	assert.False(t, reg.Cancelled("run-2"))

	assert.NoError(t, reg.Clear("run-1"))
	assert.False(t, reg.Cancelled("run-1"))
}

func TestPredicate(t *testing.T) {
	reg := NewMemoryRegistry()

	p := Predicate(reg, "run-1")
	assert.False(t, p())

	assert.NoError(t, reg.Cancel("run-1"))
	assert.True(t, p())
}

func TestPredicateNeverCancels(t *testing.T) {
	assert.False(t, Predicate(nil, "run-1")())
	assert.False(t, Predicate(NewMemoryRegistry(), "")())
}
