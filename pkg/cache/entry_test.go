package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntry_IsExpired(t *testing.T) {
	fresh := &Entry{Expires: time.Now().Add(time.Minute)}
	assert.False(t, fresh.IsExpired(), "fresh entry reported expired")

	stale := &Entry{Expires: time.Now().Add(-time.Minute)}
	assert.True(t, stale.IsExpired(), "stale entry reported fresh")
}

func TestEntry_TTL(t *testing.T) {
	entry := &Entry{Expires: time.Now().Add(-time.Second)}
	assert.Zero(t, entry.TTL())

	entry.Expires = time.Now().Add(time.Hour)
	assert.InDelta(t, float64(time.Hour), float64(entry.TTL()), float64(time.Minute))
}

func TestEntry_Age(t *testing.T) {
	entry := &Entry{CachedAt: time.Now().Add(-2 * time.Minute)}
	assert.GreaterOrEqual(t, entry.Age(), 2*time.Minute)
}
