package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellywrapped/internal/models"
)

func testSession() models.Session {
	return models.Session{UserID: "u1", Token: "tok", Username: "alice"}
}

func TestCreateAndGet(t *testing.T) {
	c := NewCache()
	c.Create("jti1", testSession())

	got, ok := c.Get("jti1")
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
	assert.False(t, got.CreatedAt.IsZero(), "creation time is stamped by the cache")
}

func TestGetAbsent(t *testing.T) {
	c := NewCache()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCreateOverwrites(t *testing.T) {
	c := NewCache()
	c.Create("jti1", testSession())

	s := testSession()
	s.Username = "bob"
	c.Create("jti1", s)

	got, ok := c.Get("jti1")
	require.True(t, ok)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, 1, c.Len())
}

func TestGetExpiresLazily(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCacheWithClock(func() time.Time { return now })
	c.Create("jti1", testSession())

	now = now.Add(TTL + time.Minute)

	_, ok := c.Get("jti1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is deleted by the read")

	// A second read must not resurrect it.
	_, ok = c.Get("jti1")
	assert.False(t, ok)
}

func TestGetJustWithinTTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCacheWithClock(func() time.Time { return now })
	c.Create("jti1", testSession())

	now = now.Add(TTL) // exactly TTL old, not yet past it

	_, ok := c.Get("jti1")
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	c := NewCache()
	c.Create("jti1", testSession())

	assert.True(t, c.Delete("jti1"))
	assert.False(t, c.Delete("jti1"), "second delete finds nothing")

	_, ok := c.Get("jti1")
	assert.False(t, ok)
}

func TestSweepEvictsOnlyExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCacheWithClock(func() time.Time { return now })

	c.Create("old", testSession())
	now = now.Add(TTL + time.Minute)
	c.Create("fresh", testSession())

	assert.Equal(t, 1, c.sweep())
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}
