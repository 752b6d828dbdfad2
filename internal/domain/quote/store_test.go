package quote

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	store := NewStore(time.Minute)
	s := newTestSession(t)
	store.Put(s)

	got, ok := store.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get(uuid.New())
	assert.False(t, ok)

	assert.True(t, store.Delete(s.ID))
	assert.False(t, store.Delete(s.ID))
	assert.Equal(t, 0, store.Len())
}

func TestStore_ExpiryAndTouch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(10 * time.Minute)
	store.now = func() time.Time { return now }

	idle, active := newTestSession(t), newTestSession(t)
	store.Put(idle)
	store.Put(active)

	now = now.Add(8 * time.Minute)
	_, ok := store.Get(active.ID)
	require.True(t, ok)

	now = now.Add(5 * time.Minute)
	evicted := store.Evict()
	assert.Equal(t, []uuid.UUID{idle.ID}, evicted)

	_, ok = store.Get(active.ID)
	assert.True(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok = store.Get(active.ID)
	assert.False(t, ok, "expired sessions are dropped on read")
	assert.Equal(t, 0, store.Len())
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	store := NewStore(0)
	store.now = func() time.Time { return now }

	s := newTestSession(t)
	store.Put(s)
	now = now.Add(1000 * time.Hour)

	assert.Empty(t, store.Evict())
	_, ok := store.Get(s.ID)
	assert.True(t, ok)
}

func TestStore_ByCompany(t *testing.T) {
	store := NewStore(time.Minute)
	a, b := newTestSession(t), newTestSession(t)
	store.Put(a)
	store.Put(b)

	assert.Len(t, store.ByCompany("Maison Blanche"), 2)
	assert.Empty(t, store.ByCompany("Other"))
}
