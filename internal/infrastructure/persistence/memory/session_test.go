package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Blacklist(t *testing.T) {
	s := NewSessionStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.AddToBlacklist(ctx, "tok", time.Minute))
	in, err := s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, in)

	now = now.Add(2 * time.Minute)
	in, err = s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, in)

	require.NoError(t, s.AddToBlacklist(ctx, "expired", 0))
	in, _ = s.IsInBlacklist(ctx, "expired")
	assert.False(t, in)
}

func TestSessionStore_Sessions(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, 1, map[string]interface{}{"username": "ana"}, time.Hour))
	assert.Len(t, s.sessions, 1)
	require.NoError(t, s.DeleteSession(ctx, 1))
	assert.Empty(t, s.sessions)
}
