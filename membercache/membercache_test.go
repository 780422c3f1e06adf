package membercache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blitzboy11/Xsin/platform"
)

func TestMemCacheBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c := NewMemCache(10, time.Hour)

	missing, err := c.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Nil(missing)

	meta := platform.MemberMeta{UserID: "u1", DisplayName: "alice", CreatedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, c.Set(ctx, "g1", "u1", meta))

	got, err := c.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal("alice", got.DisplayName)

	// same user in another guild is a different entry
	other, err := c.Get(ctx, "g2", "u1")
	require.NoError(t, err)
	assert.Nil(other)

	require.NoError(t, c.Purge(ctx, "g1", "u1"))
	gone, err := c.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Nil(gone)
}

func TestMemCacheExpiry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c := NewMemCache(10, 20*time.Millisecond)

	require.NoError(t, c.Set(ctx, "g1", "u1", platform.MemberMeta{UserID: "u1", DisplayName: "bob"}))
	time.Sleep(50 * time.Millisecond)

	got, err := c.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Nil(got)
}
