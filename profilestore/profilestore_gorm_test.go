package profilestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func gormStoreFixture(t *testing.T) *GormProfileStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	s, err := NewGormProfileStore(db)
	require.NoError(t, err)
	return s
}

func TestGormStoreRoundTrip(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := gormStoreFixture(t)

	missing, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(missing)

	require.NoError(t, s.Upsert(ctx, &Profile{UserID: "u1", XP: 120, Level: 1}))
	require.NoError(t, s.Upsert(ctx, &Profile{UserID: "u1", XP: 130, Level: 1}))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(int64(130), got.XP)
}

func TestGormStoreUpdate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := gormStoreFixture(t)

	// creation path
	p, err := s.Update(ctx, "u1", func(p *Profile, found bool) error {
		assert.False(found)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(int64(0), p.XP)
	assert.Equal(int64(1), p.Level)

	// mutation path commits both fields together
	p, err = s.Update(ctx, "u1", func(p *Profile, found bool) error {
		assert.True(found)
		p.XP = 200
		p.Level = 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(int64(200), p.XP)

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(int64(200), got.XP)
	assert.Equal(int64(2), got.Level)
}
