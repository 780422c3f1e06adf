package membercache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/blitzboy11/Xsin/platform"
)

type MemCache struct {
	Data *expirable.LRU[string, platform.MemberMeta]
}

var _ Cache = MemCache{}

func NewMemCache(capacity int, ttl time.Duration) MemCache {
	return MemCache{
		Data: expirable.NewLRU[string, platform.MemberMeta](capacity, nil, ttl),
	}
}

func (c MemCache) Get(ctx context.Context, guildID, userID string) (*platform.MemberMeta, error) {
	meta, ok := c.Data.Get(cacheKey(guildID, userID))
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

func (c MemCache) Set(ctx context.Context, guildID, userID string, meta platform.MemberMeta) error {
	c.Data.Add(cacheKey(guildID, userID), meta)
	return nil
}

func (c MemCache) Purge(ctx context.Context, guildID, userID string) error {
	c.Data.Remove(cacheKey(guildID, userID))
	return nil
}
