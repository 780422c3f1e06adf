package membercache

import (
	"context"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"

	"github.com/blitzboy11/Xsin/platform"
)

type RedisCache struct {
	Data *cache.Cache
	TTL  time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	ctx := context.Background()
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	data := cache.New(&cache.Options{
		Redis:      rdb,
		LocalCache: cache.NewTinyLFU(10_000, ttl),
	})
	return &RedisCache{
		Data: data,
		TTL:  ttl,
	}, nil
}

func redisCacheKey(guildID, userID string) string {
	return "member/" + cacheKey(guildID, userID)
}

func (c *RedisCache) Get(ctx context.Context, guildID, userID string) (*platform.MemberMeta, error) {
	var meta platform.MemberMeta
	err := c.Data.Get(ctx, redisCacheKey(guildID, userID), &meta)
	if err == cache.ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *RedisCache) Set(ctx context.Context, guildID, userID string, meta platform.MemberMeta) error {
	return c.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   redisCacheKey(guildID, userID),
		Value: meta,
		TTL:   c.TTL,
	})
}

func (c *RedisCache) Purge(ctx context.Context, guildID, userID string) error {
	err := c.Data.Delete(ctx, redisCacheKey(guildID, userID))
	if err == cache.ErrCacheMiss {
		return nil
	}
	return err
}
