// Package membercache caches member metadata (account creation time,
// display name) in front of the platform client, so join-time heuristics
// and repeated lookups don't turn into API calls.
package membercache

import (
	"context"

	"github.com/blitzboy11/Xsin/platform"
)

type Cache interface {
	// Get returns nil (no error) on a cache miss.
	Get(ctx context.Context, guildID, userID string) (*platform.MemberMeta, error)
	Set(ctx context.Context, guildID, userID string, meta platform.MemberMeta) error
	Purge(ctx context.Context, guildID, userID string) error
}

func cacheKey(guildID, userID string) string {
	return guildID + "/" + userID
}
