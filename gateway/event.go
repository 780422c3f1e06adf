package gateway

import (
	"github.com/blitzboy11/Xsin/platform"
)

// MessageEvent is a single authored message as delivered by the platform
// gateway. Immutable once dispatched.
type MessageEvent struct {
	MessageID   string
	GuildID     string
	ChannelID   string
	AuthorID    string
	AuthorIsBot bool
	Text        string
}

// JoinEvent is a member joining a guild. Member metadata may be partial
// (some gateways omit CreatedAt); consumers resolve the rest through the
// member cache.
type JoinEvent struct {
	GuildID string
	Member  platform.MemberMeta
}
