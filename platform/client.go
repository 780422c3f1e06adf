package platform

import (
	"context"
	"time"
)

// MemberMeta is the slice of member metadata the automation core needs from
// the chat platform. CreatedAt is the account creation time as reported by
// the platform, not the join time.
type MemberMeta struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Client is the contract required from the chat-platform collaborator. The
// gateway connection, auth, and wire protocol all live behind this interface;
// the core only issues outbound actions through it.
type Client interface {
	SendChannelMessage(ctx context.Context, channelID, text string) error
	SendDirectMessage(ctx context.Context, userID, text string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	BanMember(ctx context.Context, guildID, userID, reason string) error
	GetMemberMeta(ctx context.Context, guildID, userID string) (*MemberMeta, error)
}

// Mention renders a user mention token for outbound message text.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
