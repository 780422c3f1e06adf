package platform

import (
	"context"
	"fmt"
	"log/slog"
)

// LogClient is a Client which logs outbound actions instead of executing
// them. Used when running the daemon without a gateway attached (local dev,
// dry runs). GetMemberMeta always misses, so callers fall back to whatever
// metadata arrived on the event itself.
type LogClient struct {
	Logger *slog.Logger
}

var _ Client = (*LogClient)(nil)

func (c *LogClient) SendChannelMessage(ctx context.Context, channelID, text string) error {
	c.Logger.Info("outbound channel message", "channel", channelID, "text", text)
	return nil
}

func (c *LogClient) SendDirectMessage(ctx context.Context, userID, text string) error {
	c.Logger.Info("outbound direct message", "user", userID, "text", text)
	return nil
}

func (c *LogClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	c.Logger.Info("outbound message delete", "channel", channelID, "message", messageID)
	return nil
}

func (c *LogClient) BanMember(ctx context.Context, guildID, userID, reason string) error {
	c.Logger.Info("outbound member ban", "guild", guildID, "user", userID, "reason", reason)
	return nil
}

func (c *LogClient) GetMemberMeta(ctx context.Context, guildID, userID string) (*MemberMeta, error) {
	return nil, fmt.Errorf("no gateway attached: member metadata unavailable for %s/%s", guildID, userID)
}
