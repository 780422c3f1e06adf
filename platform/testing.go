package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// ChannelMessage records one outbound channel send on a FakeClient.
type ChannelMessage struct {
	ChannelID string
	Text      string
}

// DirectMessage records one outbound DM on a FakeClient.
type DirectMessage struct {
	UserID string
	Text   string
}

// BanAction records one ban on a FakeClient.
type BanAction struct {
	GuildID string
	UserID  string
	Reason  string
}

// DeleteAction records one message deletion on a FakeClient.
type DeleteAction struct {
	ChannelID string
	MessageID string
}

// FakeClient is an in-memory Client for tests. Safe for concurrent use.
// Intentionally exported, for use in other packages.
type FakeClient struct {
	Members *xsync.MapOf[string, MemberMeta]

	// When set, the corresponding call fails with this error.
	FailDirectMessages  error
	FailChannelMessages error

	mu      sync.Mutex
	channel []ChannelMessage
	direct  []DirectMessage
	bans    []BanAction
	deletes []DeleteAction
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Members: xsync.NewMapOf[string, MemberMeta](),
	}
}

func memberKey(guildID, userID string) string {
	return guildID + "/" + userID
}

// AddMember registers member metadata for GetMemberMeta lookups.
func (c *FakeClient) AddMember(guildID string, meta MemberMeta) {
	c.Members.Store(memberKey(guildID, meta.UserID), meta)
}

func (c *FakeClient) SendChannelMessage(ctx context.Context, channelID, text string) error {
	if c.FailChannelMessages != nil {
		return c.FailChannelMessages
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = append(c.channel, ChannelMessage{ChannelID: channelID, Text: text})
	return nil
}

func (c *FakeClient) SendDirectMessage(ctx context.Context, userID, text string) error {
	if c.FailDirectMessages != nil {
		return c.FailDirectMessages
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.direct = append(c.direct, DirectMessage{UserID: userID, Text: text})
	return nil
}

func (c *FakeClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, DeleteAction{ChannelID: channelID, MessageID: messageID})
	return nil
}

func (c *FakeClient) BanMember(ctx context.Context, guildID, userID, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bans = append(c.bans, BanAction{GuildID: guildID, UserID: userID, Reason: reason})
	return nil
}

func (c *FakeClient) GetMemberMeta(ctx context.Context, guildID, userID string) (*MemberMeta, error) {
	meta, ok := c.Members.Load(memberKey(guildID, userID))
	if !ok {
		return nil, fmt.Errorf("unknown member: %s", memberKey(guildID, userID))
	}
	return &meta, nil
}

func (c *FakeClient) ChannelMessages() []ChannelMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChannelMessage, len(c.channel))
	copy(out, c.channel)
	return out
}

func (c *FakeClient) DirectMessages() []DirectMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]DirectMessage, len(c.direct))
	copy(out, c.direct)
	return out
}

func (c *FakeClient) Bans() []BanAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]BanAction, len(c.bans))
	copy(out, c.bans)
	return out
}

func (c *FakeClient) Deletes() []DeleteAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]DeleteAction, len(c.deletes))
	copy(out, c.deletes)
	return out
}
