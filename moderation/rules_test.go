package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/membercache"
	"github.com/blitzboy11/Xsin/platform"
)

func pipelineFixture(t *testing.T) (*Pipeline, *platform.FakeClient) {
	t.Helper()
	client := platform.NewFakeClient()
	p := NewPipeline(nil, DefaultRules(), client, membercache.NewMemCache(100, time.Hour))
	return p, client
}

func TestSpamContentVerdicts(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p, _ := pipelineFixture(t)

	fixtures := []struct {
		text   string
		action Action
	}{
		{"check out http://example.com", ActionDeleteMessage},
		{"HTTPS://EXAMPLE.COM", ActionDeleteMessage},
		{"hey @everyone free stuff", ActionDeleteMessage},
		{"just a normal message", ActionAllow},
		{"everyone come look", ActionAllow},
		{"", ActionAllow},
	}
	for _, fix := range fixtures {
		v, err := p.ProcessMessage(ctx, &gateway.MessageEvent{MessageID: "m1", ChannelID: "c1", AuthorID: "u1", Text: fix.text})
		require.NoError(t, err)
		assert.Equal(fix.action, v.Action, "text: %q", fix.text)
	}
}

func TestRaidAccountVerdicts(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p, _ := pipelineFixture(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	// account created 1 hour ago: ban
	v, err := p.ProcessJoin(ctx, &gateway.JoinEvent{GuildID: "g1", Member: platform.MemberMeta{
		UserID: "u1", DisplayName: "alice", CreatedAt: now.Add(-time.Hour),
	}})
	require.NoError(t, err)
	assert.Equal(ActionBanMember, v.Action)
	assert.Equal("account age/name heuristic", v.Reason)

	// 48 hours old with a 5-character name: allow
	v, err = p.ProcessJoin(ctx, &gateway.JoinEvent{GuildID: "g1", Member: platform.MemberMeta{
		UserID: "u2", DisplayName: "brave", CreatedAt: now.Add(-48 * time.Hour),
	}})
	require.NoError(t, err)
	assert.Equal(ActionAllow, v.Action)

	// old account but two-character name: ban
	v, err = p.ProcessJoin(ctx, &gateway.JoinEvent{GuildID: "g1", Member: platform.MemberMeta{
		UserID: "u3", DisplayName: "xy", CreatedAt: now.Add(-1000 * time.Hour),
	}})
	require.NoError(t, err)
	assert.Equal(ActionBanMember, v.Action)
}

func TestJoinResolvesMemberThroughCacheAndClient(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p, client := pipelineFixture(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	client.AddMember("g1", platform.MemberMeta{
		UserID: "u9", DisplayName: "charlie", CreatedAt: now.Add(-72 * time.Hour),
	})

	// join event carries only the user id; metadata comes from the client
	evt := &gateway.JoinEvent{GuildID: "g1", Member: platform.MemberMeta{UserID: "u9"}}
	v, err := p.ProcessJoin(ctx, evt)
	require.NoError(t, err)
	assert.Equal(ActionAllow, v.Action)

	// second resolve hits the cache even if the client forgets the member
	client.Members.Delete("g1/u9")
	v, err = p.ProcessJoin(ctx, evt)
	require.NoError(t, err)
	assert.Equal(ActionAllow, v.Action)
}
