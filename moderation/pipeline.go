package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/membercache"
	"github.com/blitzboy11/Xsin/platform"
)

// Pipeline classifies events into verdicts. It has no enforcement authority
// of its own; see Enforcer.
//
// Classification is deterministic for a given event and member metadata:
// the rules are pure content/metadata checks, with the evaluation time
// pinned once per event.
type Pipeline struct {
	Logger  *slog.Logger
	Rules   RuleSet
	Client  platform.Client
	Members membercache.Cache

	// overridden in tests
	now func() time.Time
}

func NewPipeline(logger *slog.Logger, rules RuleSet, client platform.Client, members membercache.Cache) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Logger:  logger,
		Rules:   rules,
		Client:  client,
		Members: members,
		now:     time.Now,
	}
}

func (p *Pipeline) ProcessMessage(ctx context.Context, evt *gateway.MessageEvent) (Verdict, error) {
	c := &MessageContext{
		Logger: p.Logger.With("channel", evt.ChannelID, "author", evt.AuthorID),
		Event:  evt,
	}
	for _, f := range p.Rules.MessageRules {
		if err := f(c); err != nil {
			return Verdict{Action: ActionAllow}, err
		}
	}
	v := c.effects.verdict()
	verdictCount.WithLabelValues("message", v.Action.String()).Inc()
	return v, nil
}

func (p *Pipeline) ProcessJoin(ctx context.Context, evt *gateway.JoinEvent) (Verdict, error) {
	member, err := p.resolveMember(ctx, evt)
	if err != nil {
		return Verdict{Action: ActionAllow}, fmt.Errorf("resolving member metadata: %w", err)
	}
	c := &JoinContext{
		Logger: p.Logger.With("guild", evt.GuildID, "user", member.UserID),
		Event:  evt,
		Member: member,
		Now:    p.now(),
	}
	for _, f := range p.Rules.JoinRules {
		if err := f(c); err != nil {
			return Verdict{Action: ActionAllow}, err
		}
	}
	v := c.effects.verdict()
	verdictCount.WithLabelValues("join", v.Action.String()).Inc()
	return v, nil
}

// resolveMember fills in member metadata the join event did not carry.
// Reads go through the member cache so repeated joins (and other consumers)
// don't hammer the platform API.
func (p *Pipeline) resolveMember(ctx context.Context, evt *gateway.JoinEvent) (platform.MemberMeta, error) {
	if !evt.Member.CreatedAt.IsZero() {
		if p.Members != nil {
			if err := p.Members.Set(ctx, evt.GuildID, evt.Member.UserID, evt.Member); err != nil {
				p.Logger.Warn("member cache write failed", "guild", evt.GuildID, "user", evt.Member.UserID, "err", err)
			}
		}
		return evt.Member, nil
	}
	if p.Members != nil {
		cached, err := p.Members.Get(ctx, evt.GuildID, evt.Member.UserID)
		if err != nil {
			p.Logger.Warn("member cache read failed", "guild", evt.GuildID, "user", evt.Member.UserID, "err", err)
		} else if cached != nil {
			return *cached, nil
		}
	}
	meta, err := p.Client.GetMemberMeta(ctx, evt.GuildID, evt.Member.UserID)
	if err != nil {
		return platform.MemberMeta{}, err
	}
	if p.Members != nil {
		if err := p.Members.Set(ctx, evt.GuildID, meta.UserID, *meta); err != nil {
			p.Logger.Warn("member cache write failed", "guild", evt.GuildID, "user", meta.UserID, "err", err)
		}
	}
	return *meta, nil
}
