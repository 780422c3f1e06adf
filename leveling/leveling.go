// Package leveling grants xp for authored messages and announces level-ups.
package leveling

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/platform"
	"github.com/blitzboy11/Xsin/profilestore"
)

const (
	minXPDelta = 5
	maxXPDelta = 15
)

// Outcome of processing one message for one user.
type Outcome struct {
	LeveledUp bool
	NewLevel  int64
	GrantedXP int64
}

type Engine struct {
	Logger   *slog.Logger
	Profiles profilestore.ProfileStore
	Client   platform.Client

	// XPDelta draws the xp granted for one message. Defaults to uniform
	// [5,15]; tests pin it.
	XPDelta func() int64
}

func NewEngine(logger *slog.Logger, profiles profilestore.ProfileStore, client platform.Client) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Logger:   logger,
		Profiles: profiles,
		Client:   client,
		XPDelta: func() int64 {
			return minXPDelta + rand.Int64N(maxXPDelta-minXPDelta+1)
		},
	}
}

// OnMessage applies the leveling transaction for one authored message.
// A user's very first message creates the profile (xp=0, level=1) and grants
// nothing; every later message grants a delta and re-derives the level.
// The whole read-modify-write is atomic per user via the profile store.
func (e *Engine) OnMessage(ctx context.Context, userID string) (Outcome, error) {
	var out Outcome
	_, err := e.Profiles.Update(ctx, userID, func(p *profilestore.Profile, found bool) error {
		out = Outcome{}
		if !found {
			// first observed message: establish the baseline, no xp yet
			return nil
		}
		delta := e.XPDelta()
		newXP := p.XP + delta
		newLevel := newXP / profilestore.XPPerLevel
		if newLevel > p.Level {
			p.Level = newLevel
			out.LeveledUp = true
			out.NewLevel = newLevel
		}
		p.XP = newXP
		out.GrantedXP = delta
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	if out.LeveledUp {
		levelUpCount.Inc()
	}
	return out, nil
}

// Rank returns the user's profile for the rank query, nil when the user has
// never chatted.
func (e *Engine) Rank(ctx context.Context, userID string) (*profilestore.Profile, error) {
	return e.Profiles.Get(ctx, userID)
}

// FormatRank renders the rank reply for a profile lookup.
func FormatRank(userID string, p *profilestore.Profile) string {
	if p == nil {
		return "No data found for you. Start chatting to earn XP!"
	}
	return fmt.Sprintf("%s, you are at level %d with %d XP.", platform.Mention(userID), p.Level, p.XP)
}

// HandleMessage is registered on the dispatcher for message events. A failed
// level-up announcement is logged and dropped; the xp grant already
// committed.
func (e *Engine) HandleMessage(ctx context.Context, evt *gateway.MessageEvent) error {
	out, err := e.OnMessage(ctx, evt.AuthorID)
	if err != nil {
		return fmt.Errorf("leveling update for %s: %w", evt.AuthorID, err)
	}
	if !out.LeveledUp {
		return nil
	}
	msg := fmt.Sprintf("Congratulations %s, you've leveled up to level %d!", platform.Mention(evt.AuthorID), out.NewLevel)
	if err := e.Client.SendChannelMessage(ctx, evt.ChannelID, msg); err != nil {
		e.Logger.Warn("level-up announcement failed", "channel", evt.ChannelID, "user", evt.AuthorID, "err", err)
	}
	return nil
}
