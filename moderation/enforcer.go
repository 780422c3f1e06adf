package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/platform"
)

// VerdictNotifier receives enacted (non-allow) verdicts, eg an admin
// webhook. Best-effort; failures are logged, not propagated.
type VerdictNotifier interface {
	SendVerdict(ctx context.Context, subject string, v Verdict) error
}

// Enforcer bridges the pipeline to the dispatcher: it classifies each event
// and enacts the resulting verdict through the platform client.
type Enforcer struct {
	Logger   *slog.Logger
	Pipeline *Pipeline
	Client   platform.Client
	Notifier VerdictNotifier

	// When set, members who pass the join rules get a welcome message in
	// this channel. A banned joiner is never welcomed.
	WelcomeChannelID string
}

// HandleMessage is registered on the dispatcher for message events.
func (e *Enforcer) HandleMessage(ctx context.Context, evt *gateway.MessageEvent) error {
	verdict, err := e.Pipeline.ProcessMessage(ctx, evt)
	if err != nil {
		return err
	}
	if verdict.Action != ActionDeleteMessage {
		return nil
	}
	if err := e.Client.DeleteMessage(ctx, evt.ChannelID, evt.MessageID); err != nil {
		return fmt.Errorf("deleting message %s: %w", evt.MessageID, err)
	}
	reply := fmt.Sprintf("%s, spam detected!", platform.Mention(evt.AuthorID))
	if err := e.Client.SendChannelMessage(ctx, evt.ChannelID, reply); err != nil {
		// the deletion already landed; the public notice is best-effort
		e.Logger.Warn("spam notice delivery failed", "channel", evt.ChannelID, "author", evt.AuthorID, "err", err)
	}
	e.notify(ctx, fmt.Sprintf("message %s by %s in %s", evt.MessageID, evt.AuthorID, evt.ChannelID), verdict)
	return nil
}

// HandleJoin is registered on the dispatcher for member-join events.
func (e *Enforcer) HandleJoin(ctx context.Context, evt *gateway.JoinEvent) error {
	verdict, err := e.Pipeline.ProcessJoin(ctx, evt)
	if err != nil {
		return err
	}
	switch verdict.Action {
	case ActionBanMember:
		if err := e.Client.BanMember(ctx, evt.GuildID, evt.Member.UserID, verdict.Reason); err != nil {
			return fmt.Errorf("banning member %s: %w", evt.Member.UserID, err)
		}
		e.notify(ctx, fmt.Sprintf("member %s joining %s", evt.Member.UserID, evt.GuildID), verdict)
	case ActionAllow:
		if e.WelcomeChannelID != "" {
			msg := fmt.Sprintf("Welcome to the server, %s!", platform.Mention(evt.Member.UserID))
			if err := e.Client.SendChannelMessage(ctx, e.WelcomeChannelID, msg); err != nil {
				e.Logger.Warn("welcome message delivery failed", "guild", evt.GuildID, "user", evt.Member.UserID, "err", err)
			}
		}
	}
	return nil
}

func (e *Enforcer) notify(ctx context.Context, subject string, v Verdict) {
	if e.Notifier == nil {
		return
	}
	if err := e.Notifier.SendVerdict(ctx, subject, v); err != nil {
		e.Logger.Warn("verdict notification failed", "subject", subject, "err", err)
	}
}
