package moderation

import (
	"log/slog"
	"time"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/platform"
)

// Mutable container for the enforcement side-effects rules request while
// processing one event. Collected during rule execution and resolved to a
// single Verdict at the end.
type effects struct {
	deleteMessage bool
	deleteReason  string
	banMember     bool
	banReason     string
}

// verdict resolves accumulated effects. Ban dominates delete dominates allow.
func (e *effects) verdict() Verdict {
	switch {
	case e.banMember:
		return Verdict{Action: ActionBanMember, Reason: e.banReason}
	case e.deleteMessage:
		return Verdict{Action: ActionDeleteMessage, Reason: e.deleteReason}
	default:
		return Verdict{Action: ActionAllow}
	}
}

// MessageContext is the interface exposed to message rules.
type MessageContext struct {
	Logger *slog.Logger
	Event  *gateway.MessageEvent

	effects effects
}

// DeleteMessage enqueues deletion of the event's message, with a reason
// surfaced in logs and admin notifications.
func (c *MessageContext) DeleteMessage(reason string) {
	c.effects.deleteMessage = true
	if c.effects.deleteReason == "" {
		c.effects.deleteReason = reason
	}
}

// JoinContext is the interface exposed to join rules. Now is the evaluation
// time, pinned once per event so age checks are deterministic.
type JoinContext struct {
	Logger *slog.Logger
	Event  *gateway.JoinEvent
	Member platform.MemberMeta
	Now    time.Time

	effects effects
}

// BanMember enqueues a ban of the joining member.
func (c *JoinContext) BanMember(reason string) {
	c.effects.banMember = true
	if c.effects.banReason == "" {
		c.effects.banReason = reason
	}
}
