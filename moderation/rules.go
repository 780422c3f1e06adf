package moderation

import (
	"strings"
	"time"
)

type MessageRuleFunc func(c *MessageContext) error
type JoinRuleFunc func(c *JoinContext) error

// Holds configuration of which rules should be run, and helps dispatch
// events to those rules. Rules within a set run in order; later rules still
// run after an earlier one has requested an action.
type RuleSet struct {
	MessageRules []MessageRuleFunc
	JoinRules    []JoinRuleFunc
}

func DefaultRules() RuleSet {
	return RuleSet{
		MessageRules: []MessageRuleFunc{
			SpamContentMessageRule,
		},
		JoinRules: []JoinRuleFunc{
			RaidAccountJoinRule,
		},
	}
}

var (
	minAccountAge     = 24 * time.Hour
	minDisplayNameLen = 3
)

// RaidAccountJoinRule flags likely raid accounts at join time: accounts
// created within the last day, or with an implausibly short display name.
// Either condition alone triggers the ban; this is not a scored model.
func RaidAccountJoinRule(c *JoinContext) error {
	tooNew := c.Now.Sub(c.Member.CreatedAt) < minAccountAge
	tooShort := len(c.Member.DisplayName) < minDisplayNameLen
	if tooNew || tooShort {
		c.Logger.Info("raid heuristic matched", "accountCreated", c.Member.CreatedAt, "displayName", c.Member.DisplayName)
		c.BanMember("account age/name heuristic")
	}
	return nil
}

// SpamContentMessageRule flags messages carrying a URL (any "http"
// substring, case-insensitive) or a literal @everyone mention. Content
// matching only: rate or repetition heuristics are intentionally not part of
// this rule.
func SpamContentMessageRule(c *MessageContext) error {
	if strings.Contains(strings.ToLower(c.Event.Text), "http") || strings.Contains(c.Event.Text, "@everyone") {
		c.DeleteMessage("spam content")
	}
	return nil
}
