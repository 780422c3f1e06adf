package moderation

// Action is the classification a rule evaluation produces for one event.
// Deliberately a tagged value rather than a boolean: "no action" (Allow) and
// the enforcement actions are distinct variants downstream code cannot
// conflate.
type Action int

const (
	ActionAllow Action = iota
	ActionDeleteMessage
	ActionBanMember
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionDeleteMessage:
		return "delete-message"
	case ActionBanMember:
		return "ban-member"
	default:
		return "unknown"
	}
}

// Verdict is the final output of the pipeline for one event. Verdicts are
// advisory: enacting them (deleting, banning) is the Enforcer's job, via the
// platform client.
type Verdict struct {
	Action Action
	Reason string
}
