package entity

import "time"

type ModerationAction string

const (
	ActionPostHidden      ModerationAction = "post.hidden"
	ActionPostUnhidden    ModerationAction = "post.unhidden"
	ActionPostReported    ModerationAction = "post.reported"
	ActionReportDismissed ModerationAction = "post.report_dismissed"
	ActionPostDeleted     ModerationAction = "post.deleted"
	ActionPostRestored    ModerationAction = "post.restored"
	ActionPostPurged      ModerationAction = "post.purged"
	ActionUserBanned      ModerationAction = "user.banned"
	ActionBanLifted       ModerationAction = "user.ban_lifted"
)

// ModerationEvent is published after a moderation change commits.
type ModerationEvent struct {
	Action         ModerationAction `json:"action"`
	Post           *PostRef         `json:"post,omitempty"`
	UserName       string           `json:"user_name,omitempty"`
	ActingUserName string           `json:"acting_user_name,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}
