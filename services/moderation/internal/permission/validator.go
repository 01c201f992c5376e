// Package permission decides who may create, edit, delete and moderate
// content. Nothing here performs I/O; callers resolve the actor and target
// first and pass the clock in.
package permission

import (
	"time"

	"simple-forum/services/moderation/internal/entity"
)

// Actor is the acting user as resolved for a single request. An empty
// UserName means no identity is present.
type Actor struct {
	UserName string
	Roles    []entity.Role
	Ban      *entity.BanTicket
}

func (a Actor) IsAuthenticated() bool {
	return a.UserName != ""
}

func (a Actor) IsModerator() bool {
	for _, r := range a.Roles {
		if r == entity.RoleModerator || r == entity.RoleAdmin {
			return true
		}
	}
	return false
}

// Target is the slice of post state the ownership rules look at.
type Target struct {
	AuthorUserName   string
	HiddenOrReported bool
}

func TargetOf(p *entity.Post) Target {
	return Target{AuthorUserName: p.AuthorUserName, HiddenOrReported: p.IsHiddenOrReported()}
}

type BatchTarget struct {
	PostID string
	Target
}

// IsCurrentlyBanned is the only place ban expiry is compared. An expiry equal
// to now has already passed.
func IsCurrentlyBanned(ticket *entity.BanTicket, now time.Time) bool {
	if ticket == nil {
		return false
	}
	return ticket.Expiry == nil || ticket.Expiry.After(now)
}

func CanCreatePost(a Actor, now time.Time) bool {
	if IsCurrentlyBanned(a.Ban, now) {
		return false
	}
	return a.IsAuthenticated()
}

// CanUpdateOrDeletePost covers self-service edits. Moderator roles do not
// widen it; a moderator acts through the moderation operations instead.
func CanUpdateOrDeletePost(a Actor, t Target, now time.Time) bool {
	if IsCurrentlyBanned(a.Ban, now) {
		return false
	}
	if !a.IsAuthenticated() {
		return false
	}
	// a dangling author matches nobody
	if t.AuthorUserName == "" {
		return false
	}
	return t.AuthorUserName == a.UserName && !t.HiddenOrReported
}

// CanUpdateOrDeletePosts evaluates CanUpdateOrDeletePost for a list view.
func CanUpdateOrDeletePosts(a Actor, targets []BatchTarget, now time.Time) map[string]bool {
	result := make(map[string]bool, len(targets))
	for _, t := range targets {
		result[t.PostID] = CanUpdateOrDeletePost(a, t.Target, now)
	}
	return result
}

// CanModerate gates hide/unhide, forcible delete, restore, report dismissal
// and ban issue/lift. Ownership is irrelevant; a ban still applies.
func CanModerate(a Actor, now time.Time) bool {
	if IsCurrentlyBanned(a.Ban, now) {
		return false
	}
	return a.IsAuthenticated() && a.IsModerator()
}

func CanReport(a Actor, now time.Time) bool {
	return CanCreatePost(a, now)
}

// CanView decides whether a hidden post is shown. Visible and reported posts
// are shown to everyone.
func CanView(a Actor, p *entity.Post) bool {
	if !p.IsHidden() {
		return true
	}
	if a.IsModerator() {
		return true
	}
	return a.IsAuthenticated() && p.AuthorUserName == a.UserName
}
