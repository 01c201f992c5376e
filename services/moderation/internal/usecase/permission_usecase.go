package usecase

import (
	"context"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/permission"
	"simple-forum/services/moderation/internal/repo"
)

// PermissionUseCase answers permission questions for callers that render
// content. Lookup failures deny.
type PermissionUseCase interface {
	IsAllowedToCreatePost(ctx context.Context, userName string) bool
	IsAllowedToUpdateOrDeletePost(ctx context.Context, userName string, isHiddenOrReported bool, authorUserName string) bool
	AnnotatePosts(ctx context.Context, userName string, posts []PostPermissionInput) map[string]bool
}

type permissionUseCase struct {
	base
}

func NewPermissionUseCase(r repo.Repository, users repo.UserDirectory, log *logger.Logger) PermissionUseCase {
	return &permissionUseCase{base: newBase(r, users, log)}
}

func (uc *permissionUseCase) actor(ctx context.Context, userName string) (permission.Actor, bool) {
	actor, err := uc.resolve(ctx, userName)
	if err != nil {
		uc.logger.Error("Permission check for %q denied: %v", userName, err)
		return permission.Actor{}, false
	}
	return actor, true
}

func (uc *permissionUseCase) IsAllowedToCreatePost(ctx context.Context, userName string) bool {
	actor, ok := uc.actor(ctx, userName)
	if !ok {
		return false
	}
	return permission.CanCreatePost(actor, uc.now())
}

func (uc *permissionUseCase) IsAllowedToUpdateOrDeletePost(ctx context.Context, userName string, isHiddenOrReported bool, authorUserName string) bool {
	actor, ok := uc.actor(ctx, userName)
	if !ok {
		return false
	}
	target := permission.Target{AuthorUserName: authorUserName, HiddenOrReported: isHiddenOrReported}
	return permission.CanUpdateOrDeletePost(actor, target, uc.now())
}

// AnnotatePosts resolves the actor once for the whole list.
func (uc *permissionUseCase) AnnotatePosts(ctx context.Context, userName string, posts []PostPermissionInput) map[string]bool {
	actor, ok := uc.actor(ctx, userName)
	if !ok {
		result := make(map[string]bool, len(posts))
		for _, p := range posts {
			result[p.PostID] = false
		}
		return result
	}
	return permission.CanUpdateOrDeletePosts(actor, batchTargets(posts), uc.now())
}

func batchTargets(posts []PostPermissionInput) []permission.BatchTarget {
	targets := make([]permission.BatchTarget, len(posts))
	for i, p := range posts {
		targets[i] = permission.BatchTarget{
			PostID: p.PostID,
			Target: permission.Target{AuthorUserName: p.AuthorUserName, HiddenOrReported: p.HiddenOrReported},
		}
	}
	return targets
}
