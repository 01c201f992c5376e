package usecase

import (
	"context"
	"errors"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/permission"
	"simple-forum/services/moderation/internal/repo"
)

type UserModerationUseCase interface {
	FindBanTicketByUserName(ctx context.Context, userName string) (*entity.BanTicket, entity.ServiceResultCode)
	GetBanTicket(ctx context.Context, targetUserName, actingUserName string) (*entity.BanTicket, entity.ServiceResultCode)
	BanTicketExists(ctx context.Context, userName string) bool
	BanUser(ctx context.Context, targetUserName, actingUserName string, expiry *time.Time, reason string) entity.ServiceResultCode
	RemoveBanTicket(ctx context.Context, targetUserName, actingUserName string) entity.ServiceResultCode
}

type userModerationUseCase struct {
	base
	events EventPublisher
}

func NewUserModerationUseCase(r repo.Repository, users repo.UserDirectory, events EventPublisher, log *logger.Logger) UserModerationUseCase {
	return &userModerationUseCase{
		base:   newBase(r, users, log),
		events: events,
	}
}

// FindBanTicketByUserName returns the ticket whether or not it has expired.
func (uc *userModerationUseCase) FindBanTicketByUserName(ctx context.Context, userName string) (*entity.BanTicket, entity.ServiceResultCode) {
	ticket, err := uc.repo.FindBanTicket(ctx, userName)
	if err != nil {
		return nil, uc.resultOf("FindBanTicketByUserName", err)
	}
	return ticket, entity.ResultSuccess
}

// GetBanTicket is FindBanTicketByUserName for callers that must moderate.
func (uc *userModerationUseCase) GetBanTicket(ctx context.Context, targetUserName, actingUserName string) (*entity.BanTicket, entity.ServiceResultCode) {
	var ticket *entity.BanTicket
	err := uc.moderatorTx(ctx, actingUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		var err error
		ticket, err = r.FindBanTicket(ctx, targetUserName)
		return err
	})
	if err != nil {
		return nil, uc.resultOf("GetBanTicket", err)
	}
	return ticket, entity.ResultSuccess
}

func (uc *userModerationUseCase) BanTicketExists(ctx context.Context, userName string) bool {
	ticket, err := uc.repo.FindBanTicket(ctx, userName)
	if errors.Is(err, entity.ErrNotFound) {
		return false
	}
	if err != nil {
		uc.logger.Error("Failed to check ban for %q: %v", userName, err)
		return false
	}
	return permission.IsCurrentlyBanned(ticket, uc.now())
}

// moderatorTx resolves the acting user, then runs fn in a transaction once
// the moderator check passed against the same snapshot fn writes to.
func (b *base) moderatorTx(ctx context.Context, actingUserName string, fn func(r repo.Repository, actor permission.Actor, now time.Time) error) error {
	actor, err := b.identify(ctx, actingUserName)
	if err != nil {
		return err
	}
	if err := requireIdentity(actor); err != nil {
		return err
	}

	now := b.now()
	return b.repo.Transaction(ctx, func(r repo.Repository) error {
		actor, err := withBan(ctx, r, actor)
		if err != nil {
			return err
		}
		if !permission.CanModerate(actor, now) {
			return fail(entity.ResultUnauthorized)
		}
		return fn(r, actor, now)
	})
}

// BanUser creates the user's ticket or replaces expiry and reason on the
// existing one.
func (uc *userModerationUseCase) BanUser(ctx context.Context, targetUserName, actingUserName string, expiry *time.Time, reason string) entity.ServiceResultCode {
	var ticket *entity.BanTicket
	err := uc.moderatorTx(ctx, actingUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		target, err := uc.users.FindUserByName(ctx, targetUserName)
		if err != nil {
			return err
		}
		if expiry != nil && !expiry.After(now) {
			return fail(entity.ResultInvalidArguments)
		}
		if err := uc.validate.Var(reason, "max=512"); err != nil {
			return err
		}

		ticket = &entity.BanTicket{
			UserName:  target.UserName,
			Expiry:    expiry,
			BannedBy:  actor.UserName,
			Reason:    reason,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return r.UpsertBanTicket(ctx, ticket)
	})

	code := uc.resultOf("BanUser", err)
	if code.IsSuccess() {
		uc.logger.Info("User %s banned by %s (permanent=%t)", ticket.UserName, ticket.BannedBy, ticket.IsPermanent())
		publish(ctx, uc.events, uc.logger, entity.ModerationEvent{
			Action:         entity.ActionUserBanned,
			UserName:       ticket.UserName,
			ActingUserName: ticket.BannedBy,
			OccurredAt:     ticket.UpdatedAt,
		})
	}
	return code
}

func (uc *userModerationUseCase) RemoveBanTicket(ctx context.Context, targetUserName, actingUserName string) entity.ServiceResultCode {
	var lifted time.Time
	err := uc.moderatorTx(ctx, actingUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		lifted = now
		return r.DeleteBanTicket(ctx, targetUserName)
	})

	code := uc.resultOf("RemoveBanTicket", err)
	if code.IsSuccess() {
		uc.logger.Info("Ban on %s lifted by %s", targetUserName, actingUserName)
		publish(ctx, uc.events, uc.logger, entity.ModerationEvent{
			Action:         entity.ActionBanLifted,
			UserName:       targetUserName,
			ActingUserName: actingUserName,
			OccurredAt:     lifted,
		})
	}
	return code
}
