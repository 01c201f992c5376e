package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/permission"
	"simple-forum/services/moderation/internal/repo"

	"github.com/go-playground/validator/v10"
)

// resultError aborts a transaction with a ready result code.
type resultError struct {
	code entity.ServiceResultCode
}

func (e *resultError) Error() string {
	return e.code.String()
}

func fail(code entity.ServiceResultCode) error {
	return &resultError{code: code}
}

// base carries the collaborators every usecase needs.
type base struct {
	repo     repo.Repository
	users    repo.UserDirectory
	logger   *logger.Logger
	validate *validator.Validate
	nowFn    func() time.Time
}

func newBase(r repo.Repository, users repo.UserDirectory, log *logger.Logger) base {
	return base{
		repo:     r,
		users:    users,
		logger:   log,
		validate: validator.New(),
		nowFn:    time.Now,
	}
}

func (b *base) now() time.Time {
	return b.nowFn().UTC()
}

// identify resolves a user name against the identity directory. Unknown
// names resolve to the anonymous actor.
func (b *base) identify(ctx context.Context, userName string) (permission.Actor, error) {
	if userName == "" {
		return permission.Actor{}, nil
	}
	user, err := b.users.FindUserByName(ctx, userName)
	if errors.Is(err, entity.ErrNotFound) {
		return permission.Actor{}, nil
	}
	if err != nil {
		return permission.Actor{}, fmt.Errorf("failed to look up user %q: %w", userName, err)
	}
	return permission.Actor{UserName: user.UserName, Roles: user.Roles}, nil
}

// withBan attaches the actor's ban ticket as seen by r. Inside a
// transaction this is the snapshot the following write is checked against.
func withBan(ctx context.Context, r repo.Repository, a permission.Actor) (permission.Actor, error) {
	if !a.IsAuthenticated() {
		return a, nil
	}
	ticket, err := r.FindBanTicket(ctx, a.UserName)
	if errors.Is(err, entity.ErrNotFound) {
		return a, nil
	}
	if err != nil {
		return a, fmt.Errorf("failed to load ban ticket: %w", err)
	}
	a.Ban = ticket
	return a, nil
}

// resolve is identify followed by withBan against the non-transactional repo.
func (b *base) resolve(ctx context.Context, userName string) (permission.Actor, error) {
	actor, err := b.identify(ctx, userName)
	if err != nil {
		return actor, err
	}
	return withBan(ctx, b.repo, actor)
}

// resultOf turns the error of one operation into its result code. Only
// infrastructure failures are logged as errors.
func (b *base) resultOf(op string, err error) entity.ServiceResultCode {
	if err == nil {
		return entity.ResultSuccess
	}

	var re *resultError
	if errors.As(err, &re) {
		return re.code
	}

	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		return entity.ResultInvalidArguments
	case errors.Is(err, entity.ErrNotFound):
		return entity.ResultNotFound
	case errors.Is(err, entity.ErrInvalidTransition):
		return entity.ResultInvalidState
	case errors.Is(err, entity.ErrConcurrentUpdate):
		b.logger.Warn("%s: lost update race: %v", op, err)
		return entity.ResultInvalidState
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		b.logger.Warn("%s: %v", op, err)
		return entity.ResultError
	}

	b.logger.Error("%s failed: %v", op, err)
	return entity.ResultError
}

// requireIdentity maps the anonymous actor to Unauthenticated.
func requireIdentity(a permission.Actor) error {
	if !a.IsAuthenticated() {
		return fail(entity.ResultUnauthenticated)
	}
	return nil
}

func publish(ctx context.Context, events EventPublisher, log *logger.Logger, event entity.ModerationEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish moderation event %s: %v", event.Action, err)
	}
}
