package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

// UserUseCase manages installed user profiles
type UserUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

// NewUserUseCase creates a new UserUseCase instance
func NewUserUseCase(repo interfaces.Repository, now func() time.Time) *UserUseCase {
	return &UserUseCase{repo: repo, now: now}
}

// CreateUserInput is the profile submitted by a client
type CreateUserInput struct {
	SlackID string
	Name    string
	Email   string
}

// Create stores a new user. A duplicate Slack ID fails with
// interfaces.ErrAlreadyExists.
func (uc *UserUseCase) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	user := &model.User{
		SlackID:   input.SlackID,
		Name:      input.Name,
		Email:     input.Email,
		CreatedAt: uc.now(),
	}
	if err := user.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	if err := uc.repo.User().Create(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V(model.UserIDKey, user.SlackID))
	}
	return user, nil
}

// Get returns the user or interfaces.ErrNotFound
func (uc *UserUseCase) Get(ctx context.Context, slackID string) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, slackID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, slackID))
	}
	return user, nil
}
