package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[string]*model.User),
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.SlackID]; ok {
		return goerr.Wrap(interfaces.ErrAlreadyExists, "user already exists", goerr.V(model.UserIDKey, user.SlackID))
	}

	userCopy := *user
	r.users[user.SlackID] = &userCopy
	return nil
}

func (r *userRepository) Get(ctx context.Context, slackID string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[slackID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V(model.UserIDKey, slackID))
	}

	userCopy := *user
	return &userCopy, nil
}
