package interfaces

import (
	"context"

	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

// UserRepository stores installed user profiles.
type UserRepository interface {
	// Create stores user and fails with ErrAlreadyExists on a duplicate SlackID.
	Create(ctx context.Context, user *model.User) error

	// Get returns the user or ErrNotFound.
	Get(ctx context.Context, slackID string) (*model.User, error)
}
