package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userRepository struct {
	collection *firestore.CollectionRef
}

// userDoc is the Firestore persistence model
type userDoc struct {
	SlackID   string    `firestore:"slack_id"`
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}

	_, err := r.collection.Doc(user.SlackID).Create(ctx, &userDoc{
		SlackID:   user.SlackID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if status.Code(err) == codes.AlreadyExists {
		return goerr.Wrap(interfaces.ErrAlreadyExists, "user already exists", goerr.V(model.UserIDKey, user.SlackID))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to create user", goerr.V(model.UserIDKey, user.SlackID))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, slackID string) (*model.User, error) {
	doc, err := r.collection.Doc(slackID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V(model.UserIDKey, slackID))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, slackID))
	}

	var u userDoc
	if err := doc.DataTo(&u); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V(model.UserIDKey, slackID))
	}

	return &model.User{
		SlackID:   u.SlackID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}, nil
}
