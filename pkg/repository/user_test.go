package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

func runUserRepositoryTest(t *testing.T, newRepo repositoryFactory) {
	t.Helper()

	t.Run("Create and Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		user := &model.User{
			SlackID:   uniqueID("U"),
			Name:      "Alice Example",
			Email:     "alice@example.com",
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}

		gt.NoError(t, repo.User().Create(ctx, user)).Required()

		got, err := repo.User().Get(ctx, user.SlackID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.SlackID).Equal(user.SlackID)
		gt.Value(t, got.Name).Equal(user.Name)
		gt.Value(t, got.Email).Equal(user.Email)
		gt.Bool(t, got.CreatedAt.Equal(user.CreatedAt)).True()
	})

	t.Run("Create with duplicate slack ID fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		user := &model.User{SlackID: uniqueID("U"), Name: "first", CreatedAt: time.Now()}

		gt.NoError(t, repo.User().Create(ctx, user)).Required()

		dup := *user
		dup.Name = "second"
		gt.Error(t, repo.User().Create(ctx, &dup)).Is(interfaces.ErrAlreadyExists)

		got, err := repo.User().Get(ctx, user.SlackID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("first")
	})

	t.Run("Get unknown user returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.User().Get(context.Background(), uniqueID("U"))
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}

func TestUserRepository(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			runUserRepositoryTest(t, factory)
		})
	}
}
