package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/repository/memory"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
)

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New(), usecase.WithClock(clock))

	user, err := uc.User.Create(ctx, usecase.CreateUserInput{
		SlackID: "U1",
		Name:    "Alice",
		Email:   "alice@example.com",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, user.CreatedAt).Equal(fixedNow)

	t.Run("get returns created user", func(t *testing.T) {
		got, err := uc.User.Get(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Alice")
		gt.Value(t, got.Email).Equal("alice@example.com")
	})

	t.Run("duplicate is rejected", func(t *testing.T) {
		_, err := uc.User.Create(ctx, usecase.CreateUserInput{SlackID: "U1", Name: "Other"})
		gt.Error(t, err).Is(interfaces.ErrAlreadyExists)

		got, err := uc.User.Get(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Alice")
	})

	t.Run("slack ID is required", func(t *testing.T) {
		_, err := uc.User.Create(ctx, usecase.CreateUserInput{Name: "Nobody"})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := uc.User.Get(ctx, "U404")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}
