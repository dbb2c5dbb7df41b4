package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

func runAuthorizationRepositoryTest(t *testing.T, newRepo repositoryFactory) {
	t.Helper()

	t.Run("Put and ListByUser", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueID("U")
		now := time.Now().UTC().Truncate(time.Second)

		for _, ws := range []string{"T002", "T001"} {
			gt.NoError(t, repo.Authorization().Put(ctx, &model.Authorization{
				UserID:        userID,
				WorkspaceID:   ws,
				WorkspaceName: "ws-" + ws,
				AccessToken:   "xoxp-" + ws,
				CreatedAt:     now,
				UpdatedAt:     now,
			})).Required()
		}

		got, err := repo.Authorization().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2).Required()
		gt.Value(t, got[0].WorkspaceID).Equal("T001")
		gt.Value(t, got[0].WorkspaceName).Equal("ws-T001")
		gt.Value(t, got[0].AccessToken).Equal("xoxp-T001")
		gt.Value(t, got[1].WorkspaceID).Equal("T002")
		gt.Bool(t, got[0].CreatedAt.Equal(now)).True()
	})

	t.Run("Put replaces the token and keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueID("U")
		created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
		updated := created.Add(30 * time.Minute)

		gt.NoError(t, repo.Authorization().Put(ctx, &model.Authorization{
			UserID: userID, WorkspaceID: "T001", WorkspaceName: "old", AccessToken: "xoxp-old",
			CreatedAt: created, UpdatedAt: created,
		})).Required()
		gt.NoError(t, repo.Authorization().Put(ctx, &model.Authorization{
			UserID: userID, WorkspaceID: "T001", WorkspaceName: "new", AccessToken: "xoxp-new",
			CreatedAt: updated, UpdatedAt: updated,
		})).Required()

		got, err := repo.Authorization().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0].AccessToken).Equal("xoxp-new")
		gt.Value(t, got[0].WorkspaceName).Equal("new")
		gt.Bool(t, got[0].CreatedAt.Equal(created)).True()
		gt.Bool(t, got[0].UpdatedAt.Equal(updated)).True()
	})

	t.Run("ListAll includes every user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userA := uniqueID("U")
		userB := uniqueID("U")

		for _, u := range []string{userA, userB} {
			gt.NoError(t, repo.Authorization().Put(ctx, &model.Authorization{
				UserID: u, WorkspaceID: "T001", AccessToken: "xoxp-1", CreatedAt: time.Now(), UpdatedAt: time.Now(),
			})).Required()
		}

		all, err := repo.Authorization().ListAll(ctx)
		gt.NoError(t, err).Required()

		found := map[string]bool{}
		for _, a := range all {
			found[a.UserID] = true
		}
		gt.Bool(t, found[userA]).True()
		gt.Bool(t, found[userB]).True()
	})

	t.Run("ListByUser with unknown user is empty", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.Authorization().ListByUser(context.Background(), uniqueID("U"))
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(0)
	})

	t.Run("Put rejects a credential without token", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Authorization().Put(context.Background(), &model.Authorization{UserID: "U1", WorkspaceID: "T1"})
		gt.Error(t, err).Is(model.ErrMissingRequired)
	})
}

func TestAuthorizationRepository(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			runAuthorizationRepositoryTest(t, factory)
		})
	}
}
