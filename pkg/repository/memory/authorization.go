package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type authorizationKey struct {
	userID      string
	workspaceID string
}

type authorizationRepository struct {
	mu    sync.RWMutex
	auths map[authorizationKey]*model.Authorization
}

func newAuthorizationRepository() *authorizationRepository {
	return &authorizationRepository{
		auths: make(map[authorizationKey]*model.Authorization),
	}
}

func (r *authorizationRepository) Put(ctx context.Context, auth *model.Authorization) error {
	if err := auth.Validate(); err != nil {
		return goerr.Wrap(err, "invalid authorization")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := authorizationKey{userID: auth.UserID, workspaceID: auth.WorkspaceID}
	stored := *auth
	if existing, ok := r.auths[key]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	r.auths[key] = &stored
	return nil
}

func (r *authorizationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Authorization, error) {
	return r.list(func(a *model.Authorization) bool { return a.UserID == userID }), nil
}

func (r *authorizationRepository) ListAll(ctx context.Context) ([]*model.Authorization, error) {
	return r.list(func(*model.Authorization) bool { return true }), nil
}

func (r *authorizationRepository) list(match func(*model.Authorization) bool) []*model.Authorization {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Authorization, 0)
	for _, a := range r.auths {
		if !match(a) {
			continue
		}
		authCopy := *a
		result = append(result, &authCopy)
	}

	slices.SortFunc(result, func(a, b *model.Authorization) int {
		if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return cmp.Compare(a.WorkspaceID, b.WorkspaceID)
	})
	return result
}
