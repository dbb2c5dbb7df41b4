package firestore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type authorizationRepository struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

// authorizationDoc is the Firestore persistence model
type authorizationDoc struct {
	UserID        string    `firestore:"user_id"`
	WorkspaceID   string    `firestore:"workspace_id"`
	WorkspaceName string    `firestore:"workspace_name"`
	AccessToken   string    `firestore:"access_token"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func (r *authorizationRepository) Put(ctx context.Context, auth *model.Authorization) error {
	if err := auth.Validate(); err != nil {
		return goerr.Wrap(err, "invalid authorization")
	}

	ref := r.collection.Doc(auth.UserID + "_" + auth.WorkspaceID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc := &authorizationDoc{
			UserID:        auth.UserID,
			WorkspaceID:   auth.WorkspaceID,
			WorkspaceName: auth.WorkspaceName,
			AccessToken:   auth.AccessToken,
			CreatedAt:     auth.CreatedAt,
			UpdatedAt:     auth.UpdatedAt,
		}

		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var existing authorizationDoc
			if err := snap.DataTo(&existing); err != nil {
				return err
			}
			doc.CreatedAt = existing.CreatedAt
		}

		return tx.Set(ref, doc)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put authorization",
			goerr.V(model.UserIDKey, auth.UserID),
			goerr.V(model.WorkspaceIDKey, auth.WorkspaceID))
	}
	return nil
}

func (r *authorizationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Authorization, error) {
	return r.list(ctx, r.collection.Where("user_id", "==", userID))
}

func (r *authorizationRepository) ListAll(ctx context.Context) ([]*model.Authorization, error) {
	return r.list(ctx, r.collection.Query)
}

// list sorts in memory; credential counts are small and this avoids a
// composite index per query.
func (r *authorizationRepository) list(ctx context.Context, query firestore.Query) ([]*model.Authorization, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	result := make([]*model.Authorization, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate authorizations")
		}

		var a authorizationDoc
		if err := doc.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal authorization", goerr.V("docID", doc.Ref.ID))
		}
		result = append(result, &model.Authorization{
			UserID:        a.UserID,
			WorkspaceID:   a.WorkspaceID,
			WorkspaceName: a.WorkspaceName,
			AccessToken:   a.AccessToken,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}

	slices.SortFunc(result, func(a, b *model.Authorization) int {
		if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return cmp.Compare(a.WorkspaceID, b.WorkspaceID)
	})
	return result, nil
}
