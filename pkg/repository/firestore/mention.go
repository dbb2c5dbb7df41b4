package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type mentionRepository struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

// mentionDoc is the Firestore persistence model
type mentionDoc struct {
	MessageTS   string    `firestore:"message_ts"`
	WorkspaceID string    `firestore:"workspace_id"`
	UserID      string    `firestore:"user_id"`
	ChannelName string    `firestore:"channel_name"`
	Content     string    `firestore:"message_content"`
	Visible     bool      `firestore:"visible"`
	CreatedAt   time.Time `firestore:"created_at"`
}

// mentionDocID derives the document ID from the identity of a mention, so
// that Create enforces uniqueness.
func mentionDocID(workspaceID, ts string) string {
	return workspaceID + "_" + ts
}

func (r *mentionRepository) InsertIfAbsent(ctx context.Context, mention *model.Mention) (bool, error) {
	if err := mention.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid mention")
	}

	doc := &mentionDoc{
		MessageTS:   mention.MessageTS,
		WorkspaceID: mention.WorkspaceID,
		UserID:      mention.UserID,
		ChannelName: mention.ChannelName,
		Content:     mention.Content,
		Visible:     true,
		CreatedAt:   mention.CreatedAt,
	}

	_, err := r.collection.Doc(mentionDocID(mention.WorkspaceID, mention.MessageTS)).Create(ctx, doc)
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to create mention",
			goerr.V(model.MessageTSKey, mention.MessageTS),
			goerr.V(model.WorkspaceIDKey, mention.WorkspaceID))
	}
	return true, nil
}

func (r *mentionRepository) ListVisible(ctx context.Context, userID string) ([]*model.Mention, error) {
	iter := r.collection.
		Where("user_id", "==", userID).
		Where("visible", "==", true).
		OrderBy("workspace_id", firestore.Asc).
		OrderBy("channel_name", firestore.Asc).
		OrderBy("message_ts", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	result := make([]*model.Mention, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate mentions", goerr.V(model.UserIDKey, userID))
		}

		var m mentionDoc
		if err := doc.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal mention", goerr.V("docID", doc.Ref.ID))
		}
		result = append(result, &model.Mention{
			MessageTS:   m.MessageTS,
			WorkspaceID: m.WorkspaceID,
			UserID:      m.UserID,
			ChannelName: m.ChannelName,
			Content:     m.Content,
			Visible:     m.Visible,
			CreatedAt:   m.CreatedAt,
		})
	}

	return result, nil
}

func (r *mentionRepository) Hide(ctx context.Context, ts string) (int, error) {
	changes := 0
	query := r.collection.
		Where("message_ts", "==", ts).
		Where("visible", "==", true)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		changes = 0
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "visible", Value: false},
			}); err != nil {
				return err
			}
			changes++
		}
		return nil
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to hide mention", goerr.V(model.MessageTSKey, ts))
	}

	return changes, nil
}
