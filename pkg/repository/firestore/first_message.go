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

type firstMessageRepository struct {
	collection *firestore.CollectionRef
}

// firstMessageDoc is the Firestore persistence model
type firstMessageDoc struct {
	ChannelID   string    `firestore:"channel_id"`
	ChannelName string    `firestore:"channel_name"`
	MessageTS   string    `firestore:"message_ts"`
	UserID      string    `firestore:"user_id"`
	Content     string    `firestore:"message_content"`
	CreatedAt   time.Time `firestore:"created_at"`
}

func (r *firstMessageRepository) InsertIfAbsent(ctx context.Context, msg *model.FirstMessage) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid first message")
	}

	_, err := r.collection.Doc(msg.ChannelID).Create(ctx, &firstMessageDoc{
		ChannelID:   msg.ChannelID,
		ChannelName: msg.ChannelName,
		MessageTS:   msg.MessageTS,
		UserID:      msg.UserID,
		Content:     msg.Content,
		CreatedAt:   msg.CreatedAt,
	})
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to create first message", goerr.V(model.ChannelIDKey, msg.ChannelID))
	}
	return true, nil
}

func (r *firstMessageRepository) List(ctx context.Context) ([]*model.FirstMessage, error) {
	iter := r.collection.OrderBy("channel_id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	result := make([]*model.FirstMessage, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate first messages")
		}

		var m firstMessageDoc
		if err := doc.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal first message", goerr.V("docID", doc.Ref.ID))
		}
		result = append(result, &model.FirstMessage{
			ChannelID:   m.ChannelID,
			ChannelName: m.ChannelName,
			MessageTS:   m.MessageTS,
			UserID:      m.UserID,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
		})
	}
	return result, nil
}
